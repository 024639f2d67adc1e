// Package selector synthesizes readable, stable selectors for DOM elements.
//
// Strategies are tried from most semantic (test-id attributes) to most
// positional (nth-of-type paths). The first strategy producing a selector
// that identifies only the target element wins; later unique candidates are
// reported as alternatives.
package selector

import (
	"fmt"
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// maxRankedClasses bounds the class combinations tried per element
const maxRankedClasses = 6

// Synthesizer builds selectors. It holds only immutable configuration and is
// safe for concurrent use.
type Synthesizer struct {
	cfg    Config
	filter *classFilter
	logger *logrus.Logger
}

// New - creates a synthesizer from cfg
func New(cfg Config, logger *logrus.Logger) (*Synthesizer, error) {
	cfg.defaults()
	filter, err := compileClassFilter(cfg.ExcludedClassPatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to compile class patterns: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Synthesizer{
		cfg:    cfg,
		filter: filter,
		logger: logger,
	}, nil
}

// target bundles the per-call facts every strategy reads
type target struct {
	doc     interfaces.Document
	el      interfaces.Element
	snap    entities.ElementSnapshot
	classes []string
}

// strategy generates candidates in preference order. The first candidate
// that identifies the target is the strategy's selector.
type strategy struct {
	name       entities.SelectorStrategy
	candidates func(s *Synthesizer, t *target) []string
}

var strategies = []strategy{
	{entities.StrategyTestID, attributeStrategy("data-testid")},
	{entities.StrategyCy, attributeStrategy("data-cy")},
	{entities.StrategyTest, attributeStrategy("data-test")},
	{entities.StrategyAriaLabel, attributeStrategy("aria-label")},
	{entities.StrategyRole, (*Synthesizer).roleCandidates},
	{entities.StrategyID, (*Synthesizer).idCandidates},
	{entities.StrategyText, (*Synthesizer).textCandidates},
	{entities.StrategyClass, (*Synthesizer).classCandidates},
	{entities.StrategyCSSPath, (*Synthesizer).pathCandidates},
}

// Synthesize - returns the best selector for el plus alternatives. It never
// fails: when no strategy identifies el, the absolute nth-child path is
// returned as is, and IsUnique reports whether it actually resolves to el
// alone.
func (s *Synthesizer) Synthesize(doc interfaces.Document, el interfaces.Element) entities.SelectorResult {
	if el == nil {
		return entities.SelectorResult{
			Selector:     "html",
			Strategy:     entities.StrategyCSSPath,
			Confidence:   entities.FallbackConfidence,
			IsUnique:     IsUnique(doc, "html"),
			Alternatives: []entities.AlternativeSelector{},
		}
	}

	t := &target{
		doc:  doc,
		el:   el,
		snap: Snapshot(doc, el),
	}
	t.classes = s.stableClasses(t.snap.Classes)
	if len(t.classes) > maxRankedClasses {
		t.classes = t.classes[:maxRankedClasses]
	}

	var result *entities.SelectorResult
	alternatives := make([]entities.AlternativeSelector, 0, s.cfg.MaxAlternatives)
	seen := make(map[string]bool)

	for _, st := range strategies {
		if result != nil && len(alternatives) >= s.cfg.MaxAlternatives {
			break
		}
		sel, ok := s.firstUnique(t, st)
		if !ok || seen[sel] {
			continue
		}
		seen[sel] = true

		if result == nil {
			result = &entities.SelectorResult{
				Selector:   sel,
				Strategy:   st.name,
				Confidence: st.name.Confidence(),
				IsUnique:   true,
			}
			continue
		}
		alternatives = append(alternatives, entities.AlternativeSelector{
			Selector:   sel,
			Strategy:   st.name,
			Confidence: st.name.Confidence(),
		})
	}

	if result == nil {
		sel := absolutePath(el)
		result = &entities.SelectorResult{
			Selector:   sel,
			Strategy:   entities.StrategyCSSPath,
			Confidence: entities.FallbackConfidence,
			IsUnique:   identifies(doc, sel, el),
		}
		s.logger.WithField("selector", sel).Debug("selector: no unique strategy, using absolute path")
	}

	result.Alternatives = alternatives
	s.logger.WithFields(logrus.Fields{
		"selector":     result.Selector,
		"strategy":     result.Strategy,
		"alternatives": len(result.Alternatives),
	}).Debug("selector: synthesized")
	return *result
}

// firstUnique returns the strategy's first candidate that identifies the
// target. A candidate the document cannot evaluate is skipped.
func (s *Synthesizer) firstUnique(t *target, st strategy) (string, bool) {
	for _, sel := range st.candidates(s, t) {
		if sel == "" {
			continue
		}
		if identifies(t.doc, sel, t.el) {
			return sel, true
		}
	}
	return "", false
}

func attributeStrategy(name string) func(*Synthesizer, *target) []string {
	return func(_ *Synthesizer, t *target) []string {
		v, ok := t.el.Attr(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		return []string{attrSelector(name, v)}
	}
}

// nameAttributes carry an accessible name that CSS can select on
var nameAttributes = []string{"aria-label", "aria-labelledby", "title", "placeholder", "name"}

// roleCandidates applies to elements with an explicit role or an accessible
// name; bare implicit roles are left to the text and class strategies.
func (s *Synthesizer) roleCandidates(t *target) []string {
	base := roleBase(t.el)
	if base == "" {
		return nil
	}
	if _, explicit := t.el.Attr("role"); !explicit && t.snap.AccessibleName() == "" {
		return nil
	}

	var out []string
	for _, attr := range nameAttributes {
		if v, ok := t.el.Attr(attr); ok && strings.TrimSpace(v) != "" {
			out = append(out, base+attrSelector(attr, v))
		}
	}
	if text := s.usableText(t.snap); text != "" {
		out = append(out, HasText(base, text))
	}
	for _, c := range t.classes {
		out = append(out, base+"."+escapeIdent(c))
	}
	return append(out, base)
}

func (s *Synthesizer) idCandidates(t *target) []string {
	id := strings.TrimSpace(t.snap.ID)
	if id == "" || id != t.snap.ID || isDynamicID(id) {
		return nil
	}
	return []string{"#" + escapeIdent(id)}
}

// textTags are the elements whose visible text names them
var textTags = map[string]bool{
	"a": true, "button": true, "label": true, "summary": true, "option": true,
	"legend": true, "li": true, "td": true, "th": true, "dt": true, "dd": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var textRoles = map[string]bool{
	"button": true, "link": true, "tab": true, "menuitem": true, "option": true,
	"heading": true, "checkbox": true, "radio": true, "switch": true,
}

func (s *Synthesizer) textCandidates(t *target) []string {
	role, _ := t.el.Attr("role")
	if !textTags[t.snap.TagName] && !textRoles[strings.TrimSpace(role)] {
		return nil
	}
	text := s.usableText(t.snap)
	if text == "" {
		return nil
	}

	out := []string{HasText(t.snap.TagName, text)}
	for _, c := range t.classes {
		out = append(out, HasText(t.snap.TagName+"."+escapeIdent(c), text))
	}
	return out
}

// usableText returns the element text when it is short enough to select on
func (s *Synthesizer) usableText(snap entities.ElementSnapshot) string {
	text := candidateText(snap)
	if text == "" || len([]rune(text)) > s.cfg.MaxTextLength {
		return ""
	}
	return text
}

func (s *Synthesizer) classCandidates(t *target) []string {
	if len(t.classes) == 0 {
		return nil
	}
	return classCombinations(t.snap.TagName, t.classes, s.cfg.MaxClassCombination)
}

// pathCandidates walks up from the element, producing ever longer
// nth-of-type paths. An ancestor with a stable id anchors and ends the path.
func (s *Synthesizer) pathCandidates(t *target) []string {
	var out []string
	var segments []string
	cur := t.el
	for depth := 0; cur != nil && depth < s.cfg.MaxPathDepth; depth++ {
		if depth > 0 {
			if id, ok := cur.Attr("id"); ok && id != "" && strings.TrimSpace(id) == id && !isDynamicID(id) {
				segments = append([]string{"#" + escapeIdent(id)}, segments...)
				out = append(out, strings.Join(segments, " > "))
				break
			}
		}
		segments = append([]string{nthOfType(cur)}, segments...)
		out = append(out, strings.Join(segments, " > "))
		if cur.TagName() == "html" {
			break
		}
		cur = cur.Parent()
	}
	return out
}

// nthOfType annotates the tag with its index among same-tag siblings when
// it has any
func nthOfType(el interfaces.Element) string {
	tag := el.TagName()
	parent := el.Parent()
	if parent == nil {
		return tag
	}
	idx, total := 0, 0
	for _, sib := range parent.Children() {
		if sib.TagName() != tag {
			continue
		}
		total++
		if sib.Same(el) {
			idx = total
		}
	}
	if total <= 1 {
		return tag
	}
	return fmt.Sprintf("%s:nth-of-type(%d)", tag, idx)
}

// absolutePath is the nth-child path from the root element down to el
func absolutePath(el interfaces.Element) string {
	var segments []string
	for cur := el; cur != nil; cur = cur.Parent() {
		parent := cur.Parent()
		if parent == nil {
			segments = append([]string{cur.TagName()}, segments...)
			break
		}
		idx := 1
		for i, sib := range parent.Children() {
			if sib.Same(cur) {
				idx = i + 1
				break
			}
		}
		segments = append([]string{fmt.Sprintf("%s:nth-child(%d)", cur.TagName(), idx)}, segments...)
	}
	return strings.Join(segments, " > ")
}
