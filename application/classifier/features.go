package classifier

import (
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
)

// ExtractFeatures - computes the page feature vector. Every probe runs its own
// query; a probe that cannot be evaluated reports false or zero.
func (c *Classifier) ExtractFeatures(doc interfaces.Document) entities.PageFeatures {
	return entities.PageFeatures{
		HasPasswordField:    hasPasswordField(doc),
		HasEmailField:       hasEmailField(doc),
		HasUsernameField:    hasUsernameField(doc),
		HasConfirmPassword:  hasConfirmPassword(doc),
		HasSearchInput:      hasSearchInput(doc),
		HasResultsContainer: hasResultsContainer(doc),
		HasTable:            hasDataTable(doc),
		HasList:             c.hasRepeatedList(doc),
		HasTextarea:         len(query(doc, "textarea")) > 0,
		HasSingleH1:         len(query(doc, "h1")) == 1,
		HasMainContent:      len(query(doc, mainContentSelector)) > 0,
		HasImages:           len(query(doc, "img")) > 0,
		FormFieldCount:      formFieldCount(doc),
	}
}

// query runs a selector and degrades to no matches on error
func query(doc interfaces.Document, selector string) []interfaces.Element {
	if doc == nil {
		return nil
	}
	els, err := doc.QueryAll(selector)
	if err != nil {
		return nil
	}
	return els
}

func attrLower(el interfaces.Element, name string) string {
	v, _ := el.Attr(name)
	return strings.ToLower(strings.TrimSpace(v))
}

func inputType(el interfaces.Element) string {
	t := attrLower(el, "type")
	if t == "" {
		return "text"
	}
	return t
}

// identifierContains checks name, id, autocomplete and placeholder
func identifierContains(el interfaces.Element, needles ...string) bool {
	for _, attr := range []string{"name", "id", "autocomplete", "placeholder", "aria-label"} {
		v := attrLower(el, attr)
		if v == "" {
			continue
		}
		for _, n := range needles {
			if strings.Contains(v, n) {
				return true
			}
		}
	}
	return false
}

func hasPasswordField(doc interfaces.Document) bool {
	for _, el := range query(doc, "input") {
		if inputType(el) == "password" {
			return true
		}
	}
	return false
}

func hasEmailField(doc interfaces.Document) bool {
	for _, el := range query(doc, "input") {
		if inputType(el) == "email" {
			return true
		}
		if textLikeInput(el) && identifierContains(el, "email", "e-mail") {
			return true
		}
	}
	return false
}

func hasUsernameField(doc interfaces.Document) bool {
	for _, el := range query(doc, "input") {
		if textLikeInput(el) && identifierContains(el, "user", "login") {
			return true
		}
	}
	return false
}

// hasConfirmPassword - a second password field, or a password/text field
// named like a confirmation. Checkboxes such as confirm_terms don't count.
func hasConfirmPassword(doc interfaces.Document) bool {
	passwords := 0
	for _, el := range query(doc, "input") {
		isPassword := inputType(el) == "password"
		if isPassword {
			passwords++
		}
		if !isPassword && !textLikeInput(el) {
			continue
		}
		if identifierContains(el, "confirm", "repeat", "retype", "password2", "password_confirmation") {
			return true
		}
	}
	return passwords > 1
}

var searchInputNames = map[string]bool{
	"q": true, "s": true, "query": true, "search": true, "keyword": true, "keywords": true, "term": true,
}

func hasSearchInput(doc interfaces.Document) bool {
	if len(query(doc, `[role="search"] input`)) > 0 {
		return true
	}
	for _, el := range query(doc, "input") {
		if inputType(el) == "search" {
			return true
		}
		if !textLikeInput(el) {
			continue
		}
		if searchInputNames[attrLower(el, "name")] || strings.Contains(attrLower(el, "placeholder"), "search") {
			return true
		}
	}
	return false
}

func hasResultsContainer(doc interfaces.Document) bool {
	if len(query(doc, `[role="feed"], [data-testid*="result"]`)) > 0 {
		return true
	}
	for _, el := range query(doc, "[id], [class]") {
		if strings.Contains(attrLower(el, "id"), "result") {
			return true
		}
		for _, c := range el.Classes() {
			if strings.Contains(strings.ToLower(c), "result") {
				return true
			}
		}
	}
	return false
}

// hasDataTable requires header cells, more than one row, and a role that
// does not mark the table as layout
func hasDataTable(doc interfaces.Document) bool {
	for _, table := range query(doc, "table") {
		switch attrLower(table, "role") {
		case "presentation", "none":
			continue
		}
		rows, headers := 0, 0
		walk(table, func(el interfaces.Element) bool {
			switch el.TagName() {
			case "table":
				// nested tables are evaluated on their own
				return true
			case "tr":
				rows++
			case "th":
				headers++
			}
			return false
		})
		if headers > 0 && rows > 1 {
			return true
		}
	}
	return false
}

// walk visits the descendants of root; visit returns true to skip a subtree
func walk(root interfaces.Element, visit func(interfaces.Element) bool) {
	for _, child := range root.Children() {
		if visit(child) {
			continue
		}
		walk(child, visit)
	}
}

// listContainerSelector picks the containers sampled for list detection
const listContainerSelector = `ul, ol, [role="list"], [role="feed"], [class*="list"], [class*="grid"], [class*="items"], [class*="cards"]`

// hasRepeatedList reports a container where more than ListRepetitionRatio of
// the children share one tag name. Navigation chrome is ignored.
func (c *Classifier) hasRepeatedList(doc interfaces.Document) bool {
	for _, container := range query(doc, listContainerSelector) {
		if insideChrome(container) {
			continue
		}
		children := container.Children()
		if len(children) < c.cfg.MinListChildren {
			continue
		}
		if repetitionRatio(children) > c.cfg.ListRepetitionRatio {
			return true
		}
	}
	return false
}

func repetitionRatio(children []interfaces.Element) float64 {
	if len(children) == 0 {
		return 0
	}
	counts := make(map[string]int)
	best := 0
	for _, ch := range children {
		counts[ch.TagName()]++
		if counts[ch.TagName()] > best {
			best = counts[ch.TagName()]
		}
	}
	return float64(best) / float64(len(children))
}

func insideChrome(el interfaces.Element) bool {
	for p := el; p != nil; p = p.Parent() {
		switch p.TagName() {
		case "nav", "header", "footer":
			return true
		}
		switch attrLower(p, "role") {
		case "navigation", "menu", "menubar", "banner", "contentinfo":
			return true
		}
	}
	return false
}

const mainContentSelector = `main, [role="main"], article, #content, #main, #main-content, .content, .main-content`

// nonFieldInputTypes are inputs a user does not fill in
var nonFieldInputTypes = map[string]bool{
	"hidden": true, "submit": true, "button": true, "reset": true, "image": true,
}

func formFieldCount(doc interfaces.Document) int {
	count := 0
	for _, el := range query(doc, "input, select, textarea") {
		if el.TagName() == "input" && nonFieldInputTypes[inputType(el)] {
			continue
		}
		count++
	}
	return count
}

func textLikeInput(el interfaces.Element) bool {
	switch inputType(el) {
	case "text", "email", "search", "tel", "url":
		return true
	}
	return false
}
