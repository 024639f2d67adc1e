package selector

import (
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
)

// Snapshot collects the read-only facts about el at call time
func Snapshot(doc interfaces.Document, el interfaces.Element) entities.ElementSnapshot {
	snap := entities.ElementSnapshot{
		TagName:    el.TagName(),
		Classes:    el.Classes(),
		Attributes: el.Attributes(),
		Role:       ExplicitOrImplicitRole(el),
		DirectText: el.DirectText(),
		Text:       el.TextContent(),
	}
	snap.ID, _ = el.Attr("id")
	snap.AriaLabel, _ = el.Attr("aria-label")
	snap.AriaLabel = entities.NormalizeText(snap.AriaLabel)
	snap.AriaLabelledBy = labelledByText(doc, el)
	snap.LabelText = associatedLabel(doc, el)
	return snap
}

// labelledByText resolves aria-labelledby id references to their text
func labelledByText(doc interfaces.Document, el interfaces.Element) string {
	ref, ok := el.Attr("aria-labelledby")
	if !ok {
		return ""
	}
	var parts []string
	for _, id := range strings.Fields(ref) {
		els, err := doc.QueryAll(attrSelector("id", id))
		if err != nil || len(els) == 0 {
			continue
		}
		if t := els[0].TextContent(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// associatedLabel returns the text of label[for=id] or of a wrapping label
func associatedLabel(doc interfaces.Document, el interfaces.Element) string {
	if id, ok := el.Attr("id"); ok && id != "" {
		if els, err := doc.QueryAll("label" + attrSelector("for", id)); err == nil && len(els) > 0 {
			return els[0].TextContent()
		}
	}
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.TagName() == "label" {
			return p.TextContent()
		}
	}
	return ""
}

// candidateText returns the text a text selector would target: the direct
// text when it appears verbatim in the text content Resolve matches against,
// otherwise the whole text content. Mixed content such as
// "Save <b>all</b> now" has direct text "Save now", which never matches.
func candidateText(snap entities.ElementSnapshot) string {
	if snap.DirectText != "" && strings.Contains(strings.ToLower(snap.Text), strings.ToLower(snap.DirectText)) {
		return snap.DirectText
	}
	return snap.Text
}
