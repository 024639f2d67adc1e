package entities

import "strings"

// Rect represents element bounding geometry in CSS pixels
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementSnapshot holds the read-only facts about an element at call time.
// It is rebuilt on every synthesis call since the DOM may have changed.
type ElementSnapshot struct {
	TagName    string            `json:"tag_name"`
	ID         string            `json:"id,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Bounds     Rect              `json:"bounds"`

	// Accessible name sources
	AriaLabel      string `json:"aria_label,omitempty"`
	AriaLabelledBy string `json:"aria_labelledby,omitempty"` // resolved text of the referenced elements
	LabelText      string `json:"label_text,omitempty"`      // associated <label>

	Role       string `json:"role,omitempty"` // explicit or implicit
	DirectText string `json:"direct_text,omitempty"`
	Text       string `json:"text,omitempty"` // normalized text content
}

// Attr returns an attribute value and whether it is set
func (e ElementSnapshot) Attr(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// AccessibleName returns the first non-empty accessible name source
func (e ElementSnapshot) AccessibleName() string {
	for _, v := range []string{e.AriaLabel, e.AriaLabelledBy, e.LabelText, e.Attributes["title"], e.Attributes["placeholder"]} {
		if v != "" {
			return v
		}
	}
	return ""
}

// NormalizeText collapses whitespace runs and trims
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
