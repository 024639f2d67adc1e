package entities

import "time"

// ActionType represents the type of recorded interaction
type ActionType string

const (
	ActionNavigate ActionType = "navigate"
	ActionClick    ActionType = "click"
	ActionTypeText ActionType = "type"
	ActionSelect   ActionType = "select"
	ActionCheck    ActionType = "check"
	ActionSubmit   ActionType = "submit"
)

// Valid reports whether t is a known action type
func (t ActionType) Valid() bool {
	switch t {
	case ActionNavigate, ActionClick, ActionTypeText, ActionSelect, ActionCheck, ActionSubmit:
		return true
	}
	return false
}

// Action represents a single recorded interaction
type Action struct {
	ID             string          `json:"id"`
	Type           ActionType      `json:"type"`
	Target         *SelectorResult `json:"target,omitempty"`
	Value          string          `json:"value,omitempty"`
	URL            string          `json:"url,omitempty"`
	Description    string          `json:"description"`
	Bounds         *Rect           `json:"bounds,omitempty"`
	Redacted       bool            `json:"redacted,omitempty"`
	RequiresReview bool            `json:"requires_review,omitempty"`
	Risk           string          `json:"risk,omitempty"`
	Timestamp      time.Time       `json:"timestamp"`
}
