package entities

import "time"

// Session represents one recording session
type Session struct {
	ID             string                `json:"id"`
	StartURL       string                `json:"start_url"`
	Title          string                `json:"title,omitempty"`
	Status         SessionStatus         `json:"status"`
	StartedAt      time.Time             `json:"started_at"`
	StoppedAt      *time.Time            `json:"stopped_at,omitempty"`
	Classification *ClassificationResult `json:"classification,omitempty"`
	Actions        []Action              `json:"actions"`
}

// SessionStatus represents the status of a session
type SessionStatus string

const (
	SessionRecording SessionStatus = "recording"
	SessionStopped   SessionStatus = "stopped"
)

// SessionSummary is the listing view of a stored session
type SessionSummary struct {
	ID          string        `json:"id"`
	StartURL    string        `json:"start_url"`
	Status      SessionStatus `json:"status"`
	PageType    PageType      `json:"page_type,omitempty"`
	ActionCount int           `json:"action_count"`
	StartedAt   time.Time     `json:"started_at"`
}
