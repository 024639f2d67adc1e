package interfaces

import "action_recorder/domain/entities"

// Storage persists recorded sessions
type Storage interface {
	// SaveSession writes a session, replacing any previous copy
	SaveSession(session *entities.Session) error

	// LoadSession reads a session by ID
	LoadSession(id string) (*entities.Session, error)

	// ListSessions returns summaries of stored sessions, newest first
	ListSessions() ([]entities.SessionSummary, error)
}
