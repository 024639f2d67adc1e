package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ErrSessionNotFound is returned by LoadSession for an unknown ID
var ErrSessionNotFound = errors.New("session not found")

const sessionExt = ".json"

type sessionStore struct {
	dir    string
	logger *logrus.Logger
}

// DefaultSessionDir - returns ~/.action_recorder/sessions
func DefaultSessionDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".action_recorder", "sessions")
}

// NewSessionStore - creates a session store rooted at dir
func NewSessionStore(dir string, logger *logrus.Logger) (interfaces.Storage, error) {
	if dir == "" {
		dir = DefaultSessionDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &sessionStore{dir: dir, logger: logger}, nil
}

func (s *sessionStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.dir, id+sessionExt), nil
}

// SaveSession - writes the session to <dir>/<id>.json
func (s *sessionStore) SaveSession(session *entities.Session) error {
	if session == nil {
		return errors.New("session is nil")
	}
	path, err := s.path(session.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// write then rename so a crash never leaves a truncated file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}

	s.logger.Debugf("storage: saved session %s (%d actions)", session.ID, len(session.Actions))
	return nil
}

// LoadSession - reads a session by ID
func (s *sessionStore) LoadSession(id string) (*entities.Session, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

// ListSessions - summarizes stored sessions without decoding them fully.
// Unreadable files are skipped with a warning.
func (s *sessionStore) ListSessions() ([]entities.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]entities.SessionSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != sessionExt {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warnf("storage: skipping %s: %v", entry.Name(), err)
			continue
		}
		if !gjson.ValidBytes(data) {
			s.logger.Warnf("storage: skipping %s: invalid JSON", entry.Name())
			continue
		}

		fields := gjson.GetManyBytes(data, "id", "start_url", "status", "classification.page_type", "actions.#", "started_at")
		summaries = append(summaries, entities.SessionSummary{
			ID:          fields[0].String(),
			StartURL:    fields[1].String(),
			Status:      entities.SessionStatus(fields[2].String()),
			PageType:    entities.PageType(fields[3].String()),
			ActionCount: int(fields[4].Int()),
			StartedAt:   fields[5].Time(),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].StartedAt.After(summaries[j].StartedAt)
	})
	return summaries, nil
}
