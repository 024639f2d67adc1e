package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"action_recorder/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (string, *sessionStore) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dir := t.TempDir()
	store, err := NewSessionStore(dir, logger)
	require.NoError(t, err)
	return dir, store.(*sessionStore)
}

func TestSessionStore_SaveLoad(t *testing.T) {
	_, store := newStore(t)

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	session := &entities.Session{
		ID:        "abc",
		StartURL:  "https://example.test/login",
		Status:    entities.SessionRecording,
		StartedAt: started,
		Classification: &entities.ClassificationResult{
			PageType:   entities.PageLoginForm,
			Confidence: 100,
		},
		Actions: []entities.Action{
			{ID: "1", Type: entities.ActionClick, Target: &entities.SelectorResult{Selector: `[data-testid="go"]`, Strategy: entities.StrategyTestID, Confidence: 100, IsUnique: true}},
		},
	}
	require.NoError(t, store.SaveSession(session))

	loaded, err := store.LoadSession("abc")
	require.NoError(t, err)
	assert.Equal(t, session.StartURL, loaded.StartURL)
	assert.True(t, started.Equal(loaded.StartedAt))
	require.Len(t, loaded.Actions, 1)
	assert.Equal(t, `[data-testid="go"]`, loaded.Actions[0].Target.Selector)
	assert.Equal(t, entities.PageLoginForm, loaded.Classification.PageType)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	_, store := newStore(t)

	_, err := store.LoadSession("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_RejectsPathIDs(t *testing.T) {
	_, store := newStore(t)

	assert.Error(t, store.SaveSession(&entities.Session{ID: "../escape"}))
	assert.Error(t, store.SaveSession(&entities.Session{ID: ""}))
	_, err := store.LoadSession("a/b")
	assert.Error(t, err)
}

func TestSessionStore_ListSessions(t *testing.T) {
	dir, store := newStore(t)

	older := &entities.Session{ID: "old", StartURL: "https://a.test", Status: entities.SessionStopped,
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := &entities.Session{ID: "new", StartURL: "https://b.test", Status: entities.SessionRecording,
		StartedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		Classification: &entities.ClassificationResult{PageType: entities.PageSearch},
		Actions:        []entities.Action{{ID: "1"}, {ID: "2"}}}
	require.NoError(t, store.SaveSession(older))
	require.NoError(t, store.SaveSession(newer))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	summaries, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "new", summaries[0].ID)
	assert.Equal(t, entities.PageSearch, summaries[0].PageType)
	assert.Equal(t, 2, summaries[0].ActionCount)
	assert.Equal(t, entities.SessionRecording, summaries[0].Status)

	assert.Equal(t, "old", summaries[1].ID)
	assert.Equal(t, 0, summaries[1].ActionCount)
	assert.Empty(t, summaries[1].PageType)
}
