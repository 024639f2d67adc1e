// Package recorder turns interactions with a page into a recorded session of
// replayable actions with synthesized selectors.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"action_recorder/application/classifier"
	"action_recorder/application/selector"
	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
	"action_recorder/infrastructure/dom"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoSession       = errors.New("no active session")
	ErrNoBrowser       = errors.New("no browser attached")
	ErrElementNotFound = errors.New("element not found")
	ErrSessionStopped  = errors.New("session is stopped")
)

type Recorder struct {
	browser    interfaces.BrowserController
	synth      *selector.Synthesizer
	classifier *classifier.Classifier
	security   interfaces.SecurityLayer
	storage    interfaces.Storage
	logger     *logrus.Logger

	mu      sync.Mutex
	session *entities.Session
	doc     *dom.Document
	loaded  bool // doc came from Load; the browser is not consulted
	now     func() time.Time
}

// NewRecorder - creates a recorder. browser and storage may be nil.
func NewRecorder(
	browser interfaces.BrowserController,
	synth *selector.Synthesizer,
	cls *classifier.Classifier,
	security interfaces.SecurityLayer,
	storage interfaces.Storage,
	logger *logrus.Logger,
) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{
		browser:    browser,
		synth:      synth,
		classifier: cls,
		security:   security,
		storage:    storage,
		logger:     logger,
		now:        time.Now,
	}
}

// Start - navigates the browser to url and begins a new session there
func (r *Recorder) Start(ctx context.Context, url string) (*entities.Session, error) {
	if r.browser == nil {
		return nil, ErrNoBrowser
	}
	if err := r.browser.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	r.mu.Lock()
	r.loaded = false
	r.mu.Unlock()

	doc, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	title, err := r.browser.GetPageTitle(ctx)
	if err != nil {
		title = doc.Title()
	}
	current, err := r.browser.GetCurrentURL(ctx)
	if err != nil || current == "" {
		current = url
	}

	return r.begin(doc, current, title), nil
}

// Load - begins a new session from raw HTML. An attached browser is left
// alone until the next Start.
func (r *Recorder) Load(source, url string) (*entities.Session, error) {
	doc, err := dom.ParseString(source)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.doc = doc
	r.loaded = true
	r.mu.Unlock()

	return r.begin(doc, url, doc.Title()), nil
}

func (r *Recorder) begin(doc *dom.Document, url, title string) *entities.Session {
	classification := r.classifier.Classify(doc)
	started := r.now()

	session := &entities.Session{
		ID:             uuid.NewString(),
		StartURL:       url,
		Title:          title,
		Status:         entities.SessionRecording,
		StartedAt:      started,
		Classification: &classification,
		Actions: []entities.Action{{
			ID:          uuid.NewString(),
			Type:        entities.ActionNavigate,
			URL:         url,
			Description: fmt.Sprintf("Open %s", url),
			Timestamp:   started,
		}},
	}

	r.mu.Lock()
	r.session = session
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"session":    session.ID,
		"url":        url,
		"page_type":  classification.PageType,
		"confidence": classification.Confidence,
	}).Info("recorder: session started")

	return copySession(session)
}

// Snapshot - re-reads the page source from the browser. Without a live
// browser the last loaded document is returned.
func (r *Recorder) Snapshot(ctx context.Context) (*dom.Document, error) {
	browser := r.live()
	if browser == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.doc == nil {
			return nil, ErrNoSession
		}
		return r.doc, nil
	}

	source, err := browser.PageSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get page source: %w", err)
	}
	doc, err := dom.ParseString(source)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.doc = doc
	r.mu.Unlock()
	return doc, nil
}

// Classify - classifies the current page and stores the result on the session
func (r *Recorder) Classify(ctx context.Context) (entities.ClassificationResult, error) {
	doc, err := r.Snapshot(ctx)
	if err != nil {
		return entities.ClassificationResult{}, err
	}
	result := r.classifier.Classify(doc)

	r.mu.Lock()
	if r.session != nil {
		r.session.Classification = &result
	}
	r.mu.Unlock()

	return result, nil
}

// Preview - synthesizes a selector for the element matched by css without
// recording anything
func (r *Recorder) Preview(ctx context.Context, css string) (entities.SelectorResult, error) {
	doc, err := r.Snapshot(ctx)
	if err != nil {
		return entities.SelectorResult{}, err
	}
	el, err := locate(doc, css)
	if err != nil {
		return entities.SelectorResult{}, err
	}
	return r.synth.Synthesize(doc, el), nil
}

// Record - resolves css on a fresh snapshot, synthesizes its selector,
// performs the action in the browser when one is attached and appends it to
// the session. For navigate, css is ignored and value is the URL.
func (r *Recorder) Record(ctx context.Context, actionType entities.ActionType, css, value string) (*entities.Action, error) {
	if !actionType.Valid() {
		return nil, fmt.Errorf("unknown action type: %s", actionType)
	}
	if err := r.checkRecording(); err != nil {
		return nil, err
	}

	if actionType == entities.ActionNavigate {
		return r.recordNavigate(ctx, value)
	}

	doc, err := r.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	el, err := locate(doc, css)
	if err != nil {
		return nil, err
	}

	result := r.synth.Synthesize(doc, el)
	snap := selector.Snapshot(doc, el)

	action := &entities.Action{
		ID:          uuid.NewString(),
		Type:        actionType,
		Target:      &result,
		Value:       value,
		Description: describe(actionType, snap, result),
		Timestamp:   r.now(),
	}
	if url, err := r.currentURL(ctx); err == nil {
		action.URL = url
	}

	if browser := r.live(); browser != nil {
		if err := perform(ctx, browser, actionType, css, value); err != nil {
			return nil, err
		}
		if bounds, err := browser.ElementBounds(ctx, result.Selector); err == nil {
			action.Bounds = &bounds
		} else {
			r.logger.Debugf("recorder: no bounds for %s: %v", result.Selector, err)
		}
	}

	if r.security != nil {
		if masked, redacted := r.security.RedactValue(ctx, snap, value); redacted {
			action.Value = masked
			action.Redacted = true
		}
		action.RequiresReview = r.security.RequiresReview(ctx, action, snap)
		action.Risk = r.security.GetActionRiskLevel(ctx, action, snap)
	}

	if err := r.appendAction(*action); err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"type":       action.Type,
		"selector":   result.Selector,
		"strategy":   result.Strategy,
		"confidence": result.Confidence,
		"unique":     result.IsUnique,
		"risk":       action.Risk,
	}).Info("recorder: action recorded")
	if action.RequiresReview {
		r.logger.Warnf("recorder: action %q flagged for review", action.Description)
	}

	return action, nil
}

func (r *Recorder) recordNavigate(ctx context.Context, url string) (*entities.Action, error) {
	if url == "" {
		return nil, errors.New("url is required for navigate")
	}
	if browser := r.live(); browser != nil {
		if err := browser.Navigate(ctx, url); err != nil {
			return nil, fmt.Errorf("failed to navigate: %w", err)
		}
		if _, err := r.Classify(ctx); err != nil {
			r.logger.Warnf("recorder: failed to classify %s: %v", url, err)
		}
	}

	action := &entities.Action{
		ID:          uuid.NewString(),
		Type:        entities.ActionNavigate,
		URL:         url,
		Description: fmt.Sprintf("Open %s", url),
		Timestamp:   r.now(),
	}
	if err := r.appendAction(*action); err != nil {
		return nil, err
	}
	return action, nil
}

// perform - replays the action in the live browser
func perform(ctx context.Context, browser interfaces.BrowserController, actionType entities.ActionType, css, value string) error {
	switch actionType {
	case entities.ActionClick, entities.ActionCheck, entities.ActionSubmit:
		if err := browser.Click(ctx, css); err != nil {
			return fmt.Errorf("failed to click %s: %w", css, err)
		}
	case entities.ActionTypeText, entities.ActionSelect:
		if err := browser.TypeText(ctx, css, value); err != nil {
			return fmt.Errorf("failed to type into %s: %w", css, err)
		}
	}
	return nil
}

// live - the attached browser, or nil while working on a loaded document
func (r *Recorder) live() interfaces.BrowserController {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return nil
	}
	return r.browser
}

func (r *Recorder) currentURL(ctx context.Context) (string, error) {
	if browser := r.live(); browser != nil {
		return browser.GetCurrentURL(ctx)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return "", ErrNoSession
	}
	return r.session.StartURL, nil
}

func (r *Recorder) checkRecording() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return ErrNoSession
	}
	if r.session.Status == entities.SessionStopped {
		return ErrSessionStopped
	}
	return nil
}

// appendAction - appends under the lock; concurrent records land in call
// order. A Stop that raced the browser action wins.
func (r *Recorder) appendAction(action entities.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return ErrNoSession
	}
	if r.session.Status == entities.SessionStopped {
		return ErrSessionStopped
	}
	r.session.Actions = append(r.session.Actions, action)
	return nil
}

// Session - returns a copy of the current session
func (r *Recorder) Session() (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil, ErrNoSession
	}
	return copySession(r.session), nil
}

// Stop - stops recording; the session stays readable and saveable
func (r *Recorder) Stop() (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return nil, ErrNoSession
	}
	if r.session.Status != entities.SessionStopped {
		stopped := r.now()
		r.session.Status = entities.SessionStopped
		r.session.StoppedAt = &stopped
	}
	return copySession(r.session), nil
}

// Save - persists the current session
func (r *Recorder) Save() error {
	if r.storage == nil {
		return errors.New("no storage configured")
	}
	session, err := r.Session()
	if err != nil {
		return err
	}
	if err := r.storage.SaveSession(session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	r.logger.Infof("recorder: saved session %s with %d actions", session.ID, len(session.Actions))
	return nil
}

// locate - returns the first element matched by css
func locate(doc interfaces.Document, css string) (interfaces.Element, error) {
	if css == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrElementNotFound)
	}
	els, err := selector.Resolve(doc, css)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, css)
	}
	return els[0], nil
}

func describe(actionType entities.ActionType, snap entities.ElementSnapshot, result entities.SelectorResult) string {
	name := snap.AccessibleName()
	if name == "" {
		name = snap.DirectText
	}
	if name == "" {
		name = result.Selector
	}
	if len([]rune(name)) > 60 {
		name = string([]rune(name)[:57]) + "..."
	}

	switch actionType {
	case entities.ActionClick:
		return fmt.Sprintf("Click %s %q", snap.TagName, name)
	case entities.ActionTypeText:
		return fmt.Sprintf("Type into %s %q", snap.TagName, name)
	case entities.ActionSelect:
		return fmt.Sprintf("Select option in %q", name)
	case entities.ActionCheck:
		return fmt.Sprintf("Toggle %q", name)
	case entities.ActionSubmit:
		return fmt.Sprintf("Submit %q", name)
	}
	return string(actionType)
}

func copySession(s *entities.Session) *entities.Session {
	c := *s
	c.Actions = append([]entities.Action(nil), s.Actions...)
	if s.StoppedAt != nil {
		t := *s.StoppedAt
		c.StoppedAt = &t
	}
	if s.Classification != nil {
		cl := *s.Classification
		c.Classification = &cl
	}
	return &c
}
