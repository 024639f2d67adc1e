// Package classifier maps a document to one page archetype from structural
// signals and suggests assertions for it.
package classifier

import (
	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	baselineConfidence = 50
	genericConfidence  = 30
	maxConfidence      = 100
)

// Config holds the tunable heuristic thresholds
type Config struct {
	// ListRepetitionRatio is the share of children that must share a tag.
	ListRepetitionRatio float64
	// MinListChildren is the smallest container sampled for list detection.
	MinListChildren int
	// LoginMaxFields separates login (<=) from registration (>) forms.
	LoginMaxFields int
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		ListRepetitionRatio: 0.5,
		MinListChildren:     3,
		LoginMaxFields:      4,
	}
}

func (c *Config) defaults() {
	d := DefaultConfig()
	if c.ListRepetitionRatio <= 0 || c.ListRepetitionRatio >= 1 {
		c.ListRepetitionRatio = d.ListRepetitionRatio
	}
	if c.MinListChildren <= 0 {
		c.MinListChildren = d.MinListChildren
	}
	if c.LoginMaxFields <= 0 {
		c.LoginMaxFields = d.LoginMaxFields
	}
}

// Classifier is stateless apart from its configuration
type Classifier struct {
	cfg    Config
	logger *logrus.Logger
}

// New - creates a classifier
func New(cfg Config, logger *logrus.Logger) *Classifier {
	cfg.defaults()
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Classifier{cfg: cfg, logger: logger}
}

// Classify - extracts features from doc and classifies them
func (c *Classifier) Classify(doc interfaces.Document) entities.ClassificationResult {
	return c.ClassifyFeatures(c.ExtractFeatures(doc))
}

// ClassifyFeatures - evaluates the rule list top to bottom; the first match
// wins. Confidence is diagnostic only and never changes the decision.
func (c *Classifier) ClassifyFeatures(f entities.PageFeatures) entities.ClassificationResult {
	pageType := entities.PageGeneric
	confidence := genericConfidence

	for _, r := range rules {
		if !r.match(f, c.cfg) {
			continue
		}
		pageType = r.pageType
		confidence = baselineConfidence + r.score(f, c.cfg)
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		break
	}

	c.logger.WithFields(logrus.Fields{
		"page_type":  pageType,
		"confidence": confidence,
	}).Debug("classifier: page classified")

	return entities.ClassificationResult{
		PageType:            pageType,
		Confidence:          confidence,
		Features:            f,
		SuggestedAssertions: SuggestAssertions(pageType),
	}
}

// rule is one entry of the decision list
type rule struct {
	pageType entities.PageType
	match    func(f entities.PageFeatures, cfg Config) bool
	score    func(f entities.PageFeatures, cfg Config) int
}

func bonus(cond bool, points int) int {
	if cond {
		return points
	}
	return 0
}

// rules is evaluated in order; the first match wins
var rules = []rule{
	{
		pageType: entities.PageLoginForm,
		match: func(f entities.PageFeatures, cfg Config) bool {
			return f.HasPasswordField && !f.HasConfirmPassword && f.FormFieldCount <= cfg.LoginMaxFields
		},
		score: func(f entities.PageFeatures, cfg Config) int {
			return bonus(f.HasPasswordField, 25) +
				bonus(f.HasEmailField || f.HasUsernameField, 15) +
				bonus(f.FormFieldCount <= cfg.LoginMaxFields, 10)
		},
	},
	{
		pageType: entities.PageRegistrationForm,
		match: func(f entities.PageFeatures, cfg Config) bool {
			return f.HasPasswordField && f.HasConfirmPassword && f.FormFieldCount > cfg.LoginMaxFields
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasPasswordField, 20) +
				bonus(f.HasConfirmPassword, 20) +
				bonus(f.HasEmailField, 10)
		},
	},
	{
		pageType: entities.PageContactForm,
		match: func(f entities.PageFeatures, _ Config) bool {
			return f.HasEmailField && f.HasTextarea && !f.HasPasswordField
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasEmailField, 20) +
				bonus(f.HasTextarea, 20) +
				bonus(f.FormFieldCount >= 2 && f.FormFieldCount <= 8, 10)
		},
	},
	{
		pageType: entities.PageSearch,
		match: func(f entities.PageFeatures, _ Config) bool {
			return f.HasSearchInput && f.HasResultsContainer
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasSearchInput, 25) + bonus(f.HasResultsContainer, 20)
		},
	},
	{
		pageType: entities.PageTable,
		match: func(f entities.PageFeatures, _ Config) bool {
			return f.HasTable
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasTable, 30) + bonus(f.HasSingleH1, 10)
		},
	},
	{
		pageType: entities.PageList,
		match: func(f entities.PageFeatures, _ Config) bool {
			return f.HasList
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasList, 25) + bonus(f.HasImages, 10) + bonus(f.HasMainContent, 5)
		},
	},
	{
		pageType: entities.PageDetail,
		match: func(f entities.PageFeatures, _ Config) bool {
			return f.HasSingleH1 && f.HasMainContent
		},
		score: func(f entities.PageFeatures, _ Config) int {
			return bonus(f.HasSingleH1, 20) + bonus(f.HasMainContent, 20) + bonus(f.HasImages, 10)
		},
	},
}
