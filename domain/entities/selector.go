package entities

// SelectorStrategy represents the tactic used to derive a selector
type SelectorStrategy string

const (
	StrategyTestID    SelectorStrategy = "data-testid"
	StrategyCy        SelectorStrategy = "data-cy"
	StrategyTest      SelectorStrategy = "data-test"
	StrategyAriaLabel SelectorStrategy = "aria-label"
	StrategyRole      SelectorStrategy = "role"
	StrategyID        SelectorStrategy = "id"
	StrategyText      SelectorStrategy = "text"
	StrategyClass     SelectorStrategy = "class"
	StrategyCSSPath   SelectorStrategy = "css-path"
)

var strategyConfidence = map[SelectorStrategy]int{
	StrategyTestID:    100,
	StrategyCy:        98,
	StrategyTest:      96,
	StrategyAriaLabel: 90,
	StrategyRole:      85,
	StrategyID:        80,
	StrategyText:      70,
	StrategyClass:     60,
	StrategyCSSPath:   40,
}

// FallbackConfidence is reported for the absolute nth-child path
const FallbackConfidence = 20

// Confidence returns the static weight of the strategy
func (s SelectorStrategy) Confidence() int {
	return strategyConfidence[s]
}

// AlternativeSelector is a lower-priority unique candidate
type AlternativeSelector struct {
	Selector   string           `json:"selector"`
	Strategy   SelectorStrategy `json:"strategy"`
	Confidence int              `json:"confidence"`
}

// SelectorResult is the outcome of one synthesis call.
// Confidence is the static strategy weight; it is never derived from IsUnique.
type SelectorResult struct {
	Selector     string                `json:"selector"`
	Strategy     SelectorStrategy      `json:"strategy"`
	Confidence   int                   `json:"confidence"`
	IsUnique     bool                  `json:"is_unique"`
	Alternatives []AlternativeSelector `json:"alternatives"`
}
