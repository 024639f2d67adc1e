package selector

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultExcludedClassPatterns lists class-name shapes emitted by frameworks
// and CSS-in-JS tooling. They change between builds, so they never anchor a
// selector.
var DefaultExcludedClassPatterns = []string{
	"ng-*",
	"_ng*",
	"sc-*",
	"css-*",
	"jsx-*",
	"emotion-*",
	"svelte-*",
	"astro-*",
	"Mui*",
	"makeStyles-*",
	"jss*",
	"ember-*",
	"data-v-*",
	"chakra-*",
	"tw-*",
}

// Config configures a Synthesizer. It is read-only once the Synthesizer is
// built.
type Config struct {
	// ExcludedClassPatterns are full-match globs; '*' is the only wildcard.
	ExcludedClassPatterns []string

	// MaxAlternatives caps SelectorResult.Alternatives. Default: 5.
	MaxAlternatives int

	// MaxPathDepth bounds the nth-of-type path walk. Default: 5.
	MaxPathDepth int

	// MaxTextLength is the longest text used in a text selector. Default: 50.
	MaxTextLength int

	// MaxClassCombination is the largest class combination tried. Default: 3.
	MaxClassCombination int
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ExcludedClassPatterns: append([]string(nil), DefaultExcludedClassPatterns...),
		MaxAlternatives:       5,
		MaxPathDepth:          5,
		MaxTextLength:         50,
		MaxClassCombination:   3,
	}
}

func (c *Config) defaults() {
	if c.MaxAlternatives <= 0 || c.MaxAlternatives > 5 {
		c.MaxAlternatives = 5
	}
	if c.MaxPathDepth <= 0 {
		c.MaxPathDepth = 5
	}
	if c.MaxTextLength <= 0 {
		c.MaxTextLength = 50
	}
	if c.MaxClassCombination <= 0 {
		c.MaxClassCombination = 3
	}
}

// classFilter is the compiled exclusion list
type classFilter struct {
	patterns []*regexp.Regexp
}

func compileClassFilter(globs []string) (*classFilter, error) {
	f := &classFilter{patterns: make([]*regexp.Regexp, 0, len(globs))}
	for _, glob := range globs {
		glob = strings.TrimSpace(glob)
		if glob == "" {
			return nil, fmt.Errorf("empty class pattern")
		}
		re, err := regexp.Compile(globToRegexp(glob))
		if err != nil {
			return nil, fmt.Errorf("invalid class pattern %q: %w", glob, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

// globToRegexp anchors the glob to the full class name
func globToRegexp(glob string) string {
	parts := strings.Split(glob, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}

func (f *classFilter) excluded(class string) bool {
	for _, re := range f.patterns {
		if re.MatchString(class) {
			return true
		}
	}
	return false
}
