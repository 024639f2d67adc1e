package selector_test

import (
	"io"
	"testing"

	"action_recorder/application/selector"
	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
	"action_recorder/infrastructure/dom"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newSynthesizer(t *testing.T) *selector.Synthesizer {
	t.Helper()
	s, err := selector.New(selector.DefaultConfig(), quietLogger())
	require.NoError(t, err)
	return s
}

// pick parses src and returns the element matched by css at index idx
func pick(t *testing.T, src, css string, idx int) (*dom.Document, interfaces.Element) {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	els, err := doc.QueryAll(css)
	require.NoError(t, err)
	require.Greater(t, len(els), idx, "fixture has no element %s[%d]", css, idx)
	return doc, els[idx]
}

func assertResolvesTo(t *testing.T, doc *dom.Document, sel string, el interfaces.Element) {
	t.Helper()
	els, err := selector.Resolve(doc, sel)
	require.NoError(t, err, sel)
	require.Len(t, els, 1, sel)
	assert.True(t, els[0].Same(el), sel)
}

func TestSynthesize_TestIDWins(t *testing.T) {
	doc, el := pick(t, `<div><button data-testid="save-btn" id="save" class="btn-primary">Save</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `[data-testid="save-btn"]`, result.Selector)
	assert.Equal(t, entities.StrategyTestID, result.Strategy)
	assert.Equal(t, 100, result.Confidence)
	assert.True(t, result.IsUnique)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_AlternativesFromLowerStrategies(t *testing.T) {
	doc, el := pick(t, `<div><button data-testid="save-btn" id="save" class="btn-primary">Save</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	require.NotEmpty(t, result.Alternatives)
	assert.LessOrEqual(t, len(result.Alternatives), 5)
	strategies := make([]entities.SelectorStrategy, 0, len(result.Alternatives))
	for _, alt := range result.Alternatives {
		strategies = append(strategies, alt.Strategy)
		assert.Equal(t, alt.Strategy.Confidence(), alt.Confidence)
		assert.NotEqual(t, result.Selector, alt.Selector)
		assertResolvesTo(t, doc, alt.Selector, el)
	}
	assert.Contains(t, strategies, entities.StrategyID)
	assert.Contains(t, strategies, entities.StrategyText)
}

func TestSynthesize_DuplicateTestIDFallsThrough(t *testing.T) {
	doc, el := pick(t, `<ul>
		<li><a data-testid="row" href="/a">Alpha</a></li>
		<li><a data-testid="row" href="/b">Beta</a></li>
	</ul>`, "a", 1)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.NotEqual(t, entities.StrategyTestID, result.Strategy)
	assert.True(t, result.IsUnique)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_DataCyAndDataTest(t *testing.T) {
	doc, el := pick(t, `<form><input data-cy="email"><input data-test="pw"></form>`, "input", 0)
	result := newSynthesizer(t).Synthesize(doc, el)
	assert.Equal(t, `[data-cy="email"]`, result.Selector)
	assert.Equal(t, entities.StrategyCy, result.Strategy)

	doc, el = pick(t, `<form><input data-cy="email"><input data-test="pw"></form>`, "input", 1)
	result = newSynthesizer(t).Synthesize(doc, el)
	assert.Equal(t, `[data-test="pw"]`, result.Selector)
	assert.Equal(t, entities.StrategyTest, result.Strategy)
}

func TestSynthesize_AriaLabel(t *testing.T) {
	doc, el := pick(t, `<header><button aria-label="Close dialog"><svg></svg></button></header>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `[aria-label="Close dialog"]`, result.Selector)
	assert.Equal(t, entities.StrategyAriaLabel, result.Strategy)
}

func TestSynthesize_RoleWithName(t *testing.T) {
	doc, el := pick(t, `<form>
		<input type="text" placeholder="First name">
		<input type="text" placeholder="Last name">
	</form>`, "input", 1)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `input[type="text"][placeholder="Last name"]`, result.Selector)
	assert.Equal(t, entities.StrategyRole, result.Strategy)
	assert.Equal(t, 85, result.Confidence)
}

func TestSynthesize_ExplicitRoleWithText(t *testing.T) {
	doc, el := pick(t, `<div>
		<div role="tab">Overview</div>
		<div role="tab">Details</div>
	</div>`, `[role="tab"]`, 1)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `[role="tab"]:has-text("Details")`, result.Selector)
	assert.Equal(t, entities.StrategyRole, result.Strategy)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_StableID(t *testing.T) {
	doc, el := pick(t, `<div><span id="cart-total">42</span><span>x</span></div>`, "span", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, "#cart-total", result.Selector)
	assert.Equal(t, entities.StrategyID, result.Strategy)
}

func TestSynthesize_DynamicIDRejected(t *testing.T) {
	for _, id := range []string{"12345", "a3f9c2d18e", "ember412", ":r3:", "react-select-2-input", "mui-1042", "field-8a7b6c5d"} {
		t.Run(id, func(t *testing.T) {
			doc, el := pick(t, `<div><span id="`+id+`">x</span><span>y</span></div>`, "span", 0)

			result := newSynthesizer(t).Synthesize(doc, el)

			assert.NotEqual(t, entities.StrategyID, result.Strategy)
			for _, alt := range result.Alternatives {
				assert.NotEqual(t, entities.StrategyID, alt.Strategy)
			}
			assert.True(t, result.IsUnique)
		})
	}
}

func TestSynthesize_FrameworkClassExcludedTextWins(t *testing.T) {
	doc, el := pick(t, `<div><button class="ng-abc123">Save</button><button class="ng-def456">Cancel</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `button:has-text("Save")`, result.Selector)
	assert.Equal(t, entities.StrategyText, result.Strategy)
	for _, alt := range result.Alternatives {
		assert.NotEqual(t, entities.StrategyClass, alt.Strategy)
		assert.NotContains(t, alt.Selector, "ng-")
	}
}

func TestSynthesize_IdenticalSiblingTextNotUnique(t *testing.T) {
	doc, el := pick(t, `<ul>
		<li class="item">Apple</li>
		<li class="item">Apple</li>
	</ul>`, "li", 1)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.NotEqual(t, `li:has-text("Apple")`, result.Selector)
	assert.NotEqual(t, entities.StrategyText, result.Strategy)
	assert.Equal(t, entities.StrategyCSSPath, result.Strategy)
	assert.Equal(t, "li:nth-of-type(2)", result.Selector)
	assert.True(t, result.IsUnique)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_TextPlusClassDisambiguates(t *testing.T) {
	doc, el := pick(t, `<div>
		<a class="nav-link" href="/a">Home</a>
		<a class="footer-link" href="/b">Home</a>
	</div>`, "a", 1)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `a.footer-link:has-text("Home")`, result.Selector)
	assert.Equal(t, entities.StrategyText, result.Strategy)
}

func TestSynthesize_LongTextSkipped(t *testing.T) {
	long := "This button label is far too long to be a useful selector for anyone"
	doc, el := pick(t, `<div><button class="cta-button">`+long+`</button><button>Other</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.NotEqual(t, entities.StrategyText, result.Strategy)
	assert.Equal(t, "button.cta-button", result.Selector)
	assert.Equal(t, entities.StrategyClass, result.Strategy)
}

func TestSynthesize_MixedContentTextUsesFullText(t *testing.T) {
	doc, el := pick(t, `<div><button>Save <b>all</b> now</button><button>Cancel</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `button:has-text("Save all now")`, result.Selector)
	assert.Equal(t, entities.StrategyText, result.Strategy)
	assert.True(t, result.IsUnique)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_IconChildKeepsOwnText(t *testing.T) {
	doc, el := pick(t, `<div><a href="/cart"><i class="icon"></i> Cart</a><a href="/home">Home</a></div>`, "a", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `a:has-text("Cart")`, result.Selector)
	assert.Equal(t, entities.StrategyText, result.Strategy)
}

func TestSynthesize_ClassRankingPrefersHyphenated(t *testing.T) {
	doc, el := pick(t, `<div>
		<div class="card mt-2 product-card">A</div>
		<div class="card mt-2">B</div>
	</div>`, "div div", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, "div.product-card", result.Selector)
	assert.Equal(t, entities.StrategyClass, result.Strategy)
}

func TestSynthesize_ClassPairWhenSinglesAmbiguous(t *testing.T) {
	doc, el := pick(t, `<section>
		<span class="badge-item is-new">1</span>
		<span class="badge-item">2</span>
		<span class="is-new">3</span>
	</section>`, "span", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, "span.badge-item.is-new", result.Selector)
	assert.Equal(t, entities.StrategyClass, result.Strategy)
}

func TestSynthesize_CustomExcludedPatterns(t *testing.T) {
	cfg := selector.DefaultConfig()
	cfg.ExcludedClassPatterns = append(cfg.ExcludedClassPatterns, "Button_*")
	s, err := selector.New(cfg, quietLogger())
	require.NoError(t, err)

	doc, el := pick(t, `<div><span class="Button_root">x</span><span>y</span></div>`, "span", 0)
	result := s.Synthesize(doc, el)

	assert.NotEqual(t, entities.StrategyClass, result.Strategy)
	assert.NotContains(t, result.Selector, "Button_root")
}

func TestSynthesize_PathAnchoredOnAncestorID(t *testing.T) {
	doc, el := pick(t, `<body>
		<div id="sidebar"><p>a</p><p>b</p></div>
		<div id="content"><p>c</p><p>d</p></div>
	</body>`, "p", 3)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, "#content > p:nth-of-type(2)", result.Selector)
	assert.Equal(t, entities.StrategyCSSPath, result.Strategy)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestSynthesize_AbsolutePathFallback(t *testing.T) {
	cfg := selector.DefaultConfig()
	cfg.MaxPathDepth = 1
	s, err := selector.New(cfg, quietLogger())
	require.NoError(t, err)

	doc, el := pick(t, `<body>
		<div><span>a</span></div>
		<div><span>a</span></div>
	</body>`, "span", 1)

	result := s.Synthesize(doc, el)

	assert.Equal(t, "html > body:nth-child(2) > div:nth-child(2) > span:nth-child(1)", result.Selector)
	assert.Equal(t, entities.StrategyCSSPath, result.Strategy)
	assert.Equal(t, entities.FallbackConfidence, result.Confidence)
	assert.True(t, result.IsUnique)
	assert.Empty(t, result.Alternatives)
}

func TestSynthesize_NeverEmptyAndIdempotent(t *testing.T) {
	src := `<html><head><title>t</title></head><body>
		<nav><a href="/">Home</a><a href="/about">About</a></nav>
		<main>
			<h1>Title</h1>
			<p>para <b>bold</b></p>
			<table><tr><th>h</th></tr><tr><td>1</td></tr></table>
			<form><input name="q"><select><option>One</option></select></form>
			<div class="sc-xyz"><span></span><span></span></div>
		</main>
	</body></html>`
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	all, err := doc.QueryAll("*")
	require.NoError(t, err)

	s := newSynthesizer(t)
	for _, el := range all {
		first := s.Synthesize(doc, el)
		second := s.Synthesize(doc, el)

		assert.NotEmpty(t, first.Selector)
		assert.Equal(t, first, second)
		if first.IsUnique {
			assertResolvesTo(t, doc, first.Selector, el)
		}
	}
}

func TestSynthesize_NilElement(t *testing.T) {
	doc, err := dom.ParseString(`<p>x</p>`)
	require.NoError(t, err)

	result := newSynthesizer(t).Synthesize(doc, nil)

	assert.Equal(t, "html", result.Selector)
	assert.NotNil(t, result.Alternatives)
}

func TestSynthesize_QuotesInAttributeValues(t *testing.T) {
	doc, el := pick(t, `<div><button data-testid='say "hi"'>Hi</button></div>`, "button", 0)

	result := newSynthesizer(t).Synthesize(doc, el)

	assert.Equal(t, `[data-testid="say \"hi\""]`, result.Selector)
	assertResolvesTo(t, doc, result.Selector, el)
}

func TestNew_RejectsEmptyPattern(t *testing.T) {
	cfg := selector.DefaultConfig()
	cfg.ExcludedClassPatterns = []string{"ng-*", " "}

	_, err := selector.New(cfg, nil)

	assert.Error(t, err)
}
