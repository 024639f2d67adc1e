package selector

import (
	"testing"

	"action_recorder/domain/entities"
	"action_recorder/infrastructure/dom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHasText(t *testing.T) {
	tests := []struct {
		in       string
		wantBase string
		wantText string
		wantOK   bool
	}{
		{`button:has-text("Save")`, "button", "Save", true},
		{`:has-text("Save")`, "*", "Save", true},
		{`a.nav:has-text("Say \"hi\"")`, "a.nav", `Say "hi"`, true},
		{`a.nav:has-text("back\\slash")`, "a.nav", `back\slash`, true},
		{`button.primary`, "button.primary", "", false},
		{`[title="x")"]`, `[title="x")"]`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			base, text, ok := SplitHasText(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantBase, base)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestHasTextRoundTrip(t *testing.T) {
	for _, text := range []string{"Save", `He said "no"`, `C:\path`, "Ünïcødé"} {
		base, got, ok := SplitHasText(HasText("li.item", text))
		require.True(t, ok, text)
		assert.Equal(t, "li.item", base)
		assert.Equal(t, text, got)
	}
}

func TestResolve_TextContainment(t *testing.T) {
	doc, err := dom.ParseString(`<ul>
		<li>Red apple</li>
		<li>Green APPLE pie</li>
		<li>Banana</li>
	</ul>`)
	require.NoError(t, err)

	n, err := Count(doc, `li:has-text("apple")`)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, IsUnique(doc, `li:has-text("banana")`))
	assert.False(t, IsUnique(doc, `li:has-text("cherry")`))
	assert.True(t, IsUnique(doc, `li:has-text("green   apple")`))
}

func TestIsUnique_MalformedSelector(t *testing.T) {
	doc, err := dom.ParseString(`<p>x</p>`)
	require.NoError(t, err)

	_, err = Count(doc, `p[`)
	assert.Error(t, err)
	assert.False(t, IsUnique(doc, `p[`))
	assert.False(t, IsUnique(doc, `p[:has-text("x")`))
}

func TestEscapeIdent(t *testing.T) {
	tests := map[string]string{
		"plain":       "plain",
		"md:flex":     `md\:flex`,
		"w-1/2":       `w-1\/2`,
		"1col":        `\31 col`,
		"-2x":         `-\32 x`,
		"a.b":         `a\.b`,
		"under_score": "under_score",
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeIdent(in), in)
	}
}

func TestEscapedClassesResolve(t *testing.T) {
	doc, err := dom.ParseString(`<div><span class="md:flex">a</span><span class="1col">b</span></div>`)
	require.NoError(t, err)

	assert.True(t, IsUnique(doc, "span."+escapeIdent("md:flex")))
	assert.True(t, IsUnique(doc, "span."+escapeIdent("1col")))
}

func TestClassFilter_FullMatchGlobs(t *testing.T) {
	f, err := compileClassFilter([]string{"ng-*", "Mui*", "*-hash-*", "exact"})
	require.NoError(t, err)

	assert.True(t, f.excluded("ng-star-inserted"))
	assert.True(t, f.excluded("MuiButton-root"))
	assert.True(t, f.excluded("a-hash-b"))
	assert.True(t, f.excluded("exact"))

	assert.False(t, f.excluded("my-ng-class"))
	assert.False(t, f.excluded("muiButton"))
	assert.False(t, f.excluded("exactly"))
}

func TestIsDynamicID(t *testing.T) {
	dynamic := []string{"123", "deadbeef99", "ember42", ":r1a:", "react-select-3-input",
		"mat-input-0", "ui-id-7", "radix-:r2:", "headlessui-menu-1", "item-20231104",
		"btn-3f9a2c", "550e8400-e29b-41d4-a716-446655440000"}
	for _, id := range dynamic {
		assert.True(t, isDynamicID(id), id)
	}

	stable := []string{"main", "login-form", "cart-total", "search", "nav2", "facade-header", "step-3"}
	for _, id := range stable {
		assert.False(t, isDynamicID(id), id)
	}
}

func TestStableClassRanking(t *testing.T) {
	s := &Synthesizer{}
	var err error
	s.filter, err = compileClassFilter([]string{"sc-*"})
	require.NoError(t, err)

	got := s.stableClasses([]string{"btn", "sc-kEqXSa", "mt-2", "primary-action", "btn", "card-title-large"})

	assert.Equal(t, []string{"card-title-large", "primary-action", "mt-2", "btn"}, got)
}

func TestClassCombinations(t *testing.T) {
	got := classCombinations("a", []string{"x", "y", "z"}, 3)
	assert.Equal(t, []string{"a.x", "a.y", "a.z", "a.x.y", "a.x.z", "a.y.z", "a.x.y.z"}, got)

	assert.Len(t, classCombinations("a", []string{"x", "y", "z", "w"}, 2), 4+6)
}

func TestCandidateText(t *testing.T) {
	tests := []struct {
		direct, full, want string
	}{
		{"Save", "Save", "Save"},
		{"Save now", "Save all now", "Save all now"},
		{"", "Nested only", "Nested only"},
		{"Total:", "Total: 42", "Total:"},
		{"SAVE", "save changes", "SAVE"},
	}
	for _, tt := range tests {
		snap := entities.ElementSnapshot{DirectText: tt.direct, Text: tt.full}
		assert.Equal(t, tt.want, candidateText(snap), tt.direct)
	}
}
