package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextMatches(t *testing.T) {
	assert.True(t, textMatches("  Save\n changes ", "save changes"))
	assert.True(t, textMatches("Delete account", "Delete"))
	assert.False(t, textMatches("Save", "Save changes"))
	assert.True(t, textMatches("anything", ""))
}

func TestFindChromeDriver_ConfiguredMissingFallsThrough(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	path, err := findChromeDriver("/nonexistent/chromedriver")
	if err != nil {
		assert.Contains(t, err.Error(), "BROWSER_DRIVER_PATH")
		return
	}
	// a system-wide chromedriver is installed
	assert.NotEqual(t, "/nonexistent/chromedriver", path)
}
