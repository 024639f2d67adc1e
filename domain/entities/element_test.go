package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeText("  a\n\tb   c "))
	assert.Equal(t, "", NormalizeText(" \n "))
}

func TestAccessibleName_Precedence(t *testing.T) {
	snap := ElementSnapshot{
		LabelText:  "Email",
		Attributes: map[string]string{"placeholder": "you@example.com"},
	}
	assert.Equal(t, "Email", snap.AccessibleName())

	snap.AriaLabel = "Work email"
	assert.Equal(t, "Work email", snap.AccessibleName())
}
