package security

import (
	"context"
	"io"
	"testing"

	"action_recorder/domain/entities"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newLayer() *SecurityLayer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewSecurityLayer(logger)
}

func TestRedactValue(t *testing.T) {
	s := newLayer()
	ctx := context.Background()

	tests := []struct {
		name   string
		target entities.ElementSnapshot
		value  string
		want   bool
	}{
		{"password type", entities.ElementSnapshot{TagName: "input", Attributes: map[string]string{"type": "password"}}, "hunter2", true},
		{"card autocomplete", entities.ElementSnapshot{TagName: "input", Attributes: map[string]string{"autocomplete": "cc-number"}}, "4111", true},
		{"api token by id", entities.ElementSnapshot{TagName: "input", ID: "api_key"}, "abc", true},
		{"label text", entities.ElementSnapshot{TagName: "input", LabelText: "Secret phrase"}, "xyz", true},
		{"plain email", entities.ElementSnapshot{TagName: "input", Attributes: map[string]string{"type": "email", "name": "email"}}, "a@b.c", false},
		{"empty value", entities.ElementSnapshot{TagName: "input", Attributes: map[string]string{"type": "password"}}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, redacted := s.RedactValue(ctx, tt.target, tt.value)
			assert.Equal(t, tt.want, redacted)
			if tt.want {
				assert.Equal(t, RedactedValue, got)
			} else {
				assert.Equal(t, tt.value, got)
			}
		})
	}
}

func TestRequiresReview_DestructiveClick(t *testing.T) {
	s := newLayer()
	ctx := context.Background()

	action := &entities.Action{
		Type:   entities.ActionClick,
		Target: &entities.SelectorResult{Selector: `button:has-text("Delete account")`},
	}
	assert.True(t, s.RequiresReview(ctx, action, entities.ElementSnapshot{Text: "Delete account"}))
	assert.Equal(t, RiskHigh, s.GetActionRiskLevel(ctx, action, entities.ElementSnapshot{}))

	typing := &entities.Action{Type: entities.ActionTypeText, Value: "delete"}
	assert.False(t, s.RequiresReview(ctx, typing, entities.ElementSnapshot{}))
	assert.Equal(t, RiskMedium, s.GetActionRiskLevel(ctx, typing, entities.ElementSnapshot{}))
}

func TestRequiresReview_PaymentConfirmation(t *testing.T) {
	s := newLayer()
	ctx := context.Background()

	confirm := &entities.Action{Type: entities.ActionClick, URL: "https://shop.test/checkout"}
	assert.True(t, s.RequiresReview(ctx, confirm, entities.ElementSnapshot{Text: "Confirm and buy"}))

	elsewhere := &entities.Action{Type: entities.ActionClick, URL: "https://shop.test/about"}
	assert.False(t, s.RequiresReview(ctx, elsewhere, entities.ElementSnapshot{Text: "Confirm"}))
}

func TestGetActionRiskLevel_Navigate(t *testing.T) {
	s := newLayer()

	action := &entities.Action{Type: entities.ActionNavigate, URL: "https://example.test"}
	assert.Equal(t, RiskLow, s.GetActionRiskLevel(context.Background(), action, entities.ElementSnapshot{}))
}
