package security

import (
	"context"
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// RedactedValue replaces sensitive values in recorded actions
const RedactedValue = "********"

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

var (
	destructiveKeywords = []string{
		"delete", "remove", "удалить", "удаление",
		"cancel", "отменить", "отмена",
		"clear", "очистить",
		"reset", "сброс",
		"trash", "корзина",
	}

	paymentKeywords = []string{
		"payment", "pay", "checkout", "оплата", "платеж",
		"order", "заказ", "purchase", "покупка",
	}

	confirmKeywords = []string{
		"submit", "confirm", "pay", "оплатить", "подтвердить",
		"order", "заказать", "buy", "купить",
	}

	// sensitiveFieldKeywords are matched against name, id, autocomplete and
	// label of the field a value is typed into
	sensitiveFieldKeywords = []string{
		"password", "passwd", "пароль",
		"secret", "token", "api-key", "api_key", "apikey",
		"cc-number", "cc-csc", "cc-exp", "card", "cvv", "cvc",
		"ssn", "iban",
	}
)

type SecurityLayer struct {
	logger *logrus.Logger
}

func NewSecurityLayer(logger *logrus.Logger) *SecurityLayer {
	return &SecurityLayer{
		logger: logger,
	}
}

// RedactValue - masks a value typed into a sensitive field
func (s *SecurityLayer) RedactValue(ctx context.Context, target entities.ElementSnapshot, value string) (string, bool) {
	if value == "" || !s.isSensitiveField(target) {
		return value, false
	}
	s.logger.Debugf("security: redacted value typed into <%s>", target.TagName)
	return RedactedValue, true
}

// RequiresReview - checks if a recorded action should be reviewed before replay
func (s *SecurityLayer) RequiresReview(ctx context.Context, action *entities.Action, target entities.ElementSnapshot) bool {
	if s.IsDestructiveAction(ctx, action, target) {
		return true
	}

	// Check for payment-related actions
	if s.isPaymentAction(action, target) {
		return true
	}

	return false
}

// IsDestructiveAction - reports clicks on delete, remove or similar controls
func (s *SecurityLayer) IsDestructiveAction(ctx context.Context, action *entities.Action, target entities.ElementSnapshot) bool {
	if action.Type != entities.ActionClick && action.Type != entities.ActionSubmit {
		return false
	}
	return containsAny(actionHaystack(action, target), destructiveKeywords)
}

func (s *SecurityLayer) GetActionRiskLevel(ctx context.Context, action *entities.Action, target entities.ElementSnapshot) string {
	if s.RequiresReview(ctx, action, target) {
		return RiskHigh
	}

	switch action.Type {
	case entities.ActionNavigate:
		// Navigation is generally low risk
		return RiskLow
	case entities.ActionTypeText, entities.ActionSelect, entities.ActionCheck:
		// Typing text could be medium risk if it's in forms
		return RiskMedium
	case entities.ActionClick, entities.ActionSubmit:
		return RiskMedium
	}

	return RiskLow
}

func (s *SecurityLayer) isPaymentAction(action *entities.Action, target entities.ElementSnapshot) bool {
	if action.Type != entities.ActionClick && action.Type != entities.ActionSubmit {
		return false
	}

	// If we're on a payment page and clicking submit/confirm
	if !containsAny(strings.ToLower(action.URL), paymentKeywords) {
		return false
	}
	return containsAny(actionHaystack(action, target), confirmKeywords)
}

func (s *SecurityLayer) isSensitiveField(target entities.ElementSnapshot) bool {
	if strings.EqualFold(target.Attributes["type"], "password") {
		return true
	}

	fields := []string{
		target.ID,
		target.Attributes["name"],
		target.Attributes["autocomplete"],
		target.AriaLabel,
		target.LabelText,
		target.Attributes["placeholder"],
	}
	return containsAny(strings.ToLower(strings.Join(fields, " ")), sensitiveFieldKeywords)
}

// actionHaystack joins everything a keyword may appear in
func actionHaystack(action *entities.Action, target entities.ElementSnapshot) string {
	parts := []string{action.Description, target.Text, target.ID, target.AriaLabel, target.Attributes["name"], target.Attributes["value"]}
	if action.Target != nil {
		parts = append(parts, action.Target.Selector)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// Ensure SecurityLayer implements SecurityLayer interface
var _ interfaces.SecurityLayer = (*SecurityLayer)(nil)
