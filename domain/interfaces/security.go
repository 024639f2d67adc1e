package interfaces

import (
	"action_recorder/domain/entities"
	"context"
)

// SecurityLayer defines the interface for checks applied to recorded actions
type SecurityLayer interface {
	// RedactValue masks a typed value when the target element is sensitive
	RedactValue(ctx context.Context, target entities.ElementSnapshot, value string) (string, bool)

	// RequiresReview checks if a recorded action should be reviewed before replay
	RequiresReview(ctx context.Context, action *entities.Action, target entities.ElementSnapshot) bool

	// GetActionRiskLevel returns the risk level of an action
	GetActionRiskLevel(ctx context.Context, action *entities.Action, target entities.ElementSnapshot) string
}
