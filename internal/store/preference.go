package store

import (
	"context"

	"github.com/google/uuid"
)

// PreferenceStore supplies per-user settings captured during
// onboarding. Only the feedback-verbosity knob matters to this engine.
type PreferenceStore interface {
	// GetFeedbackDepth retrieves the user's configured feedback
	// verbosity in [0, 1]. Returns ErrPreferenceNotFound when the user
	// has no stored preferences; callers fall back to the default.
	GetFeedbackDepth(ctx context.Context, userID uuid.UUID) (float64, error)
}
