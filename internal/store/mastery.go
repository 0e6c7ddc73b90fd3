package store

import (
	"context"

	"github.com/google/uuid"
)

// MasteryStore defines persistence for per-skill mastery probabilities,
// one value in [0, 1] per (user, skill tag name).
type MasteryStore interface {
	// GetMastery retrieves the stored mastery probability for a skill
	// tag. Returns ErrMasteryNotFound when the user has never practiced
	// the skill.
	GetMastery(ctx context.Context, userID uuid.UUID, skillTag string) (float64, error)

	// UpsertMastery writes the mastery probability for a skill tag,
	// inserting or replacing as needed.
	UpsertMastery(ctx context.Context, userID uuid.UUID, skillTag string, probability float64) error
}
