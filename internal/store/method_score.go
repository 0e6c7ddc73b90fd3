package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// MethodScoreStore defines persistence for per-user delivery-method
// scores. Rows are upserted: created on first attempt with the clamped
// delta applied to a zero base, updated thereafter.
type MethodScoreStore interface {
	// Get retrieves the score row for a user and delivery method.
	// Returns ErrMethodScoreNotFound if the user has no row yet.
	Get(
		ctx context.Context,
		userID uuid.UUID,
		method domain.DeliveryMethod,
	) (*domain.UserDeliveryMethodScore, error)

	// Upsert writes the score row, inserting or replacing as needed.
	// Callers clamp via the domain type before writing.
	Upsert(ctx context.Context, score *domain.UserDeliveryMethodScore) error
}
