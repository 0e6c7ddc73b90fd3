package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// PerformanceStore defines persistence for the append-only attempt
// records. Rows are immutable once created; "current" state for a
// question is always the most recent row by creation time, which every
// read method here resolves with an explicit ORDER BY created_at DESC
// rather than assuming single-writer ordering.
type PerformanceStore interface {
	// Create inserts a new, immutable performance row.
	// It handles domain validation internally.
	Create(ctx context.Context, perf *domain.UserQuestionPerformance) error

	// GetLatest retrieves the most recent performance row for a user and
	// question. Returns ErrPerformanceNotFound if the user has never
	// attempted the question.
	GetLatest(
		ctx context.Context,
		userID, questionID uuid.UUID,
	) (*domain.UserQuestionPerformance, error)

	// GetDueReviews retrieves, per question, the latest performance row
	// whose next review is due at or before now, ordered by due date.
	// Concurrent attempts can leave several rows per question; exactly
	// one (max created_at) is returned for each.
	GetDueReviews(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		limit int,
	) ([]*domain.UserQuestionPerformance, error)

	// WithTx returns a PerformanceStore bound to the given transaction.
	WithTx(tx *sql.Tx) PerformanceStore
}
