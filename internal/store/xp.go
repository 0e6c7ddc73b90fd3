package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// XpStore defines persistence for the append-only XP ledger and the
// denormalized knowledge-points counter. CreateEvent and
// IncrementKnowledgePoints must run inside one transaction per award
// (bind both through WithTx) so the counter never drifts from the
// ledger sum.
type XpStore interface {
	// CreateEvent appends an XP event. Events are never mutated.
	CreateEvent(ctx context.Context, event *domain.XpEvent) error

	// IncrementKnowledgePoints adds amount to the user's denormalized
	// running total. Returns ErrUserNotFound if the user does not exist.
	IncrementKnowledgePoints(ctx context.Context, userID uuid.UUID, amount int) error

	// SummarizeByDay aggregates the user's XP events by UTC calendar day
	// from since onward, ascending by date. Days with no events are
	// omitted, not zero-filled.
	SummarizeByDay(
		ctx context.Context,
		userID uuid.UUID,
		since time.Time,
	) ([]domain.XpDaySummary, error)

	// WithTx returns an XpStore bound to the given transaction.
	WithTx(tx *sql.Tx) XpStore
}
