// Package xp implements experience-point accounting: a deterministic
// award calculation, an append-only XP ledger kept transactionally in
// sync with the user's denormalized knowledge-points total, and daily
// summaries over the ledger.
package xp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// EventType classifies an awardable activity. Only attempts award XP
// today; unknown types deterministically award zero so new activity
// kinds can be introduced without breaking old binaries.
type EventType string

// EventTypeAttempt is a question attempt.
const EventTypeAttempt EventType = "attempt"

// EventInput describes one awardable activity.
type EventInput struct {
	Type    EventType
	Correct bool
	TimeMs  int
}

// XP award constants.
const (
	baseAttemptXp   = 5
	correctBonusXp  = 10
	fastBonusXp     = 5
	mediumBonusXp   = 3
	slowBonusXp     = 1
	fastThresholdMs = 5000
	mediumThresholdMs = 10000
	slowThresholdMs   = 20000
)

// Calculate returns the XP award for one activity. Attempting earns a
// base award; answering correctly adds a flat bonus plus a speed bonus
// that decays with elapsed time.
func Calculate(input EventInput) int {
	if input.Type != EventTypeAttempt {
		return 0
	}

	amount := baseAttemptXp
	if !input.Correct {
		return amount
	}

	amount += correctBonusXp
	switch {
	case input.TimeMs < fastThresholdMs:
		amount += fastBonusXp
	case input.TimeMs < mediumThresholdMs:
		amount += mediumBonusXp
	case input.TimeMs < slowThresholdMs:
		amount += slowBonusXp
	}

	return amount
}

// Reason renders the human-readable ledger reason for one activity.
func Reason(input EventInput) string {
	if !input.Correct {
		return "Attempted question"
	}
	if input.TimeMs < fastThresholdMs {
		return "Correct answer (fast)"
	}
	return "Correct answer"
}

// Accountant awards XP and summarizes the ledger.
type Accountant interface {
	// Award computes the XP for the activity and, when positive,
	// appends an XpEvent and increments the user's knowledge points in
	// one transaction. Returns the awarded amount.
	Award(ctx context.Context, userID uuid.UUID, input EventInput) (int, error)

	// GetXpSummary aggregates the user's XP events by UTC calendar day
	// within the trailing rangeDays window, ascending by date. Days
	// with no events are omitted.
	GetXpSummary(ctx context.Context, userID uuid.UUID, rangeDays int) ([]domain.XpDaySummary, error)
}

// Verify interface compliance at compile time
var _ Accountant = (*accountant)(nil)

type accountant struct {
	db      *sql.DB
	xpStore store.XpStore
	logger  *slog.Logger
}

// NewAccountant creates an Accountant backed by the given database and
// XP store. The *sql.DB is required to scope the award's two writes
// into a single transaction.
func NewAccountant(db *sql.DB, xpStore store.XpStore, log *slog.Logger) Accountant {
	if db == nil {
		panic("db cannot be nil")
	}
	if xpStore == nil {
		panic("xpStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &accountant{
		db:      db,
		xpStore: xpStore,
		logger:  log.With(slog.String("component", "xp_accountant")),
	}
}

// Award implements Accountant.Award.
// The event insert and the knowledge-points increment commit together
// or not at all, keeping the counter equal to the ledger sum.
func (a *accountant) Award(
	ctx context.Context,
	userID uuid.UUID,
	input EventInput,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	amount := Calculate(input)
	if amount <= 0 {
		return 0, nil
	}

	event, err := domain.NewXpEvent(userID, amount, Reason(input))
	if err != nil {
		return 0, fmt.Errorf("failed to build xp event: %w", err)
	}

	err = store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := a.xpStore.WithTx(tx)
		if err := txStore.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to create xp event: %w", err)
		}
		if err := txStore.IncrementKnowledgePoints(ctx, userID, amount); err != nil {
			return fmt.Errorf("failed to increment knowledge points: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to award xp",
			slog.String("user_id", userID.String()),
			slog.Int("amount", amount),
			slog.String("error", err.Error()))
		return 0, err
	}

	log.Debug("xp awarded",
		slog.String("user_id", userID.String()),
		slog.Int("amount", amount),
		slog.String("reason", event.Reason))
	return amount, nil
}

// GetXpSummary implements Accountant.GetXpSummary.
func (a *accountant) GetXpSummary(
	ctx context.Context,
	userID uuid.UUID,
	rangeDays int,
) ([]domain.XpDaySummary, error) {
	if rangeDays <= 0 {
		rangeDays = 7
	}

	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(rangeDays - 1))
	return a.xpStore.SummarizeByDay(ctx, userID, since)
}
