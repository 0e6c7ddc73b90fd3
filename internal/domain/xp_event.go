package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// XP-specific validation errors
var (
	ErrXpEventIDEmpty     = errors.New("xp event ID cannot be empty")
	ErrXpEventUserEmpty   = errors.New("xp event user ID cannot be empty")
	ErrXpEventAmountZero  = errors.New("xp event amount must be positive")
	ErrXpEventReasonEmpty = errors.New("xp event reason cannot be empty")
)

// XpEvent is one append-only experience-point award. Events are never
// mutated or deleted; the user's knowledge_points counter is kept equal
// to the sum of their event amounts by awarding both inside one
// transaction.
type XpEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewXpEvent creates a new XP event stamped with the current time.
// Returns an error if validation fails.
func NewXpEvent(userID uuid.UUID, amount int, reason string) (*XpEvent, error) {
	event := &XpEvent{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     amount,
		Reason:     reason,
		OccurredAt: time.Now().UTC(),
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the XpEvent has valid data.
func (e *XpEvent) Validate() error {
	if e.ID == uuid.Nil {
		return ErrXpEventIDEmpty
	}
	if e.UserID == uuid.Nil {
		return ErrXpEventUserEmpty
	}
	if e.Amount <= 0 {
		return ErrXpEventAmountZero
	}
	if e.Reason == "" {
		return ErrXpEventReasonEmpty
	}
	return nil
}

// XpDaySummary aggregates a user's XP events for one UTC calendar day.
type XpDaySummary struct {
	Date       string `json:"date"` // YYYY-MM-DD, UTC
	TotalXp    int    `json:"total_xp"`
	EventCount int    `json:"event_count"`
}
