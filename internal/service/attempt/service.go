// Package attempt orchestrates attempt recording: one critical write
// (the immutable performance row) surrounded by best-effort
// enrichments (skill mastery, XP) that can never fail the request.
package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// correctScoreThreshold is the score at or above which an attempt
// counts as correct for scheduling, mastery, and XP purposes.
const correctScoreThreshold = 80

// weakSkillThreshold marks skills whose mastery probability after the
// attempt still signals the user needs more practice.
const weakSkillThreshold = 0.5

// RecordInput carries one attempt to record.
type RecordInput struct {
	UserID             uuid.UUID
	QuestionID         uuid.UUID
	Score              int
	TimeToCompleteMs   int
	PercentageAccuracy float64
	// Attempts is the client-reported attempt ordinal for this
	// question. Zero means unreported and defaults to 1.
	Attempts int
}

// RecordResult is the outcome of recording one attempt. AwardedXp is
// zero when the XP enrichment was skipped or failed; the performance
// row is valid either way.
type RecordResult struct {
	Performance *domain.UserQuestionPerformance `json:"performance"`
	AwardedXp   int                             `json:"awarded_xp"`
}

// Service records attempts and serves the review queue built from
// them.
type Service interface {
	// RecordAttempt persists the attempt as a new immutable performance
	// row with a freshly computed schedule, then applies the mastery
	// and XP enrichments best-effort. An error means the performance
	// row was not written; enrichment failures never surface here.
	RecordAttempt(ctx context.Context, input RecordInput) (*RecordResult, error)

	// GetDueReviews lists the user's questions due for review at now,
	// latest schedule state per question, ordered by due date.
	GetDueReviews(
		ctx context.Context,
		userID uuid.UUID,
		now time.Time,
		limit int,
	) ([]*domain.UserQuestionPerformance, error)
}

// Common error types for the attempt service
var (
	// ErrQuestionNotFound indicates that the question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidInput indicates that the attempt payload failed
	// validation.
	ErrInvalidInput = errors.New("invalid attempt input")
)

// ServiceError wraps errors from the attempt service with additional
// context, so consumers can differentiate failures with errors.As
// instead of string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewRecordAttemptError returns a new ServiceError for the record_attempt operation.
func NewRecordAttemptError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "record_attempt", Message: message, Err: err}
}
