package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Performance-specific validation errors
var (
	ErrPerformanceIDEmpty       = errors.New("performance ID cannot be empty")
	ErrPerformanceUserEmpty     = errors.New("performance user ID cannot be empty")
	ErrPerformanceQuestionEmpty = errors.New("performance question ID cannot be empty")
)

// ScheduleState is the scheduling collaborator's verdict for one
// attempt: when the question is next due and the internal scheduling
// parameters that produced that date. It is embedded verbatim into the
// performance row created for the attempt.
type ScheduleState struct {
	NextReviewDue time.Time `json:"next_review_due"`
	IntervalDays  float64   `json:"interval_days"`
	Stability     float64   `json:"stability"`
	Difficulty    float64   `json:"difficulty"`
	Repetitions   int       `json:"repetitions"`
	EaseFactor    float64   `json:"ease_factor,omitempty"`
}

// UserQuestionPerformance is one immutable attempt record. Rows are
// never updated or merged; the current scheduling state for a question
// is always the most recent row by creation time.
type UserQuestionPerformance struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	QuestionID         uuid.UUID `json:"question_id"`
	Score              int       `json:"score"`
	TimeToCompleteMs   int       `json:"time_to_complete_ms,omitempty"`
	PercentageAccuracy float64   `json:"percentage_accuracy,omitempty"`
	Attempts           int       `json:"attempts"`
	Schedule           ScheduleState
	CreatedAt          time.Time `json:"created_at"`
}

// NewUserQuestionPerformance creates a new performance row for one
// attempt, stamping the creation time. Returns an error if validation
// fails.
func NewUserQuestionPerformance(
	userID, questionID uuid.UUID,
	score int,
	schedule ScheduleState,
) (*UserQuestionPerformance, error) {
	perf := &UserQuestionPerformance{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		Score:      score,
		Attempts:   1,
		Schedule:   schedule,
		CreatedAt:  time.Now().UTC(),
	}

	if err := perf.Validate(); err != nil {
		return nil, err
	}

	return perf, nil
}

// Validate checks if the UserQuestionPerformance has valid data.
func (p *UserQuestionPerformance) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPerformanceIDEmpty
	}
	if p.UserID == uuid.Nil {
		return ErrPerformanceUserEmpty
	}
	if p.QuestionID == uuid.Nil {
		return ErrPerformanceQuestionEmpty
	}
	if p.Score < 0 || p.Score > 100 {
		return ErrInvalidScore
	}
	return nil
}
