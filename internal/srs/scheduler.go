package srs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/store"
)

// AttemptSignal carries the scheduling-relevant facts of one attempt.
// Score is informational for alternative scheduler implementations; the
// default scheduler grades from correctness and speed alone.
type AttemptSignal struct {
	Correct bool
	TimeMs  int
	Score   int
}

// Scheduler computes the next schedule state for a question after an
// attempt.
type Scheduler interface {
	// CalculateQuestionState grades the attempt, loads the user's prior
	// schedule state for the question (a fresh default when the
	// question has never been attempted), and returns the next state.
	CalculateQuestionState(
		ctx context.Context,
		userID, questionID uuid.UUID,
		signal AttemptSignal,
	) (*domain.ScheduleState, error)
}

// Verify interface compliance at compile time
var _ Scheduler = (*defaultScheduler)(nil)

type defaultScheduler struct {
	performances store.PerformanceStore
	params       *Params
	// now is injectable for tests
	now func() time.Time
}

// NewScheduler creates a Scheduler with default parameters.
func NewScheduler(performances store.PerformanceStore) Scheduler {
	return NewSchedulerWithParams(performances, NewDefaultParams())
}

// NewSchedulerWithParams creates a Scheduler with custom parameters.
func NewSchedulerWithParams(performances store.PerformanceStore, params *Params) Scheduler {
	if performances == nil {
		panic("performances cannot be nil")
	}
	if params == nil {
		panic("params cannot be nil")
	}

	return &defaultScheduler{
		performances: performances,
		params:       params,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CalculateQuestionState implements Scheduler.
func (s *defaultScheduler) CalculateQuestionState(
	ctx context.Context,
	userID, questionID uuid.UUID,
	signal AttemptSignal,
) (*domain.ScheduleState, error) {
	prior := domain.ScheduleState{
		EaseFactor: s.params.MaxEaseFactor,
	}

	latest, err := s.performances.GetLatest(ctx, userID, questionID)
	switch {
	case err == nil:
		prior = latest.Schedule
		if prior.EaseFactor == 0 {
			// Rows created before ease tracking carry no factor
			prior.EaseFactor = s.params.MaxEaseFactor
		}
	case errors.Is(err, store.ErrPerformanceNotFound):
		// First attempt, keep the fresh default
	default:
		return nil, fmt.Errorf("failed to load prior schedule state: %w", err)
	}

	outcome := s.params.GradeAttempt(signal.Correct, signal.TimeMs)
	next := nextState(prior, outcome, s.now(), s.params)
	return &next, nil
}
