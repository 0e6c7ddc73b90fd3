package srs

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/store"
)

// fakePerformanceStore serves a single latest row per question.
type fakePerformanceStore struct {
	latest map[uuid.UUID]*domain.UserQuestionPerformance
	err    error
}

func (f *fakePerformanceStore) Create(context.Context, *domain.UserQuestionPerformance) error {
	return nil
}

func (f *fakePerformanceStore) GetLatest(
	_ context.Context,
	_, questionID uuid.UUID,
) (*domain.UserQuestionPerformance, error) {
	if f.err != nil {
		return nil, f.err
	}
	perf, ok := f.latest[questionID]
	if !ok {
		return nil, store.ErrPerformanceNotFound
	}
	return perf, nil
}

func (f *fakePerformanceStore) GetDueReviews(
	context.Context, uuid.UUID, time.Time, int,
) ([]*domain.UserQuestionPerformance, error) {
	return nil, nil
}

func (f *fakePerformanceStore) WithTx(*sql.Tx) store.PerformanceStore { return f }

func TestCalculateQuestionStateFirstAttempt(t *testing.T) {
	t.Parallel()

	scheduler := NewScheduler(&fakePerformanceStore{})

	state, err := scheduler.CalculateQuestionState(
		context.Background(), uuid.New(), uuid.New(),
		AttemptSignal{Correct: true, TimeMs: 3000})
	require.NoError(t, err)

	// Fast first correct attempt grades easy: two-day first interval.
	assert.Equal(t, 1, state.Repetitions)
	assert.InDelta(t, 2.0, state.IntervalDays, 1e-9)
	assert.False(t, state.NextReviewDue.IsZero())
}

func TestCalculateQuestionStateUsesPriorState(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	perfs := &fakePerformanceStore{
		latest: map[uuid.UUID]*domain.UserQuestionPerformance{
			questionID: {
				QuestionID: questionID,
				Schedule: domain.ScheduleState{
					IntervalDays: 4,
					Repetitions:  2,
					EaseFactor:   2.0,
				},
			},
		},
	}
	scheduler := NewScheduler(perfs)

	state, err := scheduler.CalculateQuestionState(
		context.Background(), uuid.New(), questionID,
		AttemptSignal{Correct: true, TimeMs: 12000})
	require.NoError(t, err)

	// Good outcome: interval grows by the (unchanged) ease factor.
	assert.Equal(t, 3, state.Repetitions)
	assert.InDelta(t, 8.0, state.IntervalDays, 1e-9)
}

func TestCalculateQuestionStateIncorrectResets(t *testing.T) {
	t.Parallel()

	questionID := uuid.New()
	perfs := &fakePerformanceStore{
		latest: map[uuid.UUID]*domain.UserQuestionPerformance{
			questionID: {
				QuestionID: questionID,
				Schedule: domain.ScheduleState{
					IntervalDays: 8,
					Repetitions:  3,
					EaseFactor:   2.2,
				},
			},
		},
	}
	scheduler := NewScheduler(perfs)

	state, err := scheduler.CalculateQuestionState(
		context.Background(), uuid.New(), questionID,
		AttemptSignal{Correct: false, TimeMs: 4000})
	require.NoError(t, err)

	assert.Zero(t, state.Repetitions)
	assert.Zero(t, state.IntervalDays)
	assert.Less(t, state.EaseFactor, 2.2)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), state.NextReviewDue, time.Minute)
}

func TestCalculateQuestionStateStoreFailure(t *testing.T) {
	t.Parallel()

	scheduler := NewScheduler(&fakePerformanceStore{err: errors.New("connection reset")})

	_, err := scheduler.CalculateQuestionState(
		context.Background(), uuid.New(), uuid.New(),
		AttemptSignal{Correct: true, TimeMs: 3000})
	assert.Error(t, err)
}
