package attempt

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
	"github.com/parlato/parlato-api/internal/service/xp"
	"github.com/parlato/parlato-api/internal/srs"
	"github.com/parlato/parlato-api/internal/store"
)

type fakeQuestionStore struct {
	question *domain.Question
}

func (f *fakeQuestionStore) GetQuestion(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	if f.question == nil || f.question.ID != id {
		return nil, store.ErrQuestionNotFound
	}
	return f.question, nil
}

func (f *fakeQuestionStore) GetVariant(
	context.Context, uuid.UUID, domain.DeliveryMethod,
) (*domain.QuestionVariant, error) {
	return nil, store.ErrVariantNotFound
}

type fakePerformanceStore struct {
	created   []*domain.UserQuestionPerformance
	createErr error
	due       []*domain.UserQuestionPerformance
}

func (f *fakePerformanceStore) Create(_ context.Context, perf *domain.UserQuestionPerformance) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, perf)
	return nil
}

func (f *fakePerformanceStore) GetLatest(
	context.Context, uuid.UUID, uuid.UUID,
) (*domain.UserQuestionPerformance, error) {
	return nil, store.ErrPerformanceNotFound
}

func (f *fakePerformanceStore) GetDueReviews(
	context.Context, uuid.UUID, time.Time, int,
) ([]*domain.UserQuestionPerformance, error) {
	return f.due, nil
}

func (f *fakePerformanceStore) WithTx(*sql.Tx) store.PerformanceStore { return f }

type fakeScheduler struct {
	state      domain.ScheduleState
	err        error
	lastSignal srs.AttemptSignal
}

func (f *fakeScheduler) CalculateQuestionState(
	_ context.Context,
	_, _ uuid.UUID,
	signal srs.AttemptSignal,
) (*domain.ScheduleState, error) {
	f.lastSignal = signal
	if f.err != nil {
		return nil, f.err
	}
	state := f.state
	return &state, nil
}

type fakeMasteryUpdater struct {
	probs   map[string]float64
	err     error
	updates []string
	correct []bool
}

func (f *fakeMasteryUpdater) UpdateMastery(
	_ context.Context,
	_ uuid.UUID,
	skillTag string,
	correct bool,
) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.updates = append(f.updates, skillTag)
	f.correct = append(f.correct, correct)
	return f.probs[skillTag], nil
}

type fakeAccountant struct {
	awarded   int
	err       error
	lastInput xp.EventInput
	calls     int
}

func (f *fakeAccountant) Award(_ context.Context, _ uuid.UUID, input xp.EventInput) (int, error) {
	f.calls++
	f.lastInput = input
	if f.err != nil {
		return 0, f.err
	}
	return f.awarded, nil
}

func (f *fakeAccountant) GetXpSummary(context.Context, uuid.UUID, int) ([]domain.XpDaySummary, error) {
	return nil, nil
}

func newTestQuestion() *domain.Question {
	teaching := &domain.Teaching{
		ID:                     uuid.New(),
		UserLanguageString:     "Hi",
		LearningLanguageString: "Ciao",
		SkillTags: []domain.SkillTag{
			{ID: uuid.New(), Name: "greetings"},
			{ID: uuid.New(), Name: "vocabulary"},
		},
	}
	return &domain.Question{
		ID:         uuid.New(),
		TeachingID: teaching.ID,
		Teaching:   teaching,
		SkillTags: []domain.SkillTag{
			{ID: uuid.New(), Name: "vocabulary"},
			{ID: uuid.New(), Name: "informal-register"},
		},
	}
}

func TestCombineSkillTags(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()

	// Question tags first, then teaching tags, duplicates dropped.
	assert.Equal(t,
		[]string{"vocabulary", "informal-register", "greetings"},
		CombineSkillTags(question))

	assert.Nil(t, CombineSkillTags(nil))
	assert.Empty(t, CombineSkillTags(&domain.Question{}))
}

func TestRecordAttempt(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()
	perfs := &fakePerformanceStore{}
	scheduler := &fakeScheduler{state: domain.ScheduleState{
		NextReviewDue: time.Now().Add(48 * time.Hour),
		IntervalDays:  2,
		Repetitions:   1,
		EaseFactor:    2.5,
	}}
	masteries := &fakeMasteryUpdater{probs: map[string]float64{
		"vocabulary": 0.8, "informal-register": 0.3, "greetings": 0.6,
	}}
	accountant := &fakeAccountant{awarded: 20}

	svc := NewService(
		&fakeQuestionStore{question: question}, perfs, scheduler, masteries, accountant, nil)

	userID := uuid.New()
	result, err := svc.RecordAttempt(context.Background(), RecordInput{
		UserID:           userID,
		QuestionID:       question.ID,
		Score:            92,
		TimeToCompleteMs: 4200,
		Attempts:         3,
	})
	require.NoError(t, err)

	// One immutable row with the scheduler's state embedded.
	require.Len(t, perfs.created, 1)
	perf := perfs.created[0]
	assert.Equal(t, userID, perf.UserID)
	assert.Equal(t, 92, perf.Score)
	assert.Equal(t, 4200, perf.TimeToCompleteMs)
	assert.Equal(t, 3, perf.Attempts)
	assert.Equal(t, scheduler.state, perf.Schedule)
	assert.Equal(t, perf, result.Performance)

	// Score 92 counts as correct for every downstream consumer.
	assert.True(t, scheduler.lastSignal.Correct)
	assert.Equal(t, 4200, scheduler.lastSignal.TimeMs)
	assert.Equal(t, 92, scheduler.lastSignal.Score)
	assert.True(t, accountant.lastInput.Correct)
	assert.Equal(t, 20, result.AwardedXp)

	// Every combined skill tag got a mastery update.
	assert.ElementsMatch(t,
		[]string{"vocabulary", "informal-register", "greetings"},
		masteries.updates)
	for _, correct := range masteries.correct {
		assert.True(t, correct)
	}
}

func TestRecordAttemptBelowThresholdIsIncorrect(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()
	scheduler := &fakeScheduler{}
	accountant := &fakeAccountant{awarded: 5}

	svc := NewService(
		&fakeQuestionStore{question: question},
		&fakePerformanceStore{},
		scheduler,
		&fakeMasteryUpdater{},
		accountant,
		nil)

	result, err := svc.RecordAttempt(context.Background(), RecordInput{
		UserID:     uuid.New(),
		QuestionID: question.ID,
		Score:      79,
	})
	require.NoError(t, err)

	assert.False(t, scheduler.lastSignal.Correct)
	assert.False(t, accountant.lastInput.Correct)
	assert.Equal(t, 5, result.AwardedXp)
}

func TestRecordAttemptMasteryFailureIsIsolated(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()
	accountant := &fakeAccountant{awarded: 20}

	svc := NewService(
		&fakeQuestionStore{question: question},
		&fakePerformanceStore{},
		&fakeScheduler{},
		&fakeMasteryUpdater{err: errors.New("connection reset")},
		accountant,
		nil)

	result, err := svc.RecordAttempt(context.Background(), RecordInput{
		UserID:     uuid.New(),
		QuestionID: question.ID,
		Score:      95,
	})

	// Mastery failures never fail the request, and XP still runs.
	require.NoError(t, err)
	assert.NotNil(t, result.Performance)
	assert.Equal(t, 1, accountant.calls)
	assert.Equal(t, 20, result.AwardedXp)
}

func TestRecordAttemptXpFailureIsIsolated(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()

	svc := NewService(
		&fakeQuestionStore{question: question},
		&fakePerformanceStore{},
		&fakeScheduler{},
		&fakeMasteryUpdater{},
		&fakeAccountant{err: errors.New("deadlock detected")},
		nil)

	result, err := svc.RecordAttempt(context.Background(), RecordInput{
		UserID:     uuid.New(),
		QuestionID: question.ID,
		Score:      95,
	})

	require.NoError(t, err)
	assert.NotNil(t, result.Performance)
	assert.Zero(t, result.AwardedXp)
}

func TestRecordAttemptPerformanceWriteFailure(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()
	accountant := &fakeAccountant{}

	svc := NewService(
		&fakeQuestionStore{question: question},
		&fakePerformanceStore{createErr: errors.New("disk full")},
		&fakeScheduler{},
		&fakeMasteryUpdater{},
		accountant,
		nil)

	_, err := svc.RecordAttempt(context.Background(), RecordInput{
		UserID:     uuid.New(),
		QuestionID: question.ID,
		Score:      95,
	})

	// The critical write failed: error out, no enrichments.
	require.Error(t, err)
	assert.Zero(t, accountant.calls)
}

func TestRecordAttemptValidation(t *testing.T) {
	t.Parallel()

	question := newTestQuestion()
	svc := NewService(
		&fakeQuestionStore{question: question},
		&fakePerformanceStore{},
		&fakeScheduler{},
		&fakeMasteryUpdater{},
		&fakeAccountant{},
		nil)

	t.Run("unknown question", func(t *testing.T) {
		t.Parallel()
		_, err := svc.RecordAttempt(context.Background(), RecordInput{
			UserID:     uuid.New(),
			QuestionID: uuid.New(),
			Score:      95,
		})
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("score out of range", func(t *testing.T) {
		t.Parallel()
		_, err := svc.RecordAttempt(context.Background(), RecordInput{
			UserID:     uuid.New(),
			QuestionID: question.ID,
			Score:      101,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		_, err := svc.RecordAttempt(context.Background(), RecordInput{
			QuestionID: question.ID,
			Score:      50,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetDueReviews(t *testing.T) {
	t.Parallel()

	due := []*domain.UserQuestionPerformance{
		{ID: uuid.New(), QuestionID: uuid.New()},
	}
	svc := NewService(
		&fakeQuestionStore{question: newTestQuestion()},
		&fakePerformanceStore{due: due},
		&fakeScheduler{},
		&fakeMasteryUpdater{},
		&fakeAccountant{},
		nil)

	rows, err := svc.GetDueReviews(context.Background(), uuid.New(), time.Now(), 10)
	require.NoError(t, err)
	assert.Equal(t, due, rows)

	_, err = svc.GetDueReviews(context.Background(), uuid.Nil, time.Now(), 10)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
