package attempt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/mastery"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/service"
	"github.com/parlato/parlato-api/internal/service/xp"
	"github.com/parlato/parlato-api/internal/srs"
	"github.com/parlato/parlato-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	questions    store.QuestionStore
	performances store.PerformanceStore
	scheduler    srs.Scheduler
	masteries    mastery.Updater
	accountant   xp.Accountant
	logger       *slog.Logger
}

// NewService creates the attempt recording service.
// Panics when any required dependency is nil, which indicates a
// programming error in the composition root.
func NewService(
	questions store.QuestionStore,
	performances store.PerformanceStore,
	scheduler srs.Scheduler,
	masteries mastery.Updater,
	accountant xp.Accountant,
	log *slog.Logger,
) Service {
	if questions == nil {
		panic("questions cannot be nil")
	}
	if performances == nil {
		panic("performances cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if masteries == nil {
		panic("masteries cannot be nil")
	}
	if accountant == nil {
		panic("accountant cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		questions:    questions,
		performances: performances,
		scheduler:    scheduler,
		masteries:    masteries,
		accountant:   accountant,
		logger:       log.With(slog.String("component", "attempt_service")),
	}
}

// RecordAttempt implements Service.RecordAttempt.
func (s *serviceImpl) RecordAttempt(ctx context.Context, input RecordInput) (*RecordResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.UserID == uuid.Nil || input.QuestionID == uuid.Nil {
		return nil, NewRecordAttemptError("missing identifiers", ErrInvalidInput)
	}
	if input.Score < 0 || input.Score > 100 {
		return nil, NewRecordAttemptError(
			fmt.Sprintf("score %d out of range", input.Score), ErrInvalidInput)
	}

	question, err := s.questions.GetQuestion(ctx, input.QuestionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, NewRecordAttemptError("question not found", ErrQuestionNotFound)
		}
		return nil, NewRecordAttemptError("failed to load question", err)
	}

	isCorrect := input.Score >= correctScoreThreshold

	schedule, err := s.scheduler.CalculateQuestionState(ctx, input.UserID, input.QuestionID, srs.AttemptSignal{
		Correct: isCorrect,
		TimeMs:  input.TimeToCompleteMs,
		Score:   input.Score,
	})
	if err != nil {
		return nil, NewRecordAttemptError("failed to compute schedule", err)
	}

	perf, err := domain.NewUserQuestionPerformance(input.UserID, input.QuestionID, input.Score, *schedule)
	if err != nil {
		return nil, NewRecordAttemptError("invalid performance row", err)
	}
	perf.TimeToCompleteMs = input.TimeToCompleteMs
	perf.PercentageAccuracy = input.PercentageAccuracy
	if input.Attempts > 0 {
		perf.Attempts = input.Attempts
	}

	// The one critical write. Everything after this is best-effort.
	if err := s.performances.Create(ctx, perf); err != nil {
		return nil, NewRecordAttemptError("failed to store performance", err)
	}

	s.updateMastery(ctx, log, question, input.UserID, isCorrect)

	result := &RecordResult{Performance: perf}
	service.BestEffort(ctx, log, "award_xp", func(ctx context.Context) error {
		awarded, err := s.accountant.Award(ctx, input.UserID, xp.EventInput{
			Type:    xp.EventTypeAttempt,
			Correct: isCorrect,
			TimeMs:  input.TimeToCompleteMs,
		})
		if err != nil {
			return err
		}
		result.AwardedXp = awarded
		return nil
	})

	log.Debug("attempt recorded",
		slog.String("user_id", input.UserID.String()),
		slog.String("question_id", input.QuestionID.String()),
		slog.Int("score", input.Score),
		slog.Bool("is_correct", isCorrect),
		slog.Int("awarded_xp", result.AwardedXp))

	return result, nil
}

// updateMastery applies the attempt's evidence to every skill the
// question exercises. Each tag is its own best-effort unit so one
// failing update cannot starve the rest. Skills still below the weak
// threshold after the update are logged for the practice planner.
func (s *serviceImpl) updateMastery(
	ctx context.Context,
	log *slog.Logger,
	question *domain.Question,
	userID uuid.UUID,
	isCorrect bool,
) {
	var weak []string
	for _, tag := range CombineSkillTags(question) {
		tag := tag
		service.BestEffort(ctx, log, "update_mastery", func(ctx context.Context) error {
			prob, err := s.masteries.UpdateMastery(ctx, userID, tag, isCorrect)
			if err != nil {
				return fmt.Errorf("skill %q: %w", tag, err)
			}
			if prob < weakSkillThreshold {
				weak = append(weak, tag)
			}
			return nil
		})
	}

	if len(weak) > 0 {
		log.Info("weak skills after attempt",
			slog.String("user_id", userID.String()),
			slog.Any("skills", weak))
	}
}

// GetDueReviews implements Service.GetDueReviews.
func (s *serviceImpl) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.UserQuestionPerformance, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.performances.GetDueReviews(ctx, userID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reviews: %w", err)
	}
	return rows, nil
}
