package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/service"
	"github.com/parlato/parlato-api/internal/store"
)

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

// Languages identifies the language pair the catalog teaches.
// Grammar checks run in the user's own language for translation-style
// answers and in the learning language otherwise.
type Languages struct {
	UserCode     string // e.g. "en"
	LearningCode string // e.g. "it"
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	questions    store.QuestionStore
	prefs        store.PreferenceStore
	methodScores store.MethodScoreStore
	grammar      GrammarChecker
	pronunciation PronunciationAssessor
	languages    Languages
	logger       *slog.Logger
}

// NewService creates a new validation Service implementation.
// The grammar checker and pronunciation assessor may be nil, in which
// case those signals are simply never produced.
func NewService(
	questions store.QuestionStore,
	prefs store.PreferenceStore,
	methodScores store.MethodScoreStore,
	grammar GrammarChecker,
	pronunciation PronunciationAssessor,
	languages Languages,
	log *slog.Logger,
) Service {
	if questions == nil {
		panic("questions store cannot be nil")
	}
	if prefs == nil {
		panic("preference store cannot be nil")
	}
	if methodScores == nil {
		panic("method score store cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &serviceImpl{
		questions:     questions,
		prefs:         prefs,
		methodScores:  methodScores,
		grammar:       grammar,
		pronunciation: pronunciation,
		languages:     languages,
		logger:        log.With(slog.String("component", "answer_service")),
	}
}

// ValidateAnswer implements Service.ValidateAnswer.
func (s *serviceImpl) ValidateAnswer(
	ctx context.Context,
	userID, questionID uuid.UUID,
	rawAnswer string,
	method domain.DeliveryMethod,
) (*ValidationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !method.Valid() || method == domain.DeliveryMethodPronunciation {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotSupported, method)
	}

	question, variant, err := s.loadQuestion(ctx, questionID, method)
	if err != nil {
		return nil, err
	}

	verdict, err := Validate(method, variant, question.Teaching, rawAnswer)
	if err != nil {
		log.Warn("validation dispatch failed",
			slog.String("question_id", questionID.String()),
			slog.String("method", string(method)),
			slog.String("error", err.Error()))
		return nil, err
	}

	result := &ValidationResult{
		IsCorrect:      verdict.IsCorrect(method),
		MeaningCorrect: verdict.MeaningCorrect,
		Score:          scoreForVerdict(verdict, method),
	}

	fb := RenderFeedback(s.feedbackDepth(ctx, userID), verdict, method, variant, question.Teaching)
	result.Feedback = fb.Text
	result.FeedbackWhy = fb.Why
	result.NaturalPhrasing = fb.NaturalPhrasing
	result.AcceptedVariants = fb.AcceptedVariants

	// Grammar is supplementary quality feedback, never a pass/fail
	// factor, so it is only fetched for answers already judged correct
	// or meaning-correct.
	if method.FreeText() && (result.IsCorrect || result.MeaningCorrect) {
		if grammarScore := s.checkGrammar(ctx, rawAnswer, method); grammarScore != nil {
			result.GrammaticalCorrectness = grammarScore
		}
	}

	s.adjustMethodScore(ctx, userID, method, result.IsCorrect)

	log.Debug("answer validated",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.String("method", string(method)),
		slog.Bool("is_correct", result.IsCorrect),
		slog.Bool("meaning_correct", result.MeaningCorrect))

	return result, nil
}

// ValidatePronunciation implements Service.ValidatePronunciation.
func (s *serviceImpl) ValidatePronunciation(
	ctx context.Context,
	userID, questionID uuid.UUID,
	audioBase64, audioFormat string,
) (*PronunciationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.pronunciation == nil {
		return nil, ErrAssessmentUnavailable
	}

	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, NewValidatePronunciationError("failed to load question", err)
	}

	// Expected text comes from the pronunciation variant when one
	// exists, otherwise from the teaching's learning-language phrase.
	referenceText := ""
	variant, err := s.questions.GetVariant(ctx, questionID, domain.DeliveryMethodPronunciation)
	switch {
	case err == nil:
		referenceText = variant.Answer
		if referenceText == "" {
			referenceText = variant.Prompt
		}
	case errors.Is(err, store.ErrVariantNotFound):
		// fall through to teaching
	default:
		return nil, NewValidatePronunciationError("failed to load variant", err)
	}
	if referenceText == "" && question.Teaching != nil {
		referenceText = question.Teaching.LearningLanguageString
	}
	if referenceText == "" {
		return nil, fmt.Errorf("%w: no reference text for pronunciation", ErrMethodNotSupported)
	}

	assessment, err := s.pronunciation.Assess(ctx, PronunciationRequest{
		AudioBase64:   audioBase64,
		AudioFormat:   audioFormat,
		ReferenceText: referenceText,
		Locale:        s.languages.LearningCode,
	})
	if err != nil {
		log.Error("pronunciation assessment failed",
			slog.String("question_id", questionID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrAssessmentUnavailable, err)
	}

	result := &PronunciationResult{
		OverallScore:  int(assessment.PronunciationScore),
		IsCorrect:     assessment.PronunciationScore >= 80,
		Transcription: assessment.RecognizedText,
		Words:         make([]WordFeedback, 0, len(assessment.Words)),
	}
	for _, w := range assessment.Words {
		feedback := "could_improve"
		if w.Accuracy >= 80 {
			feedback = "perfect"
		}
		result.Words = append(result.Words, WordFeedback{
			Word:     w.Word,
			Accuracy: int(w.Accuracy),
			Feedback: feedback,
		})
	}

	s.adjustMethodScore(ctx, userID, domain.DeliveryMethodPronunciation, result.IsCorrect)

	log.Debug("pronunciation validated",
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()),
		slog.Int("overall_score", result.OverallScore),
		slog.Bool("is_correct", result.IsCorrect))

	return result, nil
}

// loadQuestion fetches the question with relations plus the variant for
// the requested method, mapping store errors to service errors.
func (s *serviceImpl) loadQuestion(
	ctx context.Context,
	questionID uuid.UUID,
	method domain.DeliveryMethod,
) (*domain.Question, *domain.QuestionVariant, error) {
	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, store.ErrQuestionNotFound) {
			return nil, nil, ErrQuestionNotFound
		}
		return nil, nil, NewValidateAnswerError("failed to load question", err)
	}

	variant, err := s.questions.GetVariant(ctx, questionID, method)
	if err != nil {
		if errors.Is(err, store.ErrVariantNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMethodNotSupported, method)
		}
		return nil, nil, NewValidateAnswerError("failed to load variant", err)
	}

	return question, variant, nil
}

// feedbackDepth loads the user's verbosity preference, defaulting when
// none is stored or the lookup fails.
func (s *serviceImpl) feedbackDepth(ctx context.Context, userID uuid.UUID) float64 {
	depth, err := s.prefs.GetFeedbackDepth(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrPreferenceNotFound) {
			s.logger.Warn("failed to load feedback depth, using default",
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
		}
		return DefaultFeedbackDepth
	}
	return depth
}

// checkGrammar runs the external grammar check, bounding cost and
// treating every failure as indeterminate.
func (s *serviceImpl) checkGrammar(
	ctx context.Context,
	rawAnswer string,
	method domain.DeliveryMethod,
) *int {
	trimmed := strings.TrimSpace(rawAnswer)

	// Oversized text is automatically perfect rather than shipped to
	// the external service. The bound counts characters, not bytes.
	if utf8.RuneCountInString(trimmed) > maxGrammarCheckChars {
		score := 100
		return &score
	}

	if s.grammar == nil || trimmed == "" {
		return nil
	}

	languageCode := s.languages.LearningCode
	if method.AllowsMeaningMatch() {
		languageCode = s.languages.UserCode
	}

	result, err := s.grammar.CheckGrammar(ctx, trimmed, languageCode)
	if err != nil || result == nil {
		// Indeterminate: omit the signal entirely.
		if err != nil {
			s.logger.Debug("grammar check indeterminate",
				slog.String("error", err.Error()))
		}
		return nil
	}

	score := result.Score
	return &score
}

// adjustMethodScore applies the post-attempt delivery-method score
// delta as a best-effort side effect.
func (s *serviceImpl) adjustMethodScore(
	ctx context.Context,
	userID uuid.UUID,
	method domain.DeliveryMethod,
	correct bool,
) {
	service.BestEffort(ctx, s.logger, "adjust_method_score", func(ctx context.Context) error {
		delta := domain.MethodScoreIncorrectDelta
		if correct {
			delta = domain.MethodScoreCorrectDelta
		}

		score, err := s.methodScores.Get(ctx, userID, method)
		if err != nil {
			if !errors.Is(err, store.ErrMethodScoreNotFound) {
				return err
			}
			score = &domain.UserDeliveryMethodScore{UserID: userID, Method: method}
		}

		score.ApplyDelta(delta)
		return s.methodScores.Upsert(ctx, score)
	})
}

// scoreForVerdict maps a verdict to the 0-100 score reported to the
// caller: exact answers earn full marks, meaning-correct answers most
// of them.
func scoreForVerdict(verdict Verdict, method domain.DeliveryMethod) int {
	switch {
	case verdict.Exact:
		return 100
	case verdict.MeaningCorrect && method.AllowsMeaningMatch():
		return 85
	default:
		return 0
	}
}
