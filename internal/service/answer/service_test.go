package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/store"
)

// fakeQuestionStore serves one question with its variants by method.
type fakeQuestionStore struct {
	question *domain.Question
	variants map[domain.DeliveryMethod]*domain.QuestionVariant
}

func (f *fakeQuestionStore) GetQuestion(_ context.Context, id uuid.UUID) (*domain.Question, error) {
	if f.question == nil || f.question.ID != id {
		return nil, store.ErrQuestionNotFound
	}
	return f.question, nil
}

func (f *fakeQuestionStore) GetVariant(
	_ context.Context,
	questionID uuid.UUID,
	method domain.DeliveryMethod,
) (*domain.QuestionVariant, error) {
	if f.question == nil || f.question.ID != questionID {
		return nil, store.ErrQuestionNotFound
	}
	variant, ok := f.variants[method]
	if !ok {
		return nil, store.ErrVariantNotFound
	}
	return variant, nil
}

type fakePreferenceStore struct {
	depth float64
	err   error
}

func (f *fakePreferenceStore) GetFeedbackDepth(context.Context, uuid.UUID) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.depth, nil
}

type fakeMethodScoreStore struct {
	scores map[domain.DeliveryMethod]float64
}

func (f *fakeMethodScoreStore) Get(
	_ context.Context,
	userID uuid.UUID,
	method domain.DeliveryMethod,
) (*domain.UserDeliveryMethodScore, error) {
	score, ok := f.scores[method]
	if !ok {
		return nil, store.ErrMethodScoreNotFound
	}
	return &domain.UserDeliveryMethodScore{UserID: userID, Method: method, Score: score}, nil
}

func (f *fakeMethodScoreStore) Upsert(_ context.Context, score *domain.UserDeliveryMethodScore) error {
	if f.scores == nil {
		f.scores = make(map[domain.DeliveryMethod]float64)
	}
	f.scores[score.Method] = score.Score
	return nil
}

type fakeGrammarChecker struct {
	result *GrammarResult
	err    error
	calls  int
}

func (f *fakeGrammarChecker) CheckGrammar(context.Context, string, string) (*GrammarResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeAssessor struct {
	assessment *PronunciationAssessment
	err        error
	lastReq    PronunciationRequest
}

func (f *fakeAssessor) Assess(_ context.Context, req PronunciationRequest) (*PronunciationAssessment, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.assessment, nil
}

func newTestQuestion() (*domain.Question, *fakeQuestionStore) {
	teaching := &domain.Teaching{
		ID:                     uuid.New(),
		UserLanguageString:     "Hi",
		LearningLanguageString: "Ciao",
		Tip:                    "Use ciao with friends.",
	}
	question := &domain.Question{
		ID:         uuid.New(),
		TeachingID: teaching.ID,
		Teaching:   teaching,
		CreatedAt:  time.Now().UTC(),
	}
	qs := &fakeQuestionStore{
		question: question,
		variants: map[domain.DeliveryMethod]*domain.QuestionVariant{
			domain.DeliveryMethodTextTranslation: {
				ID:           uuid.New(),
				QuestionID:   question.ID,
				Method:       domain.DeliveryMethodTextTranslation,
				Prompt:       "Translate: Ciao",
				Answer:       "Hi / Hello",
				Alternatives: "Hey",
			},
			domain.DeliveryMethodMultipleChoice: {
				ID:              uuid.New(),
				QuestionID:      question.ID,
				Method:          domain.DeliveryMethodMultipleChoice,
				Prompt:          "What does ciao mean?",
				CorrectOptionID: "opt_a",
			},
		},
	}
	return question, qs
}

func newTestService(
	qs *fakeQuestionStore,
	grammar GrammarChecker,
	assessor PronunciationAssessor,
) Service {
	return NewService(
		qs,
		&fakePreferenceStore{err: store.ErrPreferenceNotFound},
		&fakeMethodScoreStore{},
		grammar,
		assessor,
		Languages{UserCode: "en", LearningCode: "it"},
		nil,
	)
}

func TestValidateAnswerExactMatch(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	grammar := &fakeGrammarChecker{result: &GrammarResult{Score: 100}}
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "hello", domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.False(t, result.MeaningCorrect)
	assert.Equal(t, 100, result.Score)
	require.NotNil(t, result.GrammaticalCorrectness)
	assert.Equal(t, 100, *result.GrammaticalCorrectness)
	assert.Equal(t, []string{"Hi"}, result.AcceptedVariants)
}

func TestValidateAnswerMeaningCorrect(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	svc := newTestService(qs, nil, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "hey", domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.True(t, result.MeaningCorrect)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, "Hi", result.NaturalPhrasing)
	assert.Equal(t, "More natural phrasing: Hi", result.Feedback)
}

func TestValidateAnswerIncorrectSkipsGrammar(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	grammar := &fakeGrammarChecker{result: &GrammarResult{Score: 100}}
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "goodbye", domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score)
	assert.Nil(t, result.GrammaticalCorrectness)
	assert.Zero(t, grammar.calls, "grammar must not run for wrong answers")
}

func TestValidateAnswerMultipleChoiceSkipsGrammar(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	grammar := &fakeGrammarChecker{result: &GrammarResult{Score: 100}}
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "opt_a", domain.DeliveryMethodMultipleChoice)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Nil(t, result.GrammaticalCorrectness)
	assert.Zero(t, grammar.calls, "grammar only applies to free-text methods")
}

func TestValidateAnswerIndeterminateGrammarOmitsSignal(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	grammar := &fakeGrammarChecker{result: nil, err: nil} // indeterminate
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "hi", domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Nil(t, result.GrammaticalCorrectness)
	assert.Equal(t, 1, grammar.calls)
}

func TestValidateAnswerOversizedTextGetsPerfectGrammar(t *testing.T) {
	t.Parallel()

	longAnswer := strings.Repeat("è", maxGrammarCheckChars+1)
	question, qs := newTestQuestion()
	qs.variants[domain.DeliveryMethodTextTranslation].Answer = longAnswer
	grammar := &fakeGrammarChecker{result: &GrammarResult{Score: 40}}
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, longAnswer, domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	require.NotNil(t, result.GrammaticalCorrectness)
	assert.Equal(t, 100, *result.GrammaticalCorrectness)
	assert.Zero(t, grammar.calls, "oversized text must not reach the checker")
}

func TestValidateAnswerGrammarBoundCountsCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// 15000 two-byte characters: over the bound in bytes, under it in
	// characters, so the checker must still run.
	longAnswer := strings.Repeat("è", 15000)
	question, qs := newTestQuestion()
	qs.variants[domain.DeliveryMethodTextTranslation].Answer = longAnswer
	grammar := &fakeGrammarChecker{result: &GrammarResult{Score: 70}}
	svc := newTestService(qs, grammar, nil)

	result, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, longAnswer, domain.DeliveryMethodTextTranslation)
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 1, grammar.calls)
	require.NotNil(t, result.GrammaticalCorrectness)
	assert.Equal(t, 70, *result.GrammaticalCorrectness)
}

func TestValidateAnswerUnknownQuestion(t *testing.T) {
	t.Parallel()

	_, qs := newTestQuestion()
	svc := newTestService(qs, nil, nil)

	_, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), uuid.New(), "hi", domain.DeliveryMethodTextTranslation)
	assert.ErrorIs(t, err, ErrQuestionNotFound)
}

func TestValidateAnswerMissingVariant(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	svc := newTestService(qs, nil, nil)

	_, err := svc.ValidateAnswer(
		context.Background(), uuid.New(), question.ID, "ciao", domain.DeliveryMethodDictation)
	assert.ErrorIs(t, err, ErrMethodNotSupported)
}

func TestValidatePronunciation(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	assessor := &fakeAssessor{
		assessment: &PronunciationAssessment{
			RecognizedText:     "ciao",
			PronunciationScore: 91,
			Words: []WordScore{
				{Word: "ciao", Accuracy: 91},
			},
		},
	}
	svc := newTestService(qs, nil, assessor)

	result, err := svc.ValidatePronunciation(
		context.Background(), uuid.New(), question.ID, "YXVkaW8=", "wav")
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, 91, result.OverallScore)
	assert.Equal(t, "ciao", result.Transcription)
	require.Len(t, result.Words, 1)
	assert.Equal(t, "perfect", result.Words[0].Feedback)

	// Reference text falls back to the teaching phrase when no
	// pronunciation variant exists, in the learning language.
	assert.Equal(t, "Ciao", assessor.lastReq.ReferenceText)
	assert.Equal(t, "it", assessor.lastReq.Locale)
}

func TestValidatePronunciationBelowThreshold(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()
	assessor := &fakeAssessor{
		assessment: &PronunciationAssessment{
			RecognizedText:     "chow",
			PronunciationScore: 62,
			Words: []WordScore{
				{Word: "ciao", Accuracy: 62},
			},
		},
	}
	svc := newTestService(qs, nil, assessor)

	result, err := svc.ValidatePronunciation(
		context.Background(), uuid.New(), question.ID, "YXVkaW8=", "wav")
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, "could_improve", result.Words[0].Feedback)
}

func TestValidatePronunciationUnavailable(t *testing.T) {
	t.Parallel()

	question, qs := newTestQuestion()

	t.Run("no assessor wired", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(qs, nil, nil)
		_, err := svc.ValidatePronunciation(
			context.Background(), uuid.New(), question.ID, "YXVkaW8=", "wav")
		assert.ErrorIs(t, err, ErrAssessmentUnavailable)
	})

	t.Run("assessor failure", func(t *testing.T) {
		t.Parallel()
		assessor := &fakeAssessor{err: errors.New("recognize: unavailable")}
		svc := newTestService(qs, nil, assessor)
		_, err := svc.ValidatePronunciation(
			context.Background(), uuid.New(), question.ID, "YXVkaW8=", "wav")
		assert.ErrorIs(t, err, ErrAssessmentUnavailable)
	})
}
