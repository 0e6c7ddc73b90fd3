package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// ValidationResult is the engine's verdict for one submitted answer.
// GrammaticalCorrectness is nil when the grammar check was skipped,
// indeterminate, or withheld because the answer was wrong.
type ValidationResult struct {
	IsCorrect              bool     `json:"is_correct"`
	Score                  int      `json:"score"`
	MeaningCorrect         bool     `json:"meaning_correct,omitempty"`
	Feedback               string   `json:"feedback,omitempty"`
	FeedbackWhy            string   `json:"feedback_why,omitempty"`
	GrammaticalCorrectness *int     `json:"grammatical_correctness,omitempty"`
	NaturalPhrasing        string   `json:"natural_phrasing,omitempty"`
	AcceptedVariants       []string `json:"accepted_variants,omitempty"`
}

// WordFeedback is the per-word outcome of a pronunciation validation.
type WordFeedback struct {
	Word     string `json:"word"`
	Accuracy int    `json:"accuracy"`
	Feedback string `json:"feedback"` // "perfect" or "could_improve"
}

// PronunciationResult is the engine's verdict for one pronunciation
// attempt.
type PronunciationResult struct {
	IsCorrect     bool           `json:"is_correct"`
	OverallScore  int            `json:"overall_score"`
	Transcription string         `json:"transcription"`
	Words         []WordFeedback `json:"words"`
}

// Service validates submitted answers against the content catalog.
type Service interface {
	// ValidateAnswer decides whether a submitted free-text or
	// multiple-choice answer is correct for the question's variant of
	// the given delivery method, and assembles feedback per the user's
	// verbosity preference.
	//
	// Returns ErrQuestionNotFound when the question does not exist and
	// ErrMethodNotSupported when the question has no variant for the
	// method (or the MCQ variant lacks a correct option id).
	ValidateAnswer(
		ctx context.Context,
		userID, questionID uuid.UUID,
		rawAnswer string,
		method domain.DeliveryMethod,
	) (*ValidationResult, error)

	// ValidatePronunciation scores a spoken attempt against the
	// question's expected text using the external pronunciation
	// assessor. Correct means an overall score of at least 80.
	ValidatePronunciation(
		ctx context.Context,
		userID, questionID uuid.UUID,
		audioBase64, audioFormat string,
	) (*PronunciationResult, error)
}

// Common error types for the validation service
var (
	// ErrQuestionNotFound indicates that the question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrMethodNotSupported indicates that the question has no variant
	// for the requested delivery method, or that the variant is missing
	// data the method requires.
	ErrMethodNotSupported = errors.New("delivery method not supported for this question")

	// ErrAssessmentUnavailable indicates that the pronunciation assessor
	// could not score the attempt.
	ErrAssessmentUnavailable = errors.New("pronunciation assessment unavailable")
)

// ServiceError wraps errors from the validation service with
// additional context, so consumers can differentiate failures with
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "validate_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
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

// NewValidateAnswerError returns a new ServiceError for the validate_answer operation.
func NewValidateAnswerError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "validate_answer", Message: message, Err: err}
}

// NewValidatePronunciationError returns a new ServiceError for the validate_pronunciation operation.
func NewValidatePronunciationError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "validate_pronunciation", Message: message, Err: err}
}
