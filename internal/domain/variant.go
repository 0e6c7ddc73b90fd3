package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Variant-specific validation errors
var (
	// ErrVariantIDEmpty is returned when a variant ID is empty or nil.
	ErrVariantIDEmpty = errors.New("question variant ID cannot be empty")

	// ErrVariantQuestionEmpty is returned when a variant has no owning question.
	ErrVariantQuestionEmpty = errors.New("question variant question ID cannot be empty")
)

// QuestionVariant holds the method-specific payload for one question:
// prompt text, canonical answer (possibly /-delimited alternatives),
// optional acceptable alternatives, explanation, hint, and for multiple
// choice the correct option identifier. Variants are keyed by
// (question ID, delivery method) and are read-only to this engine.
type QuestionVariant struct {
	ID              uuid.UUID      `json:"id"`
	QuestionID      uuid.UUID      `json:"question_id"`
	Method          DeliveryMethod `json:"method"`
	Prompt          string         `json:"prompt,omitempty"`
	Answer          string         `json:"answer,omitempty"`
	Alternatives    string         `json:"alternatives,omitempty"`
	Why             string         `json:"why,omitempty"`
	Hint            string         `json:"hint,omitempty"`
	CorrectOptionID string         `json:"correct_option_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Validate checks if the QuestionVariant has valid data.
func (v *QuestionVariant) Validate() error {
	if v.ID == uuid.Nil {
		return ErrVariantIDEmpty
	}
	if v.QuestionID == uuid.Nil {
		return ErrVariantQuestionEmpty
	}
	if !v.Method.Valid() {
		return ErrInvalidDeliveryMethod
	}
	return nil
}

// SplitAnswerForms splits a /-delimited canonical answer string into its
// individual forms with surrounding whitespace trimmed. Empty segments
// are dropped.
func SplitAnswerForms(answer string) []string {
	if answer == "" {
		return nil
	}
	parts := strings.Split(answer, "/")
	forms := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			forms = append(forms, trimmed)
		}
	}
	return forms
}
