package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
)

// QuestionStore defines the read-only catalog access the engine needs.
// Question, Teaching, and QuestionVariant rows are authored elsewhere;
// this engine never writes them.
type QuestionStore interface {
	// GetQuestion retrieves a question with its owning teaching and both
	// question-level and teaching-level skill tags loaded.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// GetVariant retrieves the variant of a question for one delivery
	// method. Returns ErrVariantNotFound if the question has no variant
	// for that method.
	GetVariant(
		ctx context.Context,
		questionID uuid.UUID,
		method domain.DeliveryMethod,
	) (*domain.QuestionVariant, error)
}
