package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Question-specific validation errors
var (
	// ErrQuestionIDEmpty is returned when a question ID is empty or nil.
	ErrQuestionIDEmpty = errors.New("question ID cannot be empty")

	// ErrQuestionTeachingEmpty is returned when a question has no owning teaching.
	ErrQuestionTeachingEmpty = errors.New("question teaching ID cannot be empty")
)

// SkillTag names a skill dimension tracked by the mastery estimator.
// Tags may attach to a question, to its teaching, or to both; the
// attempt recorder deduplicates them by name before mastery updates.
type SkillTag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Question identifies one assessable item. It has exactly one owning
// Teaching and zero or more delivery-method variants. Questions are
// created by content authoring and are read-only to this engine.
type Question struct {
	ID         uuid.UUID  `json:"id"`
	TeachingID uuid.UUID  `json:"teaching_id"`
	LessonID   uuid.UUID  `json:"lesson_id"`
	SkillTags  []SkillTag `json:"skill_tags,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// Teaching is the owning teaching, populated by stores that load
	// the question with its relations.
	Teaching *Teaching `json:"teaching,omitempty"`
}

// Validate checks if the Question has valid data.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuestionIDEmpty
	}
	if q.TeachingID == uuid.Nil {
		return ErrQuestionTeachingEmpty
	}
	return nil
}
