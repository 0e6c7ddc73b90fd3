package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Teaching-specific validation errors
var (
	// ErrTeachingIDEmpty is returned when a teaching ID is empty or nil.
	ErrTeachingIDEmpty = errors.New("teaching ID cannot be empty")

	// ErrTeachingPhrasesEmpty is returned when a teaching is missing
	// either side of its phrase pair.
	ErrTeachingPhrasesEmpty = errors.New("teaching phrase pair cannot be empty")
)

// Teaching is the canonical source-phrase / target-phrase pair
// underlying one or more questions. Its phrases serve as the comparison
// fallback when a variant lacks an explicit answer, and its tip feeds
// high-verbosity feedback.
type Teaching struct {
	ID                     uuid.UUID  `json:"id"`
	UserLanguageString     string     `json:"user_language_string"`
	LearningLanguageString string     `json:"learning_language_string"`
	Tip                    string     `json:"tip,omitempty"`
	SkillTags              []SkillTag `json:"skill_tags,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// Validate checks if the Teaching has valid data.
func (t *Teaching) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTeachingIDEmpty
	}
	if t.UserLanguageString == "" || t.LearningLanguageString == "" {
		return ErrTeachingPhrasesEmpty
	}
	return nil
}
