package domain

import (
	"time"

	"github.com/google/uuid"
)

// Delivery-method score deltas applied after each attempt.
const (
	MethodScoreCorrectDelta   = 0.1
	MethodScoreIncorrectDelta = -0.05
)

// UserDeliveryMethodScore tracks how well a user performs under one
// delivery method. One row per (user, method); the value is adjusted by
// a signed delta after each attempt and always clamped to [0, 1]
// regardless of delta history.
type UserDeliveryMethodScore struct {
	UserID    uuid.UUID      `json:"user_id"`
	Method    DeliveryMethod `json:"method"`
	Score     float64        `json:"score"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ApplyDelta adjusts the score by delta, clamping the result to [0, 1].
func (s *UserDeliveryMethodScore) ApplyDelta(delta float64) {
	s.Score = ClampMethodScore(s.Score + delta)
	s.UpdatedAt = time.Now().UTC()
}

// ClampMethodScore bounds a delivery-method score to [0, 1].
func ClampMethodScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
