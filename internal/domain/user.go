package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal account shape this engine needs: an identity and
// the denormalized knowledge-point total. Account management lives in a
// separate service; the engine only ever increments KnowledgePoints,
// and only inside the same transaction as the matching XpEvent insert.
type User struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	KnowledgePoints int       `json:"knowledge_points"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
