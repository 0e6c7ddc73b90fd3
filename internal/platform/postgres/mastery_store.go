package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// PostgresMasteryStore implements the store.MasteryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresMasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryStore creates a new PostgreSQL implementation of
// the MasteryStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresMasteryStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

// Ensure PostgresMasteryStore implements store.MasteryStore interface
var _ store.MasteryStore = (*PostgresMasteryStore)(nil)

// GetMastery implements store.MasteryStore.GetMastery
// Returns store.ErrMasteryNotFound when the user has never practiced
// the skill.
func (s *PostgresMasteryStore) GetMastery(
	ctx context.Context,
	userID uuid.UUID,
	skillTag string,
) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT probability
		FROM user_skill_mastery
		WHERE user_id = $1 AND skill_tag = $2
	`

	var probability float64
	err := s.db.QueryRowContext(ctx, query, userID, skillTag).Scan(&probability)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrMasteryNotFound
		}
		log.Error("failed to get skill mastery",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("skill_tag", skillTag))
		return 0, MapError(err)
	}

	return probability, nil
}

// UpsertMastery implements store.MasteryStore.UpsertMastery
func (s *PostgresMasteryStore) UpsertMastery(
	ctx context.Context,
	userID uuid.UUID,
	skillTag string,
	probability float64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_skill_mastery (user_id, skill_tag, probability, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, skill_tag)
		DO UPDATE SET probability = EXCLUDED.probability, updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query, userID, skillTag, probability)
	if err != nil {
		log.Error("failed to upsert skill mastery",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("skill_tag", skillTag))
		return MapError(err)
	}

	return nil
}
