package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// PostgresMethodScoreStore implements the store.MethodScoreStore
// interface using a PostgreSQL database as the storage backend.
type PostgresMethodScoreStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMethodScoreStore creates a new PostgreSQL implementation
// of the MethodScoreStore interface. If logger is nil, a default
// logger will be used.
func NewPostgresMethodScoreStore(db store.DBTX, logger *slog.Logger) *PostgresMethodScoreStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMethodScoreStore{
		db:     db,
		logger: logger.With(slog.String("component", "method_score_store")),
	}
}

// Ensure PostgresMethodScoreStore implements store.MethodScoreStore interface
var _ store.MethodScoreStore = (*PostgresMethodScoreStore)(nil)

// Get implements store.MethodScoreStore.Get
// Returns store.ErrMethodScoreNotFound if the user has no row for the
// delivery method yet.
func (s *PostgresMethodScoreStore) Get(
	ctx context.Context,
	userID uuid.UUID,
	method domain.DeliveryMethod,
) (*domain.UserDeliveryMethodScore, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, method, score, updated_at
		FROM user_delivery_method_scores
		WHERE user_id = $1 AND method = $2
	`

	var score domain.UserDeliveryMethodScore
	err := s.db.QueryRowContext(ctx, query, userID, string(method)).Scan(
		&score.UserID,
		&score.Method,
		&score.Score,
		&score.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMethodScoreNotFound
		}
		log.Error("failed to get delivery method score",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("method", string(method)))
		return nil, MapError(err)
	}

	return &score, nil
}

// Upsert implements store.MethodScoreStore.Upsert
func (s *PostgresMethodScoreStore) Upsert(
	ctx context.Context,
	score *domain.UserDeliveryMethodScore,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO user_delivery_method_scores (user_id, method, score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, method)
		DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		score.UserID,
		string(score.Method),
		score.Score,
		score.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to upsert delivery method score",
			slog.String("error", err.Error()),
			slog.String("user_id", score.UserID.String()),
			slog.String("method", string(score.Method)))
		return MapError(err)
	}

	log.Debug("delivery method score upserted",
		slog.String("user_id", score.UserID.String()),
		slog.String("method", string(score.Method)),
		slog.Float64("score", score.Score))
	return nil
}
