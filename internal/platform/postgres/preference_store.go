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

// PostgresPreferenceStore implements the store.PreferenceStore
// interface using a PostgreSQL database as the storage backend.
type PostgresPreferenceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPreferenceStore creates a new PostgreSQL implementation of
// the PreferenceStore interface. If logger is nil, a default logger
// will be used.
func NewPostgresPreferenceStore(db store.DBTX, logger *slog.Logger) *PostgresPreferenceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPreferenceStore{
		db:     db,
		logger: logger.With(slog.String("component", "preference_store")),
	}
}

// Ensure PostgresPreferenceStore implements store.PreferenceStore interface
var _ store.PreferenceStore = (*PostgresPreferenceStore)(nil)

// GetFeedbackDepth implements store.PreferenceStore.GetFeedbackDepth
// Returns store.ErrPreferenceNotFound when the user has no stored
// preferences row.
func (s *PostgresPreferenceStore) GetFeedbackDepth(
	ctx context.Context,
	userID uuid.UUID,
) (float64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT feedback_depth
		FROM user_preferences
		WHERE user_id = $1
	`

	var depth float64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&depth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrPreferenceNotFound
		}
		log.Error("failed to get feedback depth",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return depth, nil
}
