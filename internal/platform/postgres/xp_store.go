package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// PostgresXpStore implements the store.XpStore interface using a
// PostgreSQL database as the storage backend.
type PostgresXpStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresXpStore creates a new PostgreSQL implementation of the
// XpStore interface. If logger is nil, a default logger will be used.
func NewPostgresXpStore(db store.DBTX, logger *slog.Logger) *PostgresXpStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresXpStore{
		db:     db,
		logger: logger.With(slog.String("component", "xp_store")),
	}
}

// Ensure PostgresXpStore implements store.XpStore interface
var _ store.XpStore = (*PostgresXpStore)(nil)

// CreateEvent implements store.XpStore.CreateEvent
func (s *PostgresXpStore) CreateEvent(ctx context.Context, event *domain.XpEvent) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := event.Validate(); err != nil {
		log.Warn("xp event validation failed during create",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return err
	}

	query := `
		INSERT INTO xp_events (id, user_id, amount, reason, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.UserID,
		event.Amount,
		event.Reason,
		event.OccurredAt,
	)
	if err != nil {
		log.Error("failed to create xp event",
			slog.String("error", err.Error()),
			slog.String("user_id", event.UserID.String()))
		return MapError(err)
	}

	return nil
}

// IncrementKnowledgePoints implements store.XpStore.IncrementKnowledgePoints
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresXpStore) IncrementKnowledgePoints(
	ctx context.Context,
	userID uuid.UUID,
	amount int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET knowledge_points = knowledge_points + $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, userID, amount)
	if err != nil {
		log.Error("failed to increment knowledge points",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "user")
}

// SummarizeByDay implements store.XpStore.SummarizeByDay
// Aggregation happens in SQL on the UTC date of each event; days with
// no events simply produce no group.
func (s *PostgresXpStore) SummarizeByDay(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]domain.XpDaySummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT to_char(occurred_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(amount), 0),
		       COUNT(*)
		FROM xp_events
		WHERE user_id = $1 AND occurred_at >= $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		log.Error("failed to summarize xp events",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []domain.XpDaySummary
	for rows.Next() {
		var day domain.XpDaySummary
		if err := rows.Scan(&day.Date, &day.TotalXp, &day.EventCount); err != nil {
			return nil, MapError(err)
		}
		summaries = append(summaries, day)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return summaries, nil
}

// WithTx implements store.XpStore.WithTx
func (s *PostgresXpStore) WithTx(tx *sql.Tx) store.XpStore {
	return &PostgresXpStore{db: tx, logger: s.logger}
}
