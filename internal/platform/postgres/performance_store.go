package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// PostgresPerformanceStore implements the store.PerformanceStore
// interface using a PostgreSQL database as the storage backend.
type PostgresPerformanceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPerformanceStore creates a new PostgreSQL implementation
// of the PerformanceStore interface. It accepts a database connection
// or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPerformanceStore(db store.DBTX, logger *slog.Logger) *PostgresPerformanceStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPerformanceStore{
		db:     db,
		logger: logger.With(slog.String("component", "performance_store")),
	}
}

// Ensure PostgresPerformanceStore implements store.PerformanceStore interface
var _ store.PerformanceStore = (*PostgresPerformanceStore)(nil)

const performanceColumns = `
	id, user_id, question_id, score, time_to_complete_ms,
	percentage_accuracy, attempts, next_review_due, interval_days,
	stability, difficulty, repetitions, ease_factor, created_at
`

// Create implements store.PerformanceStore.Create
// It inserts a new, immutable performance row. Existing rows for the
// same user and question are never touched.
func (s *PostgresPerformanceStore) Create(
	ctx context.Context,
	perf *domain.UserQuestionPerformance,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := perf.Validate(); err != nil {
		log.Warn("performance validation failed during create",
			slog.String("error", err.Error()),
			slog.String("performance_id", perf.ID.String()))
		return err
	}

	query := `
		INSERT INTO user_question_performance (` + performanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		perf.ID,
		perf.UserID,
		perf.QuestionID,
		perf.Score,
		perf.TimeToCompleteMs,
		perf.PercentageAccuracy,
		perf.Attempts,
		perf.Schedule.NextReviewDue,
		perf.Schedule.IntervalDays,
		perf.Schedule.Stability,
		perf.Schedule.Difficulty,
		perf.Schedule.Repetitions,
		perf.Schedule.EaseFactor,
		perf.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create performance row",
			slog.String("error", err.Error()),
			slog.String("user_id", perf.UserID.String()),
			slog.String("question_id", perf.QuestionID.String()))
		return MapError(err)
	}

	log.Debug("performance row created",
		slog.String("performance_id", perf.ID.String()),
		slog.String("question_id", perf.QuestionID.String()),
		slog.Int("score", perf.Score))
	return nil
}

// GetLatest implements store.PerformanceStore.GetLatest
// The most recent row by created_at wins; ties from concurrent attempts
// are broken by id so the result is stable.
func (s *PostgresPerformanceStore) GetLatest(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.UserQuestionPerformance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + performanceColumns + `
		FROM user_question_performance
		WHERE user_id = $1 AND question_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	perf, err := scanPerformance(s.db.QueryRowContext(ctx, query, userID, questionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPerformanceNotFound
		}
		log.Error("failed to get latest performance row",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, MapError(err)
	}

	return perf, nil
}

// GetDueReviews implements store.PerformanceStore.GetDueReviews
// DISTINCT ON resolves the latest-row-wins contract in one place
// instead of ad hoc dedup at call sites.
func (s *PostgresPerformanceStore) GetDueReviews(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.UserQuestionPerformance, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + performanceColumns + ` FROM (
			SELECT DISTINCT ON (question_id) ` + performanceColumns + `
			FROM user_question_performance
			WHERE user_id = $1
			ORDER BY question_id, created_at DESC, id DESC
		) latest
		WHERE next_review_due <= $2
		ORDER BY next_review_due ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to query due reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var due []*domain.UserQuestionPerformance
	for rows.Next() {
		perf, err := scanPerformance(rows)
		if err != nil {
			return nil, MapError(err)
		}
		due = append(due, perf)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("due reviews retrieved",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// WithTx implements store.PerformanceStore.WithTx
func (s *PostgresPerformanceStore) WithTx(tx *sql.Tx) store.PerformanceStore {
	return &PostgresPerformanceStore{db: tx, logger: s.logger}
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerformance(row rowScanner) (*domain.UserQuestionPerformance, error) {
	var perf domain.UserQuestionPerformance
	err := row.Scan(
		&perf.ID,
		&perf.UserID,
		&perf.QuestionID,
		&perf.Score,
		&perf.TimeToCompleteMs,
		&perf.PercentageAccuracy,
		&perf.Attempts,
		&perf.Schedule.NextReviewDue,
		&perf.Schedule.IntervalDays,
		&perf.Schedule.Stability,
		&perf.Schedule.Difficulty,
		&perf.Schedule.Repetitions,
		&perf.Schedule.EaseFactor,
		&perf.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &perf, nil
}
