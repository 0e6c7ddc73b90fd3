package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/postgres"
	"github.com/parlato/parlato-api/internal/store"
	"github.com/parlato/parlato-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeout = 5 * time.Second

// testDB is shared by all database-backed tests in this package. It
// stays nil when no test database is configured; those tests then skip
// while the in-memory tests in the package still run.
var testDB *sql.DB

func TestMain(m *testing.M) {
	if testdb.IsIntegrationTestEnvironment() {
		var err error
		testDB, err = sql.Open("pgx", testdb.DatabaseURL())
		if err != nil {
			fmt.Printf("failed to open database connection: %v\n", err)
			os.Exit(1)
		}

		testDB.SetMaxOpenConns(5)
		testDB.SetMaxIdleConns(5)
		testDB.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		if err := testDB.PingContext(ctx); err != nil {
			cancel()
			fmt.Printf("failed to ping database: %v\n", err)
			os.Exit(1)
		}

		if err := postgres.Migrate(ctx, testDB, nil); err != nil {
			cancel()
			fmt.Printf("failed to migrate test database: %v\n", err)
			os.Exit(1)
		}
		cancel()
	}

	exitCode := m.Run()

	if testDB != nil {
		if err := testDB.Close(); err != nil {
			fmt.Printf("failed to close database connection: %v\n", err)
		}
	}

	os.Exit(exitCode)
}

func requireTestDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("no test database configured, set PARLATO_DATABASE_URL or DATABASE_URL")
	}
}

func seedUser(ctx context.Context, t *testing.T, tx *sql.Tx) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email)
		VALUES ($1, $2)
	`, id, fmt.Sprintf("db-test-%s@example.com", id.String()[:8]))
	require.NoError(t, err, "failed to insert test user")
	return id
}

func seedQuestion(ctx context.Context, t *testing.T, tx *sql.Tx) uuid.UUID {
	t.Helper()

	teachingID := uuid.New()
	_, err := tx.ExecContext(ctx, `
		INSERT INTO teachings (id, user_language_string, learning_language_string)
		VALUES ($1, 'the book', 'il libro')
	`, teachingID)
	require.NoError(t, err, "failed to insert test teaching")

	questionID := uuid.New()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO questions (id, teaching_id, lesson_id)
		VALUES ($1, $2, $3)
	`, questionID, teachingID, uuid.New())
	require.NoError(t, err, "failed to insert test question")
	return questionID
}

func seedPerformance(
	ctx context.Context,
	t *testing.T,
	perfStore store.PerformanceStore,
	userID, questionID uuid.UUID,
	score int,
	createdAt, nextReviewDue time.Time,
) *domain.UserQuestionPerformance {
	t.Helper()

	perf := &domain.UserQuestionPerformance{
		ID:         uuid.New(),
		UserID:     userID,
		QuestionID: questionID,
		Score:      score,
		Attempts:   1,
		Schedule: domain.ScheduleState{
			NextReviewDue: nextReviewDue,
			IntervalDays:  1,
			Repetitions:   1,
			EaseFactor:    2.5,
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, perfStore.Create(ctx, perf), "failed to insert performance row")
	return perf
}

// Performance rows are append-only, so reads must resolve the newest
// row by created_at. GetLatest has to pick it even when older rows for
// the same question exist.
func TestPostgresPerformanceStore_GetLatest_NewestRowWins(t *testing.T) {
	requireTestDB(t)
	t.Parallel()

	testdb.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		perfStore := postgres.NewPostgresPerformanceStore(tx, nil)
		userID := seedUser(ctx, t, tx)
		questionID := seedQuestion(ctx, t, tx)

		base := time.Now().UTC().Add(-time.Hour)
		due := time.Now().UTC().Add(24 * time.Hour)
		seedPerformance(ctx, t, perfStore, userID, questionID, 40, base, due)
		seedPerformance(ctx, t, perfStore, userID, questionID, 60, base.Add(time.Minute), due)
		newest := seedPerformance(
			ctx, t, perfStore, userID, questionID, 90, base.Add(2*time.Minute), due,
		)

		got, err := perfStore.GetLatest(ctx, userID, questionID)
		require.NoError(t, err)
		assert.Equal(t, newest.ID, got.ID, "expected the row with the greatest created_at")
		assert.Equal(t, 90, got.Score)
	})
}

func TestPostgresPerformanceStore_GetLatest_NotFound(t *testing.T) {
	requireTestDB(t)
	t.Parallel()

	testdb.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		perfStore := postgres.NewPostgresPerformanceStore(tx, nil)
		userID := seedUser(ctx, t, tx)

		_, err := perfStore.GetLatest(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, store.ErrPerformanceNotFound)
	})
}

// GetDueReviews must collapse each question's history to its newest
// row before applying the due filter. A question whose history
// contains overdue rows but whose newest row is scheduled for the
// future is not due.
func TestPostgresPerformanceStore_GetDueReviews_NewestRowPerQuestion(t *testing.T) {
	requireTestDB(t)
	t.Parallel()

	testdb.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		perfStore := postgres.NewPostgresPerformanceStore(tx, nil)
		userID := seedUser(ctx, t, tx)
		now := time.Now().UTC()

		// Three attempts on one question, all overdue. Only the newest
		// row may surface.
		dueQuestion := seedQuestion(ctx, t, tx)
		base := now.Add(-3 * time.Hour)
		overdue := now.Add(-time.Hour)
		seedPerformance(ctx, t, perfStore, userID, dueQuestion, 40, base, overdue)
		seedPerformance(ctx, t, perfStore, userID, dueQuestion, 60, base.Add(time.Minute), overdue)
		newest := seedPerformance(
			ctx, t, perfStore, userID, dueQuestion, 90, base.Add(2*time.Minute), overdue,
		)

		// A question answered correctly since its overdue attempt. Its
		// newest row is scheduled for tomorrow, so it is not due even
		// though an older row says otherwise.
		rescheduledQuestion := seedQuestion(ctx, t, tx)
		seedPerformance(ctx, t, perfStore, userID, rescheduledQuestion, 30, base, overdue)
		seedPerformance(
			ctx, t, perfStore, userID, rescheduledQuestion, 95,
			base.Add(time.Minute), now.Add(24*time.Hour),
		)

		due, err := perfStore.GetDueReviews(ctx, userID, now, 10)
		require.NoError(t, err)

		require.Len(t, due, 1, "expected one row for the overdue question and none for the rescheduled one")
		assert.Equal(t, newest.ID, due[0].ID, "expected the row with the greatest created_at")
		assert.Equal(t, dueQuestion, due[0].QuestionID)
		assert.Equal(t, 90, due[0].Score)
	})
}

func TestPostgresPerformanceStore_GetDueReviews_OrderAndLimit(t *testing.T) {
	requireTestDB(t)
	t.Parallel()

	testdb.WithTx(t, testDB, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()

		perfStore := postgres.NewPostgresPerformanceStore(tx, nil)
		userID := seedUser(ctx, t, tx)
		now := time.Now().UTC()
		createdAt := now.Add(-time.Hour)

		first := seedQuestion(ctx, t, tx)
		second := seedQuestion(ctx, t, tx)
		third := seedQuestion(ctx, t, tx)
		seedPerformance(ctx, t, perfStore, userID, second, 50, createdAt, now.Add(-10*time.Minute))
		seedPerformance(ctx, t, perfStore, userID, first, 50, createdAt, now.Add(-30*time.Minute))
		seedPerformance(ctx, t, perfStore, userID, third, 50, createdAt, now.Add(-time.Minute))

		due, err := perfStore.GetDueReviews(ctx, userID, now, 2)
		require.NoError(t, err)

		require.Len(t, due, 2)
		assert.Equal(t, first, due[0].QuestionID, "most overdue question comes first")
		assert.Equal(t, second, due[1].QuestionID)
	})
}
