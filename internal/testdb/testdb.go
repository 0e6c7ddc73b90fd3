// Package testdb provides helpers for database-backed tests. Tests
// using it connect to the database named by PARLATO_DATABASE_URL (or
// DATABASE_URL) and run inside a transaction that is rolled back when
// the test finishes, so they can run in parallel without cleanup.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
)

// IsIntegrationTestEnvironment reports whether a test database URL is
// configured. Database-backed tests skip themselves when it returns
// false.
func IsIntegrationTestEnvironment() bool {
	return DatabaseURL() != ""
}

// DatabaseURL returns the configured test database URL, preferring the
// application-specific variable over the generic one.
func DatabaseURL() string {
	if url := os.Getenv("PARLATO_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// WithTx runs fn inside a transaction that is always rolled back,
// isolating the test's writes from the shared database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
