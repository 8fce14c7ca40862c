//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/booklib-api/internal/redact"
	"github.com/stretchr/testify/require"
)

const connectTimeout = 30 * time.Second

// Open connects to the test database and closes it when the test ends.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	url := URL()
	if url == "" {
		if IsCI() {
			t.Fatalf("%s or %s must be set in CI", EnvTestDatabaseURL, EnvDatabaseURL)
		}
		t.Skipf("%s not set; skipping integration test", EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database %s unreachable: %s", redact.DatabaseURL(url), redact.Error(err))
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("rollback failed: %v", err)
		}
	}()

	fn(t, tx)
}
