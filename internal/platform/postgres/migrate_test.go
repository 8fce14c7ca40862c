package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/booklib-api/internal/platform/postgres/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, files, "00001_create_authors_books.sql")

	content, err := fs.ReadFile(migrations.FS, "00001_create_authors_books.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- +goose Up")
	assert.Contains(t, string(content), "REFERENCES authors(id)")
}

func TestMigrate_RejectsUnknownCommand(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = Migrate(context.Background(), db, "drop-everything", nil)
	assert.ErrorContains(t, err, "unsupported migration command")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMigrationCommand(t *testing.T) {
	for _, cmd := range []string{"up", "down", "status", "version", "reset"} {
		assert.True(t, IsMigrationCommand(cmd), cmd)
	}
	assert.False(t, IsMigrationCommand("create"))
	assert.False(t, IsMigrationCommand(""))
}
