package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/booklib-api/internal/platform/postgres"
)

// runMigrations applies command using the embedded goose migrations.
func runMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	logger.Info("executing migrations", slog.String("command", command))
	return postgres.Migrate(ctx, db, command, logger)
}
