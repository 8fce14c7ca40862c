// Package main is the entry point of the book library API server. It loads
// configuration, connects to PostgreSQL, applies migrations, optionally seeds
// the catalog and serves the HTTP API until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/booklib-api/internal/platform/postgres"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	// migrate runs a single migration command and exits.
	migrate string
	// seed forces seeding regardless of configuration.
	seed bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("booklib-api exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// parseFlags parses args without touching the global flag set.
func parseFlags(args []string, output io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("booklib-api", flag.ContinueOnError)
	fs.SetOutput(output)

	var f cliFlags
	fs.StringVar(&f.migrate, "migrate", "", "Run a database migration command (up, down, status, version, reset) and exit")
	fs.BoolVar(&f.seed, "seed", false, "Insert the initial authors and books when missing")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if f.migrate != "" && !postgres.IsMigrationCommand(f.migrate) {
		return nil, fmt.Errorf("invalid -migrate command %q", f.migrate)
	}
	return &f, nil
}

// run wires the application and blocks until ctx is cancelled.
func run(ctx context.Context, args []string, output io.Writer) error {
	flags, err := parseFlags(args, output)
	if err != nil {
		return err
	}

	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}

	if flags.migrate != "" {
		defer closeDatabase(db, log)
		return runMigrations(ctx, db, flags.migrate, log)
	}

	if err := runMigrations(ctx, db, "up", log); err != nil {
		closeDatabase(db, log)
		return err
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDatabase(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if flags.seed || cfg.Seed.Enabled {
		if err := app.seed(ctx); err != nil {
			app.cleanup(context.Background())
			return err
		}
	}

	return app.Run(ctx)
}
