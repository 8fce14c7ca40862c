package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/booklib-api/internal/cache"
	"github.com/phrazzld/booklib-api/internal/config"
	"github.com/phrazzld/booklib-api/internal/platform/postgres"
	"github.com/phrazzld/booklib-api/internal/service"
	"github.com/phrazzld/booklib-api/internal/store"
	"github.com/phrazzld/booklib-api/internal/task"
)

// application holds the shared dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	bookStore   store.BookStore
	authorStore store.AuthorStore
	cache       *cache.Cache

	// bookQueue serializes book inserts.
	bookQueue *task.Queue

	bookService   service.BookService
	authorService service.AuthorService
	seeder        *service.Seeder
}

// newApplication builds the application on PostgreSQL stores.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if db == nil {
		return nil, errors.New("database cannot be nil")
	}
	return newApplicationWithStores(cfg, logger, db,
		postgres.NewPostgresBookStore(db, logger),
		postgres.NewPostgresAuthorStore(db, logger))
}

// newApplicationWithStores builds the application on the given stores. db
// may be nil when the stores are not database backed.
func newApplicationWithStores(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	books store.BookStore,
	authors store.AuthorStore,
) (*application, error) {
	app := &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		bookStore:   books,
		authorStore: authors,
	}

	app.cache = cache.New(books, authors, logger)
	app.bookQueue = task.NewQueue(cfg.Queue.BookConcurrency, logger.With(slog.String("queue", "books")))

	var err error
	app.bookService, err = service.NewBookService(books, authors, app.cache, app.bookQueue, app.publicBaseURL(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create book service: %w", err)
	}

	app.authorService, err = service.NewAuthorService(authors, app.cache, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create author service: %w", err)
	}

	var txDB store.TxBeginner
	if db != nil {
		txDB = db
	}
	app.seeder, err = service.NewSeeder(txDB, authors, books, app.bookQueue, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create seeder: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("book_queue_concurrency", app.bookQueue.Concurrency()),
		slog.String("public_base_url", app.publicBaseURL()))
	return app, nil
}

// publicBaseURL is the prefix for relative image previews.
func (app *application) publicBaseURL() string {
	if app.config.Server.PublicBaseURL != "" {
		return app.config.Server.PublicBaseURL
	}
	return fmt.Sprintf("http://localhost:%d", app.config.Server.Port)
}

// seed inserts the initial catalog.
func (app *application) seed(ctx context.Context) error {
	app.logger.Info("seeding initial catalog")
	if err := app.seeder.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup waits for queued book inserts, bounded by the drain timeout,
// stops the queue and closes the database.
func (app *application) cleanup(ctx context.Context) {
	drainCtx, cancel := context.WithTimeout(ctx, app.config.Queue.DrainTimeout)
	defer cancel()

	pending := app.bookQueue.Len()
	if err := app.bookQueue.WaitForCompletion(drainCtx); err != nil {
		app.logger.Warn("book queue did not drain before shutdown",
			slog.Int("pending", app.bookQueue.Len()),
			slog.String("error", err.Error()))
	} else if pending > 0 {
		app.logger.Info("book queue drained", slog.Int("tasks", pending))
	}
	app.bookQueue.Stop()

	closeDatabase(app.db, app.logger)
	app.logger.Info("application shutdown completed")
}
