package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
)

// SeedBookTaskName is the queue task name used for seed book inserts.
const SeedBookTaskName = "seedBook"

// Seeder inserts the initial catalog when it is missing.
type Seeder struct {
	db      store.TxBeginner
	authors store.AuthorStore
	books   store.BookStore
	queue   TaskQueue
	logger  *slog.Logger
}

// NewSeeder creates a Seeder. db may be nil, in which case authors are
// inserted without a transaction.
func NewSeeder(
	db store.TxBeginner,
	authors store.AuthorStore,
	books store.BookStore,
	queue TaskQueue,
	logger *slog.Logger,
) (*Seeder, error) {
	if authors == nil || books == nil {
		return nil, fmt.Errorf("stores cannot be nil")
	}
	if queue == nil {
		return nil, fmt.Errorf("task queue cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		db:      db,
		authors: authors,
		books:   books,
		queue:   queue,
		logger:  logger.With(slog.String("component", "seeder")),
	}, nil
}

// Seed inserts the missing seed authors in one transaction, then enqueues
// the missing seed books and waits for the queue to drain. Rows that already
// exist, soft-deleted or not, are left alone.
func (s *Seeder) Seed(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	insertAuthors := func(ctx context.Context, authors store.AuthorStore) error {
		for _, a := range SeedAuthors() {
			_, err := authors.GetByID(ctx, a.ID)
			if err == nil {
				continue
			}
			if !store.IsNotFoundError(err) {
				return err
			}
			if err := authors.Create(ctx, a); err != nil {
				return fmt.Errorf("seed author %s: %w", a.Name, err)
			}
			log.Info("seeded author", slog.String("author_id", a.ID.String()))
		}
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return insertAuthors(ctx, s.authors.WithTx(tx))
		})
	} else {
		err = insertAuthors(ctx, s.authors)
	}
	if err != nil {
		return fmt.Errorf("failed to seed authors: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	queued := 0
	for _, b := range SeedBooks() {
		_, err := s.books.GetByID(ctx, b.ID)
		if err == nil {
			continue
		}
		if !store.IsNotFoundError(err) {
			return fmt.Errorf("failed to check seed book %s: %w", b.ID, err)
		}

		book := b
		s.queue.Add(ctx, SeedBookTaskName, func(taskCtx context.Context) error {
			if err := s.books.Create(taskCtx, book); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("seed book %q: %w", book.Title, err))
				mu.Unlock()
				return err
			}
			logger.FromContextOrDefault(taskCtx, s.logger).Info("seeded book",
				slog.String("book_id", book.ID.String()))
			return nil
		})
		queued++
	}

	if queued > 0 {
		if err := s.queue.WaitForCompletion(ctx); err != nil {
			return fmt.Errorf("failed waiting for seed books: %w", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.Info("seed complete", slog.Int("books_queued", queued))
	return nil
}
