package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/cache"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
	"github.com/phrazzld/booklib-api/internal/task"
	"github.com/sourcegraph/conc/iter"
	"golang.org/x/sync/errgroup"
)

// CreateBookTaskName is the queue task name used for book inserts.
const CreateBookTaskName = "createBook"

// TaskQueue is the subset of task.Queue the services depend on.
type TaskQueue interface {
	Add(ctx context.Context, name string, action task.Action) <-chan struct{}
	Do(ctx context.Context, name string, action task.Action) error
	WaitForCompletion(ctx context.Context) error
}

var _ TaskQueue = (*task.Queue)(nil)

// CreateBookInput holds the fields of a new book.
type CreateBookInput struct {
	Title        string
	ShortSummary string
	ImagePreview string
	AuthorID     uuid.UUID
}

// BookPage is one page of books with its pagination metadata.
type BookPage struct {
	Books      []*domain.BookWithAuthor
	Pagination domain.Pagination
}

// BookService provides the book catalog operations.
type BookService interface {
	// CreateBook validates the input and inserts the book through the task
	// queue. The insert error, if any, is reported to the caller.
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.BookWithAuthor, error)

	// GetBook returns a book with its author. Soft-deleted books are returned.
	GetBook(ctx context.Context, id uuid.UUID) (*domain.BookWithAuthor, error)

	// ListBooks returns a page of visible books, newest first.
	ListBooks(ctx context.Context, page, limit int) (*BookPage, error)

	// SearchBooks matches search against title and short summary.
	SearchBooks(ctx context.Context, search string, page, limit int) (*BookPage, error)

	// UpdateBook applies a partial update. At least one field must be set.
	UpdateBook(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (*domain.BookWithAuthor, error)

	// DeleteBook soft-deletes a book and returns it.
	DeleteBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
}

type bookServiceImpl struct {
	books   store.BookStore
	authors store.AuthorStore
	cache   *cache.Cache
	queue   TaskQueue
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// NewBookService creates a BookService. baseURL prefixes relative image
// previews in returned books.
func NewBookService(
	books store.BookStore,
	authors store.AuthorStore,
	c *cache.Cache,
	queue TaskQueue,
	baseURL string,
	logger *slog.Logger,
) (BookService, error) {
	if books == nil {
		return nil, fmt.Errorf("book store cannot be nil")
	}
	if authors == nil {
		return nil, fmt.Errorf("author store cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if queue == nil {
		return nil, fmt.Errorf("task queue cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bookServiceImpl{
		books:   books,
		authors: authors,
		cache:   c,
		queue:   queue,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "book_service")),
		now:     time.Now,
	}, nil
}

// CreateBook implements BookService.
func (s *bookServiceImpl) CreateBook(ctx context.Context, input CreateBookInput) (*domain.BookWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	book, err := domain.NewBook(input.Title, input.ShortSummary, input.ImagePreview, input.AuthorID)
	if err != nil {
		log.Debug("invalid book input", slog.String("error", err.Error()))
		return nil, err
	}

	author, err := s.requireAuthor(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}

	var insertErr error
	if err := s.queue.Do(ctx, CreateBookTaskName, func(taskCtx context.Context) error {
		insertErr = s.books.Create(taskCtx, book)
		return insertErr
	}); err != nil {
		log.Warn("gave up waiting for book insert",
			slog.String("book_id", book.ID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	if insertErr != nil {
		if errors.Is(insertErr, store.ErrInvalidEntity) {
			return nil, ErrUnknownAuthor
		}
		log.Error("failed to insert book",
			slog.String("book_id", book.ID.String()),
			slog.String("error", insertErr.Error()))
		return nil, wrapError("book", "create", "failed to insert book", insertErr)
	}

	result := &domain.BookWithAuthor{Book: *book, Author: author}
	s.cache.SetBook(result)

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("author_id", input.AuthorID.String()))
	return s.present(result), nil
}

// GetBook implements BookService.
func (s *bookServiceImpl) GetBook(ctx context.Context, id uuid.UUID) (*domain.BookWithAuthor, error) {
	book, err := s.cache.BookWithAuthor(ctx, id, false)
	if err != nil {
		return nil, wrapError("book", "get", "failed to load book", err)
	}
	return s.present(book), nil
}

// ListBooks implements BookService.
func (s *bookServiceImpl) ListBooks(ctx context.Context, page, limit int) (*BookPage, error) {
	page, limit = normalizePaging(page, limit)
	asOf := s.now()
	p := store.Page{Limit: limit, Offset: domain.Offset(page, limit), AsOf: asOf}

	var (
		books []*domain.Book
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.books.List(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.books.Count(gctx, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapError("book", "list", "failed to list books", err)
	}

	enriched, err := s.withAuthors(ctx, books)
	if err != nil {
		return nil, wrapError("book", "list", "failed to load authors", err)
	}

	return &BookPage{
		Books:      enriched,
		Pagination: domain.NewPagination(page, limit, total, false),
	}, nil
}

// SearchBooks implements BookService.
func (s *bookServiceImpl) SearchBooks(ctx context.Context, search string, page, limit int) (*BookPage, error) {
	page, limit = normalizeSearchPaging(page, limit)
	asOf := s.now()
	p := store.Page{Limit: limit, Offset: domain.Offset(page, limit), AsOf: asOf}

	var (
		books []*domain.Book
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.books.Search(gctx, search, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.books.CountSearch(gctx, search, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapError("book", "search", "failed to search books", err)
	}

	enriched, err := s.withAuthors(ctx, books)
	if err != nil {
		return nil, wrapError("book", "search", "failed to load authors", err)
	}

	return &BookPage{
		Books:      enriched,
		Pagination: domain.NewPagination(page, limit, total, true),
	}, nil
}

// UpdateBook implements BookService.
func (s *bookServiceImpl) UpdateBook(
	ctx context.Context,
	id uuid.UUID,
	patch domain.BookPatch,
) (*domain.BookWithAuthor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return nil, domain.ErrEmptyPatch
	}

	current, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("book", "update", "failed to load book", err)
	}

	if patch.AuthorID != nil {
		if _, err := s.requireAuthor(ctx, *patch.AuthorID); err != nil {
			return nil, err
		}
	}

	updated, err := patch.Apply(*current, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, updated); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrUnknownAuthor
		}
		return nil, wrapError("book", "update", "failed to update book", err)
	}

	result, err := s.cache.BookWithAuthor(ctx, id, true)
	if err != nil {
		return nil, wrapError("book", "update", "failed to reload book", err)
	}

	log.Info("book updated", slog.String("book_id", id.String()))
	return s.present(result), nil
}

// DeleteBook implements BookService.
func (s *bookServiceImpl) DeleteBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.now()
	current, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("book", "delete", "failed to load book", err)
	}
	if current.IsDeleted(now) {
		return nil, ErrBookNotFound
	}

	deleted, err := s.books.SoftDelete(ctx, id, now.UTC())
	if err != nil {
		return nil, wrapError("book", "delete", "failed to delete book", err)
	}
	s.cache.InvalidateBook(id)

	log.Info("book deleted", slog.String("book_id", id.String()))
	deleted.ImagePreview = domain.FormatImagePreview(deleted.ImagePreview, s.baseURL)
	return deleted, nil
}

// requireAuthor returns the author or ErrUnknownAuthor when it is missing
// or soft-deleted.
func (s *bookServiceImpl) requireAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	author, err := s.cache.Author(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrAuthorNotFound) {
			return nil, ErrUnknownAuthor
		}
		return nil, wrapError("book", "check author", "failed to load author", err)
	}
	if author.IsDeleted(s.now()) {
		return nil, ErrUnknownAuthor
	}
	return author, nil
}

// withAuthors resolves the author of each book through the cache.
func (s *bookServiceImpl) withAuthors(ctx context.Context, books []*domain.Book) ([]*domain.BookWithAuthor, error) {
	out, err := iter.MapErr(books, func(b **domain.Book) (*domain.BookWithAuthor, error) {
		entry := &domain.BookWithAuthor{Book: **b}
		if entry.AuthorID == nil {
			return s.present(entry), nil
		}
		author, err := s.cache.Author(ctx, *entry.AuthorID, false)
		switch {
		case err == nil:
			entry.Author = author
		case errors.Is(err, store.ErrAuthorNotFound):
		default:
			return nil, err
		}
		return s.present(entry), nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*domain.BookWithAuthor{}
	}
	return out, nil
}

func (s *bookServiceImpl) present(b *domain.BookWithAuthor) *domain.BookWithAuthor {
	b.ImagePreview = domain.FormatImagePreview(b.ImagePreview, s.baseURL)
	return b
}
