package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/cache"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// AuthorPage is one page of authors with its pagination metadata.
type AuthorPage struct {
	Authors    []*domain.Author
	Pagination domain.Pagination
}

// AuthorService provides the author catalog operations.
type AuthorService interface {
	CreateAuthor(ctx context.Context, name, bio string) (*domain.Author, error)
	GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error)
	ListAuthors(ctx context.Context, page, limit int) (*AuthorPage, error)
	SearchAuthors(ctx context.Context, search string, page, limit int) (*AuthorPage, error)
	UpdateAuthor(ctx context.Context, id uuid.UUID, patch domain.AuthorPatch) (*domain.Author, error)
	DeleteAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error)
}

type authorServiceImpl struct {
	authors store.AuthorStore
	cache   *cache.Cache
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthorService creates an AuthorService.
func NewAuthorService(authors store.AuthorStore, c *cache.Cache, logger *slog.Logger) (AuthorService, error) {
	if authors == nil {
		return nil, fmt.Errorf("author store cannot be nil")
	}
	if c == nil {
		return nil, fmt.Errorf("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authorServiceImpl{
		authors: authors,
		cache:   c,
		logger:  logger.With(slog.String("component", "author_service")),
		now:     time.Now,
	}, nil
}

// CreateAuthor implements AuthorService.
func (s *authorServiceImpl) CreateAuthor(ctx context.Context, name, bio string) (*domain.Author, error) {
	author, err := domain.NewAuthor(name, bio)
	if err != nil {
		return nil, err
	}

	if err := s.authors.Create(ctx, author); err != nil {
		return nil, wrapError("author", "create", "failed to insert author", err)
	}
	s.cache.SetAuthor(author)

	logger.FromContextOrDefault(ctx, s.logger).Info("author created",
		slog.String("author_id", author.ID.String()))
	return author, nil
}

// GetAuthor implements AuthorService. Soft-deleted authors are returned.
func (s *authorServiceImpl) GetAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	author, err := s.cache.Author(ctx, id, false)
	if err != nil {
		return nil, wrapError("author", "get", "failed to load author", err)
	}
	return author, nil
}

// ListAuthors implements AuthorService.
func (s *authorServiceImpl) ListAuthors(ctx context.Context, page, limit int) (*AuthorPage, error) {
	page, limit = normalizePaging(page, limit)
	asOf := s.now()
	p := store.Page{Limit: limit, Offset: domain.Offset(page, limit), AsOf: asOf}

	var (
		authors []*domain.Author
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.authors.List(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.authors.Count(gctx, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapError("author", "list", "failed to list authors", err)
	}

	return &AuthorPage{
		Authors:    nonNilAuthors(authors),
		Pagination: domain.NewPagination(page, limit, total, false),
	}, nil
}

// SearchAuthors implements AuthorService. It matches name and bio.
func (s *authorServiceImpl) SearchAuthors(ctx context.Context, search string, page, limit int) (*AuthorPage, error) {
	page, limit = normalizeSearchPaging(page, limit)
	asOf := s.now()
	p := store.Page{Limit: limit, Offset: domain.Offset(page, limit), AsOf: asOf}

	var (
		authors []*domain.Author
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		authors, err = s.authors.Search(gctx, search, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.authors.CountSearch(gctx, search, asOf)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, wrapError("author", "search", "failed to search authors", err)
	}

	return &AuthorPage{
		Authors:    nonNilAuthors(authors),
		Pagination: domain.NewPagination(page, limit, total, true),
	}, nil
}

// UpdateAuthor implements AuthorService.
func (s *authorServiceImpl) UpdateAuthor(
	ctx context.Context,
	id uuid.UUID,
	patch domain.AuthorPatch,
) (*domain.Author, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrEmptyPatch
	}

	current, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("author", "update", "failed to load author", err)
	}

	updated, err := patch.Apply(*current, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.authors.Update(ctx, updated); err != nil {
		return nil, wrapError("author", "update", "failed to update author", err)
	}

	// Books embed a copy of their author.
	s.cache.InvalidateAuthor(id)
	s.cache.SetAuthor(updated)

	logger.FromContextOrDefault(ctx, s.logger).Info("author updated",
		slog.String("author_id", id.String()))
	return updated, nil
}

// DeleteAuthor implements AuthorService.
func (s *authorServiceImpl) DeleteAuthor(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	now := s.now()
	current, err := s.authors.GetByID(ctx, id)
	if err != nil {
		return nil, wrapError("author", "delete", "failed to load author", err)
	}
	if current.IsDeleted(now) {
		return nil, ErrAuthorNotFound
	}

	deleted, err := s.authors.SoftDelete(ctx, id, now.UTC())
	if err != nil {
		return nil, wrapError("author", "delete", "failed to delete author", err)
	}
	s.cache.InvalidateAuthor(id)

	logger.FromContextOrDefault(ctx, s.logger).Info("author deleted",
		slog.String("author_id", id.String()))
	return deleted, nil
}

func nonNilAuthors(authors []*domain.Author) []*domain.Author {
	if authors == nil {
		return []*domain.Author{}
	}
	return authors
}
