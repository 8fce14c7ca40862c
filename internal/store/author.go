package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
)

// AuthorStore defines the interface for author persistence.
type AuthorStore interface {
	// Create inserts a new author.
	// Returns ErrDuplicate if the ID is taken.
	Create(ctx context.Context, author *domain.Author) error

	// GetByID retrieves an author by ID, including soft-deleted ones.
	// Returns ErrAuthorNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error)

	// Update persists name, bio and updated_at of an existing author.
	// Returns ErrAuthorNotFound if no row exists.
	Update(ctx context.Context, author *domain.Author) error

	// SoftDelete stamps deleted_at and returns the resulting row.
	// Returns ErrAuthorNotFound if no row exists.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Author, error)

	// List returns visible authors, newest first.
	List(ctx context.Context, page Page) ([]*domain.Author, error)

	// Count returns the number of visible authors.
	Count(ctx context.Context, asOf time.Time) (int, error)

	// Search returns visible authors whose name or bio contains query,
	// case-insensitively, newest first.
	Search(ctx context.Context, query string, page Page) ([]*domain.Author, error)

	// CountSearch returns the number of visible authors matching query.
	CountSearch(ctx context.Context, query string, asOf time.Time) (int, error)

	// WithTx returns an AuthorStore bound to tx.
	WithTx(tx *sql.Tx) AuthorStore
}
