package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
)

// BookStore defines the interface for book persistence.
type BookStore interface {
	// Create inserts a new book.
	// Returns ErrDuplicate if the ID is taken and ErrInvalidEntity if the
	// referenced author does not exist.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by ID, including soft-deleted ones.
	// Returns ErrBookNotFound if no row exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// Update persists the mutable fields of an existing book.
	// Returns ErrBookNotFound if no row exists.
	Update(ctx context.Context, book *domain.Book) error

	// SoftDelete stamps deleted_at and returns the resulting row.
	// Returns ErrBookNotFound if no row exists.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Book, error)

	// List returns visible books, newest first.
	List(ctx context.Context, page Page) ([]*domain.Book, error)

	// Count returns the number of visible books.
	Count(ctx context.Context, asOf time.Time) (int, error)

	// Search returns visible books whose title or short summary contains
	// query, case-insensitively, newest first.
	Search(ctx context.Context, query string, page Page) ([]*domain.Book, error)

	// CountSearch returns the number of visible books matching query.
	CountSearch(ctx context.Context, query string, asOf time.Time) (int, error)

	// WithTx returns a BookStore bound to tx.
	WithTx(tx *sql.Tx) BookStore
}
