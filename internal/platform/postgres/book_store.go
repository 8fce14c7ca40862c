package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
)

const bookColumns = "id, title, short_summary, image_preview, author_id, created_at, updated_at, deleted_at"

const bookSearchClause = `(title ILIKE $1 OR short_summary ILIKE $1)`

// PostgresBookStore implements store.BookStore on PostgreSQL.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a book store over a connection or transaction
// managed by the caller. If logger is nil, the default is used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

var _ store.BookStore = (*PostgresBookStore)(nil)

// WithTx implements store.BookStore.WithTx.
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{db: tx, logger: s.logger}
}

// Create implements store.BookStore.Create.
// Returns store.ErrInvalidEntity if the author does not exist.
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return err
	}

	query := `
		INSERT INTO books (id, title, short_summary, image_preview, author_id, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		nullString(book.ShortSummary),
		nullString(book.ImagePreview),
		nullAuthorID(book.AuthorID),
		book.CreatedAt,
		nullTime(book.UpdatedAt),
		nullTime(book.DeletedAt),
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during book creation",
				slog.String("book_id", book.ID.String()),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: author %s does not exist", store.ErrInvalidEntity, authorIDString(book.AuthorID))
		}
		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return MapError(err)
	}

	log.Info("book created",
		slog.String("book_id", book.ID.String()),
		slog.String("author_id", authorIDString(book.AuthorID)))
	return nil
}

// GetByID implements store.BookStore.GetByID.
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + bookColumns + " FROM books WHERE id = $1"
	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found", slog.String("book_id", id.String()))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, MapError(err)
	}
	return book, nil
}

// Update implements store.BookStore.Update.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE books
		SET title = $2, short_summary = $3, image_preview = $4, author_id = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		nullString(book.ShortSummary),
		nullString(book.ImagePreview),
		nullAuthorID(book.AuthorID),
		nullTime(book.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.String("book_id", book.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrBookNotFound); err != nil {
		log.Debug("book not found for update", slog.String("book_id", book.ID.String()))
		return err
	}

	log.Info("book updated", slog.String("book_id", book.ID.String()))
	return nil
}

// SoftDelete implements store.BookStore.SoftDelete.
func (s *PostgresBookStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "UPDATE books SET deleted_at = $2 WHERE id = $1 RETURNING " + bookColumns
	book, err := scanBook(s.db.QueryRowContext(ctx, query, id, at.UTC()))
	if err != nil {
		return nil, mapEntityError(err, store.ErrBookNotFound)
	}

	log.Info("book soft-deleted", slog.String("book_id", id.String()))
	return book, nil
}

// List implements store.BookStore.List.
func (s *PostgresBookStore) List(ctx context.Context, page store.Page) ([]*domain.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE " + fmt.Sprintf(visibleClause, 1) +
		" ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	return s.queryBooks(ctx, "list", query, page.AsOf.UTC(), page.Limit, page.Offset)
}

// Count implements store.BookStore.Count.
func (s *PostgresBookStore) Count(ctx context.Context, asOf time.Time) (int, error) {
	query := "SELECT count(*) FROM books WHERE " + fmt.Sprintf(visibleClause, 1)
	return s.count(ctx, query, asOf.UTC())
}

// Search implements store.BookStore.Search.
func (s *PostgresBookStore) Search(ctx context.Context, q string, page store.Page) ([]*domain.Book, error) {
	query := "SELECT " + bookColumns + " FROM books WHERE " + bookSearchClause +
		" AND " + fmt.Sprintf(visibleClause, 2) +
		" ORDER BY created_at DESC LIMIT $3 OFFSET $4"
	return s.queryBooks(ctx, "search", query, containsPattern(q), page.AsOf.UTC(), page.Limit, page.Offset)
}

// CountSearch implements store.BookStore.CountSearch.
func (s *PostgresBookStore) CountSearch(ctx context.Context, q string, asOf time.Time) (int, error) {
	query := "SELECT count(*) FROM books WHERE " + bookSearchClause + " AND " + fmt.Sprintf(visibleClause, 2)
	return s.count(ctx, query, containsPattern(q), asOf.UTC())
}

func (s *PostgresBookStore) queryBooks(ctx context.Context, op, query string, args ...any) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query books", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("book", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, store.NewStoreError("book", op, "scan failed", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("book", op, "row iteration failed", err)
	}

	log.Debug("books queried", slog.String("operation", op), slog.Int("count", len(books)))
	return books, nil
}

func (s *PostgresBookStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, store.NewStoreError("book", "count", "query failed", MapError(err))
	}
	return total, nil
}

func scanBook(row rowScanner) (*domain.Book, error) {
	var (
		book         domain.Book
		shortSummary sql.NullString
		imagePreview sql.NullString
		authorID     uuid.NullUUID
		updatedAt    sql.NullTime
		deletedAt    sql.NullTime
	)
	err := row.Scan(
		&book.ID,
		&book.Title,
		&shortSummary,
		&imagePreview,
		&authorID,
		&book.CreatedAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	book.ShortSummary = shortSummary.String
	book.ImagePreview = imagePreview.String
	if authorID.Valid {
		id := authorID.UUID
		book.AuthorID = &id
	}
	book.CreatedAt = book.CreatedAt.UTC()
	book.UpdatedAt = timePtr(updatedAt)
	book.DeletedAt = timePtr(deletedAt)
	return &book, nil
}

func nullAuthorID(id *uuid.UUID) uuid.NullUUID {
	if id == nil || *id == uuid.Nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func authorIDString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
