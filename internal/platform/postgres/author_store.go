package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/phrazzld/booklib-api/internal/store"
)

const authorColumns = "id, name, bio, created_at, updated_at, deleted_at"

// PostgresAuthorStore implements store.AuthorStore on PostgreSQL.
type PostgresAuthorStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuthorStore creates an author store over a connection or
// transaction managed by the caller. If logger is nil, the default is used.
func NewPostgresAuthorStore(db store.DBTX, logger *slog.Logger) *PostgresAuthorStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAuthorStore{
		db:     db,
		logger: logger.With(slog.String("component", "author_store")),
	}
}

var _ store.AuthorStore = (*PostgresAuthorStore)(nil)

// WithTx implements store.AuthorStore.WithTx.
func (s *PostgresAuthorStore) WithTx(tx *sql.Tx) store.AuthorStore {
	return &PostgresAuthorStore{db: tx, logger: s.logger}
}

// Create implements store.AuthorStore.Create.
func (s *PostgresAuthorStore) Create(ctx context.Context, author *domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := author.Validate(); err != nil {
		log.Warn("author validation failed during create",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return err
	}

	query := `
		INSERT INTO authors (id, name, bio, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		author.ID,
		author.Name,
		nullString(author.Bio),
		author.CreatedAt,
		nullTime(author.UpdatedAt),
		nullTime(author.DeletedAt),
	)
	if err != nil {
		log.Error("failed to create author",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return MapError(err)
	}

	log.Info("author created", slog.String("author_id", author.ID.String()))
	return nil
}

// GetByID implements store.AuthorStore.GetByID.
func (s *PostgresAuthorStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT " + authorColumns + " FROM authors WHERE id = $1"
	author, err := scanAuthor(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		mapped := mapEntityError(err, store.ErrAuthorNotFound)
		if store.IsNotFoundError(mapped) {
			log.Debug("author not found", slog.String("author_id", id.String()))
		} else {
			log.Error("failed to get author by ID",
				slog.String("error", err.Error()),
				slog.String("author_id", id.String()))
		}
		return nil, mapped
	}
	return author, nil
}

// Update implements store.AuthorStore.Update.
func (s *PostgresAuthorStore) Update(ctx context.Context, author *domain.Author) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := author.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE authors
		SET name = $2, bio = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		author.ID,
		author.Name,
		nullString(author.Bio),
		nullTime(author.UpdatedAt),
	)
	if err != nil {
		log.Error("failed to update author",
			slog.String("error", err.Error()),
			slog.String("author_id", author.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAuthorNotFound); err != nil {
		return err
	}

	log.Info("author updated", slog.String("author_id", author.ID.String()))
	return nil
}

// SoftDelete implements store.AuthorStore.SoftDelete.
func (s *PostgresAuthorStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) (*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "UPDATE authors SET deleted_at = $2 WHERE id = $1 RETURNING " + authorColumns
	author, err := scanAuthor(s.db.QueryRowContext(ctx, query, id, at.UTC()))
	if err != nil {
		return nil, mapEntityError(err, store.ErrAuthorNotFound)
	}

	log.Info("author soft-deleted", slog.String("author_id", id.String()))
	return author, nil
}

// List implements store.AuthorStore.List.
func (s *PostgresAuthorStore) List(ctx context.Context, page store.Page) ([]*domain.Author, error) {
	query := "SELECT " + authorColumns + " FROM authors WHERE " + fmt.Sprintf(visibleClause, 1) +
		" ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	return s.queryAuthors(ctx, "list", query, page.AsOf.UTC(), page.Limit, page.Offset)
}

// Count implements store.AuthorStore.Count.
func (s *PostgresAuthorStore) Count(ctx context.Context, asOf time.Time) (int, error) {
	query := "SELECT count(*) FROM authors WHERE " + fmt.Sprintf(visibleClause, 1)
	return s.count(ctx, query, asOf.UTC())
}

// Search implements store.AuthorStore.Search.
func (s *PostgresAuthorStore) Search(ctx context.Context, q string, page store.Page) ([]*domain.Author, error) {
	query := "SELECT " + authorColumns + " FROM authors WHERE " + authorSearchClause +
		" AND " + fmt.Sprintf(visibleClause, 2) +
		" ORDER BY created_at DESC LIMIT $3 OFFSET $4"
	return s.queryAuthors(ctx, "search", query, containsPattern(q), page.AsOf.UTC(), page.Limit, page.Offset)
}

// CountSearch implements store.AuthorStore.CountSearch.
func (s *PostgresAuthorStore) CountSearch(ctx context.Context, q string, asOf time.Time) (int, error) {
	query := "SELECT count(*) FROM authors WHERE " + authorSearchClause + " AND " + fmt.Sprintf(visibleClause, 2)
	return s.count(ctx, query, containsPattern(q), asOf.UTC())
}

const authorSearchClause = `(name ILIKE $1 OR bio ILIKE $1)`

func (s *PostgresAuthorStore) queryAuthors(ctx context.Context, op, query string, args ...any) ([]*domain.Author, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query authors", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("author", op, "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	authors := make([]*domain.Author, 0)
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, store.NewStoreError("author", op, "scan failed", err)
		}
		authors = append(authors, author)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("author", op, "row iteration failed", err)
	}

	log.Debug("authors queried", slog.String("operation", op), slog.Int("count", len(authors)))
	return authors, nil
}

func (s *PostgresAuthorStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, store.NewStoreError("author", "count", "query failed", MapError(err))
	}
	return total, nil
}

func scanAuthor(row rowScanner) (*domain.Author, error) {
	var (
		author    domain.Author
		bio       sql.NullString
		updatedAt sql.NullTime
		deletedAt sql.NullTime
	)
	if err := row.Scan(&author.ID, &author.Name, &bio, &author.CreatedAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	author.Bio = bio.String
	author.CreatedAt = author.CreatedAt.UTC()
	author.UpdatedAt = timePtr(updatedAt)
	author.DeletedAt = timePtr(deletedAt)
	return &author, nil
}
