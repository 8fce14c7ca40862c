package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookColumnNames = []string{
	"id", "title", "short_summary", "image_preview", "author_id", "created_at", "updated_at", "deleted_at",
}

func newBookStore(t *testing.T) (*PostgresBookStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresBookStore(db, nil), mock
}

func sampleBook() *domain.Book {
	authorID := uuid.New()
	return &domain.Book{
		ID:           uuid.New(),
		Title:        "The Shining",
		ShortSummary: "A horror novel",
		ImagePreview: "/the-shining.jpg",
		AuthorID:     &authorID,
		CreatedAt:    time.Date(2025, 5, 30, 14, 19, 30, 0, time.UTC),
	}
}

func TestPostgresBookStore_Create(t *testing.T) {
	s, mock := newBookStore(t)
	book := sampleBook()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WithArgs(book.ID.String(), book.Title, book.ShortSummary, book.ImagePreview,
			book.AuthorID.String(), book.CreatedAt, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), book))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_CreateUnknownAuthor(t *testing.T) {
	s, mock := newBookStore(t)
	book := sampleBook()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "books_author_id_fkey"})

	err := s.Create(context.Background(), book)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Contains(t, err.Error(), book.AuthorID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_CreateRejectsInvalidBook(t *testing.T) {
	s, mock := newBookStore(t)
	book := sampleBook()
	book.Title = ""

	err := s.Create(context.Background(), book)
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query is issued for invalid books")
}

func TestPostgresBookStore_GetByID(t *testing.T) {
	s, mock := newBookStore(t)
	id := uuid.New()
	created := time.Date(2025, 5, 30, 14, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE id = $1")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(bookColumnNames).
			AddRow(id.String(), "Orphan", nil, nil, nil, created, nil, deleted))

	book, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, book.ID)
	assert.Equal(t, "Orphan", book.Title)
	assert.Equal(t, "", book.ShortSummary)
	assert.Nil(t, book.AuthorID)
	assert.Nil(t, book.UpdatedAt)
	require.NotNil(t, book.DeletedAt, "soft-deleted rows are still returned by id")
	assert.True(t, deleted.Equal(*book.DeletedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_GetByIDNotFound(t *testing.T) {
	s, mock := newBookStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM books WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrBookNotFound)
}

func TestPostgresBookStore_UpdateNotFound(t *testing.T) {
	s, mock := newBookStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE books")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), sampleBook())
	assert.ErrorIs(t, err, store.ErrBookNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_SoftDelete(t *testing.T) {
	s, mock := newBookStore(t)
	book := sampleBook()
	at := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE books SET deleted_at = $2 WHERE id = $1 RETURNING")).
		WithArgs(book.ID.String(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(bookColumnNames).AddRow(
			book.ID.String(), book.Title, book.ShortSummary, book.ImagePreview,
			book.AuthorID.String(), book.CreatedAt, nil, at))

	deleted, err := s.SoftDelete(context.Background(), book.ID, at)
	require.NoError(t, err)
	require.NotNil(t, deleted.DeletedAt)
	assert.True(t, deleted.IsDeleted(at))
	assert.Equal(t, *book.AuthorID, *deleted.AuthorID)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE books SET deleted_at")).WillReturnError(sql.ErrNoRows)
	_, err = s.SoftDelete(context.Background(), uuid.New(), at)
	assert.ErrorIs(t, err, store.ErrBookNotFound)
}

func TestPostgresBookStore_ListAndCount(t *testing.T) {
	s, mock := newBookStore(t)
	asOf := time.Now()
	b1, b2 := sampleBook(), sampleBook()

	mock.ExpectQuery(regexp.QuoteMeta("(deleted_at IS NULL OR deleted_at > $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(sqlmock.AnyArg(), 10, 20).
		WillReturnRows(sqlmock.NewRows(bookColumnNames).
			AddRow(b1.ID.String(), b1.Title, b1.ShortSummary, b1.ImagePreview, b1.AuthorID.String(), b1.CreatedAt, nil, nil).
			AddRow(b2.ID.String(), b2.Title, b2.ShortSummary, b2.ImagePreview, b2.AuthorID.String(), b2.CreatedAt, nil, nil))

	books, err := s.List(context.Background(), store.Page{Limit: 10, Offset: 20, AsOf: asOf})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, b1.ID, books[0].ID)
	assert.Equal(t, b2.ID, books[1].ID)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM books WHERE (deleted_at IS NULL OR deleted_at > $1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	total, err := s.Count(context.Background(), asOf)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_ListEmptyIsNotNil(t *testing.T) {
	s, mock := newBookStore(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(bookColumnNames))

	books, err := s.List(context.Background(), store.Page{Limit: 10, AsOf: time.Now()})
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func TestPostgresBookStore_Search(t *testing.T) {
	s, mock := newBookStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("(title ILIKE $1 OR short_summary ILIKE $1)")).
		WithArgs(`%50\%%`, sqlmock.AnyArg(), 10, 0).
		WillReturnRows(sqlmock.NewRows(bookColumnNames))

	books, err := s.Search(context.Background(), " 50% ", store.Page{Limit: 10, AsOf: time.Now()})
	require.NoError(t, err)
	assert.Empty(t, books)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM books WHERE (title ILIKE $1 OR short_summary ILIKE $1)")).
		WithArgs("%potter%", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	total, err := s.CountSearch(context.Background(), "POTTER", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookStore_QueryErrorIsStoreError(t *testing.T) {
	s, mock := newBookStore(t)
	cause := errors.New("connection reset")
	mock.ExpectQuery("SELECT").WillReturnError(cause)

	_, err := s.List(context.Background(), store.Page{Limit: 10, AsOf: time.Now()})
	var storeErr *store.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "book", storeErr.Entity)
	assert.Equal(t, "list", storeErr.Operation)
	assert.ErrorIs(t, err, cause)
}
