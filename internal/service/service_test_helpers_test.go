package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/cache"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/mocks"
	"github.com/phrazzld/booklib-api/internal/task"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://books.test"

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type bookFixture struct {
	books   *mocks.MockBookStore
	authors *mocks.MockAuthorStore
	cache   *cache.Cache
	queue   *task.Queue
	svc     *bookServiceImpl
}

func newBookFixture(t *testing.T, authors []*domain.Author, books []*domain.Book) *bookFixture {
	t.Helper()

	f := &bookFixture{
		books:   mocks.NewMockBookStore(books...),
		authors: mocks.NewMockAuthorStore(authors...),
		queue:   task.NewQueue(1, discardLogger()),
	}
	f.cache = cache.New(f.books, f.authors, discardLogger())
	t.Cleanup(f.queue.Destroy)

	svc, err := NewBookService(f.books, f.authors, f.cache, f.queue, testBaseURL, discardLogger())
	require.NoError(t, err)
	f.svc = svc.(*bookServiceImpl)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func testAuthor(name string, createdAt time.Time) *domain.Author {
	return &domain.Author{
		ID:        uuid.New(),
		Name:      name,
		Bio:       name + " writes books.",
		CreatedAt: createdAt,
	}
}

func testBook(title string, author *domain.Author, createdAt time.Time) *domain.Book {
	b := &domain.Book{
		ID:           uuid.New(),
		Title:        title,
		ShortSummary: "About " + title,
		ImagePreview: "/" + title + ".jpg",
		CreatedAt:    createdAt,
	}
	if author != nil {
		id := author.ID
		b.AuthorID = &id
	}
	return b
}

func strPtr(s string) *string {
	return &s
}
