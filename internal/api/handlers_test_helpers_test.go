package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/cache"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/mocks"
	"github.com/phrazzld/booklib-api/internal/service"
	"github.com/phrazzld/booklib-api/internal/task"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://books.test"

type testAPI struct {
	router  http.Handler
	books   *mocks.MockBookStore
	authors *mocks.MockAuthorStore
	queue   *task.Queue
}

func newTestAPI(t *testing.T, authors []*domain.Author, books []*domain.Book) *testAPI {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := &testAPI{
		books:   mocks.NewMockBookStore(books...),
		authors: mocks.NewMockAuthorStore(authors...),
		queue:   task.NewQueue(1, log),
	}
	t.Cleanup(a.queue.Destroy)

	c := cache.New(a.books, a.authors, log)
	bookSvc, err := service.NewBookService(a.books, a.authors, c, a.queue, testBaseURL, log)
	require.NoError(t, err)
	authorSvc, err := service.NewAuthorService(a.authors, c, log)
	require.NoError(t, err)

	bh := NewBookHandler(bookSvc, log)
	ah := NewAuthorHandler(authorSvc, log)

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/books", func(r chi.Router) {
			r.Get("/list", bh.ListBooks)
			r.Get("/search", bh.SearchBooks)
			r.Post("/", bh.CreateBook)
			r.Get("/{id}", bh.GetBook)
			r.Patch("/{id}", bh.UpdateBook)
			r.Delete("/{id}", bh.DeleteBook)
		})
		r.Route("/authors", func(r chi.Router) {
			r.Get("/list", ah.ListAuthors)
			r.Get("/search", ah.SearchAuthors)
			r.Post("/", ah.CreateAuthor)
			r.Get("/{id}", ah.GetAuthor)
			r.Patch("/{id}", ah.UpdateAuthor)
			r.Delete("/{id}", ah.DeleteAuthor)
		})
	})
	a.router = r
	return a
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func seedAuthor(name string, createdAt time.Time) *domain.Author {
	return &domain.Author{ID: uuid.New(), Name: name, Bio: "bio of " + name, CreatedAt: createdAt}
}

func seedBook(title string, author *domain.Author, createdAt time.Time) *domain.Book {
	id := author.ID
	return &domain.Book{
		ID:           uuid.New(),
		Title:        title,
		ShortSummary: "summary of " + title,
		ImagePreview: "/cover.jpg",
		AuthorID:     &id,
		CreatedAt:    createdAt,
	}
}
