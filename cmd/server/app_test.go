package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/api"
	"github.com/phrazzld/booklib-api/internal/config"
	"github.com/phrazzld/booklib-api/internal/domain"
	"github.com/phrazzld/booklib-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            3001,
			LogLevel:        "error",
			Environment:     "test",
			ShutdownTimeout: 2 * time.Second,
		},
		Database: config.DatabaseConfig{URL: "postgres://localhost/booklib_test", MaxOpenConns: 1},
		Queue:    config.QueueConfig{BookConcurrency: 1, DrainTimeout: 2 * time.Second},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApplication(t *testing.T, cfg *config.Config, authors ...*domain.Author) *application {
	t.Helper()
	app, err := newApplicationWithStores(cfg, testLogger(), nil,
		mocks.NewMockBookStore(), mocks.NewMockAuthorStore(authors...))
	require.NoError(t, err)
	return app
}

func TestNewApplication_RequiresDatabase(t *testing.T) {
	_, err := newApplication(testConfig(), testLogger(), nil)
	assert.Error(t, err)
}

func TestApplication_PublicBaseURL(t *testing.T) {
	cfg := testConfig()
	app := newTestApplication(t, cfg)
	assert.Equal(t, "http://localhost:3001", app.publicBaseURL())

	cfg.Server.PublicBaseURL = "https://books.example.com"
	assert.Equal(t, "https://books.example.com", app.publicBaseURL())
}

func TestRouter(t *testing.T) {
	author := &domain.Author{ID: uuid.New(), Name: "Octavia Butler", CreatedAt: time.Now().Add(-time.Hour)}
	app := newTestApplication(t, testConfig(), author)
	t.Cleanup(app.bookQueue.Destroy)
	router := app.setupRouter()

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp api.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	})

	t.Run("create and fetch a book", func(t *testing.T) {
		body, err := json.Marshal(map[string]string{
			"title":        "Kindred",
			"shortSummary": "A time travel novel.",
			"imagePreview": "/kindred.jpg",
			"authorId":     author.ID.String(),
		})
		require.NoError(t, err)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/books", bytes.NewReader(body)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created api.BookResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, "http://localhost:3001/assets/images/kindred.jpg", created.Book.ImagePreview)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/books/"+created.Book.ID, nil))
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("author list", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/authors/list", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp api.AuthorListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Authors, 1)
		assert.Equal(t, "Octavia Butler", resp.Authors[0].Name)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v2/books/list", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRouter_RateLimitsWrites(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	app := newTestApplication(t, cfg)
	t.Cleanup(app.bookQueue.Destroy)
	router := app.setupRouter()

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/authors", bytes.NewBufferString(`{"name":"Ursula"}`))
		req.RemoteAddr = "203.0.113.7:4000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/authors/list", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplication_CleanupDrainsQueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	app, err := newApplication(testConfig(), testLogger(), db)
	require.NoError(t, err)

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		app.bookQueue.Add(context.Background(), "createBook", func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			ran.Add(1)
			return nil
		})
	}

	app.cleanup(context.Background())

	assert.Equal(t, int32(3), ran.Load())
	assert.True(t, app.bookQueue.IsCompleted())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplication_CleanupGivesUpAfterDrainTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Queue.DrainTimeout = 50 * time.Millisecond
	app := newTestApplication(t, cfg)

	release := make(chan struct{})
	started := make(chan struct{})
	app.bookQueue.Add(context.Background(), "createBook", func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	app.bookQueue.Add(context.Background(), "createBook", func(ctx context.Context) error {
		return nil
	})
	<-started

	done := make(chan struct{})
	go func() {
		app.cleanup(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not return after the drain timeout")
	}
	assert.Equal(t, 1, app.bookQueue.Len())
	close(release)
}

func TestApplication_Serve(t *testing.T) {
	app := newTestApplication(t, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.serve(ctx, ln, app.setupRouter())
	}()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestApplication_Seed(t *testing.T) {
	app := newTestApplication(t, testConfig())
	t.Cleanup(app.bookQueue.Destroy)

	require.NoError(t, app.seed(context.Background()))

	page, err := app.bookService.ListBooks(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Books, 4)

	authors, err := app.authorService.ListAuthors(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, authors.Authors, 4)
}
