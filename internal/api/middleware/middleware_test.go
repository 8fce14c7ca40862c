package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/booklib-api/internal/api/shared"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	var buf strings.Builder
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var (
		seenTrace  string
		seenLogger *slog.Logger
	)
	handler := NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenTrace = shared.GetTraceID(r.Context())
		seenLogger = logger.FromContext(r.Context())
		seenLogger.Info("inside handler")
	}))

	t.Run("generates an id", func(t *testing.T) {
		buf.Reset()
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/books/list", nil))

		require.Len(t, seenTrace, 32)
		assert.Equal(t, seenTrace, w.Header().Get(shared.TraceIDHeader))
		assert.Contains(t, buf.String(), "trace_id="+seenTrace)
		assert.Contains(t, buf.String(), "inside handler")
	})

	t.Run("reuses caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(shared.TraceIDHeader, "upstream-trace-1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "upstream-trace-1", seenTrace)
		assert.Equal(t, "upstream-trace-1", w.Header().Get(shared.TraceIDHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	var buf strings.Builder
	log := slog.New(slog.NewTextHandler(&buf, nil))

	handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/authors/list", nil)
	req = req.WithContext(logger.WithLogger(context.Background(), log))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "bytes=15")
	assert.Contains(t, out, "path=/v1/authors/list")
}

func TestWriteRateLimiter(t *testing.T) {
	limiter := NewWriteRateLimiter(0.001, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := limiter.Handler(ok)

	send := func(method, addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/v1/books", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusNoContent, send(http.MethodPatch, "10.0.0.1:2222").Code)

	limited := send(http.MethodDelete, "10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))
	assert.Contains(t, limited.Body.String(), "Too many requests")

	assert.Equal(t, http.StatusNoContent, send(http.MethodGet, "10.0.0.1:4444").Code, "reads are not limited")
	assert.Equal(t, http.StatusNoContent, send(http.MethodPost, "10.0.0.2:1111").Code, "clients are limited separately")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientKey(req))

	req.RemoteAddr = "192.0.2.7"
	assert.Equal(t, "192.0.2.7", clientKey(req))
}
