package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/booklib-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"ok"}`, w.Body.String())
}

func TestRespondWithError_IncludesTraceID(t *testing.T) {
	ctx := context.WithValue(context.Background(), TraceIDKey, "trace-abc-123")
	req := httptest.NewRequest(http.MethodGet, "/v1/books/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Book not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Error: "Book not found", TraceID: "trace-abc-123"}, body)
}

func TestRespondWithErrorAndLog_Levels(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		elevate   bool
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, false, "ERROR"},
		{"client error", http.StatusBadRequest, false, "DEBUG"},
		{"elevated client error", http.StatusBadRequest, true, "WARN"},
		{"rate limited", http.StatusTooManyRequests, false, "WARN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			ctx := logger.WithLogger(context.Background(), log)
			ctx = context.WithValue(ctx, TraceIDKey, "trace-levels-1")
			req := httptest.NewRequest(http.MethodPost, "/v1/books", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tt.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tt.status, "safe message",
				errors.New("dial postgres://app:secret@db/books"), opts...)

			out := buf.String()
			assert.Contains(t, out, "level="+tt.wantLevel)
			assert.Contains(t, out, "trace_id=trace-levels-1")
			assert.Contains(t, out, "error_type=")
			assert.NotContains(t, out, "secret", "errors are redacted before logging")
			assert.NotContains(t, w.Body.String(), "postgres")
		})
	}
}
