// Package middleware holds the HTTP middleware mounted by the API router.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/booklib-api/internal/api/shared"
	"github.com/phrazzld/booklib-api/internal/platform/logger"
)

// NewTraceMiddleware assigns each request a trace ID, reusing a sane
// X-Trace-ID header when present, and stores a logger tagged with it in the
// request context. The ID is echoed in the response header.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.WithTraceID(r.Context(), r.Header.Get(shared.TraceIDHeader))
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(shared.TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
