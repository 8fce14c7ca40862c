package api

import (
	"context"
	"net/http"
	"time"

	"github.com/phrazzld/booklib-api/internal/api/shared"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Queue    int    `json:"queuedBookInserts"`
}

// QueueLen reports the pending book inserts.
type QueueLen func() int

// NewHealthHandler returns the /health handler. It answers 503 when the
// database does not respond within a second.
func NewHealthHandler(db Pinger, queueLen QueueLen) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Database: "ok"}
		if queueLen != nil {
			resp.Queue = queueLen()
		}

		status := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				resp.Status = "degraded"
				resp.Database = "unreachable"
				status = http.StatusServiceUnavailable
			}
		}

		shared.RespondWithJSON(w, r, status, resp)
	}
}
