package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/phrazzld/booklib-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// maxTrackedClients caps the limiter table; it is reset when exceeded.
const maxTrackedClients = 10000

// WriteRateLimiter throttles mutating requests per client address with a
// token bucket. Reads pass through untouched.
type WriteRateLimiter struct {
	limit  rate.Limit
	burst  int
	logger *slog.Logger

	mu      sync.Mutex
	clients map[string]*rate.Limiter
}

// NewWriteRateLimiter creates a limiter allowing rps sustained writes per
// client with the given burst.
func NewWriteRateLimiter(rps float64, burst int, logger *slog.Logger) *WriteRateLimiter {
	if burst < 1 {
		burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WriteRateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		logger:  logger.With(slog.String("component", "rate_limiter")),
		clients: make(map[string]*rate.Limiter),
	}
}

// Handler wraps next.
func (l *WriteRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		reservation := l.limiterFor(clientKey(r)).Reserve()
		if !reservation.OK() {
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *WriteRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.clients[key]; ok {
		return lim
	}
	if len(l.clients) >= maxTrackedClients {
		l.logger.Warn("rate limiter table full, resetting", slog.Int("clients", len(l.clients)))
		l.clients = make(map[string]*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	l.clients[key] = lim
	return lim
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// clientKey is the host part of RemoteAddr, which chi's RealIP middleware
// has already rewritten when the app runs behind a proxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
