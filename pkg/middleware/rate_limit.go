package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"rezzy/pkg/logger"
)

// KeyedCounter is a fixed-window counter shared across instances. The
// production implementation lives in pkg/db/mongo; the in-memory one
// below exists for tests and single-node setups.
type KeyedCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// KeyExtractor derives the rate-limit key from a request. An empty key
// exempts the request.
type KeyExtractor func(r *http.Request) string

// Scope decides which requests the limiter applies to.
type Scope func(r *http.Request) bool

type RateLimiter struct {
	counter KeyedCounter
	limit   int
	window  time.Duration
	keyFn   KeyExtractor
	scope   Scope
	log     *logger.Logger
}

func NewRateLimiter(counter KeyedCounter, limit int, window time.Duration, keyFn KeyExtractor, scope Scope, log *logger.Logger) *RateLimiter {
	if keyFn == nil {
		keyFn = ClientIPExtractor
	}
	if scope == nil {
		scope = func(*http.Request) bool { return true }
	}
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		scope:   scope,
		log:     log,
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if key == "" {
		return true
	}

	count, err := rl.counter.Incr(ctx, key, rl.window)
	if err != nil {
		// A broken counter backend must not take the API down with it.
		rl.log.Error("Rate counter increment failed, allowing request", "key", key, "error", err)
		return true
	}

	return count <= int64(rl.limit)
}

func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.scope(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := limiter.keyFn(r)
			if !limiter.Allow(r.Context(), key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"key", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPExtractor keys on the first X-Forwarded-For hop when present,
// otherwise on the connection's remote host.
func ClientIPExtractor(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// MutationScope limits only booking creation and confirmation calls.
// Confirmation is reachable over GET for email links, so both methods
// count against the window.
func MutationScope(r *http.Request) bool {
	if r.Method == http.MethodPost && r.URL.Path == "/api/v1/bookings" {
		return true
	}
	if !strings.HasSuffix(r.URL.Path, "/confirm") {
		return false
	}
	return r.Method == http.MethodPost || r.Method == http.MethodGet
}

// InMemoryCounter is a process-local KeyedCounter for tests and
// single-instance deployments.
type InMemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*countedWindow
}

type countedWindow struct {
	start time.Time
	count int64
}

func NewInMemoryCounter() *InMemoryCounter {
	return &InMemoryCounter{windows: make(map[string]*countedWindow)}
}

func (c *InMemoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	windowStart := now.Truncate(window)

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[key]
	if !ok || w.start.Before(windowStart) {
		w = &countedWindow{start: windowStart}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}
