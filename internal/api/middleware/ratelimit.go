package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kiranshivaraju/keywordlens/internal/api/response"
	"github.com/kiranshivaraju/keywordlens/internal/cache"
)

const (
	defaultRequestsPerWindow = 5
	defaultWindow            = 60 * time.Second
)

// RateLimit is a fixed-window limiter keyed by scope and client IP.
type RateLimit struct {
	cache  cache.Cache
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRateLimit creates a RateLimit allowing limit requests per minute for
// each client IP within scope.
func NewRateLimit(c cache.Cache, scope string, limit int) *RateLimit {
	if limit <= 0 {
		limit = defaultRequestsPerWindow
	}
	return &RateLimit{cache: c, scope: scope, limit: limit, window: defaultWindow, now: time.Now}
}

// Limit rejects requests over the window budget with 429. Cache failures
// let the request through.
func (rl *RateLimit) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := GetClientIP(r)
		key := cache.RateLimitKey(rl.scope, ip)

		count, err := rl.cache.IncrWithExpiry(r.Context(), key, rl.window)
		if err != nil {
			slog.Warn("rate limit check failed, allowing request", "error", err, "client_ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		remaining := rl.limit - int(count)
		if remaining < 0 {
			remaining = 0
		}
		windowSecs := strconv.Itoa(int(rl.window.Seconds()))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(rl.window).Unix(), 10))

		if count > int64(rl.limit) {
			w.Header().Set("Retry-After", windowSecs)
			response.Error(w, http.StatusTooManyRequests,
				"RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later.", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
