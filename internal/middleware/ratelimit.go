package middleware

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RealIP extracts the client address, preferring X-Forwarded-For set by a
// reverse proxy and falling back to RemoteAddr.
func RealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First address in the chain is the original client.
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type windowCounter struct {
	count   int
	resetAt time.Time
}

// RateLimiter is an in-memory fixed-window counter keyed by caller. It guards
// the credential endpoints against brute forcing; limits reset when the
// window rolls over.
type RateLimiter struct {
	mu       sync.Mutex
	counters map[string]*windowCounter
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{counters: make(map[string]*windowCounter)}
}

// Allow reports whether the key is still under limit for the current window.
func (rl *RateLimiter) Allow(key string, limit int, window time.Duration) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.counters[key]
	if !ok || now.After(c.resetAt) {
		rl.counters[key] = &windowCounter{count: 1, resetAt: now.Add(window)}
		return true
	}
	c.count++
	return c.count <= limit
}

// Cleanup drops counters whose window has passed. Called periodically so the
// map does not grow with one entry per client address forever.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, c := range rl.counters {
		if now.After(c.resetAt) {
			delete(rl.counters, key)
		}
	}
}

// RateLimit returns middleware enforcing limit requests per window per key.
// Rejections use the API's JSON error body with a Retry-After hint.
func RateLimit(limiter *RateLimiter, keyFunc func(*http.Request) string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(keyFunc(r), limit, window) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error":  "rate_limited",
					"detail": "Too many requests. Try again later.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
