package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	pkgerrors "papergraph/pkg/errors"
)

// RateLimiter applies a sliding window limit per client IP. It protects the
// expensive endpoints: analysis runs the whole pipeline and rag queries may
// call the external provider.
type RateLimiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	limit      int
	windowSize time.Duration
	lastSweep  time.Time
	errors     *pkgerrors.ErrorHandler
}

// NewRateLimiter creates a limiter allowing requestsPerMinute per client IP
func NewRateLimiter(requestsPerMinute int, errors *pkgerrors.ErrorHandler) *RateLimiter {
	return &RateLimiter{
		windows:    make(map[string][]time.Time),
		limit:      requestsPerMinute,
		windowSize: time.Minute,
		lastSweep:  time.Now(),
		errors:     errors,
	}
}

// Limit is the middleware. RealIP runs earlier in the chain, so RemoteAddr
// already holds the client address.
func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			l.errors.Handle(w, r, pkgerrors.NewRateLimitError("too many requests, slow down"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) allow(key string) bool {
	now := time.Now()
	windowStart := now.Add(-l.windowSize)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.windowSize {
		l.sweep(windowStart)
		l.lastSweep = now
	}

	recent := l.windows[key][:0]
	for _, at := range l.windows[key] {
		if at.After(windowStart) {
			recent = append(recent, at)
		}
	}

	if len(recent) >= l.limit {
		l.windows[key] = recent
		return false
	}

	l.windows[key] = append(recent, now)
	return true
}

// sweep drops windows whose every entry has expired, so idle clients do not
// accumulate. Caller holds the lock.
func (l *RateLimiter) sweep(windowStart time.Time) {
	for key, window := range l.windows {
		stale := true
		for _, at := range window {
			if at.After(windowStart) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.windows, key)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
