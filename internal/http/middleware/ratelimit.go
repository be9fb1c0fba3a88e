package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ImportThrottle rate-limits bulk import submissions per client IP.
// Each IP gets a token bucket refilled at rate tokens per second up to
// burst. Buckets idle for longer than idleTTL are evicted.
type ImportThrottle struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	rate    float64
	burst   float64
	idleTTL time.Duration

	// now is swappable so tests can step time without sleeping.
	now func() time.Time
}

type tokenBucket struct {
	tokens float64
	seen   time.Time
}

// NewImportThrottle builds a throttle allowing rate requests per second
// with the given burst per IP.
func NewImportThrottle(rate float64, burst int) *ImportThrottle {
	return &ImportThrottle{
		clients: make(map[string]*tokenBucket),
		rate:    rate,
		burst:   float64(burst),
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow consumes one token for ip, reporting whether the request may
// proceed. It also sweeps stale buckets opportunistically, so no
// background goroutine is needed.
func (t *ImportThrottle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b, ok := t.clients[ip]
	if !ok {
		if len(t.clients) > 0 && len(t.clients)%64 == 0 {
			t.sweep(now)
		}
		b = &tokenBucket{tokens: t.burst}
		t.clients[ip] = b
	} else {
		b.tokens += now.Sub(b.seen).Seconds() * t.rate
		if b.tokens > t.burst {
			b.tokens = t.burst
		}
	}
	b.seen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// sweep drops buckets not seen within idleTTL. Caller holds the lock.
func (t *ImportThrottle) sweep(now time.Time) {
	cutoff := now.Add(-t.idleTTL)
	for ip, b := range t.clients {
		if b.seen.Before(cutoff) {
			delete(t.clients, ip)
		}
	}
}

// retryAfter estimates seconds until ip has a whole token again.
func (t *ImportThrottle) retryAfter(ip string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.clients[ip]
	if !ok || t.rate <= 0 {
		return 1
	}
	wait := (1 - b.tokens) / t.rate
	if wait < 1 {
		return 1
	}
	return int(wait + 0.5)
}

// RateLimit wraps a handler with per-IP import throttling, answering
// 429 with a Retry-After hint when the bucket is empty.
func RateLimit(rate float64, burst int) func(http.Handler) http.Handler {
	throttle := NewImportThrottle(rate, burst)
	return throttle.Middleware
}

// Middleware is the http.Handler wrapper form of the throttle.
func (t *ImportThrottle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// RealIP runs earlier in the chain and rewrites RemoteAddr.
		ip := r.RemoteAddr
		if !t.Allow(ip) {
			w.Header().Set("Retry-After", strconv.Itoa(t.retryAfter(ip)))
			http.Error(w, "too many import requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
