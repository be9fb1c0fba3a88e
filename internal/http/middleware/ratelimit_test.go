package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestImportThrottleAllowsWithinBurst(t *testing.T) {
	throttle := NewImportThrottle(1, 3)
	for i := 0; i < 3; i++ {
		if !throttle.Allow("10.0.0.1") {
			t.Fatalf("request %d should be within burst", i+1)
		}
	}
	if throttle.Allow("10.0.0.1") {
		t.Fatalf("expected exhausted bucket to deny")
	}
}

func TestImportThrottleRefillsOverTime(t *testing.T) {
	now := time.Now()
	throttle := NewImportThrottle(2, 1)
	throttle.now = func() time.Time { return now }

	if !throttle.Allow("10.0.0.1") {
		t.Fatalf("first request should pass")
	}
	if throttle.Allow("10.0.0.1") {
		t.Fatalf("bucket should be empty")
	}

	now = now.Add(time.Second)
	if !throttle.Allow("10.0.0.1") {
		t.Fatalf("expected refill after one second at 2 req/s")
	}
}

func TestImportThrottleTracksIPsIndependently(t *testing.T) {
	throttle := NewImportThrottle(1, 1)
	if !throttle.Allow("10.0.0.1") {
		t.Fatalf("first IP should pass")
	}
	if !throttle.Allow("10.0.0.2") {
		t.Fatalf("second IP should have its own bucket")
	}
	if throttle.Allow("10.0.0.1") {
		t.Fatalf("first IP should be exhausted")
	}
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	mw := RateLimit(1, 1)

	first := httptest.NewRecorder()
	mw(handler).ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/import", nil))
	if first.Code != http.StatusAccepted {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	mw(handler).ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/import", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected a Retry-After hint")
	}
}
