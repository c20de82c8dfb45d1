package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pnet "gridwatch/internal/platform/net"
)

func TestLimiterStore_PerIPBuckets(t *testing.T) {
	s := newLimiterStore(RateLimitOptions{Every: time.Minute, Burst: 2})
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if !s.allow("10.0.0.1") || !s.allow("10.0.0.1") {
		t.Fatalf("burst of 2 must pass")
	}
	if s.allow("10.0.0.1") {
		t.Fatalf("third request within the minute must be limited")
	}
	if !s.allow("10.0.0.2") {
		t.Fatalf("other client has its own bucket")
	}
	now = now.Add(time.Minute)
	if !s.allow("10.0.0.1") {
		t.Fatalf("token must refill after Every")
	}
}

func TestLimiterStore_DropsIdleVisitors(t *testing.T) {
	s := newLimiterStore(RateLimitOptions{Every: time.Second, Burst: 1, IdleTTL: time.Minute})
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.allow("a")
	now = now.Add(2 * time.Minute)
	s.allow("b")
	if _, ok := s.visitors["a"]; ok {
		t.Fatalf("idle visitor a should have been dropped")
	}
	if len(s.visitors) != 1 {
		t.Fatalf("visitors = %d", len(s.visitors))
	}
}

func TestRateLimit_Writes429(t *testing.T) {
	var gotStatus int
	write := func(w http.ResponseWriter, status int, _ any) {
		gotStatus = status
		w.WriteHeader(status)
	}
	mw := RateLimit(RateLimitOptions{Every: 30 * time.Second, Burst: 1}, write)
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) }))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/push/test", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "", "198.51.100.4"))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusAccepted {
		t.Fatalf("first request: %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests || gotStatus != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "30" {
		t.Fatalf("Retry-After = %q", rr.Header().Get("Retry-After"))
	}
}
