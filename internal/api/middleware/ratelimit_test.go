package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onthisday/server/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_AllowsWithinLimit(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 10}
	handler := RateLimit(cfg, "test")(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/history/08-25", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		res := httptest.NewRecorder()

		handler.ServeHTTP(res, req)

		if res.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, res.Code)
		}
	}
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 10}
	handler := RateLimit(cfg, "test")(okHandler())

	clientIP := "192.168.1.101:54321"
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/history/08-25", nil)
		req.RemoteAddr = clientIP
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/history/08-25", nil)
	req.RemoteAddr = clientIP
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", res.Code)
	}
	if retryAfter := res.Header().Get("Retry-After"); retryAfter != "60" {
		t.Errorf("expected Retry-After 60, got %q", retryAfter)
	}
	if ct := res.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json body, got %q", ct)
	}
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 10}
	handler := RateLimit(cfg, "test")(okHandler())

	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
	}

	// A different client is unaffected.
	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200 for second client, got %d", res.Code)
	}
}

func TestRateLimit_HealthExempt(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 1}
	handler := RateLimit(cfg, "test")(okHandler())

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.3:1000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if res.Code != http.StatusOK {
			t.Fatalf("health probe %d throttled with status %d", i+1, res.Code)
		}
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	cfg := config.RateLimitConfig{PublicPerMinute: 0}
	handler := RateLimit(cfg, "test")(okHandler())

	for i := 0; i < 30; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
		req.RemoteAddr = "10.0.0.4:1000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		if res.Code != http.StatusOK {
			t.Fatalf("expected limiter disabled, got %d", res.Code)
		}
	}
}

func TestClientKey_TrustedProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/today", nil)
	req.RemoteAddr = "10.0.0.1:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.50, 10.0.0.1")

	// Header ignored when the peer is not a trusted proxy.
	if key := clientKey(req, nil); key != "10.0.0.1" {
		t.Errorf("untrusted proxy: expected 10.0.0.1, got %q", key)
	}

	// Honored when it is.
	if key := clientKey(req, []string{"10.0.0.0/8"}); key != "203.0.113.50" {
		t.Errorf("trusted proxy: expected 203.0.113.50, got %q", key)
	}
}
