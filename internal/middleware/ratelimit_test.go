// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAPIError(rec, http.StatusNotFound, "not_found", "Event not found", map[string]string{"slug": "missing"})

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if apiErr.Error.Code != "not_found" {
		t.Errorf("code = %q, want not_found", apiErr.Error.Code)
	}
	if apiErr.Error.Details["slug"] != "missing" {
		t.Errorf("details = %v, want slug=missing", apiErr.Error.Details)
	}
}

func TestLimiterCache(t *testing.T) {
	cache := newLimiterCache[string](1, 2)

	// Same key returns the same limiter
	a := cache.get("10.0.0.1")
	b := cache.get("10.0.0.1")
	if a != b {
		t.Error("expected same limiter for same key")
	}

	// Different key gets its own limiter
	c := cache.get("10.0.0.2")
	if a == c {
		t.Error("expected distinct limiter for different key")
	}
}

func TestLimiterCacheBurst(t *testing.T) {
	cache := newLimiterCache[string](0.001, 2)
	limiter := cache.get("burst")

	if !limiter.Allow() || !limiter.Allow() {
		t.Fatal("burst of 2 should be allowed")
	}
	if limiter.Allow() {
		t.Error("third request should be rejected")
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	cache := newLimiterCache[int](1, 1)
	for i := 0; i < 5; i++ {
		cache.get(i)
	}

	if cache.clearIfExceeds(10) {
		t.Error("should not clear below max size")
	}
	if !cache.clearIfExceeds(3) {
		t.Error("should clear above max size")
	}
	if len(cache.limiters) != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", len(cache.limiters))
	}
}

func TestGlobalRateLimiterMiddleware(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 1)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}
}

func TestSubmissionRateLimitFallsBackToIP(t *testing.T) {
	handler := SubmissionRateLimit(0.001, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
	req.RemoteAddr = "192.0.2.7:9999"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first request: status = %d, want 202", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request: status = %d, want 429", rec.Code)
	}

	// A different IP is tracked independently
	other := httptest.NewRequest(http.MethodPost, "/api/drafts", nil)
	other.RemoteAddr = "192.0.2.8:9999"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusAccepted {
		t.Errorf("other IP: status = %d, want 202", rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{name: "x-real-ip wins", realIP: "203.0.113.5", forwarded: "198.51.100.1", remoteAddr: "10.0.0.1:80", want: "203.0.113.5"},
		{name: "first forwarded entry", forwarded: "198.51.100.1, 10.0.0.2", remoteAddr: "10.0.0.1:80", want: "198.51.100.1"},
		{name: "falls back to remote addr", remoteAddr: "10.0.0.1:80", want: "10.0.0.1:80"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
