// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginProtectionDefaults(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}

	// Zero values fall back to defaults
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Close()
	if lp.ipLimiters.burst != 5 {
		t.Errorf("burst = %d, want 5", lp.ipLimiters.burst)
	}
}

func TestLoginProtectionRateLimitsPosts(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Close()

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "192.0.2.9:1000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if post() != http.StatusOK || post() != http.StatusOK {
		t.Fatal("burst of 2 POSTs should be allowed")
	}
	if post() != http.StatusTooManyRequests {
		t.Error("third POST should be rate limited")
	}

	// GET requests bypass the limiter
	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	req.RemoteAddr = "192.0.2.9:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", rec.Code)
	}
}
