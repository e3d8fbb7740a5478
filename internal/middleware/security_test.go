// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{name: "production mode enables HSTS", isDev: false, wantHSTS: true},
		{name: "development mode disables HSTS", isDev: true, wantHSTS: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSecurityHeadersConfig(tt.isDev)
			handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS && hsts == "" {
				t.Error("expected HSTS header but got none")
			}
			if !tt.wantHSTS && hsts != "" {
				t.Errorf("expected no HSTS header but got: %s", hsts)
			}

			if rec.Header().Get("Content-Security-Policy") == "" {
				t.Error("expected CSP header but got none")
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("expected X-Content-Type-Options: nosniff")
			}
			if rec.Header().Get("X-Frame-Options") != "SAMEORIGIN" {
				t.Error("expected X-Frame-Options: SAMEORIGIN")
			}
		})
	}
}

func TestBuildCSPOrder(t *testing.T) {
	csp := buildCSP([]cspDirective{
		{"default-src", "'self'"},
		{"object-src", "'none'"},
	})

	if csp != "default-src 'self'; object-src 'none'" {
		t.Errorf("unexpected CSP: %s", csp)
	}
}

func TestDefaultCSPAllowsHostedImages(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	if !strings.Contains(cfg.ContentSecurityPolicy, "img-src 'self' data: https:") {
		t.Errorf("CSP should allow https images for re-hosted flyers: %s", cfg.ContentSecurityPolicy)
	}
}
