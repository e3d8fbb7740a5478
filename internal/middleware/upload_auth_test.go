// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadAuth(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		header     string
		wantStatus int
	}{
		{name: "valid token", secret: "s3cret", header: "Bearer s3cret", wantStatus: http.StatusOK},
		{name: "case-insensitive scheme", secret: "s3cret", header: "bearer s3cret", wantStatus: http.StatusOK},
		{name: "wrong token", secret: "s3cret", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", secret: "s3cret", header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", secret: "s3cret", header: "s3cret", wantStatus: http.StatusUnauthorized},
		{name: "basic scheme rejected", secret: "s3cret", header: "Basic s3cret", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured secret allows with warning", secret: "", header: "", wantStatus: http.StatusOK},
		{name: "unconfigured secret ignores token", secret: "", header: "Bearer anything", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := UploadAuth(tt.secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/images", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
