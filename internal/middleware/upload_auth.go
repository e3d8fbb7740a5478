// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// UploadAuth creates middleware that validates the shared upload secret.
// Clients send it as a Bearer token in the Authorization header. The
// upload endpoint is token-authenticated so scripted import pipelines can
// push flyer images without a browser session. When no secret is
// configured the endpoint stays open and each request logs a warning.
func UploadAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				slog.Warn("upload secret not configured, accepting unauthenticated upload",
					"remote_addr", r.RemoteAddr)
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header", nil)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format. Use: Bearer <token>", nil)
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(secret)) != 1 {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid upload token", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
