// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
)

func requestWithUser(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/events", nil)
	user := store.User{ID: 1, Email: "mod@example.com", Role: role}
	ctx := context.WithValue(req.Context(), ContextKeyUser, user)
	return req.WithContext(ctx)
}

func TestGetUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil {
		t.Error("expected nil user for anonymous request")
	}
	if GetUserEmail(req) != "" {
		t.Error("expected empty email for anonymous request")
	}

	req = requestWithUser(model.RoleAdmin)
	user := GetUser(req)
	if user == nil {
		t.Fatal("expected user in context")
	}
	if user.Email != "mod@example.com" {
		t.Errorf("email = %q", user.Email)
	}
	if GetUserRole(req) != model.RoleAdmin {
		t.Errorf("role = %q, want admin", GetUserRole(req))
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		userRole   string
		minRole    string
		anonymous  bool
		wantStatus int
	}{
		{name: "admin passes admin gate", userRole: model.RoleAdmin, minRole: model.RoleAdmin, wantStatus: http.StatusOK},
		{name: "superadmin passes admin gate", userRole: model.RoleSuperadmin, minRole: model.RoleAdmin, wantStatus: http.StatusOK},
		{name: "user blocked from admin gate", userRole: model.RoleUser, minRole: model.RoleAdmin, wantStatus: http.StatusForbidden},
		{name: "admin blocked from superadmin gate", userRole: model.RoleAdmin, minRole: model.RoleSuperadmin, wantStatus: http.StatusForbidden},
		{name: "anonymous gets 401", anonymous: true, minRole: model.RoleAdmin, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.minRole)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			var req *http.Request
			if tt.anonymous {
				req = httptest.NewRequest(http.MethodGet, "/api/admin/events", nil)
			} else {
				req = requestWithUser(tt.userRole)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/events/jazz-night", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "/events/jazz-night" {
		t.Errorf("request path = %q", got)
	}
}

func TestGetRequestPathMissing(t *testing.T) {
	if GetRequestPath(context.Background()) != "" {
		t.Error("expected empty path for bare context")
	}
}
