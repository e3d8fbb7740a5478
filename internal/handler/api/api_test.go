// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp
}

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"}, &Meta{Total: 42, Page: 2, PerPage: 20, Pages: 3})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp struct {
		Data map[string]string `json:"data"`
		Meta Meta              `json:"meta"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Data["hello"] != "world" {
		t.Errorf("data = %v", resp.Data)
	}
	if resp.Meta.Total != 42 || resp.Meta.Pages != 3 {
		t.Errorf("meta = %+v", resp.Meta)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusTeapot, "teapot", "I'm a teapot", map[string]string{"field": "bad"})

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.Error.Code != "teapot" || resp.Error.Message != "I'm a teapot" {
		t.Errorf("error = %+v", resp.Error)
	}
	if resp.Error.Details["field"] != "bad" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", service.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("get draft: %w", service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"no rows", sql.ErrNoRows, http.StatusNotFound, "not_found"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"account locked", service.ErrAccountLocked, http.StatusForbidden, "account_locked"},
		{
			"invalid transition",
			&model.ErrInvalidTransition{From: model.EventStatusPublished, Action: model.ActionApprove},
			http.StatusConflict, "invalid_transition",
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, tt.err, "event")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeErrorResponse(t, rec)
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteServiceErrorValidation(t *testing.T) {
	verr := &service.ValidationError{Steps: model.StepErrors{
		model.StepBasics:   {"title": "Title is required"},
		model.StepDateTime: {"start_at": "Start date is required"},
	}}

	rec := httptest.NewRecorder()
	writeServiceError(rec, verr, "draft")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeErrorResponse(t, rec)
	if resp.Error.Code != "validation_error" {
		t.Errorf("code = %q", resp.Error.Code)
	}
	if resp.Error.Details["step_1.title"] != "Title is required" {
		t.Errorf("details = %v", resp.Error.Details)
	}
	if resp.Error.Details["step_3.start_at"] != "Start date is required" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestFlattenStepErrors(t *testing.T) {
	got := flattenStepErrors(model.StepErrors{
		model.StepPricing: {"price_min": "Minimum price must not exceed maximum"},
	})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got["step_5.price_min"] == "" {
		t.Errorf("missing step_5.price_min key: %v", got)
	}
}

func TestDecodeJSONValidatesTags(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantOK     bool
		wantStatus int
	}{
		{"valid", `{"email":"user@example.com","password":"secret123"}`, true, 0},
		{"missing password", `{"email":"user@example.com"}`, false, http.StatusBadRequest},
		{"bad email", `{"email":"nope","password":"secret123"}`, false, http.StatusBadRequest},
		{"malformed", `{"email":`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			var dst LoginRequest
			ok := decodeJSON(rec, req, &dst)
			if ok != tt.wantOK {
				t.Fatalf("decodeJSON() = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK && rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"event", "Event"},
		{"draft", "Draft"},
		{"", ""},
		{"Image", "Image"},
	}
	for _, tt := range tests {
		if got := capitalizeFirst(tt.in); got != tt.want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
