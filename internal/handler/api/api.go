// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST handlers for the event platform.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/version"
)

// validate checks request structs against their validate tags.
var validate = validator.New()

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db       *sql.DB
	queries  *store.Queries
	cfg      *config.Config
	sessions *scs.SessionManager
	cache    *cache.Manager

	auth       *service.AuthService
	drafts     *service.DraftService
	events     *service.EventService
	venues     *service.VenueService
	submission *service.SubmissionService
	moderation *service.ModerationService
	images     *service.ImageService
	audit      *service.AuditService
}

// NewHandler creates a new API handler with all services wired.
func NewHandler(db *sql.DB, cfg *config.Config, sessions *scs.SessionManager, cacheManager *cache.Manager) *Handler {
	return &Handler{
		db:         db,
		queries:    store.New(db),
		cfg:        cfg,
		sessions:   sessions,
		cache:      cacheManager,
		auth:       service.NewAuthService(db),
		drafts:     service.NewDraftService(db),
		events:     service.NewEventService(db),
		venues:     service.NewVenueService(db),
		submission: service.NewSubmissionService(db),
		moderation: service.NewModerationService(db, cacheManager),
		images:     service.NewImageService(db, cfg),
		audit:      service.NewAuditService(db),
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteConflict writes a 409 Conflict response.
func WriteConflict(w http.ResponseWriter, code, message string) {
	WriteError(w, http.StatusConflict, code, message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 400 Bad Request response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusBadRequest, "validation_error", "Validation failed", fieldErrors)
}

// writeServiceError maps service layer errors onto HTTP responses. Anything
// unrecognized is logged and reported as a 500 without leaking detail.
func writeServiceError(w http.ResponseWriter, err error, entityName string) {
	var transitionErr *model.ErrInvalidTransition
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		WriteNotFound(w, capitalizeFirst(entityName)+" not found")
	case errors.Is(err, service.ErrForbidden):
		WriteForbidden(w, "Not allowed")
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteUnauthorized(w, "Invalid email or password")
	case errors.Is(err, service.ErrAccountLocked):
		WriteError(w, http.StatusForbidden, "account_locked",
			"Account temporarily locked after too many failed logins", nil)
	case errors.As(err, &transitionErr):
		WriteConflict(w, "invalid_transition",
			fmt.Sprintf("Cannot %s an event in status %q", transitionErr.Action, transitionErr.From))
	default:
		if verr, ok := service.AsValidationError(err); ok {
			WriteValidationError(w, flattenStepErrors(verr.Steps))
			return
		}
		slog.Error("api: unhandled service error", "entity", entityName, "error", err)
		WriteInternalError(w, "Failed to process "+entityName)
	}
}

// flattenStepErrors converts wizard step errors into flat detail keys of the
// form "step_3.start_at".
func flattenStepErrors(steps model.StepErrors) map[string]string {
	details := make(map[string]string)
	for step, fields := range steps {
		for field, msg := range fields {
			details[fmt.Sprintf("step_%d.%s", step, field)] = msg
		}
	}
	return details
}

// decodeJSON decodes a request body into dst and validates it against its
// validate tags. On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[strings.ToLower(fe.Field())] = "failed on the '" + fe.Tag() + "' rule"
			}
			WriteValidationError(w, details)
			return false
		}
		WriteBadRequest(w, "Invalid request", nil)
		return false
	}
	return true
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses an ID from the URL and fetches the entity.
// Returns the entity and true if successful, or zero value and false if the
// response has already been written.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID", nil)
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		writeServiceError(w, err, entityName)
		return zero, false
	}

	return entity, true
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: version.Version,
	}, nil)
}
