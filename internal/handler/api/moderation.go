// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/middleware"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// ModerationRequest is the request body for reviewer actions. The message
// is required when rejecting or requesting changes so the submitter always
// learns why.
type ModerationRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

// ForceStatusRequest is the request body for a superadmin status override.
type ForceStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// EditEventRequest is the request body for a superadmin event edit. The
// whole editable surface is replaced.
type EditEventRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=300"`
	Description  string     `json:"description" validate:"required"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	VenueID      *int64     `json:"venue_id,omitempty"`
	LocationName string     `json:"location_name,omitempty"`
	Address      string     `json:"address,omitempty"`
	OrganizerID  *int64     `json:"organizer_id,omitempty"`
	StartAt      time.Time  `json:"start_at" validate:"required"`
	EndAt        *time.Time `json:"end_at,omitempty"`
	IsFree       bool       `json:"is_free"`
	PriceMin     *float64   `json:"price_min,omitempty"`
	PriceMax     *float64   `json:"price_max,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	TicketURL    string     `json:"ticket_url,omitempty" validate:"omitempty,url"`
	HeroImageURL string     `json:"hero_image_url,omitempty" validate:"omitempty,url"`
}

// ListModerationQueue handles GET /api/v1/admin/events?status=...: events
// awaiting review, oldest first. Defaults to the pending_review queue.
func (h *Handler) ListModerationQueue(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = model.EventStatusPendingReview
	}

	page, perPage := handler.ParsePagination(r)
	events, total, err := h.events.ListByStatus(r.Context(), status, page, perPage)
	if err != nil {
		if strings.Contains(err.Error(), "unknown status") {
			WriteBadRequest(w, "Unknown status "+status, nil)
			return
		}
		writeServiceError(w, err, "events")
		return
	}

	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, storeEventToResponse(e, nil, true))
	}
	WriteSuccess(w, items, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   handler.TotalPages(total, perPage),
	})
}

// GetEventForReview handles GET /api/v1/admin/events/{id}: the full event
// in any status, with tags and review fields.
func (h *Handler) GetEventForReview(w http.ResponseWriter, r *http.Request) {
	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	event, tags, err := h.events.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, storeEventToResponse(event, tags, true), nil)
}

// ApproveEvent handles POST /api/v1/admin/events/{id}/approve.
func (h *Handler) ApproveEvent(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, model.ActionApprove, false)
}

// RejectEvent handles POST /api/v1/admin/events/{id}/reject.
func (h *Handler) RejectEvent(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, model.ActionReject, true)
}

// RequestChanges handles POST /api/v1/admin/events/{id}/request-changes.
func (h *Handler) RequestChanges(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, model.ActionRequestChanges, true)
}

// CancelEvent handles POST /api/v1/admin/events/{id}/cancel. Cancelling a
// published or rejected event is reserved for superadmins.
func (h *Handler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, model.ActionCancel, false)
}

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, action string, messageRequired bool) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}
	if messageRequired && strings.TrimSpace(req.Message) == "" {
		WriteValidationError(w, map[string]string{"message": "A message is required for this action"})
		return
	}

	event, err := h.moderation.Moderate(r.Context(), id, action, *user, req.Message, r.UserAgent())
	if err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, storeEventToResponse(event, nil, true), nil)
}

// ForceEventStatus handles POST /api/v1/admin/events/{id}/status: a
// superadmin override that bypasses the transition table.
func (h *Handler) ForceEventStatus(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req ForceStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.moderation.ForceStatus(r.Context(), id, req.Status, *user, req.Notes, r.UserAgent())
	if err != nil {
		if strings.Contains(err.Error(), "unknown status") {
			WriteBadRequest(w, "Unknown status "+req.Status, nil)
			return
		}
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, storeEventToResponse(event, nil, true), nil)
}

// EditEvent handles PUT /api/v1/admin/events/{id}: a superadmin edit of a
// published or in-review event.
func (h *Handler) EditEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req EditEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}
	arg := store.UpdateEventParams{
		ID:           id,
		Title:        req.Title,
		Slug:         service.EventSlug(req.Title, &req.StartAt),
		Description:  req.Description,
		CategoryID:   util.NullInt64FromPtr(req.CategoryID),
		VenueID:      util.NullInt64FromPtr(req.VenueID),
		LocationName: util.NullStringFromValue(req.LocationName),
		Address:      util.NullStringFromValue(req.Address),
		OrganizerID:  util.NullInt64FromPtr(req.OrganizerID),
		StartAt:      req.StartAt,
		EndAt:        util.NullTimeFromPtr(req.EndAt),
		IsFree:       req.IsFree,
		PriceMin:     util.NullFloat64FromPtr(req.PriceMin),
		PriceMax:     util.NullFloat64FromPtr(req.PriceMax),
		Currency:     currency,
		TicketURL:    req.TicketURL,
		HeroImageURL: req.HeroImageURL,
	}

	event, err := h.moderation.Edit(r.Context(), arg, *user, r.UserAgent())
	if err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, storeEventToResponse(event, nil, true), nil)
}

// SoftDeleteEvent handles DELETE /api/v1/admin/events/{id}: hides the
// event while keeping the row for restore.
func (h *Handler) SoftDeleteEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if err := h.moderation.SoftDelete(r.Context(), id, *user, req.Message, r.UserAgent()); err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// RestoreEvent handles POST /api/v1/admin/events/{id}/restore.
func (h *Handler) RestoreEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	event, err := h.moderation.Restore(r.Context(), id, *user, r.UserAgent())
	if err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, storeEventToResponse(event, nil, true), nil)
}

// PurgeEvent handles DELETE /api/v1/admin/events/{id}/purge: permanent
// removal. Superadmin only; the audit entry is the only trace left.
func (h *Handler) PurgeEvent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid event ID", nil)
		return
	}

	var req ModerationRequest
	if r.ContentLength > 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if err := h.moderation.HardDelete(r.Context(), id, *user, req.Message, r.UserAgent()); err != nil {
		writeServiceError(w, err, "event")
		return
	}
	WriteSuccess(w, map[string]string{"status": "purged"}, nil)
}
