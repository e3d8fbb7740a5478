// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
)

// AuditEntryResponse represents one audit log entry in API responses.
type AuditEntryResponse struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *int64          `json:"entity_id,omitempty"`
	AdminEmail string          `json:"admin_email"`
	Notes      string          `json:"notes,omitempty"`
	Level      string          `json:"level"`
	Client     string          `json:"client,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

func storeAuditEntryToResponse(e store.AuditLogEntry) AuditEntryResponse {
	resp := AuditEntryResponse{
		ID:         e.ID,
		Action:     e.Action,
		EntityType: e.EntityType,
		AdminEmail: e.AdminEmail,
		Level:      e.Level,
		Client:     e.Client,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
	if e.EntityID.Valid {
		resp.EntityID = &e.EntityID.Int64
	}
	if e.Notes.Valid {
		resp.Notes = e.Notes.String
	}
	return resp
}

// ListAuditLog handles GET /api/v1/admin/audit: the moderation trail,
// newest first, filterable by entity type, entity ID and admin email.
func (h *Handler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, perPage := handler.ParsePagination(r)

	filter := service.ListFilter{
		EntityType: q.Get("entity_type"),
		AdminEmail: q.Get("admin"),
		Limit:      perPage,
		Offset:     int32(page-1) * perPage,
	}
	if raw := q.Get("entity_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid entity ID", nil)
			return
		}
		filter.EntityID = id
	}

	entries, total, err := h.audit.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "audit log")
		return
	}

	items := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, storeAuditEntryToResponse(e))
	}
	WriteSuccess(w, items, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   handler.TotalPages(total, perPage),
	})
}
