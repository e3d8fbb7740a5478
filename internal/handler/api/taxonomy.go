// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// OrganizerResponse represents an organizer in API responses.
type OrganizerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Website string `json:"website,omitempty"`
	Email   string `json:"email,omitempty"`
}

func storeOrganizerToResponse(o store.Organizer) OrganizerResponse {
	return OrganizerResponse{
		ID:      o.ID,
		Name:    o.Name,
		Slug:    o.Slug,
		Website: o.Website,
		Email:   o.Email,
	}
}

// ListCategories handles GET /api/v1/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.queries.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err, "categories")
		return
	}

	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	WriteSuccess(w, items, nil)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.queries.ListTags(r.Context())
	if err != nil {
		writeServiceError(w, err, "tags")
		return
	}

	items := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		items = append(items, TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	WriteSuccess(w, items, nil)
}

// ListOrganizers handles GET /api/v1/organizers.
func (h *Handler) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	page, perPage := handler.ParsePagination(r)
	organizers, err := h.queries.ListOrganizers(r.Context(), perPage, int32(page-1)*perPage)
	if err != nil {
		writeServiceError(w, err, "organizers")
		return
	}

	items := make([]OrganizerResponse, 0, len(organizers))
	for _, o := range organizers {
		items = append(items, storeOrganizerToResponse(o))
	}
	WriteSuccess(w, items, &Meta{Page: page, PerPage: int(perPage)})
}

// GetOrganizer handles GET /api/v1/organizers/{id}. The path parameter may
// be a numeric ID or a slug.
func (h *Handler) GetOrganizer(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	var (
		organizer store.Organizer
		err       error
	)
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil && id > 0 {
		organizer, err = h.queries.GetOrganizerByID(r.Context(), id)
	} else {
		organizer, err = h.queries.GetOrganizerBySlug(r.Context(), param)
	}
	if err != nil {
		writeServiceError(w, err, "organizer")
		return
	}
	WriteSuccess(w, storeOrganizerToResponse(organizer), nil)
}

// CreateOrganizerRequest is the request body for creating an organizer.
type CreateOrganizerRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Website string `json:"website" validate:"omitempty,url"`
	Email   string `json:"email" validate:"omitempty,email"`
}

// CreateOrganizer handles POST /api/v1/admin/organizers.
func (h *Handler) CreateOrganizer(w http.ResponseWriter, r *http.Request) {
	var req CreateOrganizerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	organizer, err := h.queries.CreateOrganizer(r.Context(), store.CreateOrganizerParams{
		Name:    req.Name,
		Slug:    util.Slugify(req.Name),
		Website: req.Website,
		Email:   req.Email,
	})
	if err != nil {
		if isUniqueViolation(err) {
			WriteConflict(w, "organizer_exists", "An organizer with this name already exists")
			return
		}
		writeServiceError(w, err, "organizer")
		return
	}

	WriteCreated(w, storeOrganizerToResponse(organizer))
}
