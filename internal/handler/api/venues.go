// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/store"
)

const venueSearchCacheTTL = 10 * time.Minute

// VenueResponse represents a venue in API responses.
type VenueResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Address     string   `json:"address,omitempty"`
	City        string   `json:"city,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount int32    `json:"review_count"`
	Score       *float64 `json:"score,omitempty"`
}

func storeVenueToResponse(v store.Venue) VenueResponse {
	resp := VenueResponse{
		ID:          v.ID,
		Name:        v.Name,
		Slug:        v.Slug,
		Address:     v.Address,
		City:        v.City,
		ReviewCount: v.ReviewCount,
	}
	if v.Rating.Valid {
		resp.Rating = &v.Rating.Float64
	}
	return resp
}

// SearchVenues handles GET /api/v1/venues/search?q=...&limit=N. Matches are
// ranked by trigram similarity, with an ILIKE fallback when pg_trgm is not
// installed. A query shorter than two characters returns an empty result.
func (h *Handler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query().Get("q")

	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			WriteBadRequest(w, "Invalid limit", nil)
			return
		}
		limit = int32(n)
	}

	cacheKey := cache.VenueSearchKey(query, int(limit))
	if h.cache != nil {
		if raw := h.cache.GetListing(ctx, cacheKey); raw != nil {
			writeRawJSON(w, raw)
			return
		}
	}

	matches, err := h.venues.Search(ctx, query, limit)
	if err != nil {
		writeServiceError(w, err, "venues")
		return
	}

	items := make([]VenueResponse, 0, len(matches))
	for _, m := range matches {
		resp := storeVenueToResponse(m.Venue)
		score := m.Score
		resp.Score = &score
		items = append(items, resp)
	}

	raw, err := json.Marshal(Response{Data: items})
	if err != nil {
		WriteInternalError(w, "Failed to render venues")
		return
	}
	if h.cache != nil {
		h.cache.SetListing(ctx, cacheKey, raw, venueSearchCacheTTL)
	}
	writeRawJSON(w, raw)
}

// ListVenues handles GET /api/v1/venues.
func (h *Handler) ListVenues(w http.ResponseWriter, r *http.Request) {
	page, perPage := handler.ParsePagination(r)
	venues, total, err := h.venues.List(r.Context(), page, perPage)
	if err != nil {
		writeServiceError(w, err, "venues")
		return
	}

	items := make([]VenueResponse, 0, len(venues))
	for _, v := range venues {
		items = append(items, storeVenueToResponse(v))
	}
	WriteSuccess(w, items, &Meta{
		Total:   total,
		Page:    page,
		PerPage: int(perPage),
		Pages:   handler.TotalPages(total, perPage),
	})
}

// GetVenue handles GET /api/v1/venues/{id}. The path parameter may be a
// numeric ID or a slug.
func (h *Handler) GetVenue(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "id")

	var (
		venue store.Venue
		err   error
	)
	if id, perr := strconv.ParseInt(param, 10, 64); perr == nil && id > 0 {
		venue, err = h.venues.Get(r.Context(), id)
	} else {
		venue, err = h.venues.GetBySlug(r.Context(), param)
	}
	if err != nil {
		writeServiceError(w, err, "venue")
		return
	}
	WriteSuccess(w, storeVenueToResponse(venue), nil)
}

// ListPopularVenues handles GET /api/v1/venues/popular.
func (h *Handler) ListPopularVenues(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = int32(n)
		}
	}

	venues, err := h.venues.ListPopular(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err, "venues")
		return
	}

	items := make([]VenueResponse, 0, len(venues))
	for _, v := range venues {
		resp := storeVenueToResponse(v.Venue)
		score := v.Score
		resp.Score = &score
		items = append(items, resp)
	}
	WriteSuccess(w, items, nil)
}
