// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/markdown"
	"github.com/happenlist/happenlist/internal/middleware"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
)

// listingCacheTTL bounds how stale a cached listing page may get. Listings
// are also invalidated whenever an event enters or leaves published.
const listingCacheTTL = 5 * time.Minute

// EventResponse represents an event in API responses.
type EventResponse struct {
	ID              int64         `json:"id"`
	Title           string        `json:"title"`
	Slug            string        `json:"slug"`
	Description     string        `json:"description"`
	DescriptionHTML string        `json:"description_html,omitempty"`
	Status          string        `json:"status"`
	Source          string        `json:"source"`
	CategoryID      *int64        `json:"category_id,omitempty"`
	VenueID         *int64        `json:"venue_id,omitempty"`
	LocationName    string        `json:"location_name,omitempty"`
	Address         string        `json:"address,omitempty"`
	OrganizerID     *int64        `json:"organizer_id,omitempty"`
	StartAt         time.Time     `json:"start_at"`
	EndAt           *time.Time    `json:"end_at,omitempty"`
	IsFree          bool          `json:"is_free"`
	PriceMin        *float64      `json:"price_min,omitempty"`
	PriceMax        *float64      `json:"price_max,omitempty"`
	Currency        string        `json:"currency,omitempty"`
	TicketURL       string        `json:"ticket_url,omitempty"`
	HeroImageURL    string        `json:"hero_image_url,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	ChangeRequest   string        `json:"change_request_message,omitempty"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Tags            []TagResponse `json:"tags,omitempty"`
}

// storeEventToResponse converts a store.Event to EventResponse. Review
// fields are included only for the owner and moderators; public callers get
// the trimmed view.
func storeEventToResponse(e store.Event, tags []store.Tag, includeReview bool) EventResponse {
	resp := EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Slug:         e.Slug,
		Description:  e.Description,
		Status:       e.Status,
		Source:       e.Source,
		StartAt:      e.StartAt,
		IsFree:       e.IsFree,
		Currency:     e.Currency,
		TicketURL:    e.TicketURL,
		HeroImageURL: e.HeroImageURL,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if e.CategoryID.Valid {
		resp.CategoryID = &e.CategoryID.Int64
	}
	if e.VenueID.Valid {
		resp.VenueID = &e.VenueID.Int64
	}
	if e.OrganizerID.Valid {
		resp.OrganizerID = &e.OrganizerID.Int64
	}
	if e.LocationName.Valid {
		resp.LocationName = e.LocationName.String
	}
	if e.Address.Valid {
		resp.Address = e.Address.String
	}
	if e.EndAt.Valid {
		resp.EndAt = &e.EndAt.Time
	}
	if e.PriceMin.Valid {
		resp.PriceMin = &e.PriceMin.Float64
	}
	if e.PriceMax.Valid {
		resp.PriceMax = &e.PriceMax.Float64
	}
	if e.PublishedAt.Valid {
		resp.PublishedAt = &e.PublishedAt.Time
	}
	if includeReview {
		if e.RejectionReason.Valid {
			resp.RejectionReason = e.RejectionReason.String
		}
		if e.ChangeRequestMessage.Valid {
			resp.ChangeRequest = e.ChangeRequestMessage.String
		}
	}

	for _, t := range tags {
		resp.Tags = append(resp.Tags, TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}

	return resp
}

// ListEvents handles GET /api/v1/events: the public listing of published
// events, filterable by category, venue and date range. Result pages are
// cached as rendered JSON.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := service.ListingFilter{}
	filter.Page, filter.PerPage = handler.ParsePagination(r)

	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid category ID", nil)
			return
		}
		filter.CategoryID = id
	}
	if raw := q.Get("venue"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid venue ID", nil)
			return
		}
		filter.VenueID = id
	}
	if raw := q.Get("organizer"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			WriteBadRequest(w, "Invalid organizer ID", nil)
			return
		}
		filter.OrganizerID = id
	}
	filter.Query = q.Get("q")

	fromStr, toStr := q.Get("from"), q.Get("to")
	var err error
	if filter.From, err = parseDateParam(fromStr); err != nil {
		WriteBadRequest(w, "Invalid 'from' date, expected YYYY-MM-DD or RFC 3339", nil)
		return
	}
	if filter.To, err = parseDateParam(toStr); err != nil {
		WriteBadRequest(w, "Invalid 'to' date, expected YYYY-MM-DD or RFC 3339", nil)
		return
	}

	cacheKey := cache.ListingsKey(filter.CategoryID, filter.VenueID, filter.OrganizerID,
		fromStr, toStr, filter.Query, filter.Page)
	if h.cache != nil && filter.PerPage == handler.DefaultPerPage {
		if raw := h.cache.GetListing(ctx, cacheKey); raw != nil {
			writeRawJSON(w, raw)
			return
		}
	}

	events, total, err := h.events.ListPublished(ctx, filter)
	if err != nil {
		writeServiceError(w, err, "events")
		return
	}

	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, storeEventToResponse(e, nil, false))
	}

	resp := Response{
		Data: items,
		Meta: &Meta{
			Total:   total,
			Page:    filter.Page,
			PerPage: int(filter.PerPage),
			Pages:   handler.TotalPages(total, filter.PerPage),
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		WriteInternalError(w, "Failed to render events")
		return
	}
	if h.cache != nil && filter.PerPage == handler.DefaultPerPage {
		h.cache.SetListing(ctx, cacheKey, raw, listingCacheTTL)
	}
	writeRawJSON(w, raw)
}

// GetEvent handles GET /api/v1/events/{slug}: the public detail view of a
// published event, including its tags and the description rendered to HTML.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if h.cache != nil {
		if raw := h.cache.GetListing(ctx, cache.EventKey(slug)); raw != nil {
			writeRawJSON(w, raw)
			return
		}
	}

	event, tags, err := h.events.GetPublishedBySlug(ctx, slug)
	if err != nil {
		writeServiceError(w, err, "event")
		return
	}

	resp := storeEventToResponse(event, tags, false)
	if html, err := markdown.ToHTML(event.Description); err == nil {
		resp.DescriptionHTML = html
	} else {
		slog.Warn("event: render description", "slug", slug, "error", err)
	}

	raw, err := json.Marshal(Response{Data: resp})
	if err != nil {
		WriteInternalError(w, "Failed to render event")
		return
	}
	if h.cache != nil {
		h.cache.SetListing(ctx, cache.EventKey(slug), raw, listingCacheTTL)
	}
	writeRawJSON(w, raw)
}

// ListMyEvents handles GET /api/v1/my/events: everything the authenticated
// user has submitted, in any status, with review feedback included.
func (h *Handler) ListMyEvents(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	page, perPage := handler.ParsePagination(r)
	events, err := h.events.ListMine(r.Context(), user.Email, page, perPage)
	if err != nil {
		writeServiceError(w, err, "events")
		return
	}

	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, storeEventToResponse(e, nil, true))
	}

	WriteSuccess(w, items, &Meta{Page: page, PerPage: int(perPage)})
}

// parseDateParam accepts an empty string, a date (2026-07-01) or a full
// RFC 3339 timestamp.
func parseDateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeRawJSON(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}
