// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/seo"
	"github.com/happenlist/happenlist/internal/store"
)

const sitemapTTL = time.Hour

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	queries *store.Queries
	cache   *cache.Manager
	cfg     *config.Config
}

// NewSEOHandler creates a new SEO handler.
func NewSEOHandler(queries *store.Queries, cacheManager *cache.Manager, cfg *config.Config) *SEOHandler {
	return &SEOHandler{
		queries: queries,
		cache:   cacheManager,
		cfg:     cfg,
	}
}

// Sitemap serves the XML sitemap with all published events, venues and
// organizers. The rendered document is cached for an hour and invalidated
// whenever an event transitions into or out of the published status.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		if xml := h.cache.GetSitemap(ctx); xml != nil {
			writeSitemap(w, xml)
			return
		}
	}

	events, err := h.queries.ListPublishedEventsForSitemap(ctx)
	if err != nil {
		slog.Error("sitemap: list events", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	venues, err := h.queries.ListVenuesForSitemap(ctx)
	if err != nil {
		slog.Error("sitemap: list venues", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	organizers, err := h.queries.ListOrganizersForSitemap(ctx)
	if err != nil {
		slog.Error("sitemap: list organizers", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seoEvents := make([]seo.SitemapEvent, 0, len(events))
	for _, e := range events {
		seoEvents = append(seoEvents, seo.SitemapEvent{
			Slug:      e.Slug,
			StartAt:   e.StartAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	seoVenues := make([]seo.SitemapVenue, 0, len(venues))
	for _, v := range venues {
		seoVenues = append(seoVenues, seo.SitemapVenue{
			Slug:      v.Slug,
			UpdatedAt: v.UpdatedAt.Time,
		})
	}
	seoOrganizers := make([]seo.SitemapOrganizer, 0, len(organizers))
	for _, o := range organizers {
		seoOrganizers = append(seoOrganizers, seo.SitemapOrganizer{
			Slug:      o.Slug,
			UpdatedAt: o.UpdatedAt.Time,
		})
	}

	xml, err := seo.GenerateSitemap(h.cfg.SiteURL, seoEvents, seoVenues, seoOrganizers)
	if err != nil {
		slog.Error("sitemap: generate", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.cache != nil {
		h.cache.SetSitemap(ctx, xml, sitemapTTL)
	}
	writeSitemap(w, xml)
}

func writeSitemap(w http.ResponseWriter, xml []byte) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(xml)
}

// Robots serves robots.txt. Development deployments disallow all crawlers
// so staging sites never end up in search indexes.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	robots := seo.GenerateRobots(h.cfg.SiteURL, h.cfg.IsDevelopment(), "")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(robots))
}
