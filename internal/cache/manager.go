package cache

import (
	"context"
	"fmt"
	"time"
)

// Key prefixes for the cached surfaces. Invalidation works on whole
// prefixes so a publish never leaves a stale listing page behind.
const (
	listingsPrefix = "listings:"
	eventPrefix    = "event:"
	venuesPrefix   = "venues:"
	sitemapKey     = "sitemap:xml"
)

// Manager groups the cached read surfaces and their invalidation rules.
type Manager struct {
	backend Cacher
}

// NewManager creates a cache manager over the given backend.
func NewManager(backend Cacher) *Manager {
	return &Manager{backend: backend}
}

// Backend exposes the underlying Cacher.
func (m *Manager) Backend() Cacher {
	return m.backend
}

// ListingsKey builds the cache key for one page of the published listing.
func ListingsKey(categoryID, venueID, organizerID int64, from, to, query string, page int) string {
	return fmt.Sprintf("%sc%d:v%d:o%d:f%s:t%s:q%s:p%d",
		listingsPrefix, categoryID, venueID, organizerID, from, to, query, page)
}

// EventKey builds the cache key for a published event detail page.
func EventKey(slug string) string {
	return eventPrefix + slug
}

// VenueSearchKey builds the cache key for a venue search result set.
func VenueSearchKey(query string, limit int) string {
	return fmt.Sprintf("%sq:%s:l%d", venuesPrefix, query, limit)
}

// GetListing returns a cached listing page, or nil on a miss.
func (m *Manager) GetListing(ctx context.Context, key string) []byte {
	data, err := m.backend.Get(ctx, key)
	if err != nil {
		return nil
	}
	return data
}

// SetListing stores a listing page.
func (m *Manager) SetListing(ctx context.Context, key string, data []byte, ttl time.Duration) {
	_ = m.backend.Set(ctx, key, data, ttl)
}

// InvalidateListings drops every cached listing page and venue result.
// Called when an event is published, cancelled, or mutated by a
// superadmin, so status changes are visible immediately.
func (m *Manager) InvalidateListings(ctx context.Context) {
	_ = m.backend.DeleteByPrefix(ctx, listingsPrefix)
	_ = m.backend.DeleteByPrefix(ctx, venuesPrefix)
	_ = m.backend.Delete(ctx, sitemapKey)
}

// InvalidateEvent drops one cached event detail page.
func (m *Manager) InvalidateEvent(ctx context.Context, slug string) {
	_ = m.backend.Delete(ctx, EventKey(slug))
}

// GetSitemap returns the cached sitemap XML, or nil on a miss.
func (m *Manager) GetSitemap(ctx context.Context) []byte {
	data, err := m.backend.Get(ctx, sitemapKey)
	if err != nil {
		return nil
	}
	return data
}

// SetSitemap stores the rendered sitemap XML.
func (m *Manager) SetSitemap(ctx context.Context, data []byte, ttl time.Duration) {
	_ = m.backend.Set(ctx, sitemapKey, data, ttl)
}

// Stats returns backend statistics when the backend provides them.
func (m *Manager) Stats() (Stats, bool) {
	sp, ok := m.backend.(StatsProvider)
	if !ok {
		return Stats{}, false
	}
	return sp.Stats(), true
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
