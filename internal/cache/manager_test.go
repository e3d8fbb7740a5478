package cache

import (
	"context"
	"testing"
	"time"
)

func TestManager_ListingInvalidation(t *testing.T) {
	m := NewManager(NewMemoryCacheWithTTL(time.Minute))
	defer m.Close()
	ctx := context.Background()

	listKey := ListingsKey(3, 0, 0, "2026-09-01", "", "", 1)
	m.SetListing(ctx, listKey, []byte(`{"data":[]}`), 0)
	m.SetSitemap(ctx, []byte("<urlset/>"), 0)
	_ = m.Backend().Set(ctx, VenueSearchKey("paradiso", 10), []byte("[]"), 0)
	_ = m.Backend().Set(ctx, EventKey("jazz-night"), []byte("{}"), 0)

	m.InvalidateListings(ctx)

	if m.GetListing(ctx, listKey) != nil {
		t.Error("listing page survived invalidation")
	}
	if m.GetSitemap(ctx) != nil {
		t.Error("sitemap survived invalidation")
	}
	if _, err := m.Backend().Get(ctx, VenueSearchKey("paradiso", 10)); err == nil {
		t.Error("venue search result survived invalidation")
	}
	// Event detail pages are invalidated per slug, not by listing changes.
	if _, err := m.Backend().Get(ctx, EventKey("jazz-night")); err != nil {
		t.Errorf("event detail page dropped by listing invalidation: %v", err)
	}
}

func TestManager_InvalidateEvent(t *testing.T) {
	m := NewManager(NewMemoryCacheWithTTL(time.Minute))
	defer m.Close()
	ctx := context.Background()

	_ = m.Backend().Set(ctx, EventKey("jazz-night"), []byte("{}"), 0)
	m.InvalidateEvent(ctx, "jazz-night")

	if _, err := m.Backend().Get(ctx, EventKey("jazz-night")); err == nil {
		t.Error("event detail page survived InvalidateEvent")
	}
}

func TestListingsKeyDistinct(t *testing.T) {
	a := ListingsKey(1, 0, 0, "", "", "", 1)
	b := ListingsKey(1, 0, 0, "", "", "", 2)
	c := ListingsKey(2, 0, 0, "", "", "", 1)
	if a == b || a == c {
		t.Errorf("listing keys collide: %q %q %q", a, b, c)
	}
}
