package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilder_Build(t *testing.T) {
	b := NewSitemapBuilder("https://happenlist.example")
	b.AddHomepage()
	b.AddEvent(SitemapEvent{
		Slug:      "jazz-night",
		StartAt:   time.Now().Add(48 * time.Hour),
		UpdatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})
	b.AddVenue(SitemapVenue{Slug: "paradiso"})
	b.AddOrganizer(SitemapOrganizer{Slug: "city-jazz-club"})

	data, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, xml.Header) {
		t.Error("missing XML header")
	}
	for _, want := range []string{
		"<loc>https://happenlist.example</loc>",
		"<loc>https://happenlist.example/events/jazz-night</loc>",
		"<loc>https://happenlist.example/venues/paradiso</loc>",
		"<loc>https://happenlist.example/organizers/city-jazz-club</loc>",
		"<lastmod>2026-08-01T12:00:00Z</lastmod>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sitemap missing %q", want)
		}
	}

	var parsed Sitemap
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 4 {
		t.Errorf("got %d URLs, want 4", len(parsed.URLs))
	}
}

func TestSitemapBuilder_PastEventChangeFreq(t *testing.T) {
	b := NewSitemapBuilder("https://happenlist.example")
	b.AddEvent(SitemapEvent{Slug: "past-gig", StartAt: time.Now().Add(-24 * time.Hour)})
	b.AddEvent(SitemapEvent{Slug: "future-gig", StartAt: time.Now().Add(24 * time.Hour)})

	if b.urls[0].ChangeFreq != ChangeFreqMonthly {
		t.Errorf("past event ChangeFreq = %q, want %q", b.urls[0].ChangeFreq, ChangeFreqMonthly)
	}
	if b.urls[1].ChangeFreq != ChangeFreqDaily {
		t.Errorf("future event ChangeFreq = %q, want %q", b.urls[1].ChangeFreq, ChangeFreqDaily)
	}
}

func TestGenerateSitemap_Empty(t *testing.T) {
	data, err := GenerateSitemap("https://happenlist.example", nil, nil, nil)
	if err != nil {
		t.Fatalf("GenerateSitemap: %v", err)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("output is not valid XML: %v", err)
	}
	if len(parsed.URLs) != 1 {
		t.Errorf("got %d URLs, want homepage only", len(parsed.URLs))
	}
}
