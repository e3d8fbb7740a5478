// Package seo provides sitemap.xml and robots.txt builders for the public
// event catalogue.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqAlways  ChangeFreq = "always"
	ChangeFreqHourly  ChangeFreq = "hourly"
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
	ChangeFreqYearly  ChangeFreq = "yearly"
	ChangeFreqNever   ChangeFreq = "never"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEvent is a published event entry for the sitemap.
type SitemapEvent struct {
	Slug      string
	StartAt   time.Time
	UpdatedAt time.Time
}

// SitemapVenue is a venue page entry for the sitemap.
type SitemapVenue struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapOrganizer is an organizer page entry for the sitemap.
type SitemapOrganizer struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the public pages.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqHourly,
		Priority:   "1.0",
	})
}

// AddEvent adds a published event page to the sitemap. Past events churn
// less, so their change frequency drops.
func (b *SitemapBuilder) AddEvent(ev SitemapEvent) {
	freq := ChangeFreqDaily
	if !ev.StartAt.IsZero() && ev.StartAt.Before(time.Now()) {
		freq = ChangeFreqMonthly
	}
	url := SitemapURL{
		Loc:        b.siteURL + "/events/" + ev.Slug,
		ChangeFreq: freq,
		Priority:   "0.8",
	}
	if !ev.UpdatedAt.IsZero() {
		url.LastMod = ev.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddEvents adds multiple events to the sitemap.
func (b *SitemapBuilder) AddEvents(events []SitemapEvent) {
	for _, ev := range events {
		b.AddEvent(ev)
	}
}

// AddVenue adds a venue page to the sitemap.
func (b *SitemapBuilder) AddVenue(v SitemapVenue) {
	url := SitemapURL{
		Loc:        b.siteURL + "/venues/" + v.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	}
	if !v.UpdatedAt.IsZero() {
		url.LastMod = v.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddVenues adds multiple venues to the sitemap.
func (b *SitemapBuilder) AddVenues(venues []SitemapVenue) {
	for _, v := range venues {
		b.AddVenue(v)
	}
}

// AddOrganizer adds an organizer page to the sitemap.
func (b *SitemapBuilder) AddOrganizer(o SitemapOrganizer) {
	url := SitemapURL{
		Loc:        b.siteURL + "/organizers/" + o.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.5",
	}
	if !o.UpdatedAt.IsZero() {
		url.LastMod = o.UpdatedAt.Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddOrganizers adds multiple organizers to the sitemap.
func (b *SitemapBuilder) AddOrganizers(organizers []SitemapOrganizer) {
	for _, o := range organizers {
		b.AddOrganizer(o)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds a complete sitemap from the public content.
func GenerateSitemap(siteURL string, events []SitemapEvent, venues []SitemapVenue, organizers []SitemapOrganizer) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddEvents(events)
	builder.AddVenues(venues)
	builder.AddOrganizers(organizers)
	return builder.Build()
}
