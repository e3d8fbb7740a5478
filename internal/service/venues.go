// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/happenlist/happenlist/internal/store"
)

// Similarity settings for venue search.
const (
	// venueSimilarityThreshold is the minimum pg_trgm similarity score for
	// a fuzzy match.
	venueSimilarityThreshold = 0.3

	// iLikeFallbackScore is the constant score attached to ILIKE matches,
	// which carry no similarity ranking.
	iLikeFallbackScore = 0.3

	// minQueryRunes is the shortest query worth sending to the database.
	minQueryRunes = 2

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// VenueService searches and manages venues. Fuzzy search uses pg_trgm
// similarity when the extension is installed and degrades to ILIKE
// substring matching when it is not.
type VenueService struct {
	queries *store.Queries

	// trigramUnavailable is set after the first undefined-function error
	// so later searches skip the doomed query.
	trigramUnavailable bool
	mu                 sync.RWMutex
}

// NewVenueService creates a new VenueService.
func NewVenueService(db *sql.DB) *VenueService {
	return &VenueService{queries: store.New(db)}
}

// Search returns venues fuzzy-matched against the query, best match
// first. Queries shorter than two runes return no results without
// touching the database.
func (s *VenueService) Search(ctx context.Context, query string, limit int32) ([]store.RankedVenue, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryRunes {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	if !s.skipTrigram() {
		venues, err := s.queries.SearchVenuesTrigram(ctx, store.SearchVenuesTrigramParams{
			Query:     query,
			Threshold: venueSimilarityThreshold,
			Limit:     limit,
		})
		switch {
		case err == nil:
			return venues, nil
		case isUndefinedFunction(err):
			s.markTrigramUnavailable()
		default:
			return nil, fmt.Errorf("trigram venue search: %w", err)
		}
	}

	return s.searchILike(ctx, query, limit)
}

// searchILike is the degraded path: substring match ordered by
// popularity, every hit carrying the same constant score.
func (s *VenueService) searchILike(ctx context.Context, query string, limit int32) ([]store.RankedVenue, error) {
	venues, err := s.queries.SearchVenuesILike(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ilike venue search: %w", err)
	}

	ranked := make([]store.RankedVenue, 0, len(venues))
	for _, v := range venues {
		ranked = append(ranked, store.RankedVenue{Venue: v, Score: iLikeFallbackScore})
	}
	return ranked, nil
}

// Get returns one venue by ID.
func (s *VenueService) Get(ctx context.Context, id int64) (store.Venue, error) {
	venue, err := s.queries.GetVenueByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Venue{}, ErrNotFound
		}
		return store.Venue{}, fmt.Errorf("get venue: %w", err)
	}
	return venue, nil
}

// GetBySlug returns one venue by slug.
func (s *VenueService) GetBySlug(ctx context.Context, slug string) (store.Venue, error) {
	venue, err := s.queries.GetVenueBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Venue{}, ErrNotFound
		}
		return store.Venue{}, fmt.Errorf("get venue by slug: %w", err)
	}
	return venue, nil
}

// List returns one page of venues ordered by name, plus the total count.
func (s *VenueService) List(ctx context.Context, page int, perPage int32) ([]store.Venue, int64, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}

	venues, err := s.queries.ListVenues(ctx, perPage, int32(page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list venues: %w", err)
	}
	total, err := s.queries.CountVenues(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count venues: %w", err)
	}
	return venues, total, nil
}

// ListPopular returns rated venues best-first, for the empty search box.
// Results carry a zero similarity score since no query ranked them.
func (s *VenueService) ListPopular(ctx context.Context, limit int32) ([]store.RankedVenue, error) {
	if limit <= 0 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}
	venues, err := s.queries.ListPopularVenues(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular venues: %w", err)
	}

	ranked := make([]store.RankedVenue, 0, len(venues))
	for _, v := range venues {
		ranked = append(ranked, store.RankedVenue{Venue: v, Score: 0})
	}
	return ranked, nil
}

func (s *VenueService) skipTrigram() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trigramUnavailable
}

func (s *VenueService) markTrigramUnavailable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.trigramUnavailable {
		s.trigramUnavailable = true
		slog.Warn("pg_trgm not installed, venue search degraded to ILIKE")
	}
}

// isUndefinedFunction reports whether err is Postgres SQLSTATE 42883,
// raised when similarity() does not exist because pg_trgm is missing.
func isUndefinedFunction(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42883"
}
