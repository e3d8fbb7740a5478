// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// EventService serves the read side: public listings, event detail, the
// moderation queue, and a user's own submissions.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// ListingFilter narrows the public event listing.
type ListingFilter struct {
	CategoryID  int64
	VenueID     int64
	OrganizerID int64
	From        *time.Time
	To          *time.Time
	Query       string
	Page        int
	PerPage     int32
}

// ListPublished returns one page of published events plus the total count.
func (s *EventService) ListPublished(ctx context.Context, f ListingFilter) ([]store.Event, int64, error) {
	if f.PerPage <= 0 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.Page < 1 {
		f.Page = 1
	}

	query := strings.TrimSpace(f.Query)
	params := store.ListPublishedEventsParams{
		CategoryID:  sql.NullInt64{Int64: f.CategoryID, Valid: f.CategoryID != 0},
		VenueID:     sql.NullInt64{Int64: f.VenueID, Valid: f.VenueID != 0},
		OrganizerID: sql.NullInt64{Int64: f.OrganizerID, Valid: f.OrganizerID != 0},
		From:        util.NullTimeFromPtr(f.From),
		To:          util.NullTimeFromPtr(f.To),
		Query:       sql.NullString{String: query, Valid: query != ""},
		Limit:       f.PerPage,
		Offset:      int32(f.Page-1) * f.PerPage,
	}

	events, err := s.queries.ListPublishedEvents(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list published events: %w", err)
	}

	total, err := s.queries.CountPublishedEvents(ctx, store.CountPublishedEventsParams{
		CategoryID:  params.CategoryID,
		VenueID:     params.VenueID,
		OrganizerID: params.OrganizerID,
		From:        params.From,
		To:          params.To,
		Query:       params.Query,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count published events: %w", err)
	}

	return events, total, nil
}

// GetPublishedBySlug returns one published event plus its tags.
func (s *EventService) GetPublishedBySlug(ctx context.Context, slug string) (store.Event, []store.Tag, error) {
	event, err := s.queries.GetPublishedEventBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, nil, ErrNotFound
		}
		return store.Event{}, nil, fmt.Errorf("get event by slug: %w", err)
	}

	tags, err := s.queries.ListEventTags(ctx, event.ID)
	if err != nil {
		return store.Event{}, nil, fmt.Errorf("list event tags: %w", err)
	}

	return event, tags, nil
}

// Get returns one event by ID regardless of status (but not soft-deleted
// ones). Used by the admin surfaces.
func (s *EventService) Get(ctx context.Context, id int64) (store.Event, []store.Tag, error) {
	event, err := s.queries.GetEventByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, nil, ErrNotFound
		}
		return store.Event{}, nil, fmt.Errorf("get event: %w", err)
	}

	tags, err := s.queries.ListEventTags(ctx, event.ID)
	if err != nil {
		return store.Event{}, nil, fmt.Errorf("list event tags: %w", err)
	}

	return event, tags, nil
}

// ListByStatus returns one page of events in the given status, oldest
// first so the moderation queue is worked in submission order.
func (s *EventService) ListByStatus(ctx context.Context, status string, page int, perPage int32) ([]store.Event, int64, error) {
	if !model.IsValidEventStatus(status) {
		return nil, 0, fmt.Errorf("unknown status %q", status)
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}

	events, err := s.queries.ListEventsByStatus(ctx, store.ListEventsByStatusParams{
		Status: status,
		Limit:  perPage,
		Offset: int32(page-1) * perPage,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list events by status: %w", err)
	}

	total, err := s.queries.CountEventsByStatus(ctx, status)
	if err != nil {
		return nil, 0, fmt.Errorf("count events by status: %w", err)
	}

	return events, total, nil
}

// ListMine returns the caller's own submissions, newest first.
func (s *EventService) ListMine(ctx context.Context, email string, page int, perPage int32) ([]store.Event, error) {
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}
	if page < 1 {
		page = 1
	}

	events, err := s.queries.ListEventsByCreator(ctx, store.ListEventsByCreatorParams{
		CreatedBy: email,
		Limit:     perPage,
		Offset:    int32(page-1) * perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("list events by creator: %w", err)
	}
	return events, nil
}
