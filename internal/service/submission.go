// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// SubmissionService converts completed drafts into pending_review events.
// The conversion is transactional: the event row, its tags, the audit
// entry, and the draft deletion all commit or roll back together.
type SubmissionService struct {
	db      *sql.DB
	queries *store.Queries
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(db *sql.DB) *SubmissionService {
	return &SubmissionService{db: db, queries: store.New(db)}
}

// Submit validates the draft and converts it into a pending_review event.
// The caller must own the draft or hold at least the admin role. On
// validation failure a *ValidationError carries the per-step field errors
// and the draft is left untouched.
func (s *SubmissionService) Submit(ctx context.Context, draftID int64, caller store.User, userAgent string) (store.Event, error) {
	draft, err := s.queries.GetDraft(ctx, draftID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("get draft: %w", err)
	}

	if !model.CanModerate(caller.Role, caller.Email, draft.OwnerEmail, model.ActionSubmit) {
		return store.Event{}, ErrForbidden
	}

	decoded, err := decodeDraft(draft)
	if err != nil {
		return store.Event{}, err
	}

	if errs := model.ValidateSubmission(decoded.Data); errs.HasErrors() {
		return store.Event{}, &ValidationError{Steps: errs}
	}

	slug, err := s.uniqueSlug(ctx, *decoded.Data.Title, decoded.Data.StartAt)
	if err != nil {
		return store.Event{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Event{}, fmt.Errorf("begin submit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	event, err := qtx.CreateEvent(ctx, eventParamsFromDraft(decoded.Data, slug, draft.OwnerEmail))
	if err != nil {
		return store.Event{}, fmt.Errorf("create event: %w", err)
	}

	for _, tagID := range decoded.Data.TagIDs {
		if err := qtx.InsertEventTag(ctx, event.ID, tagID); err != nil {
			return store.Event{}, fmt.Errorf("attach tag %d: %w", tagID, err)
		}
	}

	if _, err := Record(ctx, qtx, AuditRecord{
		Action:     model.AuditActionSubmit,
		EntityType: model.AuditEntityEvent,
		EntityID:   event.ID,
		AdminEmail: caller.Email,
		UserAgent:  userAgent,
		Metadata: map[string]any{
			"draft_id": draftID,
			"slug":     event.Slug,
		},
	}); err != nil {
		return store.Event{}, err
	}

	if err := qtx.DeleteDraft(ctx, draftID); err != nil {
		return store.Event{}, fmt.Errorf("delete submitted draft: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return store.Event{}, fmt.Errorf("commit submit tx: %w", err)
	}

	slog.Info("event submitted for review",
		"event_id", event.ID, "slug", event.Slug, "submitter", caller.Email)
	return event, nil
}

// EventSlug builds the public slug: the slugified title with the event's
// start date appended, so each occurrence of a recurring title gets its own
// address and the slug alone identifies the event.
func EventSlug(title string, startAt *time.Time) string {
	base := util.Slugify(title)
	if base == "" {
		base = "event"
	}
	if startAt == nil {
		return base
	}
	return base + "-" + startAt.Format("2006-01-02")
}

// uniqueSlug appends a numeric suffix when another event already holds the
// date-suffixed slug on the same start date.
func (s *SubmissionService) uniqueSlug(ctx context.Context, title string, startAt *time.Time) (string, error) {
	base := EventSlug(title, startAt)
	if startAt == nil {
		return base, nil
	}

	slug := base
	for i := 2; ; i++ {
		n, err := s.queries.CountEventSlugsOnDate(ctx, slug, *startAt)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", slug, err)
		}
		if n == 0 {
			return slug, nil
		}
		slug = base + "-" + strconv.Itoa(i)
	}
}

func eventParamsFromDraft(d model.DraftData, slug, createdBy string) store.CreateEventParams {
	p := store.CreateEventParams{
		Title:        *d.Title,
		Slug:         slug,
		Status:       model.EventStatusPendingReview,
		Source:       model.EventSourceManual,
		CategoryID:   util.NullInt64FromPtr(d.CategoryID),
		VenueID:      util.NullInt64FromPtr(d.VenueID),
		LocationName: util.NullStringFromPtr(d.LocationName),
		Address:      util.NullStringFromPtr(d.Address),
		OrganizerID:  util.NullInt64FromPtr(d.OrganizerID),
		StartAt:      *d.StartAt,
		EndAt:        util.NullTimeFromPtr(d.EndAt),
		CreatedBy:    createdBy,
		Currency:     "EUR",
	}

	if d.Description != nil {
		p.Description = *d.Description
	}
	if d.IsFree != nil {
		p.IsFree = *d.IsFree
	}
	if d.PriceMin != nil {
		p.PriceMin = sql.NullFloat64{Float64: *d.PriceMin, Valid: true}
	}
	if d.PriceMax != nil {
		p.PriceMax = sql.NullFloat64{Float64: *d.PriceMax, Valid: true}
	}
	if d.Currency != nil && *d.Currency != "" {
		p.Currency = *d.Currency
	}
	if d.TicketURL != nil {
		p.TicketURL = *d.TicketURL
	}
	if d.HeroImageURL != nil {
		p.HeroImageURL = *d.HeroImageURL
	}

	return p
}
