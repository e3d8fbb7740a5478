// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/happenlist/happenlist/internal/cache"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
	"github.com/happenlist/happenlist/internal/util"
)

// ModerationService drives the event status lifecycle. Every mutation runs
// in a transaction that also appends exactly one audit entry, and any
// change that affects what the public can see drops the cached listings.
type ModerationService struct {
	db      *sql.DB
	queries *store.Queries
	cache   *cache.Manager
}

// NewModerationService creates a new ModerationService. The cache manager
// may be nil in tests.
func NewModerationService(db *sql.DB, cm *cache.Manager) *ModerationService {
	return &ModerationService{db: db, queries: store.New(db), cache: cm}
}

// auditActionFor maps a moderation action to its audit log action.
var auditActionFor = map[string]string{
	model.ActionApprove:        model.AuditActionApprove,
	model.ActionReject:         model.AuditActionReject,
	model.ActionRequestChanges: model.AuditActionRequestChanges,
	model.ActionCancel:         model.AuditActionCancel,
}

// Moderate applies a reviewer action (approve, reject, request_changes,
// cancel) to the event. The transition table decides whether the action is
// allowed from the event's current status; the message becomes the
// rejection reason or change request depending on the action.
func (s *ModerationService) Moderate(ctx context.Context, eventID int64, action string, caller store.User, message, userAgent string) (store.Event, error) {
	event, err := s.queries.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("get event: %w", err)
	}

	if !model.CanModerate(caller.Role, caller.Email, event.CreatedBy, action) {
		return store.Event{}, ErrForbidden
	}

	next, err := model.Transition(event.Status, action)
	if err != nil {
		return store.Event{}, err
	}

	params := store.UpdateEventStatusParams{
		ID:         eventID,
		Status:     next,
		ReviewedBy: util.NullStringFromValue(caller.Email),
		// Preserve prior review fields unless this action rewrites them
		RejectionReason:      event.RejectionReason,
		ChangeRequestMessage: event.ChangeRequestMessage,
	}
	switch action {
	case model.ActionReject:
		params.RejectionReason = util.NullStringFromValue(message)
	case model.ActionRequestChanges:
		params.ChangeRequestMessage = util.NullStringFromValue(message)
	}

	updated, err := s.applyStatus(ctx, params, AuditRecord{
		Action:     auditActionFor[action],
		EntityType: model.AuditEntityEvent,
		EntityID:   eventID,
		AdminEmail: caller.Email,
		Notes:      message,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"from": event.Status, "to": next},
	})
	if err != nil {
		return store.Event{}, err
	}

	s.invalidate(ctx, event.Status, updated.Status, updated.Slug)
	slog.Info("event moderated",
		"event_id", eventID, "action", action, "from", event.Status,
		"to", updated.Status, "reviewer", caller.Email)
	return updated, nil
}

// ForceStatus sets an arbitrary status, bypassing the transition table.
// Superadmin only.
func (s *ModerationService) ForceStatus(ctx context.Context, eventID int64, status string, caller store.User, notes, userAgent string) (store.Event, error) {
	if model.RoleLevel(caller.Role) < model.RoleLevel(model.RoleSuperadmin) {
		return store.Event{}, ErrForbidden
	}
	if !model.IsValidEventStatus(status) {
		return store.Event{}, fmt.Errorf("unknown status %q", status)
	}

	event, err := s.queries.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("get event: %w", err)
	}

	updated, err := s.applyStatus(ctx, store.UpdateEventStatusParams{
		ID:                   eventID,
		Status:               status,
		ReviewedBy:           util.NullStringFromValue(caller.Email),
		RejectionReason:      event.RejectionReason,
		ChangeRequestMessage: event.ChangeRequestMessage,
	}, AuditRecord{
		Action:     model.AuditActionStatusChange,
		EntityType: model.AuditEntityEvent,
		EntityID:   eventID,
		AdminEmail: caller.Email,
		Notes:      notes,
		Level:      model.AuditLevelWarning,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"from": event.Status, "to": status, "forced": true},
	})
	if err != nil {
		return store.Event{}, err
	}

	s.invalidate(ctx, event.Status, updated.Status, updated.Slug)
	slog.Warn("event status forced",
		"event_id", eventID, "from", event.Status, "to", status, "by", caller.Email)
	return updated, nil
}

// Edit rewrites an event's content fields. Superadmin only; regular users
// edit through the draft wizard before submission.
func (s *ModerationService) Edit(ctx context.Context, arg store.UpdateEventParams, caller store.User, userAgent string) (store.Event, error) {
	if model.RoleLevel(caller.Role) < model.RoleLevel(model.RoleSuperadmin) {
		return store.Event{}, ErrForbidden
	}

	event, err := s.queries.GetEventByID(ctx, arg.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("get event: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Event{}, fmt.Errorf("begin edit tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	updated, err := qtx.UpdateEvent(ctx, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("update event: %w", err)
	}

	if _, err := Record(ctx, qtx, AuditRecord{
		Action:     model.AuditActionEdit,
		EntityType: model.AuditEntityEvent,
		EntityID:   arg.ID,
		AdminEmail: caller.Email,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"slug": updated.Slug},
	}); err != nil {
		return store.Event{}, err
	}

	if err := tx.Commit(); err != nil {
		return store.Event{}, fmt.Errorf("commit edit tx: %w", err)
	}

	s.invalidate(ctx, event.Status, updated.Status, updated.Slug)
	if event.Slug != updated.Slug {
		s.invalidate(ctx, event.Status, updated.Status, event.Slug)
	}
	return updated, nil
}

// SoftDelete hides the event and remembers its status so Restore can bring
// it back. Superadmin only.
func (s *ModerationService) SoftDelete(ctx context.Context, eventID int64, caller store.User, notes, userAgent string) error {
	if model.RoleLevel(caller.Role) < model.RoleLevel(model.RoleSuperadmin) {
		return ErrForbidden
	}

	event, err := s.queries.GetEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin soft delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if err := qtx.SoftDeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("soft delete event: %w", err)
	}

	if _, err := Record(ctx, qtx, AuditRecord{
		Action:     model.AuditActionSoftDelete,
		EntityType: model.AuditEntityEvent,
		EntityID:   eventID,
		AdminEmail: caller.Email,
		Notes:      notes,
		Level:      model.AuditLevelWarning,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"prior_status": event.Status},
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit soft delete tx: %w", err)
	}

	s.invalidate(ctx, event.Status, "", event.Slug)
	slog.Warn("event soft-deleted", "event_id", eventID, "by", caller.Email)
	return nil
}

// Restore undoes a soft delete, returning the event to its prior status.
// Superadmin only.
func (s *ModerationService) Restore(ctx context.Context, eventID int64, caller store.User, userAgent string) (store.Event, error) {
	if model.RoleLevel(caller.Role) < model.RoleLevel(model.RoleSuperadmin) {
		return store.Event{}, ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Event{}, fmt.Errorf("begin restore tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	event, err := qtx.RestoreEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("restore event: %w", err)
	}

	if _, err := Record(ctx, qtx, AuditRecord{
		Action:     model.AuditActionRestore,
		EntityType: model.AuditEntityEvent,
		EntityID:   eventID,
		AdminEmail: caller.Email,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"status": event.Status},
	}); err != nil {
		return store.Event{}, err
	}

	if err := tx.Commit(); err != nil {
		return store.Event{}, fmt.Errorf("commit restore tx: %w", err)
	}

	s.invalidate(ctx, "", event.Status, event.Slug)
	slog.Info("event restored", "event_id", eventID, "status", event.Status, "by", caller.Email)
	return event, nil
}

// HardDelete permanently removes the event row. Superadmin only; the audit
// entry is the only trace left.
func (s *ModerationService) HardDelete(ctx context.Context, eventID int64, caller store.User, notes, userAgent string) error {
	if model.RoleLevel(caller.Role) < model.RoleLevel(model.RoleSuperadmin) {
		return ErrForbidden
	}

	event, err := s.queries.GetEventByID(ctx, eventID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get event: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin hard delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	if err := qtx.HardDeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("hard delete event: %w", err)
	}

	if _, err := Record(ctx, qtx, AuditRecord{
		Action:     model.AuditActionHardDelete,
		EntityType: model.AuditEntityEvent,
		EntityID:   eventID,
		AdminEmail: caller.Email,
		Notes:      notes,
		Level:      model.AuditLevelWarning,
		UserAgent:  userAgent,
		Metadata:   map[string]any{"slug": event.Slug, "title": event.Title},
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit hard delete tx: %w", err)
	}

	s.invalidate(ctx, event.Status, "", event.Slug)
	slog.Warn("event hard-deleted", "event_id", eventID, "by", caller.Email)
	return nil
}

// applyStatus runs one status change plus its audit entry in a
// transaction.
func (s *ModerationService) applyStatus(ctx context.Context, params store.UpdateEventStatusParams, rec AuditRecord) (store.Event, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Event{}, fmt.Errorf("begin status tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)

	updated, err := qtx.UpdateEventStatus(ctx, params)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.Event{}, ErrNotFound
		}
		return store.Event{}, fmt.Errorf("update status: %w", err)
	}

	if _, err := Record(ctx, qtx, rec); err != nil {
		return store.Event{}, err
	}

	if err := tx.Commit(); err != nil {
		return store.Event{}, fmt.Errorf("commit status tx: %w", err)
	}
	return updated, nil
}

// invalidate drops cached public surfaces when visibility may have
// changed. Listings are dropped whenever the event was or becomes
// published; the event detail key goes regardless so a stale copy never
// outlives a moderation decision.
func (s *ModerationService) invalidate(ctx context.Context, from, to, slug string) {
	if s.cache == nil {
		return
	}
	if from == model.EventStatusPublished || to == model.EventStatusPublished {
		s.cache.InvalidateListings(ctx)
	}
	if slug != "" {
		s.cache.InvalidateEvent(ctx, slug)
	}
}
