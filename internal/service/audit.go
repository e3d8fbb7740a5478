// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mileusna/useragent"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
)

// AuditService reads and writes the append-only audit log.
type AuditService struct {
	queries *store.Queries
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{queries: store.New(db)}
}

// AuditRecord describes one entry to append.
type AuditRecord struct {
	Action     string
	EntityType string
	EntityID   int64
	AdminEmail string
	Notes      string
	Level      string
	UserAgent  string
	Metadata   map[string]any
}

// Record appends one audit entry using the given queries, which may be
// transaction-bound. Moderation writes go through here inside the same
// transaction as the status change so the log and the event never
// disagree.
func Record(ctx context.Context, q *store.Queries, rec AuditRecord) (store.AuditLogEntry, error) {
	level := rec.Level
	if level == "" {
		level = model.AuditLevelInfo
	}

	var meta json.RawMessage
	if rec.Metadata != nil {
		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return store.AuditLogEntry{}, fmt.Errorf("encode audit metadata: %w", err)
		}
		meta = raw
	}

	entry, err := q.InsertAuditEntry(ctx, store.InsertAuditEntryParams{
		Action:     rec.Action,
		EntityType: rec.EntityType,
		EntityID:   sql.NullInt64{Int64: rec.EntityID, Valid: rec.EntityID != 0},
		AdminEmail: rec.AdminEmail,
		Notes:      sql.NullString{String: rec.Notes, Valid: rec.Notes != ""},
		Level:      level,
		Client:     ClientFromUserAgent(rec.UserAgent),
		Metadata:   meta,
	})
	if err != nil {
		return store.AuditLogEntry{}, fmt.Errorf("insert audit entry: %w", err)
	}
	return entry, nil
}

// Record appends one audit entry outside of any transaction.
func (s *AuditService) Record(ctx context.Context, rec AuditRecord) (store.AuditLogEntry, error) {
	return Record(ctx, s.queries, rec)
}

// ListFilter narrows an audit log listing.
type ListFilter struct {
	EntityType string
	EntityID   int64
	AdminEmail string
	Limit      int32
	Offset     int32
}

// List returns audit entries newest first, with the total count for
// pagination.
func (s *AuditService) List(ctx context.Context, f ListFilter) ([]store.AuditLogEntry, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	params := store.ListAuditEntriesParams{
		EntityType: sql.NullString{String: f.EntityType, Valid: f.EntityType != ""},
		EntityID:   sql.NullInt64{Int64: f.EntityID, Valid: f.EntityID != 0},
		AdminEmail: sql.NullString{String: f.AdminEmail, Valid: f.AdminEmail != ""},
		Limit:      f.Limit,
		Offset:     f.Offset,
	}

	entries, err := s.queries.ListAuditEntries(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}

	total, err := s.queries.CountAuditEntries(ctx, store.CountAuditEntriesParams{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		AdminEmail: params.AdminEmail,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	return entries, total, nil
}

// ClientFromUserAgent condenses a User-Agent header into a short
// "browser/os" label for the audit log's client column.
func ClientFromUserAgent(uaHeader string) string {
	if uaHeader == "" {
		return ""
	}

	ua := useragent.Parse(uaHeader)
	if ua.Bot {
		return truncateLabel("bot:" + ua.Name)
	}

	parts := make([]string, 0, 2)
	if ua.Name != "" {
		name := ua.Name
		if ua.Version != "" {
			name += " " + ua.Version
		}
		parts = append(parts, name)
	}
	if ua.OS != "" {
		parts = append(parts, ua.OS)
	}
	if len(parts) == 0 {
		// Non-browser clients (curl, scripts) keep their raw token
		return truncateLabel(uaHeader)
	}
	return truncateLabel(strings.Join(parts, " / "))
}

// truncateLabel caps client labels at the audit column's width.
func truncateLabel(s string) string {
	if len(s) > 64 {
		return s[:64]
	}
	return s
}
