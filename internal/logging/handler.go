// Package logging provides a custom slog handler that mirrors WARN and
// ERROR level records into the database-backed audit log.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes records at or above a threshold level to the audit log.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditLogHandler wraps the given handler. Records at WARN level and
// above are written to both the wrapped handler and the audit log.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// NewAuditLogHandlerWithLevel wraps the given handler with a custom
// minimum level for audit log mirroring.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}
	if r.Level >= h.level {
		h.writeToAuditLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

func (h *AuditLogHandler) writeToAuditLog(r slog.Record) {
	action := model.AuditActionSystemLog
	attrs := make(map[string]string)
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "action" {
			action = a.Value.String()
			return true
		}
		attrs[a.Key] = a.Value.String()
		return true
	})

	metadata, err := json.Marshal(attrs)
	if err != nil {
		metadata = []byte(`{}`)
	}

	// A background context ensures the entry lands even when the request
	// context was already cancelled.
	_, _ = h.queries.InsertAuditEntry(context.Background(), store.InsertAuditEntryParams{
		Action:     action,
		EntityType: model.AuditEntitySystem,
		AdminEmail: "system",
		Notes:      sql.NullString{String: r.Message, Valid: r.Message != ""},
		Level:      levelName(r.Level),
		Metadata:   metadata,
	})
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.AuditLevelError
	case level >= slog.LevelWarn:
		return model.AuditLevelWarning
	default:
		return model.AuditLevelInfo
	}
}
