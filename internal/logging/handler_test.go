package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/happenlist/happenlist/internal/model"
)

// recordingHandler captures every record passed through it.
type recordingHandler struct {
	records *[]slog.Record
}

func (h recordingHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h recordingHandler) Handle(_ context.Context, r slog.Record) error {
	*h.records = append(*h.records, r)
	return nil
}
func (h recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestAuditLogHandler_ForwardsToInner(t *testing.T) {
	var records []slog.Record
	handler := &AuditLogHandler{inner: recordingHandler{&records}, level: slog.LevelWarn}
	logger := slog.New(handler)

	// Below the mirror threshold nothing touches the store, so a nil
	// queries field is safe here.
	logger.Info("server started", "port", 8080)
	logger.Debug("processing request")

	if len(records) != 2 {
		t.Fatalf("expected 2 forwarded records, got %d", len(records))
	}
	if records[0].Message != "server started" {
		t.Errorf("Message = %q, want %q", records[0].Message, "server started")
	}
}

func TestAuditLogHandler_WithAttrsKeepsThreshold(t *testing.T) {
	var records []slog.Record
	handler := &AuditLogHandler{inner: recordingHandler{&records}, level: slog.LevelWarn}

	wrapped, ok := handler.WithAttrs([]slog.Attr{slog.String("service", "api")}).(*AuditLogHandler)
	if !ok {
		t.Fatal("WithAttrs did not return *AuditLogHandler")
	}
	if wrapped.level != slog.LevelWarn {
		t.Errorf("level = %v, want %v", wrapped.level, slog.LevelWarn)
	}

	grouped, ok := handler.WithGroup("request").(*AuditLogHandler)
	if !ok {
		t.Fatal("WithGroup did not return *AuditLogHandler")
	}
	if grouped.level != slog.LevelWarn {
		t.Errorf("level = %v, want %v", grouped.level, slog.LevelWarn)
	}
}

func TestLevelName(t *testing.T) {
	testCases := []struct {
		level    slog.Level
		expected string
	}{
		{slog.LevelDebug, model.AuditLevelInfo},
		{slog.LevelInfo, model.AuditLevelInfo},
		{slog.LevelWarn, model.AuditLevelWarning},
		{slog.LevelError, model.AuditLevelError},
		{slog.LevelError + 4, model.AuditLevelError},
	}

	for _, tc := range testCases {
		if got := levelName(tc.level); got != tc.expected {
			t.Errorf("levelName(%v) = %q, want %q", tc.level, got, tc.expected)
		}
	}
}
