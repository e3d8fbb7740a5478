// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"testing"

	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/testutil"
)

func TestNew(t *testing.T) {
	logger := testutil.SilentLogger()
	cfg := &config.Config{DraftRetentionDays: 90, AuditRetentionDays: 365}

	s := New(nil, cfg, logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	cfg := &config.Config{DraftRetentionDays: 90, AuditRetentionDays: 365}
	s := New(nil, cfg, testutil.SilentLogger())

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := len(s.cron.Entries()); got != 2 {
		t.Errorf("registered jobs = %d, want 2", got)
	}

	s.Stop()
}
