// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/happenlist/happenlist/internal/config"
	"github.com/happenlist/happenlist/internal/store"
)

// Scheduler handles periodic cleanup: stale wizard drafts and expired
// audit entries.
type Scheduler struct {
	db     *sql.DB
	cfg    *config.Config
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start registers the nightly cleanup jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Drafts nobody touched within the retention window go first
	if _, err := s.cron.AddFunc("0 3 * * *", func() {
		if err := s.cleanupStaleDrafts(); err != nil {
			s.logger.Error("failed to clean up stale drafts", "error", err)
		}
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.pruneAuditLog(); err != nil {
			s.logger.Error("failed to prune audit log", "error", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// cleanupStaleDrafts removes drafts whose last update is older than the
// configured retention window.
func (s *Scheduler) cleanupStaleDrafts() error {
	ctx := context.Background()
	queries := store.New(s.db)

	deleted, err := queries.DeleteStaleDrafts(ctx, s.cfg.DraftRetentionDays)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("deleted stale drafts",
			"count", deleted, "retention_days", s.cfg.DraftRetentionDays)
	}
	return nil
}

// pruneAuditLog drops audit entries past the retention window.
func (s *Scheduler) pruneAuditLog() error {
	ctx := context.Background()
	queries := store.New(s.db)

	cutoff := time.Now().AddDate(0, 0, -s.cfg.AuditRetentionDays)
	pruned, err := queries.PruneAuditBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if pruned > 0 {
		s.logger.Info("pruned audit entries",
			"count", pruned, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
