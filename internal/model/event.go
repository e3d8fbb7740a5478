// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the Happenlist domain types: event statuses and the
// moderation state machine, submission wizard validation, drafts, audit
// actions, and user roles.
package model

// Event statuses. The full lifecycle is driven by the transition table in
// status.go; these constants are the only values the events.status column
// may hold.
const (
	EventStatusDraft            = "draft"
	EventStatusPendingReview    = "pending_review"
	EventStatusPublished        = "published"
	EventStatusRejected         = "rejected"
	EventStatusChangesRequested = "changes_requested"
	EventStatusCancelled        = "cancelled"
)

// Event sources.
const (
	EventSourceManual  = "manual"
	EventSourceScraper = "scraper"
	EventSourceAPI     = "api"
	EventSourceImport  = "import"
)

// ValidEventStatuses lists every status the events table accepts.
var ValidEventStatuses = []string{
	EventStatusDraft,
	EventStatusPendingReview,
	EventStatusPublished,
	EventStatusRejected,
	EventStatusChangesRequested,
	EventStatusCancelled,
}

// IsValidEventStatus reports whether s is a known event status.
func IsValidEventStatus(s string) bool {
	for _, v := range ValidEventStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidEventSource reports whether s is a known event source.
func IsValidEventSource(s string) bool {
	switch s {
	case EventSourceManual, EventSourceScraper, EventSourceAPI, EventSourceImport:
		return true
	}
	return false
}
