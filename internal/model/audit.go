// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Audit actions recorded in the append-only audit log. Every moderation and
// superadmin mutation writes exactly one entry; entries are never updated or
// deleted (the scheduler prunes them past the retention window only).
const (
	AuditActionSubmit         = "event.submit"
	AuditActionApprove        = "event.approve"
	AuditActionReject         = "event.reject"
	AuditActionRequestChanges = "event.request_changes"
	AuditActionCancel         = "event.cancel"
	AuditActionEdit           = "superadmin.edit"
	AuditActionStatusChange   = "superadmin.status_change"
	AuditActionSoftDelete     = "superadmin.soft_delete"
	AuditActionRestore        = "superadmin.restore"
	AuditActionHardDelete     = "superadmin.hard_delete"
	AuditActionSystemLog      = "system.log"
)

// Audited entity types.
const (
	AuditEntityEvent     = "event"
	AuditEntityVenue     = "venue"
	AuditEntityOrganizer = "organizer"
	AuditEntityDraft     = "draft"
	AuditEntitySystem    = "system"
)

// Audit levels, used when slog WARN/ERROR records are mirrored into the log.
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)
