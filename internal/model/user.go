// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// User roles. Hierarchical: superadmin > admin > user.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// RoleLevel returns a numeric level for role hierarchy comparison.
// Unknown roles have no privileges.
func RoleLevel(role string) int {
	switch role {
	case RoleSuperadmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}

// CanModerate is the authorization predicate for moderation actions: a pure
// function over (caller role, resource owner, caller identity). Owners may
// submit their own events; every other lifecycle action needs at least admin.
func CanModerate(callerRole, callerEmail, ownerEmail, action string) bool {
	if !AdminActionRequired(action) {
		// submit: the owner, or any admin acting on the owner's behalf
		return callerEmail == ownerEmail || RoleLevel(callerRole) >= RoleLevel(RoleAdmin)
	}
	if action == ActionCancel {
		return RoleLevel(callerRole) >= RoleLevel(RoleSuperadmin)
	}
	return RoleLevel(callerRole) >= RoleLevel(RoleAdmin)
}
