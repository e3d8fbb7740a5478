// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "fmt"

// Moderation actions. Each action moves an event through the status
// lifecycle; superadmin operations (forced status change, soft delete,
// restore, hard delete) bypass this table and are audited separately.
const (
	ActionSubmit         = "submit"
	ActionApprove        = "approve"
	ActionReject         = "reject"
	ActionRequestChanges = "request_changes"
	ActionCancel         = "cancel"
)

// ErrInvalidTransition is returned when an action is not allowed from the
// event's current status.
type ErrInvalidTransition struct {
	From   string
	Action string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("action %q is not allowed from status %q", e.Action, e.From)
}

// transitions is the closed (status, action) -> status table. Anything not
// listed here is rejected.
var transitions = map[string]map[string]string{
	EventStatusDraft: {
		ActionSubmit: EventStatusPendingReview,
	},
	EventStatusChangesRequested: {
		ActionSubmit: EventStatusPendingReview, // resubmit after edits
	},
	EventStatusPendingReview: {
		ActionApprove:        EventStatusPublished,
		ActionReject:         EventStatusRejected,
		ActionRequestChanges: EventStatusChangesRequested,
	},
	EventStatusPublished: {
		ActionCancel: EventStatusCancelled,
	},
	EventStatusRejected: {
		ActionCancel: EventStatusCancelled,
	},
}

// Transition returns the status reached by applying action to the current
// status, or an *ErrInvalidTransition if the table does not allow it.
func Transition(current, action string) (string, error) {
	if next, ok := transitions[current][action]; ok {
		return next, nil
	}
	return "", &ErrInvalidTransition{From: current, Action: action}
}

// CanTransition reports whether action is allowed from the current status.
func CanTransition(current, action string) bool {
	_, ok := transitions[current][action]
	return ok
}

// ActionsFrom returns the actions allowed from the given status.
func ActionsFrom(current string) []string {
	m := transitions[current]
	if len(m) == 0 {
		return nil
	}
	actions := make([]string, 0, len(m))
	for a := range m {
		actions = append(actions, a)
	}
	return actions
}

// AdminActionRequired reports whether the action may only be performed by an
// admin reviewer (as opposed to the submitting user's own submit).
func AdminActionRequired(action string) bool {
	switch action {
	case ActionApprove, ActionReject, ActionRequestChanges, ActionCancel:
		return true
	}
	return false
}
