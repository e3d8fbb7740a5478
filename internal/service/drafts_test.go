// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"testing"

	"github.com/happenlist/happenlist/internal/store"
)

// An existing draft owned by someone else must read as Forbidden, never as
// NotFound: the two cases are distinct in the API contract.
func TestRequireDraftOwner(t *testing.T) {
	row := &store.EventDraft{ID: 12, OwnerEmail: "alice@example.com"}

	if err := requireDraftOwner(row, "alice@example.com"); err != nil {
		t.Errorf("owner access rejected: %v", err)
	}

	err := requireDraftOwner(row, "mallory@example.com")
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("non-owner access = %v, want ErrForbidden", err)
	}
}
