// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"github.com/happenlist/happenlist/internal/auth"
)

// The timing-equalizer hash must be a well-formed argon2id encoding so the
// comparison burns the same work as a real password check.
func TestDummyHashIsComparable(t *testing.T) {
	ok, err := auth.CheckPassword("not-the-password", dummyHash)
	if err != nil {
		t.Fatalf("CheckPassword against dummy hash: %v", err)
	}
	if ok {
		t.Error("arbitrary password matched the timing-equalizer hash")
	}

	ok, err = auth.CheckPassword("timing-equalizer", dummyHash)
	if err != nil {
		t.Fatalf("CheckPassword against dummy hash: %v", err)
	}
	if !ok {
		t.Error("dummy hash does not verify its own source password")
	}
}
