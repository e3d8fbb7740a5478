// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
)

// Short queries must never reach the database, so a service with no
// connection behind it is enough to exercise the guard.
func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	svc := NewVenueService(nil)

	tests := []struct {
		name  string
		query string
	}{
		{"empty", ""},
		{"single rune", "a"},
		{"single multibyte rune", "é"},
		{"whitespace only", "   "},
		{"whitespace-padded single rune", "  a  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(context.Background(), tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error: %v", tt.query, err)
			}
			if len(got) != 0 {
				t.Errorf("Search(%q) returned %d venues, want none", tt.query, len(got))
			}
		})
	}
}
