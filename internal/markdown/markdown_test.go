// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	got, err := ToHTML("# Heading\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if !strings.Contains(got, "<h1") {
		t.Errorf("expected heading in output, got %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output, got %q", got)
	}
}

func TestToHTMLStripsScripts(t *testing.T) {
	got, err := ToHTML("Hello <script>alert('x')</script> world")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived sanitization: %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("expected text content preserved, got %q", got)
	}
}

func TestToHTMLStripsEventHandlers(t *testing.T) {
	got, err := ToHTML(`<a href="https://example.com" onclick="steal()">link</a>`)
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if strings.Contains(got, "onclick") {
		t.Errorf("onclick attribute survived sanitization: %q", got)
	}
}
