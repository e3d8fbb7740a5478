// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown renders user-supplied Markdown into sanitized HTML.
package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements from rendered output. UGCPolicy
// allows the safe subset of HTML suitable for user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// ToHTML converts Markdown source to sanitized HTML. Event descriptions are
// author-provided, so the result is always passed through the sanitizer
// before it reaches a response body.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}
