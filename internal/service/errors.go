// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic layer: draft persistence,
// submission, moderation, venue search, audit recording, and image
// re-hosting.
package service

import (
	"errors"
	"fmt"

	"github.com/happenlist/happenlist/internal/model"
)

// Sentinel errors shared across services. Handlers map these to HTTP
// status codes.
var (
	// ErrNotFound is returned when the requested entity does not exist
	// or is soft-deleted. Ownership checks also return it so callers
	// cannot probe for other users' drafts.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is authenticated but not
	// allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrAccountLocked is returned by Login when the account is locked
	// after repeated failures.
	ErrAccountLocked = errors.New("account temporarily locked")

	// ErrInvalidCredentials is returned by Login for a bad email or
	// password. Deliberately indistinguishable between the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries per-step field errors from a failed submission.
type ValidationError struct {
	Steps model.StepErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft incomplete: %d step(s) have errors", len(e.Steps))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
