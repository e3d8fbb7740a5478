// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happenlist/happenlist/internal/model"
)

func TestAuditActionForCoversAllReviewerActions(t *testing.T) {
	actions := []string{
		model.ActionApprove,
		model.ActionReject,
		model.ActionRequestChanges,
		model.ActionCancel,
	}
	for _, action := range actions {
		auditAction, ok := auditActionFor[action]
		require.True(t, ok, "no audit action mapped for %q", action)
		assert.NotEmpty(t, auditAction)
	}
}

func TestAuditActionForMapping(t *testing.T) {
	assert.Equal(t, model.AuditActionApprove, auditActionFor[model.ActionApprove])
	assert.Equal(t, model.AuditActionReject, auditActionFor[model.ActionReject])
	assert.Equal(t, model.AuditActionRequestChanges, auditActionFor[model.ActionRequestChanges])
	assert.Equal(t, model.AuditActionCancel, auditActionFor[model.ActionCancel])
}

func TestModerationLifecycle(t *testing.T) {
	// The full path a submission takes through review
	next, err := model.Transition(model.EventStatusDraft, model.ActionSubmit)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPendingReview, next)

	next, err = model.Transition(next, model.ActionRequestChanges)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusChangesRequested, next)

	next, err = model.Transition(next, model.ActionSubmit)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPendingReview, next)

	next, err = model.Transition(next, model.ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPublished, next)

	next, err = model.Transition(next, model.ActionCancel)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusCancelled, next)

	// Cancelled is terminal
	_, err = model.Transition(next, model.ActionSubmit)
	var transitionErr *model.ErrInvalidTransition
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, model.EventStatusCancelled, transitionErr.From)
}
