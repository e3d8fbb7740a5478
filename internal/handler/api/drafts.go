// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/happenlist/happenlist/internal/handler"
	"github.com/happenlist/happenlist/internal/middleware"
	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
)

// DraftResponse represents a wizard draft in API responses.
type DraftResponse struct {
	ID             int64                  `json:"id"`
	Data           model.DraftData        `json:"data"`
	Series         *model.SeriesDraftData `json:"series,omitempty"`
	CurrentStep    int                    `json:"current_step"`
	CompletedSteps []int                  `json:"completed_steps"`
	StepErrors     map[string]string      `json:"step_errors,omitempty"`
}

func draftToResponse(d *service.Draft) DraftResponse {
	resp := DraftResponse{
		ID:             d.ID,
		Data:           d.Data,
		Series:         d.SeriesData,
		CurrentStep:    d.CurrentStep,
		CompletedSteps: d.CompletedSteps,
	}
	if d.CompletedSteps == nil {
		resp.CompletedSteps = []int{}
	}
	if d.StepErrors.HasErrors() {
		resp.StepErrors = flattenStepErrors(d.StepErrors)
	}
	return resp
}

// DraftRequest is the request body for creating or updating a draft. All
// wizard fields are optional while drafting; validation only gates
// submission.
type DraftRequest struct {
	Data        model.DraftData        `json:"data"`
	Series      *model.SeriesDraftData `json:"series,omitempty"`
	CurrentStep int                    `json:"current_step"`
}

// CreateDraft handles POST /api/v1/drafts.
func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := h.drafts.Create(r.Context(), user.Email, req.Data, req.Series, req.CurrentStep)
	if err != nil {
		writeServiceError(w, err, "draft")
		return
	}

	WriteCreated(w, draftToResponse(draft))
}

// ListDrafts handles GET /api/v1/drafts.
func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	drafts, err := h.drafts.List(r.Context(), user.Email)
	if err != nil {
		writeServiceError(w, err, "drafts")
		return
	}

	items := make([]DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, draftToResponse(d))
	}
	WriteSuccess(w, items, nil)
}

// GetDraft handles GET /api/v1/drafts/{id}.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	draft, ok := requireEntityByID(w, r, "draft", func(id int64) (*service.Draft, error) {
		return h.drafts.Get(r.Context(), id, user.Email)
	})
	if !ok {
		return
	}
	WriteSuccess(w, draftToResponse(draft), nil)
}

// UpdateDraft handles PUT /api/v1/drafts/{id}. The whole wizard state is
// replaced on each save; completed steps are recomputed server-side.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid draft ID", nil)
		return
	}

	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := h.drafts.Update(r.Context(), id, user.Email, req.Data, req.Series, req.CurrentStep)
	if err != nil {
		writeServiceError(w, err, "draft")
		return
	}
	WriteSuccess(w, draftToResponse(draft), nil)
}

// DeleteDraft handles DELETE /api/v1/drafts/{id}.
func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid draft ID", nil)
		return
	}

	if err := h.drafts.Delete(r.Context(), id, user.Email); err != nil {
		writeServiceError(w, err, "draft")
		return
	}
	WriteSuccess(w, map[string]string{"status": "deleted"}, nil)
}

// SubmitDraft handles POST /api/v1/drafts/{id}/submit: validates the draft,
// converts it into a pending_review event and deletes the draft, all in one
// transaction.
func (h *Handler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Not authenticated")
		return
	}

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid draft ID", nil)
		return
	}

	event, err := h.submission.Submit(r.Context(), id, *user, r.UserAgent())
	if err != nil {
		writeServiceError(w, err, "draft")
		return
	}

	WriteCreated(w, storeEventToResponse(event, nil, true))
}
