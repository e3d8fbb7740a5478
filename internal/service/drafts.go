// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/store"
)

// DraftService manages submission wizard drafts. Every read and write is
// scoped to the owning user; drafts belonging to someone else surface as
// ErrNotFound.
type DraftService struct {
	queries *store.Queries
}

// NewDraftService creates a new DraftService.
func NewDraftService(db *sql.DB) *DraftService {
	return &DraftService{queries: store.New(db)}
}

// Draft is an EventDraft with its JSON payload decoded.
type Draft struct {
	ID             int64
	OwnerEmail     string
	Data           model.DraftData
	SeriesData     *model.SeriesDraftData
	CurrentStep    int
	CompletedSteps []int
	StepErrors     model.StepErrors
}

// Create starts a new draft for the owner with the given (possibly empty)
// wizard data.
func (s *DraftService) Create(ctx context.Context, ownerEmail string, data model.DraftData, series *model.SeriesDraftData, currentStep int) (*Draft, error) {
	raw, seriesRaw, err := encodeDraft(data, series)
	if err != nil {
		return nil, err
	}

	row, err := s.queries.CreateDraft(ctx, store.CreateDraftParams{
		OwnerEmail:      ownerEmail,
		DraftData:       raw,
		SeriesDraftData: seriesRaw,
		CurrentStep:     int32(clampStep(currentStep)),
		CompletedSteps:  toInt32Steps(model.CompletedSteps(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("create draft: %w", err)
	}

	slog.Info("draft created", "draft_id", row.ID, "owner", ownerEmail)
	return decodeDraft(row)
}

// Get returns the draft when it exists and belongs to the owner.
func (s *DraftService) Get(ctx context.Context, id int64, ownerEmail string) (*Draft, error) {
	row, err := s.getOwned(ctx, id, ownerEmail)
	if err != nil {
		return nil, err
	}
	return decodeDraft(*row)
}

// List returns all drafts belonging to the owner, most recently updated
// first.
func (s *DraftService) List(ctx context.Context, ownerEmail string) ([]*Draft, error) {
	rows, err := s.queries.ListDraftsByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	drafts := make([]*Draft, 0, len(rows))
	for _, row := range rows {
		d, err := decodeDraft(row)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// Update autosaves the draft. The full wizard payload replaces the stored
// one; completed steps are recomputed from the new data so the wizard's
// progress indicator never goes stale.
func (s *DraftService) Update(ctx context.Context, id int64, ownerEmail string, data model.DraftData, series *model.SeriesDraftData, currentStep int) (*Draft, error) {
	if _, err := s.getOwned(ctx, id, ownerEmail); err != nil {
		return nil, err
	}

	raw, seriesRaw, err := encodeDraft(data, series)
	if err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateDraft(ctx, store.UpdateDraftParams{
		ID:              id,
		DraftData:       raw,
		SeriesDraftData: seriesRaw,
		CurrentStep:     int32(clampStep(currentStep)),
		CompletedSteps:  toInt32Steps(model.CompletedSteps(data)),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update draft: %w", err)
	}

	return decodeDraft(row)
}

// Delete discards the draft.
func (s *DraftService) Delete(ctx context.Context, id int64, ownerEmail string) error {
	if _, err := s.getOwned(ctx, id, ownerEmail); err != nil {
		return err
	}

	if err := s.queries.DeleteDraft(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("delete draft: %w", err)
	}

	slog.Info("draft deleted", "draft_id", id, "owner", ownerEmail)
	return nil
}

// getOwned loads the raw draft row and enforces ownership: an unknown id
// is ErrNotFound, someone else's draft is ErrForbidden.
func (s *DraftService) getOwned(ctx context.Context, id int64, ownerEmail string) (*store.EventDraft, error) {
	row, err := s.queries.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if err := requireDraftOwner(&row, ownerEmail); err != nil {
		return nil, err
	}
	return &row, nil
}

// requireDraftOwner distinguishes a missing draft from someone else's.
func requireDraftOwner(row *store.EventDraft, callerEmail string) error {
	if row.OwnerEmail != callerEmail {
		return ErrForbidden
	}
	return nil
}

func encodeDraft(data model.DraftData, series *model.SeriesDraftData) (raw, seriesRaw json.RawMessage, err error) {
	raw, err = json.Marshal(data)
	if err != nil {
		return nil, nil, fmt.Errorf("encode draft data: %w", err)
	}
	if series != nil {
		seriesRaw, err = json.Marshal(series)
		if err != nil {
			return nil, nil, fmt.Errorf("encode series data: %w", err)
		}
	}
	return raw, seriesRaw, nil
}

func decodeDraft(row store.EventDraft) (*Draft, error) {
	d := &Draft{
		ID:          row.ID,
		OwnerEmail:  row.OwnerEmail,
		CurrentStep: int(row.CurrentStep),
	}

	if len(row.DraftData) > 0 {
		if err := json.Unmarshal(row.DraftData, &d.Data); err != nil {
			return nil, fmt.Errorf("decode draft %d: %w", row.ID, err)
		}
	}
	if len(row.SeriesDraftData) > 0 {
		var series model.SeriesDraftData
		if err := json.Unmarshal(row.SeriesDraftData, &series); err != nil {
			return nil, fmt.Errorf("decode series of draft %d: %w", row.ID, err)
		}
		d.SeriesData = &series
	}

	for _, step := range row.CompletedSteps {
		d.CompletedSteps = append(d.CompletedSteps, int(step))
	}
	d.StepErrors = model.ValidateSubmission(d.Data)

	return d, nil
}

func toInt32Steps(steps []int) []int32 {
	out := make([]int32, 0, len(steps))
	for _, s := range steps {
		out = append(out, int32(s))
	}
	return out
}

func clampStep(step int) int {
	if step < 1 {
		return 1
	}
	if step > model.WizardStepCount {
		return model.WizardStepCount
	}
	return step
}
