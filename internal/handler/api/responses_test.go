// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"testing"
	"time"

	"github.com/happenlist/happenlist/internal/model"
	"github.com/happenlist/happenlist/internal/service"
	"github.com/happenlist/happenlist/internal/store"
)

func TestStoreVenueToResponse(t *testing.T) {
	venue := store.Venue{
		ID:          4,
		Name:        "Kulturhaus",
		Slug:        "kulturhaus",
		Address:     "Hauptstr. 1",
		City:        "Berlin",
		Rating:      sql.NullFloat64{Float64: 4.5, Valid: true},
		ReviewCount: 120,
	}

	got := storeVenueToResponse(venue)
	assertIDNameSlug(t, got.ID, 4, got.Name, "Kulturhaus", got.Slug, "kulturhaus")
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5", got.Rating)
	}
	if got.ReviewCount != 120 {
		t.Errorf("ReviewCount = %d, want 120", got.ReviewCount)
	}

	unrated := storeVenueToResponse(store.Venue{ID: 5, Name: "New Place", Slug: "new-place"})
	if unrated.Rating != nil {
		t.Errorf("expected nil rating, got %v", unrated.Rating)
	}
}

func TestStoreImageToResponse(t *testing.T) {
	now := time.Now()
	img := store.Image{
		ID:        1,
		UUID:      "0d4cdb8e-1111-2222-3333-444455556666",
		Filename:  "flyer.jpg",
		ImageType: model.ImageTypeFlyer,
		MimeType:  model.MimeTypeJPEG,
		Size:      123456,
		Width:     sql.NullInt32{Int32: 1200, Valid: true},
		Height:    sql.NullInt32{Int32: 1600, Valid: true},
		SourceURL: sql.NullString{String: "https://example.com/flyer.jpg", Valid: true},
		PublicURL: "http://localhost:8080/uploads/originals/0d4cdb8e/flyer.jpg",
		CreatedAt: now,
	}

	got := storeImageToResponse(img)
	if got.UUID != img.UUID || got.PublicURL != img.PublicURL {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if got.Width == nil || *got.Width != 1200 {
		t.Errorf("Width = %v, want 1200", got.Width)
	}
	if got.SourceURL != "https://example.com/flyer.jpg" {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
}

func TestDraftToResponse(t *testing.T) {
	title := "Open Mic"
	draft := &service.Draft{
		ID:             9,
		OwnerEmail:     "user@example.com",
		Data:           model.DraftData{Title: &title},
		CurrentStep:    2,
		CompletedSteps: []int{1},
		StepErrors: model.StepErrors{
			model.StepDateTime: {"start_at": "Start date is required"},
		},
	}

	got := draftToResponse(draft)
	if got.ID != 9 || got.CurrentStep != 2 {
		t.Errorf("identity fields wrong: %+v", got)
	}
	if len(got.CompletedSteps) != 1 || got.CompletedSteps[0] != 1 {
		t.Errorf("CompletedSteps = %v", got.CompletedSteps)
	}
	if got.StepErrors["step_3.start_at"] == "" {
		t.Errorf("StepErrors = %v", got.StepErrors)
	}
}

func TestDraftToResponseEmptySteps(t *testing.T) {
	got := draftToResponse(&service.Draft{ID: 1, CurrentStep: 1})
	if got.CompletedSteps == nil {
		t.Error("CompletedSteps should encode as [], not null")
	}
	if got.StepErrors != nil {
		t.Errorf("StepErrors = %v, want nil", got.StepErrors)
	}
}
