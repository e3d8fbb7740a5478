// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Wizard step numbers. Steps are the unit validation errors are keyed by.
const (
	StepBasics   = 1
	StepCategory = 2
	StepDateTime = 3
	StepLocation = 4
	StepPricing  = 5

	// WizardStepCount is the number of steps in the submission wizard.
	WizardStepCount = 5
)

// DraftData holds the partial event a user is composing in the wizard.
// Every field is optional while drafting; ValidateSubmission decides which
// are required before the draft may be submitted.
type DraftData struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	CategoryID   *int64     `json:"category_id,omitempty"`
	StartAt      *time.Time `json:"start_at,omitempty"`
	EndAt        *time.Time `json:"end_at,omitempty"`
	VenueID      *int64     `json:"venue_id,omitempty"`
	LocationName *string    `json:"location_name,omitempty"`
	Address      *string    `json:"address,omitempty"`
	OrganizerID  *int64     `json:"organizer_id,omitempty"`
	IsFree       *bool      `json:"is_free,omitempty"`
	PriceMin     *float64   `json:"price_min,omitempty"`
	PriceMax     *float64   `json:"price_max,omitempty"`
	Currency     *string    `json:"currency,omitempty"`
	TicketURL    *string    `json:"ticket_url,omitempty"`
	HeroImageURL *string    `json:"hero_image_url,omitempty"`
	TagIDs       []int64    `json:"tag_ids,omitempty"`
}

// SeriesDraftData holds the optional recurring-series part of a draft.
type SeriesDraftData struct {
	Name      *string    `json:"name,omitempty"`
	Frequency *string    `json:"frequency,omitempty"` // weekly, biweekly, monthly
	Until     *time.Time `json:"until,omitempty"`
}

// StepErrors maps wizard step number -> field name -> message.
type StepErrors map[int]map[string]string

// add records a field error for a step.
func (e StepErrors) add(step int, field, message string) {
	if e[step] == nil {
		e[step] = make(map[string]string)
	}
	e[step][field] = message
}

// HasErrors reports whether any step has a validation error.
func (e StepErrors) HasErrors() bool {
	return len(e) > 0
}

// ValidateSubmission checks that a draft carries everything a submission
// requires: title, category, start date/time, a location, and pricing.
// It returns the errors keyed by step number; an empty result means the
// draft may be converted into a pending_review event.
func ValidateSubmission(d DraftData) StepErrors {
	errs := make(StepErrors)

	if d.Title == nil || *d.Title == "" {
		errs.add(StepBasics, "title", "Title is required")
	}

	if d.CategoryID == nil || *d.CategoryID <= 0 {
		errs.add(StepCategory, "category_id", "Category is required")
	}

	switch {
	case d.StartAt == nil || d.StartAt.IsZero():
		errs.add(StepDateTime, "start_at", "Start date and time are required")
	case d.EndAt != nil && d.EndAt.Before(*d.StartAt):
		errs.add(StepDateTime, "end_at", "End time must not be before start time")
	}

	hasVenue := d.VenueID != nil && *d.VenueID > 0
	hasLocation := d.LocationName != nil && *d.LocationName != ""
	if !hasVenue && !hasLocation {
		errs.add(StepLocation, "location", "A venue or location name is required")
	}

	free := d.IsFree != nil && *d.IsFree
	hasPrice := d.PriceMin != nil && *d.PriceMin >= 0
	switch {
	case !free && !hasPrice:
		errs.add(StepPricing, "price", "Pricing is required: mark the event free or set a price")
	case hasPrice && d.PriceMax != nil && *d.PriceMax < *d.PriceMin:
		errs.add(StepPricing, "price_max", "Maximum price must not be below minimum price")
	}

	return errs
}

// CompletedSteps returns the steps a draft currently satisfies, in order.
// The wizard uses this to mark steps done as the user navigates.
func CompletedSteps(d DraftData) []int {
	errs := ValidateSubmission(d)
	var done []int
	for step := 1; step <= WizardStepCount; step++ {
		if _, bad := errs[step]; !bad {
			done = append(done, step)
		}
	}
	return done
}
