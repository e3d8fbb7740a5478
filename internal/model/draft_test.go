package model

import (
	"testing"
	"time"
)

func strPtr(s string) *string       { return &s }
func i64Ptr(i int64) *int64         { return &i }
func f64Ptr(f float64) *float64     { return &f }
func boolPtr(b bool) *bool          { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func completeDraft() DraftData {
	start := time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)
	return DraftData{
		Title:      strPtr("Jazz Night"),
		CategoryID: i64Ptr(3),
		StartAt:    timePtr(start),
		VenueID:    i64Ptr(7),
		IsFree:     boolPtr(true),
	}
}

func TestValidateSubmissionComplete(t *testing.T) {
	errs := ValidateSubmission(completeDraft())
	if errs.HasErrors() {
		t.Fatalf("complete draft should validate, got %v", errs)
	}
}

func TestValidateSubmissionMissingFields(t *testing.T) {
	// The §8 scenario: a title but no category and no start date.
	d := DraftData{Title: strPtr("Jazz Night")}
	errs := ValidateSubmission(d)

	if !errs.HasErrors() {
		t.Fatal("expected validation errors")
	}
	if _, ok := errs[StepCategory]["category_id"]; !ok {
		t.Errorf("missing category error, got %v", errs)
	}
	if _, ok := errs[StepDateTime]["start_at"]; !ok {
		t.Errorf("missing start_at error, got %v", errs)
	}
	if _, ok := errs[StepBasics]; ok {
		t.Errorf("title is present, step %d should not error: %v", StepBasics, errs)
	}
}

func TestValidateSubmissionEndBeforeStart(t *testing.T) {
	d := completeDraft()
	d.EndAt = timePtr(d.StartAt.Add(-time.Hour))
	errs := ValidateSubmission(d)
	if _, ok := errs[StepDateTime]["end_at"]; !ok {
		t.Errorf("expected end_at error, got %v", errs)
	}
}

func TestValidateSubmissionLocationAlternatives(t *testing.T) {
	d := completeDraft()
	d.VenueID = nil
	if errs := ValidateSubmission(d); !errs.HasErrors() {
		t.Fatal("draft without venue or location name should fail")
	}

	d.LocationName = strPtr("Riverside Park")
	if errs := ValidateSubmission(d); errs.HasErrors() {
		t.Errorf("location name should satisfy the location step, got %v", errs)
	}
}

func TestValidateSubmissionPricing(t *testing.T) {
	d := completeDraft()
	d.IsFree = nil
	if errs := ValidateSubmission(d); len(errs[StepPricing]) == 0 {
		t.Fatal("draft with no pricing should fail the pricing step")
	}

	d.PriceMin = f64Ptr(10)
	if errs := ValidateSubmission(d); errs.HasErrors() {
		t.Errorf("priced draft should validate, got %v", errs)
	}

	d.PriceMax = f64Ptr(5)
	if errs := ValidateSubmission(d); len(errs[StepPricing]) == 0 {
		t.Error("price_max below price_min should fail")
	}
}

func TestCompletedSteps(t *testing.T) {
	all := CompletedSteps(completeDraft())
	if len(all) != WizardStepCount {
		t.Fatalf("complete draft should complete all %d steps, got %v", WizardStepCount, all)
	}

	partial := CompletedSteps(DraftData{Title: strPtr("Jazz Night")})
	want := map[int]bool{StepBasics: true}
	for _, s := range partial {
		if !want[s] {
			t.Errorf("step %d unexpectedly complete for title-only draft", s)
		}
	}
}
