package dataset

import (
	"strings"
	"testing"
)

func healthyDataset(n int) TrainingDataset {
	output := strings.Repeat("a solid script sentence with plenty of words ", 3)
	examples := make([]TrainingExample, n)
	for i := range examples {
		examples[i] = TrainingExample{
			Input:  "Write a compelling short-form video script about fitness that follows the Hook-Bridge-Golden Nugget-WTA structure for maximum engagement.",
			Output: output,
		}
	}
	return TrainingDataset{
		Examples: examples,
		Summary:  Summary{TotalExamples: n, OriginalExamples: n},
	}
}

func TestValidateHealthyDataset(t *testing.T) {
	report := Validate(healthyDataset(12))
	if !report.Valid {
		t.Fatalf("expected valid, got errors %v", report.Errors)
	}
	if len(report.Errors) != 0 || len(report.Warnings) != 0 {
		t.Fatalf("expected clean report, got errors=%v warnings=%v", report.Errors, report.Warnings)
	}
	if report.Stats.MinInputLength == 0 || report.Stats.AvgOutputLength == 0 {
		t.Fatalf("stats not computed: %+v", report.Stats)
	}
}

func TestValidateSmallDatasetWarns(t *testing.T) {
	report := Validate(healthyDataset(3))
	if !report.Valid {
		t.Fatalf("size is advisory only, got errors %v", report.Errors)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], "too small") {
		t.Fatalf("warnings = %v", report.Warnings)
	}
}

// Adding one empty-output example flips validity and adds exactly one error,
// leaving existing warnings untouched.
func TestValidateMonotonicity(t *testing.T) {
	ds := healthyDataset(12)
	before := Validate(ds)
	if !before.Valid {
		t.Fatalf("baseline should be valid: %v", before.Errors)
	}

	ds.Examples = append(ds.Examples, TrainingExample{Input: "a prompt", Output: "   "})
	after := Validate(ds)

	if after.Valid {
		t.Fatal("expected invalid after adding empty output")
	}
	if len(after.Errors) != len(before.Errors)+1 {
		t.Fatalf("errors went from %d to %d, want +1", len(before.Errors), len(after.Errors))
	}
	// The empty output also trips the short-output warning; every
	// pre-existing warning must survive unchanged.
	for _, w := range before.Warnings {
		found := false
		for _, got := range after.Warnings {
			if got == w {
				found = true
			}
		}
		if !found {
			t.Fatalf("warning %q disappeared", w)
		}
	}
}

func TestValidateLengthOutliers(t *testing.T) {
	ds := healthyDataset(12)
	ds.Examples[0].Input = strings.Repeat("x", maxInputLength+1)
	ds.Examples[1].Output = strings.Repeat("y", maxOutputLength+1)
	ds.Examples[2].Output = "short"

	report := Validate(ds)
	if !report.Valid {
		t.Fatalf("length outliers are warnings, got errors %v", report.Errors)
	}
	if len(report.Warnings) != 3 {
		t.Fatalf("warnings = %v, want 3 aggregated outlier warnings", report.Warnings)
	}
	wantFragments := []string{"consider shortening", "consider shortening", "consider adding more detail"}
	for i, fragment := range wantFragments {
		if !strings.Contains(report.Warnings[i], fragment) {
			t.Fatalf("warning %d = %q, want to contain %q", i, report.Warnings[i], fragment)
		}
	}
}

func TestValidateEmptyDataset(t *testing.T) {
	report := Validate(TrainingDataset{})
	if !report.Valid {
		t.Fatalf("empty dataset has no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("warnings = %v, want only the size warning", report.Warnings)
	}
	if report.Stats != (Stats{}) {
		t.Fatalf("stats should be zero-valued: %+v", report.Stats)
	}
}
