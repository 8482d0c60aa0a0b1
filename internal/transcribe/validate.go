package transcribe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"viralScriptAi/internal/storage"
)

// previewLimit bounds how much of a mismatching string lands in an error
// message.
const previewLimit = 100

// ValidationResult is a diagnostic report over one word-assignment list.
// Every check runs; Valid is simply "no errors were collected".
type ValidationResult struct {
	Valid          bool           `json:"valid"`
	Errors         []string       `json:"errors"`
	CategoryCounts map[string]int `json:"category_counts,omitempty"`
}

// ValidateWordAssignments verifies that the assignments are a complete,
// duplicate-free partition of the transcript and that the four segments
// concatenate back to it. It is a pure function and never fails; callers
// decide what to do with a report that carries errors.
func ValidateWordAssignments(transcript string, segments storage.MarketingSegments, assignments []storage.WordAssignment) ValidationResult {
	if len(assignments) == 0 {
		return ValidationResult{
			Valid:  false,
			Errors: []string{"no word assignments provided"},
		}
	}

	var errs []string

	sorted := make([]storage.WordAssignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	words := make([]string, len(sorted))
	for i, a := range sorted {
		words[i] = a.Word
	}
	reconstructed := normalizeWhitespace(strings.Join(words, " "))
	wantTranscript := normalizeWhitespace(transcript)
	if reconstructed != wantTranscript {
		errs = append(errs, fmt.Sprintf(
			"word assignments do not reconstruct the transcript: got %q, want %q",
			preview(reconstructed), preview(wantTranscript)))
	}

	concatenated := normalizeWhitespace(segments.Hook + " " + segments.Bridge + " " + segments.GoldenNugget + " " + segments.WTA)
	if concatenated != wantTranscript {
		errs = append(errs, fmt.Sprintf(
			"marketing segments do not concatenate to the transcript: got %q, want %q",
			preview(concatenated), preview(wantTranscript)))
	}

	seen := make(map[int]int, len(assignments))
	for _, a := range assignments {
		seen[a.Position]++
	}
	var duplicates []int
	for position, count := range seen {
		if count > 1 {
			duplicates = append(duplicates, position)
		}
	}
	if len(duplicates) > 0 {
		sort.Ints(duplicates)
		errs = append(errs, fmt.Sprintf("duplicate positions: %s", joinInts(duplicates)))
	}

	var missing []int
	for position := 1; position <= len(assignments); position++ {
		if seen[position] == 0 {
			missing = append(missing, position)
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Sprintf("missing positions: %s", joinInts(missing)))
	}

	// Per-category distribution is diagnostic only and never fails validation.
	counts := make(map[string]int)
	for _, a := range assignments {
		counts[a.Category]++
	}

	return ValidationResult{
		Valid:          len(errs) == 0,
		Errors:         errs,
		CategoryCounts: counts,
	}
}

// normalizeWhitespace collapses runs of whitespace to single spaces and trims.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func preview(s string) string {
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit] + "..."
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
