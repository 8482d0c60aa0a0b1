package transcribe

import (
	"encoding/json"
	"strings"
	"testing"

	"viralScriptAi/internal/storage"
)

const wellFormedResponse = `{
  "transcription": "Stop scrolling right now. Most people get this wrong every day. The trick is to batch your work. Follow for more tips.",
  "marketingSegments": {
    "hook": "Stop scrolling right now.",
    "bridge": "Most people get this wrong every day.",
    "goldenNugget": "The trick is to batch your work.",
    "wta": "Follow for more tips."
  },
  "wordAssignments": [
    {"word": "Stop", "category": "hook", "position": 1},
    {"word": "scrolling", "category": "hook", "position": 2}
  ]
}`

func TestParseResponseWithoutMarketing(t *testing.T) {
	got := ParseResponse("  plain transcript text  ", false)
	if got.Transcription != "plain transcript text" {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if got.Segments != nil {
		t.Fatalf("expected no segments, got %+v", got.Segments)
	}
}

func TestParseResponseDirectJSON(t *testing.T) {
	got := ParseResponse(wellFormedResponse, true)

	if got.Segments == nil {
		t.Fatal("expected segments")
	}
	if got.Segments.Hook != "Stop scrolling right now." {
		t.Fatalf("hook = %q", got.Segments.Hook)
	}
	if got.Segments.WTA != "Follow for more tips." {
		t.Fatalf("wta = %q", got.Segments.WTA)
	}
	if len(got.WordAssignments) != 2 {
		t.Fatalf("word assignments = %d, want 2", len(got.WordAssignments))
	}
	if got.WordAssignments[1].Word != "scrolling" || got.WordAssignments[1].Position != 2 {
		t.Fatalf("unexpected second assignment: %+v", got.WordAssignments[1])
	}
}

// Reserializing a parse result and parsing it again must be a fixed point.
func TestParseResponseIdempotent(t *testing.T) {
	first := ParseResponse(wellFormedResponse, true)

	reserialized, err := json.Marshal(struct {
		Transcription     string                     `json:"transcription"`
		MarketingSegments *storage.MarketingSegments `json:"marketingSegments"`
		WordAssignments   []storage.WordAssignment   `json:"wordAssignments"`
	}{first.Transcription, first.Segments, first.WordAssignments})
	if err != nil {
		t.Fatal(err)
	}

	second := ParseResponse(string(reserialized), true)
	if second.Transcription != first.Transcription {
		t.Fatalf("transcription drifted: %q vs %q", second.Transcription, first.Transcription)
	}
	if *second.Segments != *first.Segments {
		t.Fatalf("segments drifted: %+v vs %+v", second.Segments, first.Segments)
	}
}

func TestParseResponseStripsChatter(t *testing.T) {
	tests := map[string]string{
		"ready prefix": "Okay, I'm ready to analyze the video. Here you go:\n" + wellFormedResponse,
		"analysis":     "Here's the analysis you asked for:\n" + wellFormedResponse,
		"code fence":   "```json\n" + wellFormedResponse + "\n```",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			got := ParseResponse(input, true)
			if got.Segments == nil || got.Segments.Hook != "Stop scrolling right now." {
				t.Fatalf("failed to recover segments from %q prefix: %+v", name, got.Segments)
			}
		})
	}
}

func TestParseResponseNonArrayWordAssignmentsOmitted(t *testing.T) {
	response := `{
	  "transcription": "Short script.",
	  "marketingSegments": {"hook": "Short", "bridge": "", "goldenNugget": "script.", "wta": ""},
	  "wordAssignments": "not an array"
	}`
	got := ParseResponse(response, true)
	if got.Transcription != "Short script." {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if got.WordAssignments != nil {
		t.Fatalf("expected omitted assignments, got %+v", got.WordAssignments)
	}
}

// A broken wordAssignments array must not take the transcript down with it.
func TestParseResponseRecoversFromBrokenAssignments(t *testing.T) {
	response := `{
	  "transcription": "A valid transcript.",
	  "marketingSegments": {"hook": "A", "bridge": "valid", "goldenNugget": "transcript.", "wta": ""},
	  "wordAssignments": [{"word": "A", "category": "hook", "position": 1},]
	}`
	got := ParseResponse(response, true)
	if got.Transcription != "A valid transcript." {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if got.Segments == nil || got.Segments.Bridge != "valid" {
		t.Fatalf("segments = %+v", got.Segments)
	}
	if got.WordAssignments != nil {
		t.Fatalf("expected assignments dropped, got %+v", got.WordAssignments)
	}
}

func TestParseResponseFieldFallback(t *testing.T) {
	// Broken JSON overall, but individual fields are still recognizable.
	response := `broken {"transcription": "Recovered text here", garbage "hook": "Recovered", "golden nugget": "text here" trailing junk`
	got := ParseResponse(response, true)

	if got.Transcription != "Recovered text here" {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if got.Segments == nil {
		t.Fatal("expected segments")
	}
	if got.Segments.Hook != "Recovered" {
		t.Fatalf("hook = %q", got.Segments.Hook)
	}
	if got.Segments.GoldenNugget != "text here" {
		t.Fatalf("goldenNugget = %q", got.Segments.GoldenNugget)
	}
	if got.Segments.Bridge != NotPresent || got.Segments.WTA != NotPresent {
		t.Fatalf("missing fields should be %q, got %+v", NotPresent, got.Segments)
	}
}

func TestParseResponseReconstructsFromFragments(t *testing.T) {
	response := `"hook": "First part", "bridge": "second part" and no transcript anywhere`
	got := ParseResponse(response, true)

	if got.Transcription != "First part second part" {
		t.Fatalf("transcription = %q", got.Transcription)
	}
	if got.Segments.GoldenNugget != NotPresent {
		t.Fatalf("goldenNugget = %q", got.Segments.GoldenNugget)
	}
}

func TestParseResponseTotalFailure(t *testing.T) {
	got := ParseResponse("complete nonsense with no recognizable structure", true)

	if got.Transcription != FailedTranscript {
		t.Fatalf("transcription = %q, want failure sentinel", got.Transcription)
	}
	for _, segment := range []string{got.Segments.Hook, got.Segments.Bridge, got.Segments.GoldenNugget, got.Segments.WTA} {
		if segment != ParsingError {
			t.Fatalf("segment = %q, want %q", segment, ParsingError)
		}
	}
}

func TestParseResponseEscapedQuotes(t *testing.T) {
	response := `{
	  "transcription": "She said \"go\" and left.",
	  "marketingSegments": {"hook": "She said \"go\"", "bridge": "and left.", "goldenNugget": "", "wta": ""}
	}`
	got := ParseResponse(response, true)
	if !strings.Contains(got.Transcription, `said "go"`) {
		t.Fatalf("escapes not decoded: %q", got.Transcription)
	}
}
