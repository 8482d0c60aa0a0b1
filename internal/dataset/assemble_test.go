package dataset

import (
	"strings"
	"testing"

	"viralScriptAi/internal/storage"
)

func secondResult() storage.TranscriptionResult {
	return storage.TranscriptionResult{
		VideoID:  "vid-2",
		VideoURL: "https://example.com/v/2",
		Platform: "tiktok",
		Success:  true,
		Segments: &storage.MarketingSegments{
			Hook:         "You are wasting your money",
			Bridge:       "most business owners never learn this",
			GoldenNugget: "reinvest profit before you spend it",
			WTA:          "share this with a founder",
		},
		Metadata: &storage.ResultMetadata{ViewCount: intPtr(500), LikeCount: intPtr(60)},
	}
}

func syntheticFitness() storage.SyntheticScript {
	return storage.SyntheticScript{
		Topic: "fitness motivation",
		Script: storage.MarketingSegments{
			Hook:         "You keep quitting the gym",
			Bridge:       "and it is not about willpower",
			GoldenNugget: "shrink the habit until it is too easy to skip",
			WTA:          "follow for daily accountability",
		},
	}
}

func TestAssembleEndToEnd(t *testing.T) {
	assembler := NewAssembler(nil)

	results := []storage.TranscriptionResult{fitnessResult(), secondResult()}
	synthetic := []storage.SyntheticScript{syntheticFitness()}

	ds := assembler.Assemble(results, synthetic, DefaultOptions())

	if ds.Summary.TotalExamples != 3 {
		t.Fatalf("total = %d, want 3", ds.Summary.TotalExamples)
	}
	if ds.Summary.OriginalExamples != 2 || ds.Summary.SyntheticExamples != 1 {
		t.Fatalf("split = %d original + %d synthetic", ds.Summary.OriginalExamples, ds.Summary.SyntheticExamples)
	}
	if ds.Summary.AvgViewCount == nil || *ds.Summary.AvgViewCount != 750 {
		t.Fatalf("avg views = %v, want 750", ds.Summary.AvgViewCount)
	}
	if len(ds.Summary.Platforms) != 1 || ds.Summary.Platforms[0] != "tiktok" {
		t.Fatalf("platforms = %v", ds.Summary.Platforms)
	}
	foundSyntheticTopic := false
	for _, topic := range ds.Summary.Topics {
		if topic == "fitness motivation" {
			foundSyntheticTopic = true
		}
	}
	if !foundSyntheticTopic {
		t.Fatalf("topics = %v, want to contain %q", ds.Summary.Topics, "fitness motivation")
	}
	if !strings.Contains(ds.Metadata.Description, "3 examples (2 original + 1 synthetic)") {
		t.Fatalf("description = %q", ds.Metadata.Description)
	}
	// Originals first, synthetics after, in input order.
	if ds.Examples[0].Metadata.Source != SourceOriginal || ds.Examples[2].Metadata.Source != SourceSynthetic {
		t.Fatalf("unexpected example ordering: %+v", ds.Examples)
	}
}

// The arithmetic invariant must hold for any assembled dataset.
func TestAssembleArithmeticInvariant(t *testing.T) {
	assembler := NewAssembler(nil)

	variants := map[string]Options{
		"defaults":       DefaultOptions(),
		"no metadata":    {IncludeMetadata: false, IncludeOriginal: true, IncludeSynthetic: true, MaxPerVideo: 10},
		"originals only": {IncludeMetadata: true, IncludeOriginal: true, IncludeSynthetic: false, MaxPerVideo: 10},
		"synthetic only": {IncludeMetadata: true, IncludeOriginal: false, IncludeSynthetic: true, MaxPerVideo: 10},
	}

	results := []storage.TranscriptionResult{fitnessResult(), secondResult()}
	synthetic := []storage.SyntheticScript{syntheticFitness()}

	for name, opts := range variants {
		t.Run(name, func(t *testing.T) {
			ds := assembler.Assemble(results, synthetic, opts)
			if ds.Summary.TotalExamples != len(ds.Examples) {
				t.Fatalf("total %d != len(examples) %d", ds.Summary.TotalExamples, len(ds.Examples))
			}
			if ds.Summary.OriginalExamples+ds.Summary.SyntheticExamples != ds.Summary.TotalExamples {
				t.Fatalf("%d original + %d synthetic != %d total",
					ds.Summary.OriginalExamples, ds.Summary.SyntheticExamples, ds.Summary.TotalExamples)
			}
			assertNoDuplicates(t, ds.Summary.Platforms)
			assertNoDuplicates(t, ds.Summary.Topics)
		})
	}
}

func assertNoDuplicates(t *testing.T, values []string) {
	t.Helper()
	seen := make(map[string]bool)
	for _, v := range values {
		if seen[v] {
			t.Fatalf("duplicate value %q in %v", v, values)
		}
		seen[v] = true
	}
}

func TestAssembleFiltersFailuresAndLowViews(t *testing.T) {
	assembler := NewAssembler(nil)

	failed := fitnessResult()
	failed.Success = false

	noSegments := fitnessResult()
	noSegments.VideoID = "vid-3"
	noSegments.Segments = nil

	lowViews := secondResult()
	lowViews.VideoID = "vid-4"
	lowViews.Metadata = &storage.ResultMetadata{ViewCount: intPtr(10)}

	opts := DefaultOptions()
	opts.MinViewCount = 100

	ds := assembler.Assemble([]storage.TranscriptionResult{failed, noSegments, lowViews, secondResult()}, nil, opts)
	if ds.Summary.TotalExamples != 1 {
		t.Fatalf("total = %d, want only the passing result", ds.Summary.TotalExamples)
	}
	if ds.Examples[0].Metadata.VideoID != "vid-2" {
		t.Fatalf("wrong survivor: %+v", ds.Examples[0].Metadata)
	}
}

// A result without a view count passes a zero floor but is excluded from the
// average rather than dragging it down.
func TestAssembleMissingViewCountExcludedFromAverage(t *testing.T) {
	assembler := NewAssembler(nil)

	countless := secondResult()
	countless.VideoID = "vid-5"
	countless.Metadata = &storage.ResultMetadata{}

	ds := assembler.Assemble([]storage.TranscriptionResult{fitnessResult(), countless}, nil, DefaultOptions())
	if ds.Summary.TotalExamples != 2 {
		t.Fatalf("total = %d, want 2", ds.Summary.TotalExamples)
	}
	if ds.Summary.AvgViewCount == nil || *ds.Summary.AvgViewCount != 1000 {
		t.Fatalf("avg views = %v, want 1000 from the single contributing result", ds.Summary.AvgViewCount)
	}
}

func TestAssembleNoContributingCountsLeavesAverageUnset(t *testing.T) {
	assembler := NewAssembler(nil)

	countless := secondResult()
	countless.Metadata = nil

	ds := assembler.Assemble([]storage.TranscriptionResult{countless}, nil, DefaultOptions())
	if ds.Summary.AvgViewCount != nil || ds.Summary.AvgLikeCount != nil {
		t.Fatalf("averages should be unset: views=%v likes=%v", ds.Summary.AvgViewCount, ds.Summary.AvgLikeCount)
	}
}

func TestAssembleCapsExamplesPerVideo(t *testing.T) {
	assembler := NewAssembler(nil)

	var results []storage.TranscriptionResult
	for i := 0; i < 5; i++ {
		results = append(results, fitnessResult()) // all share vid-1
	}
	other := secondResult()
	results = append(results, other)

	opts := DefaultOptions()
	opts.MaxPerVideo = 2

	ds := assembler.Assemble(results, nil, opts)
	if ds.Summary.TotalExamples != 3 {
		t.Fatalf("total = %d, want 2 capped + 1 other", ds.Summary.TotalExamples)
	}

	perVideo := make(map[string]int)
	for _, example := range ds.Examples {
		perVideo[example.Metadata.VideoID]++
	}
	if perVideo["vid-1"] != 2 {
		t.Fatalf("vid-1 examples = %d, want capped at 2", perVideo["vid-1"])
	}
}
