package dataset

import (
	"fmt"
	"math"
	"time"

	"viralScriptAi/internal/storage"
)

// Options control which inputs are turned into examples.
type Options struct {
	IncludeMetadata  bool
	IncludeOriginal  bool
	IncludeSynthetic bool
	MaxPerVideo      int
	MinViewCount     int
}

// DefaultOptions returns the assembly defaults: everything included, at most
// ten examples per source video, no view-count floor.
func DefaultOptions() Options {
	return Options{
		IncludeMetadata:  true,
		IncludeOriginal:  true,
		IncludeSynthetic: true,
		MaxPerVideo:      10,
		MinViewCount:     0,
	}
}

// Summary aggregates counts and provenance across an assembled dataset.
// AvgViewCount/AvgLikeCount are nil when no contributing result carried the
// field; a missing count never contributes a zero to the mean.
type Summary struct {
	TotalExamples     int      `json:"total_examples"`
	OriginalExamples  int      `json:"original_examples"`
	SyntheticExamples int      `json:"synthetic_examples"`
	Platforms         []string `json:"platforms"`
	Topics            []string `json:"topics"`
	AvgViewCount      *int     `json:"avg_view_count,omitempty"`
	AvgLikeCount      *int     `json:"avg_like_count,omitempty"`
}

// Metadata stamps when and how a dataset was assembled.
type Metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description"`
}

// TrainingDataset is the assembled, immutable collection of examples.
type TrainingDataset struct {
	Examples []TrainingExample `json:"examples"`
	Summary  Summary           `json:"summary"`
	Metadata Metadata          `json:"metadata"`
}

// Assembler turns transcription results and synthetic scripts into a dataset.
type Assembler struct {
	builder *Builder
}

// NewAssembler constructs an assembler; a nil builder gets the defaults.
func NewAssembler(builder *Builder) *Assembler {
	if builder == nil {
		builder = NewBuilder(nil)
	}
	return &Assembler{builder: builder}
}

// entry is one built example annotated with the accumulation facts the
// summary fold needs, so the summary stays a pure function of the inputs that
// actually produced examples.
type entry struct {
	example   TrainingExample
	source    string
	platform  string
	topic     string
	viewCount *int
	likeCount *int
}

// Assemble builds a dataset from successful results and pre-generated
// synthetic scripts. Included originals come first, then synthetics, both in
// input order.
func (a *Assembler) Assemble(results []storage.TranscriptionResult, synthetic []storage.SyntheticScript, opts Options) TrainingDataset {
	var entries []entry

	if opts.IncludeOriginal {
		perVideo := make(map[string]int)
		for _, result := range results {
			if !result.Success || result.Segments == nil {
				continue
			}
			if viewCountOrZero(result) < opts.MinViewCount {
				continue
			}
			if opts.MaxPerVideo > 0 {
				if perVideo[result.VideoID] >= opts.MaxPerVideo {
					continue
				}
				perVideo[result.VideoID]++
			}

			example, topic := a.builder.fromResult(result, opts.IncludeMetadata)
			item := entry{
				example:  example,
				source:   SourceOriginal,
				platform: result.Platform,
				topic:    topic,
			}
			if result.Metadata != nil {
				item.viewCount = result.Metadata.ViewCount
				item.likeCount = result.Metadata.LikeCount
			}
			entries = append(entries, item)
		}
	}

	if opts.IncludeSynthetic {
		for _, script := range synthetic {
			entries = append(entries, entry{
				example: a.builder.FromSynthetic(script.Topic, script.Script, opts.IncludeMetadata),
				source:  SourceSynthetic,
				topic:   script.Topic,
			})
		}
	}

	summary := summarize(entries)

	examples := make([]TrainingExample, len(entries))
	for i, item := range entries {
		examples[i] = item.example
	}

	return TrainingDataset{
		Examples: examples,
		Summary:  summary,
		Metadata: Metadata{
			CreatedAt: time.Now(),
			Description: fmt.Sprintf("Training dataset with %d examples (%d original + %d synthetic)",
				summary.TotalExamples, summary.OriginalExamples, summary.SyntheticExamples),
		},
	}
}

// summarize folds the annotated entries into a Summary.
func summarize(entries []entry) Summary {
	summary := Summary{
		TotalExamples: len(entries),
		Platforms:     []string{},
		Topics:        []string{},
	}

	seenPlatforms := make(map[string]bool)
	seenTopics := make(map[string]bool)
	var viewSum, viewN, likeSum, likeN int

	for _, item := range entries {
		switch item.source {
		case SourceSynthetic:
			summary.SyntheticExamples++
		default:
			summary.OriginalExamples++
		}
		if item.platform != "" && !seenPlatforms[item.platform] {
			seenPlatforms[item.platform] = true
			summary.Platforms = append(summary.Platforms, item.platform)
		}
		if item.topic != "" && !seenTopics[item.topic] {
			seenTopics[item.topic] = true
			summary.Topics = append(summary.Topics, item.topic)
		}
		if item.viewCount != nil {
			viewSum += *item.viewCount
			viewN++
		}
		if item.likeCount != nil {
			likeSum += *item.likeCount
			likeN++
		}
	}

	if viewN > 0 {
		avg := int(math.Round(float64(viewSum) / float64(viewN)))
		summary.AvgViewCount = &avg
	}
	if likeN > 0 {
		avg := int(math.Round(float64(likeSum) / float64(likeN)))
		summary.AvgLikeCount = &avg
	}

	return summary
}

func viewCountOrZero(result storage.TranscriptionResult) int {
	if result.Metadata == nil || result.Metadata.ViewCount == nil {
		return 0
	}
	return *result.Metadata.ViewCount
}
