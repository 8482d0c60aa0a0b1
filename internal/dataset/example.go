package dataset

import (
	"fmt"
	"strings"

	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/topics"
)

// Provenance values recorded in example metadata.
const (
	SourceOriginal  = "original"
	SourceSynthetic = "synthetic"
)

// inputTemplate is the fixed prompt both original and synthetic examples use.
// Keeping it identical across both paths matters: the tuned model must not be
// able to tell synthetic prompts from real ones.
const inputTemplate = "Write a compelling short-form video script about %s that follows the Hook-Bridge-Golden Nugget-WTA structure for maximum engagement."

// ExampleMetadata records where a training example came from.
type ExampleMetadata struct {
	Source           string `json:"source"`
	VideoID          string `json:"video_id,omitempty"`
	Platform         string `json:"platform,omitempty"`
	ViewCount        *int   `json:"view_count,omitempty"`
	LikeCount        *int   `json:"like_count,omitempty"`
	Topic            string `json:"topic,omitempty"`
	TemplateUsed     bool   `json:"template_used"`
	ProcessingTimeMS int64  `json:"processing_time_ms,omitempty"`
}

// TrainingExample is a single prompt/completion pair for fine-tuning.
// Immutable once built.
type TrainingExample struct {
	Input    string           `json:"input"`
	Output   string           `json:"output"`
	Metadata *ExampleMetadata `json:"metadata,omitempty"`
}

// Builder converts validated transcription results and synthetic scripts into
// training examples.
type Builder struct {
	topics *topics.Extractor
}

// NewBuilder constructs a builder over the given topic extractor.
// A nil extractor falls back to the default taxonomy.
func NewBuilder(extractor *topics.Extractor) *Builder {
	if extractor == nil {
		extractor = topics.NewExtractor(nil)
	}
	return &Builder{topics: extractor}
}

// FromResult builds a training example from one successful transcription.
// Callers filter beforehand: a result with Success=false or nil Segments is a
// contract violation here, not a handled case.
func (b *Builder) FromResult(result storage.TranscriptionResult, includeMetadata bool) TrainingExample {
	example, _ := b.fromResult(result, includeMetadata)
	return example
}

func (b *Builder) fromResult(result storage.TranscriptionResult, includeMetadata bool) (TrainingExample, string) {
	output := composeScript(*result.Segments)
	topic := b.topics.Extract(output)

	example := TrainingExample{
		Input:  fmt.Sprintf(inputTemplate, topic),
		Output: output,
	}
	if includeMetadata {
		meta := &ExampleMetadata{
			Source:       SourceOriginal,
			VideoID:      result.VideoID,
			Platform:     result.Platform,
			Topic:        topic,
			TemplateUsed: false,
		}
		if result.Metadata != nil {
			meta.ViewCount = result.Metadata.ViewCount
			meta.LikeCount = result.Metadata.LikeCount
			meta.ProcessingTimeMS = result.Metadata.ProcessingTimeMS
		}
		example.Metadata = meta
	}
	return example, topic
}

// FromSynthetic builds a training example from a template-filled script.
// The topic is the caller-supplied value, never re-derived; synthetic
// examples carry no source-video provenance.
func (b *Builder) FromSynthetic(topic string, script storage.MarketingSegments, includeMetadata bool) TrainingExample {
	example := TrainingExample{
		Input:  fmt.Sprintf(inputTemplate, topic),
		Output: composeScript(script),
	}
	if includeMetadata {
		example.Metadata = &ExampleMetadata{
			Source:       SourceSynthetic,
			Topic:        topic,
			TemplateUsed: true,
		}
	}
	return example
}

// composeScript joins the four segments in fixed order with single spaces.
func composeScript(segments storage.MarketingSegments) string {
	return strings.TrimSpace(strings.Join(strings.Fields(
		segments.Hook+" "+segments.Bridge+" "+segments.GoldenNugget+" "+segments.WTA), " "))
}
