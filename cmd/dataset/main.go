package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"viralScriptAi/internal/config"
	"viralScriptAi/internal/dataset"
	"viralScriptAi/internal/llm"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/templates"
)

func main() {
	var (
		outputPath      = flag.String("out", "training.jsonl", "Where to write the dataset")
		format          = flag.String("format", "jsonl", "Output format: jsonl or json")
		creator         = flag.String("creator", "", "Only export results for this creator")
		maxPerVideo     = flag.Int("max-per-video", 10, "Maximum examples sourced from a single video")
		minViews        = flag.Int("min-views", 0, "Skip results below this view count")
		noMetadata      = flag.Bool("no-metadata", false, "Exclude per-example metadata")
		syntheticTopics = flag.String("synthetic-topics", "", "Comma separated topics for synthetic scripts")
		model           = flag.String("model", "", "Override the generation model for synthetic scripts")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}
	defer store.Close()

	var results []storage.TranscriptionResult
	if trimmed := strings.TrimSpace(*creator); trimmed != "" {
		results, err = store.ListResultsByCreator(ctx, trimmed)
	} else {
		results, err = store.ListResults(ctx)
	}
	if err != nil {
		log.Fatalf("fetch results: %v", err)
	}
	if len(results) == 0 {
		log.Fatal("no transcription results found to export")
	}

	opts := dataset.DefaultOptions()
	opts.IncludeMetadata = !*noMetadata
	opts.MaxPerVideo = *maxPerVideo
	opts.MinViewCount = *minViews

	synthetics := buildSynthetics(ctx, cfg, results, *syntheticTopics, *model)

	assembler := dataset.NewAssembler(nil)
	ds := assembler.Assemble(results, synthetics, opts)

	report := dataset.Validate(ds)
	for _, issue := range report.Errors {
		log.Printf("error: %s", issue)
	}
	for _, warning := range report.Warnings {
		log.Printf("warning: %s", warning)
	}
	if !report.Valid {
		log.Fatal("dataset failed validation, not writing output")
	}

	switch strings.ToLower(*format) {
	case "jsonl":
		err = dataset.WriteJSONL(*outputPath, ds, opts.IncludeMetadata)
	case "json":
		err = dataset.WriteJSON(*outputPath, ds, opts.IncludeMetadata)
	default:
		log.Fatalf("unsupported format %q", *format)
	}
	if err != nil {
		log.Fatalf("write dataset: %v", err)
	}

	log.Printf("exported %d examples (%d original, %d synthetic) to %s",
		ds.Summary.TotalExamples, ds.Summary.OriginalExamples, ds.Summary.SyntheticExamples, *outputPath)
}

func buildSynthetics(ctx context.Context, cfg config.Config, results []storage.TranscriptionResult, topicsCSV, model string) []storage.SyntheticScript {
	topicList := splitTopics(topicsCSV)
	if len(topicList) == 0 {
		return nil
	}

	var generator templates.Generator
	switch {
	case strings.EqualFold(cfg.AI.Provider, "openai") && cfg.AI.OpenAIAPIKey != "":
		generator = templates.NewChat(llm.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.Timeout))
	case cfg.AI.GeminiAPIKey != "":
		generator = templates.NewChat(llm.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout, nil))
	default:
		generator = templates.NewHeuristic()
		log.Println("synthetic scripts: using heuristic generator (no model configured)")
	}

	if model != "" {
		ctx = llm.WithModel(ctx, model)
	}

	var donor *storage.MarketingSegments
	for _, result := range results {
		if result.Success && result.Segments != nil {
			donor = result.Segments
			break
		}
	}
	if donor == nil {
		log.Println("synthetic scripts: no successful result to derive a template from")
		return nil
	}

	template, err := generator.DeriveTemplate(ctx, *donor)
	if err != nil {
		log.Printf("derive template: %v", err)
		return nil
	}

	synthetics := make([]storage.SyntheticScript, 0, len(topicList))
	for _, topic := range topicList {
		script, err := generator.GenerateScript(ctx, topic, template)
		if err != nil {
			log.Printf("generate script for %q: %v", topic, err)
			continue
		}
		synthetics = append(synthetics, storage.SyntheticScript{
			Topic:    topic,
			Script:   script,
			Template: &template,
		})
	}
	return synthetics
}

func splitTopics(raw string) []string {
	chunks := strings.Split(raw, ",")
	topics := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			topics = append(topics, trimmed)
		}
	}
	return topics
}
