package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"viralScriptAi/internal/config"
	"viralScriptAi/internal/media"
	"viralScriptAi/internal/pipeline"
	"viralScriptAi/internal/scrape"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/transcribe"
)

func main() {
	var (
		username    = flag.String("creator", "", "Creator username to process (required)")
		maxVideos   = flag.Int("max-videos", 0, "Number of top videos to process (default from env)")
		minViews    = flag.Int("min-views", 0, "Skip videos below this view count")
		fastProfile = flag.Bool("fast", false, "Process a small batch concurrently")
		plainOnly   = flag.Bool("plain", false, "Transcribe only, without marketing segmentation")
	)
	flag.Parse()

	if *username == "" {
		log.Fatal("-creator is required")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}
	cfg := config.FromEnv()

	if cfg.AI.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required for transcription")
	}

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}
	defer store.Close()

	runner := &pipeline.Pipeline{
		Videos: scrape.NewProvider(scrape.Config{
			APIKey:   cfg.Scrape.APIKey,
			BaseURL:  cfg.Scrape.BaseURL,
			CacheTTL: cfg.Scrape.CacheTTL,
		}),
		Downloader:  media.NewDownloader(cfg.AI.Timeout, cfg.Pipeline.MaxVideoBytes),
		Transcriber: transcribe.NewGeminiTranscriber(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout),
		Store:       store,
	}

	opts := pipeline.DefaultOptions()
	opts.MaxVideos = cfg.Pipeline.MaxVideos
	opts.MinViews = cfg.Pipeline.MinViews
	opts.Delay = time.Duration(cfg.Pipeline.DelaySeconds) * time.Second
	if *maxVideos > 0 {
		opts.MaxVideos = *maxVideos
	}
	if *minViews > 0 {
		opts.MinViews = *minViews
	}
	opts.FastProfile = *fastProfile
	opts.Marketing = !*plainOnly

	results, err := runner.ProcessCreator(ctx, *username, opts)
	if err != nil {
		log.Fatalf("process creator: %v", err)
	}

	succeeded := 0
	for _, result := range results {
		if result.Success {
			succeeded++
		} else {
			log.Printf("video %s failed: %s", result.VideoID, result.Error)
		}
	}
	log.Printf("processed %d videos for %s (%d succeeded)", len(results), *username, succeeded)
}
