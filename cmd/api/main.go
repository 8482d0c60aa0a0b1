package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"viralScriptAi/internal/config"
	"viralScriptAi/internal/dataset"
	"viralScriptAi/internal/events"
	"viralScriptAi/internal/llm"
	"viralScriptAi/internal/media"
	"viralScriptAi/internal/pipeline"
	"viralScriptAi/internal/scrape"
	"viralScriptAi/internal/server"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/templates"
	"viralScriptAi/internal/transcribe"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}
	cfg := config.FromEnv()

	ctx := context.Background()
	store, err := storage.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	var archive media.Uploader
	if cfg.Media.Bucket != "" && cfg.Media.Region != "" {
		archive, err = media.NewUploader(ctx, media.Config{
			Bucket:         cfg.Media.Bucket,
			Region:         cfg.Media.Region,
			Endpoint:       cfg.Media.Endpoint,
			PublicURL:      cfg.Media.PublicURL,
			KeyPrefix:      cfg.Media.KeyPrefix,
			ForcePathStyle: cfg.Media.ForcePathStyle,
		})
		if err != nil {
			log.Fatalf("failed to init media uploader: %v", err)
		}
	} else {
		log.Println("video archive: disabled (S3 config missing)")
	}

	videos := scrape.NewProvider(scrape.Config{
		APIKey:   cfg.Scrape.APIKey,
		BaseURL:  cfg.Scrape.BaseURL,
		CacheTTL: cfg.Scrape.CacheTTL,
	})
	if cfg.Scrape.APIKey == "" {
		log.Println("scrape provider: using static sample data (API key missing)")
	}

	if cfg.AI.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required for transcription")
	}
	transcriber := transcribe.NewGeminiTranscriber(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout)

	var generator templates.Generator
	if strings.EqualFold(cfg.AI.Provider, "openai") && cfg.AI.OpenAIAPIKey != "" {
		openAIClient := llm.NewOpenAIClient(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.Timeout)
		generator = templates.NewChat(openAIClient)
		log.Println("script generator ready: OpenAI")
	} else if cfg.AI.GeminiAPIKey != "" {
		geminiClient := llm.NewGeminiClient(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel, cfg.AI.Timeout, nil)
		generator = templates.NewChat(geminiClient)
		log.Println("script generator ready: Gemini")
	} else {
		generator = templates.NewHeuristic()
		log.Println("script generator ready: heuristic fallback")
	}

	eventBroker := events.NewBroker()

	runner := &pipeline.Pipeline{
		Videos:      videos,
		Downloader:  media.NewDownloader(cfg.AI.Timeout, cfg.Pipeline.MaxVideoBytes),
		Transcriber: transcriber,
		Store:       store,
		Events:      eventBroker,
		Archive:     archive,
	}

	handler := pipeline.Handler{
		Store:     store,
		Runner:    runner,
		Broker:    eventBroker,
		Templates: generator,
		Assembler: dataset.NewAssembler(nil),
	}

	srv := server.New(cfg.Port, handler)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-shutdownChan
		log.Println("shutting down server...")
		if err := srv.Close(); err != nil {
			log.Printf("server close error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
