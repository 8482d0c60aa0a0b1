package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration values.
type Config struct {
	Port        string
	DatabaseURL string
	Scrape      ScrapeConfig
	AI          AIConfig
	Media       MediaConfig
	Tuning      TuningConfig
	Pipeline    PipelineConfig
}

// ScrapeConfig describes the external video scraping API.
type ScrapeConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

// AIConfig describes model providers used for transcription and generation.
type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	Timeout      time.Duration
}

// MediaConfig describes S3 video archiving configuration.
type MediaConfig struct {
	Bucket         string
	Region         string
	Endpoint       string
	PublicURL      string
	KeyPrefix      string
	ForcePathStyle bool
}

// TuningConfig describes the Vertex AI fine-tuning target.
type TuningConfig struct {
	Project   string
	Location  string
	BaseModel string
}

// PipelineConfig carries default processing knobs.
type PipelineConfig struct {
	MaxVideos     int
	MinViews      int
	DelaySeconds  int
	MaxVideoBytes int64
}

// FromEnv loads configuration from environment variables and applies defaults.
func FromEnv() Config {
	cfg := Config{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Scrape: ScrapeConfig{
			APIKey:   os.Getenv("SCRAPE_API_KEY"),
			BaseURL:  getenv("SCRAPE_BASE_URL", "https://api.scrapecreators.com/v1"),
			CacheTTL: time.Duration(getenvInt("SCRAPE_CACHE_TTL_MINUTES", 15)) * time.Minute,
		},
		AI: AIConfig{
			Provider:     strings.ToLower(getenv("AI_PROVIDER", "gemini")),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:  getenv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout:      time.Duration(getenvInt("AI_TIMEOUT_SECONDS", 300)) * time.Second,
		},
		Media: MediaConfig{
			Bucket:         os.Getenv("S3_BUCKET"),
			Region:         os.Getenv("S3_REGION"),
			Endpoint:       os.Getenv("S3_ENDPOINT"),
			PublicURL:      os.Getenv("S3_PUBLIC_URL"),
			KeyPrefix:      strings.Trim(getenv("S3_KEY_PREFIX", "videos"), "/"),
			ForcePathStyle: getenvBool("S3_FORCE_PATH_STYLE", false),
		},
		Tuning: TuningConfig{
			Project:   os.Getenv("VERTEX_PROJECT"),
			Location:  getenv("VERTEX_LOCATION", "us-central1"),
			BaseModel: getenv("VERTEX_BASE_MODEL", "gemini-2.5-flash"),
		},
		Pipeline: PipelineConfig{
			MaxVideos:     getenvInt("PIPELINE_MAX_VIDEOS", 5),
			MinViews:      getenvInt("PIPELINE_MIN_VIEWS", 0),
			DelaySeconds:  getenvInt("PIPELINE_DELAY_SECONDS", 2),
			MaxVideoBytes: int64(getenvInt("PIPELINE_MAX_VIDEO_MB", 100)) << 20,
		},
	}

	if cfg.Port == "" {
		log.Fatal("APP_PORT cannot be empty")
	}

	return cfg
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getenvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}

	return parsed
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}

	return parsed
}
