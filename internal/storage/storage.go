package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that a record could not be located in the backing store.
var ErrNotFound = errors.New("record not found")

// Segment category labels as they appear in word assignments.
const (
	CategoryHook         = "hook"
	CategoryBridge       = "bridge"
	CategoryGoldenNugget = "goldenNugget"
	CategoryWTA          = "wta"
)

// MarketingSegments is the four-part breakdown of a script: attention grab,
// transition, core value, and call to action. A well-formed response
// concatenates back to the transcript word for word; that is expected of the
// model, not enforced here.
type MarketingSegments struct {
	Hook         string `json:"hook"`
	Bridge       string `json:"bridge"`
	GoldenNugget string `json:"goldenNugget"`
	WTA          string `json:"wta"`
}

// WordAssignment ties one transcript token to exactly one segment category.
// Positions are 1-based and must form a contiguous run over the transcript.
type WordAssignment struct {
	Word     string `json:"word"`
	Category string `json:"category"`
	Position int    `json:"position"`
}

// ResultMetadata carries optional source-video engagement and file facts.
// View/like counts are pointers so a missing value stays distinguishable from
// zero when averaging.
type ResultMetadata struct {
	ViewCount        *int   `json:"view_count,omitempty"`
	LikeCount        *int   `json:"like_count,omitempty"`
	Quality          string `json:"quality,omitempty"`
	FileSize         int64  `json:"file_size,omitempty"`
	ProcessingTimeMS int64  `json:"processing_time_ms,omitempty"`
}

// TranscriptionResult is the outcome of transcribing one creator video.
// A result with Success=false carries no segments and is excluded from
// dataset generation.
type TranscriptionResult struct {
	ID              string             `json:"id"`
	Creator         string             `json:"creator,omitempty"`
	VideoID         string             `json:"video_id"`
	VideoURL        string             `json:"video_url"`
	Platform        string             `json:"platform"`
	Transcription   string             `json:"transcription"`
	Segments        *MarketingSegments `json:"marketing_segments,omitempty"`
	WordAssignments []WordAssignment   `json:"word_assignments,omitempty"`
	Success         bool               `json:"success"`
	Error           string             `json:"error,omitempty"`
	Metadata        *ResultMetadata    `json:"metadata,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ScriptTemplate is a generalized, placeholder-bearing version of a
// MarketingSegments. The pipeline passes it through as provenance.
type ScriptTemplate struct {
	Hook   string `json:"hook"`
	Bridge string `json:"bridge"`
	Nugget string `json:"nugget"`
	WTA    string `json:"wta"`
}

// SyntheticScript pairs a caller-supplied topic with a template-filled script.
type SyntheticScript struct {
	Topic    string            `json:"topic"`
	Script   MarketingSegments `json:"script"`
	Template *ScriptTemplate   `json:"template,omitempty"`
}

// Store defines the persistence behaviors the application relies on.
type Store interface {
	SaveResult(ctx context.Context, input TranscriptionResult) (TranscriptionResult, error)
	ListResults(ctx context.Context) ([]TranscriptionResult, error)
	ListResultsByCreator(ctx context.Context, creator string) ([]TranscriptionResult, error)
	GetResult(ctx context.Context, id string) (TranscriptionResult, error)
	DeleteResult(ctx context.Context, id string) error
	Close()
}

// NewStore selects a backing store based on whether a database URL is provided.
func NewStore(ctx context.Context, databaseURL string) (Store, error) {
	if databaseURL == "" {
		return NewInMemoryStore(), nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS transcription_results (
        id TEXT PRIMARY KEY,
        creator TEXT,
        video_id TEXT NOT NULL,
        video_url TEXT,
        platform TEXT,
        transcription TEXT,
        success BOOLEAN NOT NULL DEFAULT FALSE,
        error TEXT,
        segments JSONB,
        word_assignments JSONB DEFAULT '[]'::jsonb,
        metadata JSONB DEFAULT '{}'::jsonb,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("create transcription_results table: %w", err)
	}

	var schemaAlters = []string{
		`ALTER TABLE transcription_results ADD COLUMN IF NOT EXISTS creator TEXT`,
		`ALTER TABLE transcription_results ADD COLUMN IF NOT EXISTS word_assignments JSONB DEFAULT '[]'::jsonb`,
		`ALTER TABLE transcription_results ADD COLUMN IF NOT EXISTS metadata JSONB DEFAULT '{}'::jsonb`,
		`CREATE INDEX IF NOT EXISTS transcription_results_creator_idx ON transcription_results (creator)`,
	}
	for _, stmt := range schemaAlters {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("alter transcription_results table: %w", err)
		}
	}

	return nil
}

// normalizeResult fills defaults shared by every backend before persisting.
func normalizeResult(input TranscriptionResult, newID func() string) TranscriptionResult {
	if input.ID == "" {
		input.ID = newID()
	}
	if input.CreatedAt.IsZero() {
		input.CreatedAt = time.Now()
	}
	return input
}
