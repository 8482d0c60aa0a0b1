package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists transcription results in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// SaveResult stores the provided result, marshaling the structured columns as JSONB.
func (s *PostgresStore) SaveResult(ctx context.Context, input TranscriptionResult) (TranscriptionResult, error) {
	input = normalizeResult(input, uuid.NewString)

	segments, err := json.Marshal(input.Segments)
	if err != nil {
		return TranscriptionResult{}, fmt.Errorf("marshal segments: %w", err)
	}
	assignments, err := json.Marshal(input.WordAssignments)
	if err != nil {
		return TranscriptionResult{}, fmt.Errorf("marshal word assignments: %w", err)
	}
	metadata, err := json.Marshal(input.Metadata)
	if err != nil {
		return TranscriptionResult{}, fmt.Errorf("marshal metadata: %w", err)
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO transcription_results (id, creator, video_id, video_url, platform, transcription, success, error, segments, word_assignments, metadata, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		input.ID, input.Creator, input.VideoID, input.VideoURL, input.Platform,
		input.Transcription, input.Success, input.Error, segments, assignments, metadata, input.CreatedAt); err != nil {
		return TranscriptionResult{}, fmt.Errorf("insert result: %w", err)
	}

	return input, nil
}

const resultColumns = `id, creator, video_id, video_url, platform, transcription, success, error, segments, word_assignments, metadata, created_at`

// ListResults returns the most recent results.
func (s *PostgresStore) ListResults(ctx context.Context) ([]TranscriptionResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM transcription_results ORDER BY created_at DESC LIMIT 500`)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListResultsByCreator returns results recorded for the given creator.
func (s *PostgresStore) ListResultsByCreator(ctx context.Context, creator string) ([]TranscriptionResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+resultColumns+` FROM transcription_results WHERE lower(creator) = lower($1) ORDER BY created_at DESC`, creator)
	if err != nil {
		return nil, fmt.Errorf("query results by creator: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// GetResult returns a single result by ID.
func (s *PostgresStore) GetResult(ctx context.Context, id string) (TranscriptionResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM transcription_results WHERE id = $1`, id)

	item, err := scanResult(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return TranscriptionResult{}, ErrNotFound
		}
		return TranscriptionResult{}, err
	}
	return item, nil
}

// DeleteResult removes a result by ID.
func (s *PostgresStore) DeleteResult(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM transcription_results WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases database resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResults(rows pgx.Rows) ([]TranscriptionResult, error) {
	results := []TranscriptionResult{}
	for rows.Next() {
		item, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func scanResult(row rowScanner) (TranscriptionResult, error) {
	var (
		item        TranscriptionResult
		segments    []byte
		assignments []byte
		metadata    []byte
	)
	if err := row.Scan(&item.ID, &item.Creator, &item.VideoID, &item.VideoURL, &item.Platform,
		&item.Transcription, &item.Success, &item.Error, &segments, &assignments, &metadata, &item.CreatedAt); err != nil {
		return TranscriptionResult{}, err
	}

	if len(segments) > 0 && string(segments) != "null" {
		item.Segments = &MarketingSegments{}
		if err := json.Unmarshal(segments, item.Segments); err != nil {
			return TranscriptionResult{}, fmt.Errorf("unmarshal segments: %w", err)
		}
	}
	if len(assignments) > 0 && string(assignments) != "null" {
		if err := json.Unmarshal(assignments, &item.WordAssignments); err != nil {
			return TranscriptionResult{}, fmt.Errorf("unmarshal word assignments: %w", err)
		}
	}
	if len(metadata) > 0 && string(metadata) != "null" {
		item.Metadata = &ResultMetadata{}
		if err := json.Unmarshal(metadata, item.Metadata); err != nil {
			return TranscriptionResult{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return item, nil
}
