package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// maxRetainedResults caps the in-memory backlog so long-running dev sessions
// do not grow without bound.
const maxRetainedResults = 500

// InMemoryStore is a thread-safe store used when a database is not configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	results []TranscriptionResult
}

// NewInMemoryStore constructs an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{results: make([]TranscriptionResult, 0)}
}

// SaveResult prepends a result to the in-memory slice.
func (s *InMemoryStore) SaveResult(_ context.Context, input TranscriptionResult) (TranscriptionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	input = normalizeResult(input, uuid.NewString)

	s.results = append([]TranscriptionResult{input}, s.results...)
	if len(s.results) > maxRetainedResults {
		s.results = s.results[:maxRetainedResults]
	}

	return input, nil
}

// ListResults returns a snapshot of stored results, newest first.
func (s *InMemoryStore) ListResults(_ context.Context) ([]TranscriptionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]TranscriptionResult, len(s.results))
	copy(snapshot, s.results)
	return snapshot, nil
}

// ListResultsByCreator returns results recorded for the given creator.
func (s *InMemoryStore) ListResultsByCreator(_ context.Context, creator string) ([]TranscriptionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []TranscriptionResult
	for _, r := range s.results {
		if strings.EqualFold(r.Creator, creator) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// GetResult returns a result by ID.
func (s *InMemoryStore) GetResult(_ context.Context, id string) (TranscriptionResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.results {
		if r.ID == id {
			return r, nil
		}
	}
	return TranscriptionResult{}, ErrNotFound
}

// DeleteResult removes a result by ID.
func (s *InMemoryStore) DeleteResult(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for idx, r := range s.results {
		if r.ID == id {
			s.results = append(s.results[:idx], s.results[idx+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Close satisfies the Store interface.
func (s *InMemoryStore) Close() {}
