package pipeline_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"viralScriptAi/internal/dataset"
	"viralScriptAi/internal/events"
	"viralScriptAi/internal/pipeline"
	"viralScriptAi/internal/scrape"
	"viralScriptAi/internal/server"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/templates"
)

func intPtr(v int) *int { return &v }

type fakeProvider struct{ videos []scrape.Video }

func (f fakeProvider) TopVideos(context.Context, string, int) ([]scrape.Video, error) {
	return f.videos, nil
}

type fakeDownloader struct{}

func (fakeDownloader) Download(context.Context, string) ([]byte, string, error) {
	return []byte("bytes"), "video/mp4", nil
}

type fakeTranscriber struct{ response string }

func (f fakeTranscriber) Transcribe(context.Context, []byte, string, bool) (string, error) {
	return f.response, nil
}

const handlerResponse = `{
  "transcription": "One two three four",
  "marketingSegments": {
    "hook": "One",
    "bridge": "two",
    "goldenNugget": "three",
    "wta": "four"
  },
  "wordAssignments": [
    {"word": "One", "category": "hook", "position": 1},
    {"word": "two", "category": "bridge", "position": 2},
    {"word": "three", "category": "goldenNugget", "position": 3},
    {"word": "four", "category": "wta", "position": 4}
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, storage.Store) {
	t.Helper()

	store := storage.NewInMemoryStore()
	broker := events.NewBroker()

	runner := &pipeline.Pipeline{
		Videos: fakeProvider{videos: []scrape.Video{
			{ID: "vid-1", URL: "https://example.com/1", Platform: "tiktok", ViewCount: intPtr(1000), LikeCount: intPtr(50)},
		}},
		Downloader:  fakeDownloader{},
		Transcriber: fakeTranscriber{response: handlerResponse},
		Store:       store,
		Events:      broker,
	}

	handler := pipeline.Handler{
		Store:     store,
		Runner:    runner,
		Broker:    broker,
		Templates: templates.NewHeuristic(),
		Assembler: dataset.NewAssembler(nil),
	}

	srv := httptest.NewServer(server.New("0", handler).Handler)
	t.Cleanup(srv.Close)
	return srv, store
}

func TestProcessCreatorEndpoint(t *testing.T) {
	srv, store := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/creators/somecreator/process", "application/json", strings.NewReader(`{"max_videos": 3}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload struct {
		Creator string                        `json:"creator"`
		Results []storage.TranscriptionResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Creator != "somecreator" || len(payload.Results) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if !payload.Results[0].Success {
		t.Errorf("expected success, got error %q", payload.Results[0].Error)
	}

	stored, _ := store.ListResults(context.Background())
	if len(stored) != 1 {
		t.Errorf("expected result persisted, got %d", len(stored))
	}
}

func TestGetResultNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/results/missing-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestExportDatasetJSONLWithSynthetics(t *testing.T) {
	srv, store := newTestServer(t)

	segments := storage.MarketingSegments{Hook: "One", Bridge: "two", GoldenNugget: "three", WTA: "four"}
	for i := 0; i < 12; i++ {
		_, err := store.SaveResult(context.Background(), storage.TranscriptionResult{
			VideoID:       fmt.Sprintf("vid-%d", i),
			Platform:      "tiktok",
			Transcription: "One two three four",
			Segments:      &segments,
			Success:       true,
		})
		if err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	body := `{"format": "jsonl", "synthetic_topics": ["fitness goals"]}`
	resp, err := http.Post(srv.URL+"/api/dataset/export", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	lines := 0
	sawSynthetic := false
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var example struct {
			Input    string `json:"input"`
			Output   string `json:"output"`
			Metadata *struct {
				Source string `json:"source"`
			} `json:"metadata"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &example); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines+1, err)
		}
		if example.Input == "" || example.Output == "" {
			t.Errorf("line %d has empty fields", lines+1)
		}
		if example.Metadata != nil && example.Metadata.Source == "synthetic" {
			sawSynthetic = true
		}
		lines++
	}
	if lines != 13 {
		t.Errorf("expected 13 examples, got %d", lines)
	}
	if !sawSynthetic {
		t.Error("expected a synthetic example in the export")
	}
}

func TestValidateDatasetEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/dataset/validate", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload struct {
		Report struct {
			Valid    bool     `json:"valid"`
			Warnings []string `json:"warnings"`
		} `json:"report"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Report.Valid {
		t.Error("empty dataset has no structural errors, expected valid report")
	}
	if len(payload.Report.Warnings) == 0 {
		t.Error("empty dataset should warn about size")
	}
}
