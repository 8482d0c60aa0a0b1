package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"viralScriptAi/internal/dataset"
	"viralScriptAi/internal/events"
	"viralScriptAi/internal/llm"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/templates"
)

// Handler bundles dependencies for pipeline and dataset endpoints.
type Handler struct {
	Store     storage.Store
	Runner    *Pipeline
	Broker    *events.Broker
	Templates templates.Generator
	Assembler *dataset.Assembler
}

// ProcessRequest describes inbound payload for processing a creator.
type ProcessRequest struct {
	MaxVideos    int   `json:"max_videos"`
	MinViews     int   `json:"min_views"`
	DelaySeconds int   `json:"delay_seconds"`
	FastProfile  bool  `json:"fast_profile"`
	Marketing    *bool `json:"marketing,omitempty"`
}

// ProcessCreator handles POST /api/creators/{username}/process.
func (h Handler) ProcessCreator(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(chi.URLParam(r, "username"))
	if username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	var req ProcessRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	opts := DefaultOptions()
	if req.MaxVideos > 0 {
		opts.MaxVideos = req.MaxVideos
	}
	if req.MinViews > 0 {
		opts.MinViews = req.MinViews
	}
	if req.DelaySeconds > 0 {
		opts.Delay = time.Duration(req.DelaySeconds) * time.Second
	}
	opts.FastProfile = req.FastProfile
	if req.Marketing != nil {
		opts.Marketing = *req.Marketing
	}

	results, err := h.Runner.ProcessCreator(r.Context(), username, opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"creator": username,
		"results": results,
	})
}

// ListResults handles GET /api/results with an optional creator filter.
func (h Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	var (
		results []storage.TranscriptionResult
		err     error
	)

	if creator := strings.TrimSpace(r.URL.Query().Get("creator")); creator != "" {
		results, err = h.Store.ListResultsByCreator(r.Context(), creator)
	} else {
		results, err = h.Store.ListResults(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// GetResult handles GET /api/results/{id}.
func (h Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Store.GetResult(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// DeleteResult handles DELETE /api/results/{id}.
func (h Handler) DeleteResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Store.DeleteResult(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "result not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportRequest describes inbound payload for dataset export and validation.
type ExportRequest struct {
	Format          string   `json:"format"`
	Creator         string   `json:"creator,omitempty"`
	IncludeMetadata *bool    `json:"include_metadata,omitempty"`
	IncludeOriginal *bool    `json:"include_original,omitempty"`
	IncludeSynth    *bool    `json:"include_synthetic,omitempty"`
	MaxPerVideo     *int     `json:"max_per_video,omitempty"`
	MinViewCount    int      `json:"min_view_count,omitempty"`
	SyntheticTopics []string `json:"synthetic_topics,omitempty"`
	Model           string   `json:"model,omitempty"`
}

// ExportDataset handles POST /api/dataset/export.
func (h Handler) ExportDataset(w http.ResponseWriter, r *http.Request) {
	ds, req, ok := h.assembleFromRequest(w, r)
	if !ok {
		return
	}

	includeMetadata := true
	if req.IncludeMetadata != nil {
		includeMetadata = *req.IncludeMetadata
	}

	switch strings.ToLower(req.Format) {
	case "", "jsonl":
		w.Header().Set("Content-Type", "application/jsonl")
		w.Header().Set("Content-Disposition", `attachment; filename="training.jsonl"`)
		if err := dataset.EncodeJSONL(w, ds, includeMetadata); err != nil {
			log.Printf("dataset: jsonl export: %v", err)
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="training.json"`)
		if err := dataset.EncodeJSON(w, ds, includeMetadata); err != nil {
			log.Printf("dataset: json export: %v", err)
		}
	default:
		http.Error(w, fmt.Sprintf("unsupported format %q", req.Format), http.StatusBadRequest)
	}
}

// ValidateDataset handles POST /api/dataset/validate.
func (h Handler) ValidateDataset(w http.ResponseWriter, r *http.Request) {
	ds, _, ok := h.assembleFromRequest(w, r)
	if !ok {
		return
	}

	report := dataset.Validate(ds)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"report":  report,
		"summary": ds.Summary,
	})
}

func (h Handler) assembleFromRequest(w http.ResponseWriter, r *http.Request) (dataset.TrainingDataset, ExportRequest, bool) {
	var req ExportRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return dataset.TrainingDataset{}, req, false
		}
	}

	var (
		results []storage.TranscriptionResult
		err     error
	)
	if creator := strings.TrimSpace(req.Creator); creator != "" {
		results, err = h.Store.ListResultsByCreator(r.Context(), creator)
	} else {
		results, err = h.Store.ListResults(r.Context())
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return dataset.TrainingDataset{}, req, false
	}

	opts := dataset.DefaultOptions()
	if req.IncludeMetadata != nil {
		opts.IncludeMetadata = *req.IncludeMetadata
	}
	if req.IncludeOriginal != nil {
		opts.IncludeOriginal = *req.IncludeOriginal
	}
	if req.IncludeSynth != nil {
		opts.IncludeSynthetic = *req.IncludeSynth
	}
	if req.MaxPerVideo != nil {
		opts.MaxPerVideo = *req.MaxPerVideo
	}
	if req.MinViewCount > 0 {
		opts.MinViewCount = req.MinViewCount
	}

	var synthetics []storage.SyntheticScript
	if opts.IncludeSynthetic && len(req.SyntheticTopics) > 0 {
		ctx := r.Context()
		if req.Model != "" {
			ctx = llm.WithModel(ctx, req.Model)
		}
		synthetics = h.generateSynthetics(ctx, results, req.SyntheticTopics)
	}

	return h.Assembler.Assemble(results, synthetics, opts), req, true
}

// generateSynthetics derives a template from the best available result and
// fills it with each requested topic. Failed generations are skipped.
func (h Handler) generateSynthetics(ctx context.Context, results []storage.TranscriptionResult, topicsList []string) []storage.SyntheticScript {
	if h.Templates == nil {
		return nil
	}

	var donor *storage.MarketingSegments
	for _, result := range results {
		if result.Success && result.Segments != nil {
			donor = result.Segments
			break
		}
	}
	if donor == nil {
		return nil
	}

	template, err := h.Templates.DeriveTemplate(ctx, *donor)
	if err != nil {
		log.Printf("dataset: derive template: %v", err)
		return nil
	}

	synthetics := make([]storage.SyntheticScript, 0, len(topicsList))
	for _, topic := range topicsList {
		script, err := h.Templates.GenerateScript(ctx, topic, template)
		if err != nil {
			log.Printf("dataset: generate script for %q: %v", topic, err)
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

// StreamEvents handles GET /api/events as a server-sent event stream.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Broker.Subscribe()
	defer h.Broker.Unsubscribe(ch)

	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
