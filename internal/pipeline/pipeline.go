package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"viralScriptAi/internal/events"
	"viralScriptAi/internal/media"
	"viralScriptAi/internal/scrape"
	"viralScriptAi/internal/storage"
	"viralScriptAi/internal/transcribe"
)

// fastProfileLimit bounds concurrent transcription in the fast profile so a
// small batch does not hammer the model API.
const fastProfileLimit = 4

// Transcriber turns raw video bytes into a model response.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType string, marketing bool) (string, error)
}

// Downloader fetches a video and reports its content type.
type Downloader interface {
	Download(ctx context.Context, videoURL string) ([]byte, string, error)
}

// Options tune one processing run.
type Options struct {
	MaxVideos   int
	MinViews    int
	Delay       time.Duration
	FastProfile bool
	Marketing   bool
}

// DefaultOptions returns the standard sequential profile.
func DefaultOptions() Options {
	return Options{
		MaxVideos: 5,
		Delay:     2 * time.Second,
		Marketing: true,
	}
}

// Pipeline orchestrates scrape, download, transcription and persistence for a
// creator's top videos.
type Pipeline struct {
	Videos      scrape.Provider
	Downloader  Downloader
	Transcriber Transcriber
	Store       storage.Store
	Events      *events.Broker
	Archive     media.Uploader
}

// ProcessCreator runs the full pipeline for a creator. Individual video
// failures are recorded as unsuccessful results; the batch keeps going.
func (p *Pipeline) ProcessCreator(ctx context.Context, username string, opts Options) ([]storage.TranscriptionResult, error) {
	p.publish(events.Event{Creator: username, Stage: events.StageScraping})

	videos, err := p.Videos.TopVideos(ctx, username, opts.MaxVideos)
	if err != nil {
		p.publish(events.Event{Creator: username, Stage: events.StageFailed, Message: err.Error()})
		return nil, fmt.Errorf("scrape %s: %w", username, err)
	}

	if opts.MinViews > 0 {
		filtered := videos[:0]
		for _, video := range videos {
			if video.ViewCount != nil && *video.ViewCount >= opts.MinViews {
				filtered = append(filtered, video)
			}
		}
		videos = filtered
	}

	if len(videos) == 0 {
		p.publish(events.Event{Creator: username, Stage: events.StageCompleted, Message: "no videos matched"})
		return nil, nil
	}

	var results []storage.TranscriptionResult
	if opts.FastProfile && len(videos) <= fastProfileLimit {
		results = p.processConcurrently(ctx, username, videos, opts)
	} else {
		results = p.processSequentially(ctx, username, videos, opts)
	}

	p.publish(events.Event{Creator: username, Stage: events.StageCompleted, Message: fmt.Sprintf("%d videos processed", len(results))})
	return results, nil
}

func (p *Pipeline) processSequentially(ctx context.Context, username string, videos []scrape.Video, opts Options) []storage.TranscriptionResult {
	results := make([]storage.TranscriptionResult, 0, len(videos))
	for i, video := range videos {
		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(opts.Delay):
			}
		}
		results = append(results, p.processVideo(ctx, username, video, opts))
	}
	return results
}

func (p *Pipeline) processConcurrently(ctx context.Context, username string, videos []scrape.Video, opts Options) []storage.TranscriptionResult {
	results := make([]storage.TranscriptionResult, len(videos))

	var wg sync.WaitGroup
	for i, video := range videos {
		wg.Add(1)
		go func(idx int, video scrape.Video) {
			defer wg.Done()
			results[idx] = p.processVideo(ctx, username, video, opts)
		}(i, video)
	}
	wg.Wait()

	return results
}

func (p *Pipeline) processVideo(ctx context.Context, username string, video scrape.Video, opts Options) storage.TranscriptionResult {
	started := time.Now()

	result := storage.TranscriptionResult{
		Creator:  username,
		VideoID:  video.ID,
		VideoURL: video.URL,
		Platform: video.Platform,
		Metadata: &storage.ResultMetadata{
			ViewCount: video.ViewCount,
			LikeCount: video.LikeCount,
			Quality:   video.Quality,
		},
	}

	p.publish(events.Event{Creator: username, VideoID: video.ID, Stage: events.StageDownloading})
	data, contentType, err := p.Downloader.Download(ctx, video.URL)
	if err != nil {
		return p.saveFailure(ctx, result, started, fmt.Errorf("download: %w", err))
	}
	result.Metadata.FileSize = int64(len(data))

	if p.Archive != nil {
		if _, err := p.Archive.Upload(ctx, media.UploadInput{
			Filename:    video.ID + ".mp4",
			ContentType: contentType,
			Body:        bytes.NewReader(data),
			Size:        int64(len(data)),
		}); err != nil && err != media.ErrUploaderDisabled {
			log.Printf("pipeline: archive %s failed: %v", video.ID, err)
		}
	}

	p.publish(events.Event{Creator: username, VideoID: video.ID, Stage: events.StageTranscribing})
	response, err := p.Transcriber.Transcribe(ctx, data, contentType, opts.Marketing)
	if err != nil {
		return p.saveFailure(ctx, result, started, fmt.Errorf("transcribe: %w", err))
	}

	parsed := transcribe.ParseResponse(response, opts.Marketing)
	result.Transcription = parsed.Transcription
	result.Segments = parsed.Segments
	result.WordAssignments = parsed.WordAssignments
	result.Success = true
	result.Metadata.ProcessingTimeMS = time.Since(started).Milliseconds()

	if opts.Marketing && parsed.Segments != nil && len(parsed.WordAssignments) > 0 {
		p.publish(events.Event{Creator: username, VideoID: video.ID, Stage: events.StageValidating})
		validation := transcribe.ValidateWordAssignments(parsed.Transcription, *parsed.Segments, parsed.WordAssignments)
		if !validation.Valid {
			for _, issue := range validation.Errors {
				log.Printf("pipeline: %s word assignments: %s", video.ID, issue)
			}
		}
	}

	saved, err := p.Store.SaveResult(ctx, result)
	if err != nil {
		log.Printf("pipeline: save result for %s failed: %v", video.ID, err)
		return result
	}
	return saved
}

func (p *Pipeline) saveFailure(ctx context.Context, result storage.TranscriptionResult, started time.Time, cause error) storage.TranscriptionResult {
	result.Success = false
	result.Error = cause.Error()
	result.Metadata.ProcessingTimeMS = time.Since(started).Milliseconds()

	p.publish(events.Event{Creator: result.Creator, VideoID: result.VideoID, Stage: events.StageFailed, Message: cause.Error()})

	saved, err := p.Store.SaveResult(ctx, result)
	if err != nil {
		log.Printf("pipeline: save failed result for %s: %v", result.VideoID, err)
		return result
	}
	return saved
}

func (p *Pipeline) publish(evt events.Event) {
	if p.Events != nil {
		p.Events.Publish(evt)
	}
}
