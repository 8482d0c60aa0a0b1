package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMaxVideoBytes caps a single video download at 100 MB.
const DefaultMaxVideoBytes = 100 << 20

// Downloader fetches video files from scraped URLs.
type Downloader struct {
	client   *http.Client
	maxBytes int64
}

// NewDownloader constructs a downloader with the given timeout and byte cap.
// Zero values select sensible defaults.
func NewDownloader(timeout time.Duration, maxBytes int64) *Downloader {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxVideoBytes
	}
	return &Downloader{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Download fetches the video at the given URL and returns its bytes together
// with the detected content type.
func (d *Downloader) Download(ctx context.Context, videoURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("download request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", videoURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download %s: status %s", videoURL, resp.Status)
	}

	// Read one byte past the cap so oversize payloads are detected instead of
	// silently truncated.
	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read video body: %w", err)
	}
	if int64(len(data)) > d.maxBytes {
		return nil, "", fmt.Errorf("video exceeds %d byte limit", d.maxBytes)
	}

	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	return data, contentType, nil
}
