package media

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDownloadReturnsBodyAndContentType(t *testing.T) {
	payload := []byte("fake video bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "video/mp4; charset=binary")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 0)

	data, contentType, err := d.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("unexpected body: %q", data)
	}
	if contentType != "video/mp4" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestDownloadSniffsMissingContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("<html><body>not a video</body></html>"))
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 0)

	_, contentType, err := d.Download(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if contentType != "text/html" {
		t.Errorf("content type = %q", contentType)
	}
}

func TestDownloadEnforcesByteLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 64))
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 32)

	if _, _, err := d.Download(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for oversize download")
	}
}

func TestDownloadRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	d := NewDownloader(time.Second, 0)

	if _, _, err := d.Download(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for forbidden response")
	}
}
