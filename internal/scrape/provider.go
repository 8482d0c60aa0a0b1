package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	defaultTopVideos = 5
	maxTopVideos     = 25
)

// Config encapsulates the external scraping API configuration.
type Config struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

// Video is a scraped short-form video reference with engagement metadata.
type Video struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Platform  string `json:"platform"`
	ViewCount *int   `json:"view_count,omitempty"`
	LikeCount *int   `json:"like_count,omitempty"`
	Quality   string `json:"quality,omitempty"`
}

// Provider fetches a creator's most viewed videos.
type Provider interface {
	TopVideos(ctx context.Context, username string, limit int) ([]Video, error)
}

// NewProvider wires a provider implementation based on the config.
func NewProvider(cfg Config) Provider {
	var base Provider
	if cfg.APIKey == "" {
		base = &staticProvider{}
	} else {
		base = &apiProvider{
			apiKey:  cfg.APIKey,
			baseURL: strings.TrimRight(cfg.BaseURL, "/"),
			client:  &http.Client{Timeout: 30 * time.Second},
		}
	}

	return wrapWithCache(base, cfg.CacheTTL)
}

func wrapWithCache(base Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		return base
	}

	return &cachedProvider{
		base:    base,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

type cachedProvider struct {
	base    Provider
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	videos  []Video
	expires time.Time
}

func (c *cachedProvider) TopVideos(ctx context.Context, username string, limit int) ([]Video, error) {
	key := fmt.Sprintf("%s|%d", normalizeUsername(username), limit)
	now := time.Now()

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok && entry.expires.After(now) {
		c.mu.RUnlock()
		return entry.videos, nil
	}
	c.mu.RUnlock()

	videos, err := c.base.TopVideos(ctx, username, limit)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{
		videos:  videos,
		expires: now.Add(c.ttl),
	}
	c.mu.Unlock()

	return videos, nil
}

func normalizeUsername(username string) string {
	trimmed := strings.TrimSpace(strings.ToLower(username))
	return strings.TrimPrefix(trimmed, "@")
}

type apiProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func (p *apiProvider) TopVideos(ctx context.Context, username string, limit int) ([]Video, error) {
	clean := normalizeUsername(username)
	if clean == "" {
		return nil, fmt.Errorf("scrape: empty username")
	}
	limit = clampLimit(limit)

	endpoint := fmt.Sprintf("%s/creators/%s/videos", p.baseURL, url.PathEscape(clean))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("scrape request: %w", err)
	}
	req.Header.Set("X-API-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("scrape: creator %q not found", clean)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scrape api status %s", resp.Status)
	}

	var payload struct {
		Videos []Video `json:"videos"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("scrape decode response: %w", err)
	}

	return topByViews(payload.Videos, limit), nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultTopVideos
	}
	if limit > maxTopVideos {
		return maxTopVideos
	}
	return limit
}

// topByViews sorts by view count descending and truncates. Videos without a
// view count sort last, keeping their relative order.
func topByViews(videos []Video, limit int) []Video {
	ranked := make([]Video, len(videos))
	copy(ranked, videos)

	sort.SliceStable(ranked, func(i, j int) bool {
		return viewsOrZero(ranked[i]) > viewsOrZero(ranked[j])
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func viewsOrZero(v Video) int {
	if v.ViewCount == nil {
		return 0
	}
	return *v.ViewCount
}

type staticProvider struct{}

var sampleVideos = []struct {
	suffix string
	views  int
	likes  int
}{
	{"a1", 125000, 9800},
	{"b2", 84000, 6100},
	{"c3", 51000, 3900},
	{"d4", 22000, 1500},
	{"e5", 9000, 640},
}

func (staticProvider) TopVideos(_ context.Context, username string, limit int) ([]Video, error) {
	clean := normalizeUsername(username)
	if clean == "" {
		return nil, fmt.Errorf("scrape: empty username")
	}
	limit = clampLimit(limit)

	videos := make([]Video, 0, len(sampleVideos))
	for _, sample := range sampleVideos {
		views := sample.views
		likes := sample.likes
		videos = append(videos, Video{
			ID:        fmt.Sprintf("%s-%s", clean, sample.suffix),
			URL:       fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", clean, sample.suffix),
			Platform:  "tiktok",
			ViewCount: &views,
			LikeCount: &likes,
			Quality:   "720p",
		})
	}

	return topByViews(videos, limit), nil
}
