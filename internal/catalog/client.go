package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Client fetches the event catalog with rate limiting and ETag
// revalidation. The feed is static-file hosting, so most polls come back
// 304 and reuse the previously fetched body.
type Client struct {
	httpClient *http.Client
	url        string
	limiter    *rate.Limiter
	logger     *slog.Logger

	mu       sync.Mutex
	lastETag string
	lastBody []byte
}

// NewClient creates a catalog client for the given feed URL.
func NewClient(url string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 30
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		url:        url,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// Fetch retrieves the current catalog. A non-2xx response or decode failure
// is an error — never an empty catalog.
func (c *Client) Fetch(ctx context.Context) ([]Entry, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	c.mu.Lock()
	etag := c.lastETag
	c.mu.Unlock()
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		c.mu.Lock()
		body := c.lastBody
		c.mu.Unlock()
		if len(body) == 0 {
			return nil, fmt.Errorf("events feed returned 304 but no cached body is available")
		}
		return decode(body)

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("read events body: %w", readErr)
		}
		entries, decErr := decode(body)
		if decErr != nil {
			return nil, decErr
		}
		c.mu.Lock()
		c.lastETag = resp.Header.Get("ETag")
		c.lastBody = body
		c.mu.Unlock()
		return entries, nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("events feed returned %d: %s", resp.StatusCode, string(body))
	}
}

func decode(body []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return entries, nil
}
