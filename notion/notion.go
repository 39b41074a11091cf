// Package notion is a minimal client for the hierarchical content provider
// behind lorebase: paginated child-block listing for document pages and
// paginated row queries for databases. It extracts plain text and named
// properties, nothing more. Rate-limit (429) and server errors are retried
// with doubled backoff; other upstream failures surface to the caller so the
// domain adapters can apply their own fallback policy.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config configures the client.
type Config struct {
	// BaseURL of the provider API. Default: https://api.notion.com.
	BaseURL string
	// Token is the integration bearer token.
	Token string
	// Version is the provider API version header. Default: 2022-06-28.
	Version string
	// Timeout is the per-request HTTP timeout. Default: 30s.
	Timeout time.Duration
	// PageSize for paginated listings. Default: 100.
	PageSize int
	// MaxRetries for 429/5xx responses. Default: 3.
	MaxRetries int
	// Backoff is the initial retry wait, doubled each attempt. Default: 500ms.
	Backoff time.Duration
	// MaxBytes caps each response body read. Default: 4MB.
	MaxBytes int64
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
	// Logger overrides the default slog logger.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.notion.com"
	}
	if c.Version == "" {
		c.Version = "2022-06-28"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		c.PageSize = 100
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 4 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client talks to the content provider.
type Client struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a Client with the given configuration.
func New(cfg Config) *Client {
	cfg.defaults()
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, client: httpClient, logger: cfg.Logger}
}

// listResponse is the provider's generic paginated envelope.
type listResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// do issues one API request with retry on 429 and 5xx.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.cfg.Backoff * (1 << uint(attempt-1))
			c.logger.Warn("retrying provider call",
				"path", path, "attempt", attempt, "backoff_ms", wait.Milliseconds(), "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(wait):
			}
		}

		data, retryable, err := c.doOnce(ctx, method, path, payload)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte) (data []byte, retryable bool, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		// Network errors and timeouts are worth one more try.
		return nil, true, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("%s %s: http %d", method, path, resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("%s %s: http %d", method, path, resp.StatusCode)
	}
}

// richText is one span of the provider's rich text arrays; only the
// pre-rendered plain text is consumed.
type richText struct {
	PlainText string `json:"plain_text"`
}

func plainText(spans []richText) string {
	var buf bytes.Buffer
	for _, s := range spans {
		buf.WriteString(s.PlainText)
	}
	return buf.String()
}
