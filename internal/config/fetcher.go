package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxDocumentSize caps a fetched policy document.
const maxDocumentSize = 10 << 20

// Fetcher retrieves a policy document over HTTP.
type Fetcher struct {
	httpClient *http.Client
	url        string
	token      string
}

// NewFetcher creates a fetcher for url. A non-empty token is sent as a
// Bearer credential.
func NewFetcher(httpClient *http.Client, url, token string) *Fetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Fetcher{
		httpClient: httpClient,
		url:        url,
		token:      token,
	}
}

// StatusError reports a response status the fetcher does not accept.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether retrying may help.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Fetch downloads and parses the policy document.
func (f *Fetcher) Fetch(ctx context.Context) (*Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, text/yaml, */*")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch config: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: f.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read config body: %w", err)
	}
	cfg, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.url, err)
	}
	return cfg, nil
}

// FetchWithRetry calls Fetch until it succeeds, the failure is permanent
// (a parse error or a non-retryable status), or ctx ends.
func FetchWithRetry(ctx context.Context, f *Fetcher, baseInterval, maxInterval time.Duration, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := retrier{
		base: baseInterval,
		max:  maxInterval,
		onRetry: func(attempt int, wait time.Duration, err error) {
			logger.Warn("policy config fetch failed",
				"url", f.url,
				"attempt", attempt,
				"retry_in", wait,
				"error", err,
			)
		},
	}

	var cfg *Config
	err := r.do(ctx, func(ctx context.Context) error {
		var err error
		cfg, err = f.Fetch(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
