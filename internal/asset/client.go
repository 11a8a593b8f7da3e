// Package asset talks to the asset service that stores snippet content.
package asset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sevigo/snippet-engine/internal/logger"
)

// DefaultContainer holds snippet sources.
const DefaultContainer = "snippets"

// maxContentSize is the largest snippet Fetch accepts.
const maxContentSize = 8 << 20

//go:generate mockgen -destination=../../mocks/mock_asset_store.go -package=mocks . Store

// Store reads and overwrites snippet content by container and key.
type Store interface {
	Fetch(ctx context.Context, container, key string) (string, error)
	Update(ctx context.Context, container, key, content string) error
}

// Client is the HTTP implementation of Store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the asset service at baseURL. A nil
// httpClient is replaced by one with the given timeout.
func NewClient(baseURL string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) assetURL(container, key string) string {
	return fmt.Sprintf("%s/v1/asset/%s/%s", c.baseURL, url.PathEscape(container), url.PathEscape(key))
}

// Fetch returns the content stored under container/key.
func (c *Client) Fetch(ctx context.Context, container, key string) (string, error) {
	if container == "" || key == "" {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, errEmptyKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.assetURL(container, key), nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %w", ErrUnavailable, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, container, key)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: fetch %s/%s returned status %d", ErrUnavailable, container, key, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read content: %w", ErrUnavailable, err)
	}
	if len(body) > maxContentSize {
		return "", fmt.Errorf("%w: %s/%s exceeds %d bytes", ErrTooLarge, container, key, maxContentSize)
	}
	return string(body), nil
}

// Update overwrites the content under container/key. Repeating the call with
// the same content leaves the store unchanged.
func (c *Client) Update(ctx context.Context, container, key, content string) error {
	if container == "" || key == "" {
		return fmt.Errorf("%w: %w", ErrUnavailable, errEmptyKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.assetURL(container, key), strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: update %s/%s returned status %d", ErrUnavailable, container, key, resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}
	logger.FromContext(ctx, c.logger).Debug("calling asset service", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnavailable, req.Method, req.URL.Path, err)
	}
	return resp, nil
}
