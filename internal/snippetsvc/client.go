// Package snippetsvc publishes lint results to the snippet service.
package snippetsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/logger"
)

// ErrPublish is returned when the snippet service rejects or cannot receive
// a result envelope.
var ErrPublish = fmt.Errorf("%w: publishing lint results failed", core.ErrDependency)

//go:generate mockgen -destination=../../mocks/mock_publisher.go -package=mocks . Publisher

// Publisher stores lint results for a snippet, overwriting earlier ones.
type Publisher interface {
	SaveLintResults(ctx context.Context, results core.SnippetLintResults) (*core.SnippetLintResults, error)
}

// Client is the HTTP implementation of Publisher. Every request carries a
// bearer token from the configured token source.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client that authenticates with tokens. base may be nil.
func NewClient(baseURL string, tokens oauth2.TokenSource, base http.RoundTripper, timeout time.Duration, logger *slog.Logger) *Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: tokens, Base: base},
		},
		logger: logger,
	}
}

// SaveLintResults sends PUT /lintresult/all and returns the stored envelope
// when the service echoes one.
func (c *Client) SaveLintResults(ctx context.Context, results core.SnippetLintResults) (*core.SnippetLintResults, error) {
	if results.Results == nil {
		results.Results = []core.LintResult{}
	}
	body, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lint results: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/lintresult/all", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request: %w", ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set("X-Correlation-ID", id)
	}

	log := logger.FromContext(ctx, c.logger)
	log.Debug("publishing lint results", "snippet_id", results.SnippetID, "count", len(results.Results))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", ErrPublish, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPublish, resp.StatusCode, strings.TrimSpace(string(payload)))
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, nil
	}

	var echoed core.SnippetLintResults
	if err := json.Unmarshal(payload, &echoed); err != nil {
		log.Warn("snippet service returned an unreadable body", "error", err)
		return nil, nil
	}
	return &echoed, nil
}

// classifyTransportError keeps credential failures from the token source
// distinguishable from network failures.
func classifyTransportError(err error) error {
	if errors.Is(err, core.ErrCredential) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPublish, err)
}
