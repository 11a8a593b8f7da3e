// Package jobs consumes lint and format work items from Redis streams.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/snippet-engine/internal/asset"
	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/pipeline"
	"github.com/sevigo/snippet-engine/internal/snippetsvc"
	"github.com/sevigo/snippet-engine/internal/storage"
)

// LintJob lints a stored snippet and publishes the violations.
type LintJob struct {
	pipeline  *pipeline.Service
	assets    asset.Store
	publisher snippetsvc.Publisher
	results   storage.ResultStore
	container string
	logger    *slog.Logger
}

// NewLintJob creates a LintJob. results may be nil, in which case results are
// only published to the snippet service.
func NewLintJob(svc *pipeline.Service, assets asset.Store, publisher snippetsvc.Publisher, results storage.ResultStore, container string, logger *slog.Logger) *LintJob {
	if svc == nil {
		panic("pipeline service cannot be nil")
	}
	if assets == nil {
		panic("asset store cannot be nil")
	}
	if publisher == nil {
		panic("publisher cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LintJob{
		pipeline:  svc,
		assets:    assets,
		publisher: publisher,
		results:   results,
		container: container,
		logger:    logger,
	}
}

func (j *LintJob) Name() string { return "lint" }

// Run lints the snippet named in payload. Both writes overwrite by snippet
// id, so a redelivered message produces the same end state.
func (j *LintJob) Run(ctx context.Context, payload []byte) error {
	req, version, err := DecodeLintRequest(payload)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx, j.logger).With("snippet_id", req.SnippetID, "version", version)
	log.Info("starting lint job")

	content, err := j.assets.Fetch(ctx, j.container, req.SnippetID)
	if err != nil {
		return fmt.Errorf("failed to fetch snippet %s: %w", req.SnippetID, err)
	}

	cfg := engine.LintConfigFromRules(req.UserRules, req.AllRules)
	violations, err := j.pipeline.Lint(ctx, version, content, cfg)
	if err != nil {
		return fmt.Errorf("failed to lint snippet %s: %w", req.SnippetID, err)
	}

	envelope := core.SnippetLintResults{SnippetID: req.SnippetID, Results: violations}
	if j.results != nil {
		if err := j.results.SaveLintResults(ctx, envelope); err != nil {
			return fmt.Errorf("failed to store lint results: %w", err)
		}
	}
	if _, err := j.publisher.SaveLintResults(ctx, envelope); err != nil {
		return fmt.Errorf("failed to publish lint results: %w", err)
	}

	log.Info("lint job completed", "violations", len(violations))
	return nil
}
