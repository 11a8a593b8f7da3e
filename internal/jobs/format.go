package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/snippet-engine/internal/asset"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

// FormatJob rewrites a stored snippet in formatted form.
type FormatJob struct {
	pipeline  *pipeline.Service
	assets    asset.Store
	container string
	logger    *slog.Logger
}

// NewFormatJob creates a FormatJob.
func NewFormatJob(svc *pipeline.Service, assets asset.Store, container string, logger *slog.Logger) *FormatJob {
	if svc == nil {
		panic("pipeline service cannot be nil")
	}
	if assets == nil {
		panic("asset store cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &FormatJob{pipeline: svc, assets: assets, container: container, logger: logger}
}

func (j *FormatJob) Name() string { return "format" }

// Run formats the snippet named in payload and writes it back over the
// original content.
func (j *FormatJob) Run(ctx context.Context, payload []byte) error {
	req, version, err := DecodeFormatRequest(payload)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx, j.logger).With("snippet_id", req.SnippetID, "version", version)
	log.Info("starting format job")

	content, err := j.assets.Fetch(ctx, j.container, req.SnippetID)
	if err != nil {
		return fmt.Errorf("failed to fetch snippet %s: %w", req.SnippetID, err)
	}

	cfg := engine.FormatConfigFromRules(req.UserRules, req.AllRules)
	formatted, err := j.pipeline.Format(ctx, version, content, cfg)
	if err != nil {
		return fmt.Errorf("failed to format snippet %s: %w", req.SnippetID, err)
	}

	if err := j.assets.Update(ctx, j.container, req.SnippetID, formatted); err != nil {
		return fmt.Errorf("failed to store formatted snippet %s: %w", req.SnippetID, err)
	}

	log.Info("format job completed", "bytes", len(formatted))
	return nil
}
