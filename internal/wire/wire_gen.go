// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/sevigo/snippet-engine/internal/app"
	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/metrics"
	"github.com/sevigo/snippet-engine/internal/pipeline"
	"github.com/sevigo/snippet-engine/internal/server"
	"github.com/sevigo/snippet-engine/internal/stream"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger := provideLogger(cfg)
	m := metrics.New()

	registry := provideRegistry(cfg)
	driver := provideDriver(cfg)
	service := pipeline.NewService(registry, driver, m, slogLogger)

	pool, cleanup, err := provideRedisPool(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	queue := stream.NewQueue(pool, slogLogger)
	resultStore := provideResultStore(cfg, pool)

	httpClient := provideHTTPClient()
	assetStore := provideAssetStore(cfg, httpClient, slogLogger)
	credentialCache := provideCredentialCache(cfg, httpClient, m, slogLogger)
	publisher := providePublisher(cfg, credentialCache, httpClient, slogLogger)

	lintJob := provideLintJob(cfg, service, assetStore, publisher, resultStore, slogLogger)
	formatJob := provideFormatJob(cfg, service, assetStore, slogLogger)
	runner := provideRunner(cfg, queue, lintJob, formatJob, m, slogLogger)

	srv := server.NewServer(cfg, service, m, slogLogger)
	application := provideApp(ctx, cfg, srv, runner, slogLogger)
	return application, cleanup, nil
}
