// Package wire builds the application object graph.
package wire

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/google/wire"

	"github.com/sevigo/snippet-engine/internal/app"
	"github.com/sevigo/snippet-engine/internal/asset"
	"github.com/sevigo/snippet-engine/internal/auth"
	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/db"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/jobs"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/metrics"
	"github.com/sevigo/snippet-engine/internal/pipeline"
	"github.com/sevigo/snippet-engine/internal/server"
	"github.com/sevigo/snippet-engine/internal/snippetsvc"
	"github.com/sevigo/snippet-engine/internal/storage"
	"github.com/sevigo/snippet-engine/internal/stream"
)

var AppSet = wire.NewSet(
	config.LoadConfig,
	metrics.New,
	pipeline.NewService,
	stream.NewQueue,
	server.NewServer,
	provideLogger,
	provideRegistry,
	provideDriver,
	provideRedisPool,
	provideResultStore,
	provideHTTPClient,
	provideAssetStore,
	provideCredentialCache,
	providePublisher,
	provideLintJob,
	provideFormatJob,
	provideRunner,
	provideApp,
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.NewLogger(cfg.Logging, nil)
}

func provideRegistry(cfg *config.Config) *engine.Registry {
	r := engine.NewRegistry()
	printscript.Register(r,
		printscript.WithMemoryLimit(cfg.Pipeline.MemoryLimit),
		printscript.WithEnv(os.LookupEnv),
	)
	return r
}

func provideDriver(cfg *config.Config) pipeline.Driver {
	return pipeline.NewDriver(cfg.Pipeline.BatchSize)
}

func provideRedisPool(cfg *config.Config) (*redis.Pool, func(), error) {
	return db.NewPool(cfg.Redis)
}

func provideResultStore(cfg *config.Config, pool *redis.Pool) storage.ResultStore {
	return storage.NewResultStore(pool, cfg.Streams.ResultsKey)
}

// provideHTTPClient is shared by the outbound service clients. Per-service
// timeouts are applied by each client.
func provideHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport}
}

func provideAssetStore(cfg *config.Config, client *http.Client, log *slog.Logger) asset.Store {
	return asset.NewClient(cfg.Asset.BaseURL, client, cfg.Asset.Timeout, log)
}

func provideCredentialCache(cfg *config.Config, client *http.Client, m *metrics.Metrics, log *slog.Logger) *auth.CredentialCache {
	issuer := auth.NewClientCredentialsIssuer(auth.IssuerConfig{
		TokenURL:     cfg.Auth.TokenURL,
		ClientID:     cfg.Auth.ClientID,
		ClientSecret: cfg.Auth.ClientSecret,
		Audience:     cfg.Auth.Audience,
	}, client)
	return auth.NewCredentialCache(issuer, auth.SystemClock, cfg.Auth.SafetyMargin, m, log)
}

func providePublisher(cfg *config.Config, tokens *auth.CredentialCache, client *http.Client, log *slog.Logger) snippetsvc.Publisher {
	return snippetsvc.NewClient(cfg.SnippetService.BaseURL, tokens, client.Transport, cfg.SnippetService.Timeout, log)
}

func provideLintJob(cfg *config.Config, svc *pipeline.Service, assets asset.Store, publisher snippetsvc.Publisher, results storage.ResultStore, log *slog.Logger) *jobs.LintJob {
	return jobs.NewLintJob(svc, assets, publisher, results, cfg.Asset.Container, log)
}

func provideFormatJob(cfg *config.Config, svc *pipeline.Service, assets asset.Store, log *slog.Logger) *jobs.FormatJob {
	return jobs.NewFormatJob(svc, assets, cfg.Asset.Container, log)
}

func provideRunner(cfg *config.Config, queue *stream.Queue, lint *jobs.LintJob, format *jobs.FormatJob, m *metrics.Metrics, log *slog.Logger) *jobs.Runner {
	return jobs.NewRunner(log,
		jobs.NewConsumer(queue, lint, consumerConfig(cfg.Streams, cfg.Streams.Lint), m, log),
		jobs.NewConsumer(queue, format, consumerConfig(cfg.Streams, cfg.Streams.Format), m, log),
	)
}

func consumerConfig(all config.StreamsConfig, s config.StreamConfig) jobs.ConsumerConfig {
	return jobs.ConsumerConfig{
		Stream:       s.Stream,
		Group:        s.Group,
		Consumer:     s.Consumer,
		DeadLetter:   s.DeadLetter,
		PayloadField: all.PayloadField,
		Block:        all.Block,
		Count:        all.Count,
		MaxAttempts:  all.MaxAttempts,
		RetryBackoff: all.RetryBackoff,
	}
}

func provideApp(ctx context.Context, cfg *config.Config, srv *server.Server, runner *jobs.Runner, log *slog.Logger) *app.App {
	return app.NewApp(ctx, cfg, srv, runner, log)
}
