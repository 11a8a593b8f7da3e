// Package app orchestrates the long-running parts of the snippet engine: the
// HTTP API and the stream consumers.
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sevigo/snippet-engine/internal/config"
)

// Component is something the App starts and stops.
type Component interface {
	Start() error
	Stop() error
}

// Workers are background consumers started with a context and drained on Stop.
type Workers interface {
	Start(ctx context.Context)
	Stop() error
}

// App holds the main application components.
type App struct {
	ctx     context.Context
	cfg     *config.Config
	server  Component
	workers Workers
	logger  *slog.Logger
}

// NewApp creates an App. ctx bounds the lifetime of the workers.
func NewApp(ctx context.Context, cfg *config.Config, server Component, workers Workers, logger *slog.Logger) *App {
	return &App{ctx: ctx, cfg: cfg, server: server, workers: workers, logger: logger}
}

// Start launches the consumers and then runs the HTTP server. It blocks until
// the server stops.
func (a *App) Start() error {
	a.logger.Info("starting snippet engine",
		"server_port", a.cfg.Server.Port,
		"lint_stream", a.cfg.Streams.Lint.Stream,
		"format_stream", a.cfg.Streams.Format.Stream)

	a.workers.Start(a.ctx)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application. The HTTP server stops accepting requests
// first; consumers then finish the message they hold and exit.
func (a *App) Stop() error {
	a.logger.Info("shutting down snippet engine services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	workersErr := a.workers.Stop()
	if workersErr != nil {
		a.logger.Error("error while draining consumers", "error", workersErr)
	}

	if err := errors.Join(serverErr, workersErr); err != nil {
		a.logger.Error("snippet engine stopped with errors", "error", err)
		return err
	}

	a.logger.Info("snippet engine stopped successfully")
	return nil
}
