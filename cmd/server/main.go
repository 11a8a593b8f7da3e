package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/snippet-engine/internal/wire"
)

// service is the part of the application the entry point drives.
type service interface {
	Start() error
	Stop() error
}

type initFunc func(ctx context.Context) (service, func(), error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, initialize)
	stop()
	if err != nil {
		slog.Error("snippet engine exited", "error", err)
		os.Exit(1)
	}
}

func initialize(ctx context.Context) (service, func(), error) {
	a, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a, cleanup, nil
}

// run starts the service and blocks until ctx is done or the service exits on
// its own. Either way the service is stopped before run returns. The context
// handed to initApp outlives ctx so consumers drain through Stop, after the HTTP
// server.
func run(ctx context.Context, initApp initFunc) error {
	appCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	svc, cleanup, err := initApp(appCtx)
	if err != nil {
		return fmt.Errorf("failed to initialize snippet engine: %w", err)
	}
	defer cleanup()

	served := make(chan error, 1)
	go func() { served <- svc.Start() }()

	var serveErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case serveErr = <-served:
		if serveErr != nil {
			serveErr = fmt.Errorf("snippet engine failed: %w", serveErr)
		} else {
			slog.Warn("HTTP server exited without a shutdown signal")
		}
	}

	if err := svc.Stop(); err != nil {
		return errors.Join(serveErr, fmt.Errorf("failed to stop snippet engine: %w", err))
	}
	return serveErr
}
