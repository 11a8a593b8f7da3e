package jobs

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner starts a set of consumers and drains them together.
type Runner struct {
	consumers []*Consumer
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewRunner creates a Runner for consumers.
func NewRunner(logger *slog.Logger, consumers ...*Consumer) *Runner {
	return &Runner{consumers: consumers, logger: logger}
}

// Start launches every consumer in its own goroutine. It returns immediately.
// A consumer that fails is logged at once and leaves the others running.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.group != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	g := &errgroup.Group{}
	for _, c := range r.consumers {
		g.Go(func() error {
			err := c.Run(ctx)
			if err != nil {
				r.logger.Error("job consumer stopped", "job", c.job.Name(), "stream", c.cfg.Stream, "error", err)
			}
			return err
		})
	}
	r.cancel = cancel
	r.group = g
	r.logger.Info("job consumers started", "count", len(r.consumers))
}

// Stop stops new deliveries and waits for in-flight messages to finish. It
// returns the first consumer startup error, if any.
func (r *Runner) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.group == nil {
		return nil
	}

	r.logger.Info("stopping job consumers and waiting for in-flight messages")
	r.cancel()
	err := r.group.Wait()
	r.group = nil
	r.logger.Info("all job consumers have stopped")
	return err
}
