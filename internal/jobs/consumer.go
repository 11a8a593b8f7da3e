package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/metrics"
	"github.com/sevigo/snippet-engine/internal/stream"
)

// Queue is the subset of stream operations a Consumer needs.
type Queue interface {
	EnsureGroup(ctx context.Context, stream, group string) error
	ReadGroup(ctx context.Context, stream, group, consumer, id string, count int, block time.Duration) ([]core.Message, error)
	Ack(ctx context.Context, stream, group string, ids ...string) error
	Add(ctx context.Context, stream string, fields map[string]string) (string, error)
}

// ConsumerConfig configures one Consumer.
type ConsumerConfig struct {
	Stream       string
	Group        string
	Consumer     string
	DeadLetter   string
	PayloadField string
	Block        time.Duration
	Count        int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Consumer feeds one stream's messages to a job, one at a time. A message is
// acknowledged only after the job succeeded or the message was copied to the
// dead-letter stream.
type Consumer struct {
	queue   Queue
	job     core.Job
	cfg     ConsumerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
	sleep   func(time.Duration)
}

// NewConsumer creates a Consumer. m may be nil.
func NewConsumer(queue Queue, job core.Job, cfg ConsumerConfig, m *metrics.Metrics, logger *slog.Logger) *Consumer {
	if cfg.PayloadField == "" {
		cfg.PayloadField = "data"
	}
	if cfg.Count <= 0 {
		cfg.Count = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &Consumer{
		queue:   queue,
		job:     job,
		cfg:     cfg,
		metrics: m,
		logger:  logger.With("job", job.Name(), "stream", cfg.Stream, "consumer", cfg.Consumer),
		sleep:   time.Sleep,
	}
}

// Run consumes until ctx is canceled. It first replays this consumer's
// pending messages, then waits for new ones. Cancellation never interrupts
// a message that is already being handled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.queue.EnsureGroup(ctx, c.cfg.Stream, c.cfg.Group); err != nil {
		return fmt.Errorf("failed to prepare consumer group: %w", err)
	}
	c.logger.Info("consumer started", "group", c.cfg.Group)

	cursor := stream.PendingStart
	for ctx.Err() == nil {
		msgs, err := c.queue.ReadGroup(ctx, c.cfg.Stream, c.cfg.Group, c.cfg.Consumer, cursor, c.cfg.Count, c.cfg.Block)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			c.logger.Error("failed to read from stream", "error", err)
			c.wait(ctx, c.cfg.RetryBackoff)
			continue
		}

		if cursor != stream.NewEntries {
			if len(msgs) == 0 {
				c.logger.Debug("pending messages replayed, waiting for new ones")
				cursor = stream.NewEntries
				continue
			}
			cursor = msgs[len(msgs)-1].ID
		}

		for _, msg := range msgs {
			if ctx.Err() != nil {
				break
			}
			c.handle(context.WithoutCancel(ctx), msg)
		}
	}

	c.logger.Info("consumer stopped")
	return nil
}

func (c *Consumer) wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		d = time.Second
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// handle processes one message end to end under a fresh correlation id.
func (c *Consumer) handle(ctx context.Context, msg core.Message) {
	start := time.Now()
	ctx, log, _ := logger.WithCorrelationID(ctx, c.logger)
	log = log.With("message_id", msg.ID)
	ctx = logger.NewContext(ctx, log)

	var err error
	payload, ok := msg.Fields[c.cfg.PayloadField]
	if !ok || payload == "" {
		err = fmt.Errorf("%w: field %q is missing", core.ErrMalformedMessage, c.cfg.PayloadField)
	} else {
		err = c.runWithRetry(ctx, log, []byte(payload))
	}

	outcome := "success"
	if err != nil {
		kind := core.Classify(err)
		outcome = string(kind)
		log.Error("job failed, moving message to dead-letter stream", "kind", kind, "error", err)
		if dlqErr := c.deadLetter(ctx, msg, kind, err); dlqErr != nil {
			log.Error("failed to dead-letter message, leaving it pending", "error", dlqErr)
			c.metrics.RecordJob(c.job.Name(), "pending", time.Since(start))
			return
		}
		c.metrics.RecordDeadLetter(c.job.Name(), string(kind))
	}

	if err := c.queue.Ack(ctx, c.cfg.Stream, c.cfg.Group, msg.ID); err != nil {
		log.Error("failed to acknowledge message", "error", err)
	}
	c.metrics.RecordJob(c.job.Name(), outcome, time.Since(start))
}

// maxRetryBackoff caps a single retry delay. A drain waits at most
// (MaxAttempts-1)*maxRetryBackoff for the in-flight message's retries.
const maxRetryBackoff = 30 * time.Second

// runWithRetry retries dependency and credential failures with exponential
// backoff, up to MaxAttempts runs in total.
func (c *Consumer) runWithRetry(ctx context.Context, log *slog.Logger, payload []byte) error {
	backoff := min(c.cfg.RetryBackoff, maxRetryBackoff)
	for attempt := 1; ; attempt++ {
		err := c.job.Run(ctx, payload)
		if err == nil {
			return nil
		}
		kind := core.Classify(err)
		if !kind.Retryable() || attempt >= c.cfg.MaxAttempts {
			return err
		}

		log.Warn("job failed, retrying", "attempt", attempt, "kind", kind, "backoff", backoff, "error", err)
		c.metrics.RecordRetry(c.job.Name())
		c.sleep(backoff)
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (c *Consumer) deadLetter(ctx context.Context, msg core.Message, kind core.ErrorKind, cause error) error {
	if c.cfg.DeadLetter == "" {
		return nil
	}
	fields := map[string]string{
		"source_stream": msg.Stream,
		"source_id":     msg.ID,
		"job":           c.job.Name(),
		"kind":          string(kind),
		"error":         cause.Error(),
		"failed_at":     time.Now().UTC().Format(time.RFC3339),
	}
	if payload, ok := msg.Fields[c.cfg.PayloadField]; ok {
		fields[c.cfg.PayloadField] = payload
	}
	_, err := c.queue.Add(ctx, c.cfg.DeadLetter, fields)
	return err
}
