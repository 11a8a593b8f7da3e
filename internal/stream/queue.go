// Package stream wraps the Redis stream commands used by the job consumers.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/sevigo/snippet-engine/internal/core"
)

const (
	// PendingStart reads this consumer's delivered but unacknowledged entries.
	PendingStart = "0"
	// NewEntries reads entries never delivered to the group.
	NewEntries = ">"
	// GroupStart is the position new groups are created at: the stream's
	// last entry.
	GroupStart = "$"
)

// ErrUnavailable wraps Redis failures.
var ErrUnavailable = fmt.Errorf("%w: redis unavailable", core.ErrDependency)

// Queue reads and writes Redis streams through a shared pool.
type Queue struct {
	pool   *redis.Pool
	logger *slog.Logger
}

// NewQueue creates a Queue on pool.
func NewQueue(pool *redis.Pool, logger *slog.Logger) *Queue {
	return &Queue{pool: pool, logger: logger}
}

func (q *Queue) do(ctx context.Context, cmd string, args ...any) (any, error) {
	conn, err := q.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer conn.Close()
	return redis.DoContext(conn, ctx, cmd, args...)
}

// EnsureGroup creates group on stream, creating the stream if needed. A new
// group only sees entries added after it was created. An existing group keeps
// its position.
func (q *Queue) EnsureGroup(ctx context.Context, stream, group string) error {
	_, err := q.do(ctx, "XGROUP", "CREATE", stream, group, GroupStart, "MKSTREAM")
	if err != nil {
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			q.logger.Debug("consumer group already exists", "stream", stream, "group", group)
			return nil
		}
		return fmt.Errorf("%w: failed to create group %s on %s: %w", ErrUnavailable, group, stream, err)
	}
	q.logger.Info("created consumer group", "stream", stream, "group", group)
	return nil
}

// ReadGroup reads up to count entries for consumer starting after id. With
// id NewEntries the call blocks up to block waiting for new entries; with any
// other id it returns this consumer's pending entries after id immediately.
// A timeout yields an empty result.
func (q *Queue) ReadGroup(ctx context.Context, stream, group, consumer, id string, count int, block time.Duration) ([]core.Message, error) {
	args := []any{"GROUP", group, consumer, "COUNT", count}
	if id == NewEntries && block > 0 {
		args = append(args, "BLOCK", block.Milliseconds())
	}
	args = append(args, "STREAMS", stream, id)

	reply, err := redis.Values(q.do(ctx, "XREADGROUP", args...))
	if errors.Is(err, redis.ErrNil) {
		return nil, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: XREADGROUP %s: %w", ErrUnavailable, stream, err)
	}
	return parseStreams(reply)
}

// Ack acknowledges ids for group.
func (q *Queue) Ack(ctx context.Context, stream, group string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, len(ids)+2)
	args = append(args, stream, group)
	for _, id := range ids {
		args = append(args, id)
	}
	if _, err := q.do(ctx, "XACK", args...); err != nil {
		return fmt.Errorf("%w: XACK %s: %w", ErrUnavailable, stream, err)
	}
	return nil
}

// Add appends an entry and returns its id. Fields are written in key order.
func (q *Queue) Add(ctx context.Context, stream string, fields map[string]string) (string, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	args := make([]any, 0, 2+2*len(keys))
	args = append(args, stream, "*")
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	id, err := redis.String(q.do(ctx, "XADD", args...))
	if err != nil {
		return "", fmt.Errorf("%w: XADD %s: %w", ErrUnavailable, stream, err)
	}
	return id, nil
}

// parseStreams decodes an XREADGROUP reply:
// [[stream, [[id, [field, value, ...]], ...]], ...].
func parseStreams(reply []any) ([]core.Message, error) {
	var out []core.Message
	for _, s := range reply {
		pair, err := redis.Values(s, nil)
		if err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("unexpected stream reply: %v", s)
		}
		name, err := redis.String(pair[0], nil)
		if err != nil {
			return nil, fmt.Errorf("unexpected stream name: %w", err)
		}
		entries, err := redis.Values(pair[1], nil)
		if err != nil {
			return nil, fmt.Errorf("unexpected entries for %s: %w", name, err)
		}
		for _, e := range entries {
			msg, err := parseEntry(name, e)
			if err != nil {
				return nil, err
			}
			out = append(out, msg)
		}
	}
	return out, nil
}

func parseEntry(stream string, e any) (core.Message, error) {
	parts, err := redis.Values(e, nil)
	if err != nil || len(parts) != 2 {
		return core.Message{}, fmt.Errorf("unexpected entry in %s: %v", stream, e)
	}
	id, err := redis.String(parts[0], nil)
	if err != nil {
		return core.Message{}, fmt.Errorf("unexpected entry id in %s: %w", stream, err)
	}
	msg := core.Message{ID: id, Stream: stream, Fields: map[string]string{}}

	// A pending entry that was trimmed from the stream has no fields.
	if parts[1] == nil {
		return msg, nil
	}
	fields, err := redis.StringMap(parts[1], nil)
	if err != nil {
		return core.Message{}, fmt.Errorf("unexpected fields for %s in %s: %w", id, stream, err)
	}
	msg.Fields = fields
	return msg, nil
}
