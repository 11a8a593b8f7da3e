// Package storage keeps the latest lint results of every snippet in Redis.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/sevigo/snippet-engine/internal/core"
)

var (
	// ErrNotFound is returned when no results were stored for a snippet.
	ErrNotFound = errors.New("no lint results stored for snippet")

	errUnavailable = fmt.Errorf("%w: result store unavailable", core.ErrDependency)
)

//go:generate mockgen -destination=../../mocks/mock_result_store.go -package=mocks . ResultStore

// ResultStore defines the result persistence operations.
type ResultStore interface {
	SaveLintResults(ctx context.Context, results core.SnippetLintResults) error
	GetLintResults(ctx context.Context, snippetID string) (*core.SnippetLintResults, error)
}

type redisResultStore struct {
	pool *redis.Pool
	key  string
}

// NewResultStore creates a ResultStore writing to the Redis hash key. Each
// snippet id is one field, so saving the same snippet twice keeps one entry.
func NewResultStore(pool *redis.Pool, key string) ResultStore {
	return &redisResultStore{pool: pool, key: key}
}

func (s *redisResultStore) SaveLintResults(ctx context.Context, results core.SnippetLintResults) error {
	if results.Results == nil {
		results.Results = []core.LintResult{}
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode lint results: %w", err)
	}

	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", errUnavailable, err)
	}
	defer conn.Close()

	if _, err := redis.DoContext(conn, ctx, "HSET", s.key, results.SnippetID, payload); err != nil {
		return fmt.Errorf("%w: HSET %s: %w", errUnavailable, s.key, err)
	}
	return nil
}

func (s *redisResultStore) GetLintResults(ctx context.Context, snippetID string) (*core.SnippetLintResults, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnavailable, err)
	}
	defer conn.Close()

	payload, err := redis.Bytes(redis.DoContext(conn, ctx, "HGET", s.key, snippetID))
	if errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, snippetID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: HGET %s: %w", errUnavailable, s.key, err)
	}

	var results core.SnippetLintResults
	if err := json.Unmarshal(payload, &results); err != nil {
		return nil, fmt.Errorf("failed to decode lint results for %s: %w", snippetID, err)
	}
	return &results, nil
}
