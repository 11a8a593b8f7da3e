// Package db opens the Redis connection pool shared by the stream consumers
// and the result store.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/sevigo/snippet-engine/internal/config"
)

// NewPool creates a Redis pool and verifies it with a PING. The returned
// cleanup closes the pool.
func NewPool(cfg config.RedisConfig) (*redis.Pool, func(), error) {
	pool := &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		IdleTimeout: cfg.IdleTimeout,
		Wait:        true,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.Addr,
				redis.DialPassword(cfg.Password),
				redis.DialDatabase(cfg.DB),
				redis.DialConnectTimeout(5*time.Second),
			)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Ping(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, func() {}, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return pool, func() {
		if err := pool.Close(); err != nil {
			slog.Error("failed to close redis pool", "error", err)
		}
	}, nil
}

// Ping checks that a connection can be borrowed and answers PING.
func Ping(ctx context.Context, pool *redis.Pool) error {
	conn, err := pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = redis.DoContext(conn, ctx, "PING")
	return err
}
