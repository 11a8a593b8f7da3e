package db

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/config"
)

func TestNewPool(t *testing.T) {
	s := miniredis.RunT(t)

	pool, cleanup, err := NewPool(config.RedisConfig{Addr: s.Addr(), MaxIdle: 1, MaxActive: 2})
	require.NoError(t, err)
	defer cleanup()

	assert.NoError(t, Ping(context.Background(), pool))
}

func TestNewPool_Unreachable(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	addr := s.Addr()
	s.Close()

	_, cleanup, err := NewPool(config.RedisConfig{Addr: addr})
	assert.Error(t, err)
	assert.NotNil(t, cleanup)
}
