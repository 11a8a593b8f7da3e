package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/config"
)

type recorder struct {
	events *[]string
	name   string
	err    error
}

func (r recorder) Start() error {
	*r.events = append(*r.events, r.name+" start")
	return nil
}

func (r recorder) Stop() error {
	*r.events = append(*r.events, r.name+" stop")
	return r.err
}

type workers struct {
	recorder
	ctx context.Context
}

func (w *workers) Start(ctx context.Context) {
	w.ctx = ctx
	*w.events = append(*w.events, w.name+" start")
}

func newTestApp(events *[]string, serverErr, workerErr error) (*App, *workers) {
	w := &workers{recorder: recorder{events: events, name: "workers", err: workerErr}}
	a := NewApp(context.Background(), &config.Config{}, recorder{events: events, name: "server", err: serverErr}, w,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return a, w
}

func TestApp_StartStopOrder(t *testing.T) {
	var events []string
	a, w := newTestApp(&events, nil, nil)

	require.NoError(t, a.Start())
	require.NoError(t, a.Stop())

	assert.Equal(t, []string{"workers start", "server start", "server stop", "workers stop"}, events)
	assert.NotNil(t, w.ctx)
}

func TestApp_StopDrainsWorkersEvenIfServerFails(t *testing.T) {
	var events []string
	serverErr := errors.New("shutdown timed out")
	workerErr := errors.New("redis unavailable")
	a, _ := newTestApp(&events, serverErr, workerErr)

	err := a.Stop()
	assert.ErrorIs(t, err, serverErr)
	assert.ErrorIs(t, err, workerErr)
	assert.Equal(t, []string{"server stop", "workers stop"}, events)
}
