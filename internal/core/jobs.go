// Package core defines the essential interfaces and data structures that form the
// backbone of the snippet engine. These components are designed to be abstract,
// allowing the transport (HTTP, Redis streams) to stay decoupled from the
// processing logic.
package core

import (
	"context"
)

// Message is a single delivery read from a durable stream.
type Message struct {
	// ID is the broker-assigned entry id, used for acknowledgement.
	ID string
	// Stream is the name of the stream the message was read from.
	Stream string
	// Fields holds the raw field/value pairs of the entry.
	Fields map[string]string
}

// Job represents a single, executable unit of work fed by a stream consumer.
// Each job type (lint, format) decodes its own payload.
type Job interface {
	// Name identifies the job type in logs and metrics.
	Name() string
	// Run executes the job for one serialized work request. It must only
	// return nil once every side effect (content update, result publish)
	// has completed, because the caller acknowledges the message afterwards.
	Run(ctx context.Context, payload []byte) error
}
