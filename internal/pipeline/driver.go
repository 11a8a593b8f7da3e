// Package pipeline drives an engine's token source and statement builder in
// lockstep and exposes the parse, lint, format and interpret operations on
// top of it.
package pipeline

import (
	"errors"
	"fmt"
	"io"

	"github.com/sevigo/snippet-engine/internal/engine"
)

// DefaultBatchSize is the number of tokens pulled per iteration.
const DefaultBatchSize = 10

// OutcomeKind classifies one step of a run.
type OutcomeKind int

const (
	// StatementEmitted carries a complete statement.
	StatementEmitted OutcomeKind = iota
	// RecoverableGap means the builder needs more tokens than it has seen.
	RecoverableGap
	// Fatal ends the run with an error.
	Fatal
	// Finished ends the run successfully.
	Finished
)

func (k OutcomeKind) String() string {
	switch k {
	case StatementEmitted:
		return "statement"
	case RecoverableGap:
		return "gap"
	case Fatal:
		return "fatal"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of a single pull cycle.
type Outcome struct {
	Kind      OutcomeKind
	Statement engine.Statement
	Err       error
}

// Driver configures pipeline runs.
type Driver struct {
	BatchSize int
}

// NewDriver returns a driver pulling batchSize tokens per iteration, or
// DefaultBatchSize if batchSize is not positive.
func NewDriver(batchSize int) Driver {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return Driver{BatchSize: batchSize}
}

// Start begins a run over src and b. The run owns both for its lifetime.
func (d Driver) Start(src engine.TokenSource, b engine.StatementBuilder) *Run {
	size := d.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	return &Run{src: src, builder: b, batchSize: size}
}

// Run is a single synchronous pass over one token source.
type Run struct {
	src       engine.TokenSource
	builder   engine.StatementBuilder
	batchSize int
	terminal  *Outcome
}

// Next performs one pull cycle: while input remains it feeds exactly one
// batch to the builder, then asks the builder for a statement. Once Fatal or
// Finished is returned, every later call returns the same outcome without
// touching the source or builder.
func (r *Run) Next() Outcome {
	if r.terminal != nil {
		return *r.terminal
	}
	if !r.src.HasMore() && !r.builder.HasMore() {
		return r.finish(Outcome{Kind: Finished})
	}

	fed := false
	if r.src.HasMore() {
		batch, err := r.src.NextBatch(r.batchSize)
		if err != nil {
			return r.fail(err)
		}
		r.builder.AddTokens(batch)
		fed = len(batch) > 0
	}

	stmt, err := r.builder.Next()
	switch {
	case err == nil:
		return Outcome{Kind: StatementEmitted, Statement: stmt}
	case errors.Is(err, engine.ErrNeedMoreTokens):
		// Starvation only makes sense while more input can still arrive.
		if !fed && !r.src.HasMore() {
			return r.finish(Outcome{Kind: Fatal, Err: ErrStalled})
		}
		return Outcome{Kind: RecoverableGap}
	case errors.Is(err, io.EOF):
		return r.finish(Outcome{Kind: Finished})
	default:
		return r.fail(err)
	}
}

func (r *Run) fail(err error) Outcome {
	return r.finish(Outcome{Kind: Fatal, Err: fmt.Errorf("%w: %w", ErrFatal, err)})
}

func (r *Run) finish(o Outcome) Outcome {
	r.terminal = &o
	return o
}

// Stream runs src and b to completion, calling fn for every statement in
// order. It stops at the first error from the run or from fn.
func (d Driver) Stream(src engine.TokenSource, b engine.StatementBuilder, fn func(engine.Statement) error) error {
	run := d.Start(src, b)
	for {
		out := run.Next()
		switch out.Kind {
		case StatementEmitted:
			if err := fn(out.Statement); err != nil {
				return err
			}
		case RecoverableGap:
		case Finished:
			return nil
		case Fatal:
			return out.Err
		}
	}
}

// Collect runs src and b to completion and returns every statement. On a
// fatal outcome it returns only the error.
func (d Driver) Collect(src engine.TokenSource, b engine.StatementBuilder) ([]engine.Statement, error) {
	var statements []engine.Statement
	err := d.Stream(src, b, func(s engine.Statement) error {
		statements = append(statements, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return statements, nil
}
