package pipeline

import (
	"fmt"

	"github.com/sevigo/snippet-engine/internal/core"
)

var (
	// ErrFatal marks a run that stopped on a lexical, syntax or runtime
	// error. No partial result is returned with it.
	ErrFatal = fmt.Errorf("%w: fatal error", core.ErrPipeline)

	// ErrStalled is returned when the builder keeps asking for tokens after
	// the source is exhausted.
	ErrStalled = fmt.Errorf("%w: input ended in the middle of a statement", ErrFatal)

	// ErrResourceLimit is returned when interpretation exhausts its memory budget.
	ErrResourceLimit = fmt.Errorf("%w: memory limit exceeded during interpretation", core.ErrResourceLimit)
)
