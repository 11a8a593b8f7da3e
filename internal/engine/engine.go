// Package engine declares the capabilities the pipeline needs from a language
// implementation. Lexers, parsers, linters, formatters and interpreters are
// opaque stateful engines behind these interfaces, so a dialect can be swapped
// without touching the pipeline driver.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sevigo/snippet-engine/internal/core"
)

// ErrNeedMoreTokens is returned by StatementBuilder.Next when the buffered
// tokens do not yet form a complete statement. It is a starvation signal,
// not a grammar error.
var ErrNeedMoreTokens = errors.New("need more tokens")

// ErrMemoryLimit is returned by an Interpreter that exhausted its memory budget.
var ErrMemoryLimit = errors.New("memory limit exceeded")

// Token is a lexical unit. The pipeline never inspects it.
type Token any

// Statement is one complete parsed unit. The pipeline never inspects it.
type Statement any

// TokenSource produces tokens from raw input in batches.
type TokenSource interface {
	// HasMore reports whether further batches may still be produced.
	HasMore() bool
	// NextBatch returns at most n tokens. It may return an empty batch while
	// HasMore stays true.
	NextBatch(n int) ([]Token, error)
}

// StatementBuilder consumes tokens incrementally and emits statements.
type StatementBuilder interface {
	// HasMore reports whether buffered tokens remain to be turned into statements.
	HasMore() bool
	// AddTokens appends a batch to the internal buffer.
	AddTokens(tokens []Token)
	// Next returns the next statement. It returns io.EOF once every statement
	// has been emitted, ErrNeedMoreTokens when more input is required, and
	// any other error for invalid input.
	Next() (Statement, error)
}

// Violation is a single finding reported by a Linter.
type Violation struct {
	Message string
	Line    int
	Column  int
}

// Linter checks a full statement list against a rule configuration.
type Linter interface {
	Lint(statements []Statement, config LintConfig) ([]Violation, error)
}

// Formatter renders one statement according to a rule configuration. The
// output of every statement ends with a line break.
type Formatter interface {
	Format(statement Statement, config FormatConfig) (string, error)
}

// Interpreter evaluates statements one at a time. Execute returns nil for
// statements that produce no printable result.
type Interpreter interface {
	Execute(statement Statement) (any, error)
}

// InputProvider supplies values to readInput-style calls.
type InputProvider interface {
	ReadInput(prompt string) (string, error)
}

// Engine creates fresh engine instances for one dialect. Instances are never
// shared between pipeline runs.
type Engine interface {
	NewTokenSource(r io.Reader) TokenSource
	NewStatementBuilder() StatementBuilder
	NewLinter() Linter
	NewFormatter() Formatter
	NewInterpreter(input InputProvider) Interpreter
}

// Registry resolves the engine for a dialect version.
type Registry struct {
	mu      sync.RWMutex
	engines map[core.Version]Engine
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{engines: make(map[core.Version]Engine)}
}

// Register binds an engine to a version, replacing any previous binding.
func (r *Registry) Register(v core.Version, e Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engines[v] = e
}

// For returns the engine registered for v.
func (r *Registry) For(v core.Version) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.engines[v]
	if !ok {
		return nil, fmt.Errorf("%w: no engine registered for %q", core.ErrUnsupportedVersion, v)
	}
	return e, nil
}
