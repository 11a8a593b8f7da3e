package printscript

import (
	"io"
	"os"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

// Engine implements engine.Engine for one dialect version.
type Engine struct {
	version     core.Version
	memoryLimit int
	lookupEnv   func(string) (string, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithMemoryLimit sets the interpreter memory budget in bytes.
func WithMemoryLimit(bytes int) Option {
	return func(e *Engine) {
		if bytes > 0 {
			e.memoryLimit = bytes
		}
	}
}

// WithEnv replaces the environment lookup used by readEnv.
func WithEnv(lookup func(string) (string, bool)) Option {
	return func(e *Engine) {
		e.lookupEnv = lookup
	}
}

// New creates an engine for v.
func New(v core.Version, opts ...Option) *Engine {
	e := &Engine{
		version:     v,
		memoryLimit: DefaultMemoryLimit,
		lookupEnv:   os.LookupEnv,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register binds an engine for every supported version in r.
func Register(r *engine.Registry, opts ...Option) {
	for _, v := range core.Versions {
		r.Register(v, New(v, opts...))
	}
}

func (e *Engine) NewTokenSource(r io.Reader) engine.TokenSource {
	return newTokenSource(e.version, r)
}

func (e *Engine) NewStatementBuilder() engine.StatementBuilder {
	return newStatementBuilder(e.version)
}

func (e *Engine) NewLinter() engine.Linter {
	return &linter{version: e.version}
}

func (e *Engine) NewFormatter() engine.Formatter {
	return &formatter{}
}

func (e *Engine) NewInterpreter(input engine.InputProvider) engine.Interpreter {
	if input == nil {
		input = engine.NewScriptedInput(nil)
	}
	return &interpreter{
		version:   e.version,
		input:     input,
		lookupEnv: e.lookupEnv,
		vars:      make(map[string]*variable),
		limit:     e.memoryLimit,
	}
}
