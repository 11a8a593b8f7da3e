package main

import (
	"context"
	"strings"
	"sync"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

// session is the program typed so far in the playground. Each accepted entry
// extends the program; the whole program is re-run to produce the output of
// the new entry, so readInput replays the queued inputs from the start.
type session struct {
	svc *pipeline.Service

	mu      sync.Mutex
	version core.Version
	rules   *core.RuleSet
	lines   []string
	inputs  []string
	printed int
}

func newSession(svc *pipeline.Service, version core.Version, rules *core.RuleSet) *session {
	if rules == nil {
		rules = core.DefaultRuleSet()
	}
	return &session{svc: svc, version: version, rules: rules}
}

// Submit runs the program extended by line and returns what the new entry
// printed. A line that does not parse or fails at runtime is not kept.
func (s *session) Submit(ctx context.Context, line string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := append(append([]string(nil), s.lines...), line)
	src := strings.Join(candidate, "\n")
	if err := s.svc.Parse(ctx, s.version, src); err != nil {
		return nil, err
	}
	out, err := s.svc.Interpret(ctx, s.version, src, engine.NewScriptedInput(s.inputs))
	if err != nil {
		return nil, err
	}

	s.lines = candidate
	fresh := out[min(s.printed, len(out)):]
	s.printed = len(out)
	return fresh, nil
}

// Lint lints the accepted program with the session's lint rules.
func (s *session) Lint(ctx context.Context) ([]core.LintResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := engine.LintConfigFromRules(s.rules.Lint, s.rules.LintRuleNames())
	return s.svc.Lint(ctx, s.version, s.source(), cfg)
}

// Format renders the accepted program with the session's format rules.
func (s *session) Format(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := engine.FormatConfigFromRules(s.rules.Format, s.rules.FormatRuleNames())
	return s.svc.Format(ctx, s.version, s.source(), cfg)
}

// SetVersion switches dialect. The program is cleared since it may not be
// valid in the other dialect.
func (s *session) SetVersion(v string) error {
	version, err := core.ParseVersion(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = version
	s.reset()
	return nil
}

func (s *session) Version() core.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// QueueInput appends lines answered to readInput, in order.
func (s *session) QueueInput(lines ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, lines...)
}

func (s *session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *session) reset() {
	s.lines = nil
	s.inputs = nil
	s.printed = 0
}

func (s *session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source()
}

func (s *session) source() string {
	return strings.Join(s.lines, "\n")
}

// Stats returns the number of accepted lines and queued inputs.
func (s *session) Stats() (lines, inputs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines), len(s.inputs)
}
