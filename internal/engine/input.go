package engine

import (
	"errors"
	"sync"
)

// ErrNoInput is returned when a scripted provider runs out of lines.
var ErrNoInput = errors.New("no more scripted input")

// ScriptedInput replays a fixed list of stdin lines in order.
type ScriptedInput struct {
	mu    sync.Mutex
	lines []string
}

// NewScriptedInput creates a provider over a copy of lines.
func NewScriptedInput(lines []string) *ScriptedInput {
	return &ScriptedInput{lines: append([]string(nil), lines...)}
}

// ReadInput returns the next scripted line. The prompt is ignored.
func (s *ScriptedInput) ReadInput(_ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return "", ErrNoInput
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}
