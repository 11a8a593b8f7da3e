package main

import "github.com/sevigo/snippet-engine/internal/core"

// evalResultMsg carries the output of one submitted entry.
type evalResultMsg struct {
	input  string
	output []string
	err    error
}

type lintResultMsg struct {
	results []core.LintResult
	err     error
}

type formatResultMsg struct {
	formatted string
	err       error
}

// A generic error message for reporting failures from commands.
type errorMsg struct{ err error }

func (e errorMsg) Error() string {
	return e.err.Error()
}
