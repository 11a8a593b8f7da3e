package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const evalTimeout = 10 * time.Second

func submitCmd(s *session, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
		defer cancel()
		out, err := s.Submit(ctx, input)
		return evalResultMsg{input: input, output: out, err: err}
	}
}

func lintCmd(s *session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
		defer cancel()
		results, err := s.Lint(ctx)
		return lintResultMsg{results: results, err: err}
	}
}

func formatCmd(s *session) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
		defer cancel()
		formatted, err := s.Format(ctx)
		return formatResultMsg{formatted: formatted, err: err}
	}
}

const helpMarkdown = `# Snippet playground

Type a statement such as ` + "`let x: number = 2;`" + ` to run it. Entries that
fail to parse or run are not kept.

| Command | Effect |
|---|---|
| ` + "`/lint`" + ` | lint the program with the lint rules |
| ` + "`/format`" + ` | show the formatted program |
| ` + "`/source`" + ` | show the program as typed |
| ` + "`/input a b`" + ` | queue lines for readInput |
| ` + "`/version 1.0`" + ` | switch dialect (clears the program) |
| ` + "`/reset`" + ` | clear the program and queued input |
| ` + "`/exit`" + ` | leave |
`

// renderHelp renders the help text, falling back to the raw markdown when the
// terminal renderer is unavailable.
func renderHelp(width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(max(width, 40)))
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
