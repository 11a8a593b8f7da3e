package main

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

func newTestSession(rules *core.RuleSet) *session {
	registry := engine.NewRegistry()
	printscript.Register(registry)
	svc := pipeline.NewService(registry, pipeline.NewDriver(pipeline.DefaultBatchSize), nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	return newSession(svc, core.V2, rules)
}

func TestSession_SubmitReturnsOnlyNewOutput(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()

	out, err := s.Submit(ctx, "let x: number = 2;")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = s.Submit(ctx, "println(x);")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, out)

	out, err = s.Submit(ctx, "println(x * 3);")
	require.NoError(t, err)
	assert.Equal(t, []string{"6"}, out)

	lines, _ := s.Stats()
	assert.Equal(t, 3, lines)
}

func TestSession_RejectedEntriesAreNotKept(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()

	_, err := s.Submit(ctx, "let x: number = ;")
	require.Error(t, err)
	_, err = s.Submit(ctx, "println(y);")
	require.Error(t, err)

	assert.Empty(t, s.Source())
	out, err := s.Submit(ctx, "println(1);")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, out)
}

func TestSession_QueuedInputIsReplayed(t *testing.T) {
	s := newTestSession(nil)
	ctx := context.Background()
	s.QueueInput("ada")

	_, err := s.Submit(ctx, `let name: string = readInput("name?");`)
	require.NoError(t, err)
	out, err := s.Submit(ctx, `println("hi " + name);`)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi ada"}, out)
}

func TestSession_LintAndFormat(t *testing.T) {
	rules := &core.RuleSet{
		Lint:   []core.RuleNameWithValue{{RuleName: printscript.RuleIdentifierFormat, Value: "snake case"}},
		Format: []core.FormatRuleNameWithValue{{RuleName: printscript.RuleSpaceAroundEquals, Value: 0}},
	}
	s := newTestSession(rules)
	ctx := context.Background()
	_, err := s.Submit(ctx, "let myValue: number = 1;")
	require.NoError(t, err)

	results, err := s.Lint(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Message, "snake case")

	formatted, err := s.Format(ctx)
	require.NoError(t, err)
	assert.Equal(t, "let myValue: number = 1;", formatted)
}

func TestSession_SetVersionClearsProgram(t *testing.T) {
	s := newTestSession(nil)
	_, err := s.Submit(context.Background(), "const x: number = 1;")
	require.NoError(t, err)

	require.NoError(t, s.SetVersion("1.0"))
	assert.Equal(t, core.V1, s.Version())
	assert.Empty(t, s.Source())

	assert.ErrorIs(t, s.SetVersion("9"), core.ErrUnsupportedVersion)
	assert.Equal(t, core.V1, s.Version())
}

func TestModel_Commands(t *testing.T) {
	m := initialModel(ThemeCyan, newTestSession(nil))

	assert.Nil(t, m.processCommand("/version 1.0"))
	assert.Equal(t, core.V1, m.session.Version())

	assert.Nil(t, m.processCommand("/input a b"))
	_, inputs := m.session.Stats()
	assert.Equal(t, 2, inputs)

	assert.Nil(t, m.processCommand("/bogus"))
	assert.Contains(t, strings.Join(m.history, "\n"), "UNKNOWN COMMAND: /bogus")

	assert.NotNil(t, m.processCommand("/exit"))
}

func TestModel_SubmitRoundTrip(t *testing.T) {
	m := initialModel(ThemeCyan, newTestSession(nil))

	cmd := submitCmd(m.session, "println(40 + 2);")
	msg := cmd()
	require.IsType(t, evalResultMsg{}, msg)

	_, _ = m.Update(msg)
	assert.Equal(t, "42", m.history[len(m.history)-1])
	assert.False(t, m.isLoading)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Contains(t, m.View(), "LINES: 1")
}
