package pipeline

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

type fakeSource struct {
	batches [][]engine.Token
	err     error
	pulls   int
	sizes   []int
}

func (s *fakeSource) HasMore() bool { return len(s.batches) > 0 || s.err != nil }

func (s *fakeSource) NextBatch(n int) ([]engine.Token, error) {
	s.pulls++
	s.sizes = append(s.sizes, n)
	if len(s.batches) == 0 {
		err := s.err
		s.err = nil
		return nil, err
	}
	b := s.batches[0]
	s.batches = s.batches[1:]
	return b, nil
}

type step struct {
	stmt engine.Statement
	err  error
}

// fakeBuilder replays scripted results and reports more work while any remain.
type fakeBuilder struct {
	steps []step
	added [][]engine.Token
	calls int
}

func (b *fakeBuilder) HasMore() bool { return len(b.steps) > 0 }

func (b *fakeBuilder) AddTokens(tokens []engine.Token) { b.added = append(b.added, tokens) }

func (b *fakeBuilder) Next() (engine.Statement, error) {
	b.calls++
	if len(b.steps) == 0 {
		return nil, io.EOF
	}
	s := b.steps[0]
	b.steps = b.steps[1:]
	return s.stmt, s.err
}

func batches(n int) [][]engine.Token {
	out := make([][]engine.Token, n)
	for i := range out {
		out[i] = []engine.Token{fmt.Sprintf("t%d", i)}
	}
	return out
}

func TestRun_ImmediateTermination(t *testing.T) {
	src := &fakeSource{}
	b := &fakeBuilder{}

	run := NewDriver(0).Start(src, b)
	out := run.Next()

	assert.Equal(t, Finished, out.Kind)
	assert.Zero(t, src.pulls)
	assert.Zero(t, b.calls)
}

func TestRun_TwoBatchesScenario(t *testing.T) {
	src := &fakeSource{batches: batches(2)}
	b := &fakeBuilder{steps: []step{
		{stmt: "stmt-1"},
		{err: engine.ErrNeedMoreTokens},
		{err: io.EOF},
	}}

	statements, err := NewDriver(DefaultBatchSize).Collect(src, b)
	require.NoError(t, err)
	assert.Equal(t, []engine.Statement{"stmt-1"}, statements)
	assert.Equal(t, 2, src.pulls)
	assert.Equal(t, []int{10, 10}, src.sizes)
	assert.Len(t, b.added, 2)
}

func TestRun_FiniteGapsThenTerminal(t *testing.T) {
	for gaps := 0; gaps <= 5; gaps++ {
		t.Run(fmt.Sprintf("%d gaps", gaps), func(t *testing.T) {
			steps := make([]step, 0, gaps+2)
			for range gaps {
				steps = append(steps, step{err: engine.ErrNeedMoreTokens})
			}
			steps = append(steps, step{stmt: "done"}, step{err: io.EOF})
			src := &fakeSource{batches: batches(gaps + 1)}
			b := &fakeBuilder{steps: steps}

			run := NewDriver(3).Start(src, b)
			var kinds []OutcomeKind
			for {
				out := run.Next()
				kinds = append(kinds, out.Kind)
				if out.Kind == Finished || out.Kind == Fatal {
					break
				}
				require.Less(t, len(kinds), 100, "driver did not terminate")
			}

			assert.Equal(t, Finished, kinds[len(kinds)-1])
			assert.NotContains(t, kinds, Fatal)
			assert.Equal(t, gaps+2, b.calls)
		})
	}
}

func TestRun_FatalBuilderErrorDropsStatements(t *testing.T) {
	src := &fakeSource{batches: batches(3)}
	syntaxErr := errors.New("unexpected token")
	b := &fakeBuilder{steps: []step{
		{stmt: "stmt-1"},
		{err: syntaxErr},
		{stmt: "never"},
	}}

	statements, err := NewDriver(0).Collect(src, b)
	require.Error(t, err)
	assert.Nil(t, statements)
	assert.ErrorIs(t, err, ErrFatal)
	assert.ErrorIs(t, err, syntaxErr)
	assert.Equal(t, core.KindPipelineFatal, core.Classify(err))
	assert.Equal(t, 2, b.calls)
}

func TestRun_SourceErrorIsFatal(t *testing.T) {
	lexErr := errors.New("lexical error")
	src := &fakeSource{err: lexErr}
	b := &fakeBuilder{steps: []step{{stmt: "x"}}}

	_, err := NewDriver(0).Collect(src, b)
	assert.ErrorIs(t, err, lexErr)
	assert.ErrorIs(t, err, ErrFatal)
	assert.Zero(t, b.calls)
}

func TestRun_StarvedAfterExhaustionIsFatal(t *testing.T) {
	src := &fakeSource{batches: batches(1)}
	b := &fakeBuilder{steps: []step{
		{err: engine.ErrNeedMoreTokens},
		{err: engine.ErrNeedMoreTokens},
		{err: engine.ErrNeedMoreTokens},
	}}

	run := NewDriver(0).Start(src, b)
	assert.Equal(t, RecoverableGap, run.Next().Kind)

	out := run.Next()
	assert.Equal(t, Fatal, out.Kind)
	assert.ErrorIs(t, out.Err, ErrStalled)
	assert.Equal(t, 2, b.calls)
}

func TestRun_TerminalOutcomeIsSticky(t *testing.T) {
	src := &fakeSource{batches: batches(1)}
	b := &fakeBuilder{steps: []step{{err: io.EOF}, {stmt: "late"}}}

	run := NewDriver(0).Start(src, b)
	assert.Equal(t, Finished, run.Next().Kind)
	assert.Equal(t, Finished, run.Next().Kind)
	assert.Equal(t, 1, src.pulls)
	assert.Equal(t, 1, b.calls)
}

func TestStream_CallbackErrorStops(t *testing.T) {
	src := &fakeSource{batches: batches(2)}
	b := &fakeBuilder{steps: []step{{stmt: "a"}, {stmt: "b"}}}
	stop := errors.New("stop")

	var seen []engine.Statement
	err := NewDriver(0).Stream(src, b, func(s engine.Statement) error {
		seen = append(seen, s)
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []engine.Statement{"a"}, seen)
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "statement", StatementEmitted.String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "outcome(9)", OutcomeKind(9).String())
}
