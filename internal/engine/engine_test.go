package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/core"
)

func TestLintConfigFromRules(t *testing.T) {
	userRules := []core.RuleNameWithValue{{RuleName: "rule1", Value: "val1"}}
	cfg := LintConfigFromRules(userRules, []string{"rule1", "rule2"})

	require.Len(t, cfg, 2)
	assert.True(t, cfg.Enabled("rule1"))
	assert.Equal(t, "val1", cfg["rule1"].Value)
	assert.False(t, cfg.Enabled("rule2"))
	assert.Empty(t, cfg["rule2"].Value)
}

func TestLintConfigFromRules_IgnoresUnknownUserRules(t *testing.T) {
	userRules := []core.RuleNameWithValue{{RuleName: "ghost", Value: "x"}}
	cfg := LintConfigFromRules(userRules, []string{"rule1"})

	assert.False(t, cfg.Enabled("ghost"))
	assert.NotContains(t, cfg, "ghost")
}

func TestFormatConfigFromRules(t *testing.T) {
	userRules := []core.FormatRuleNameWithValue{{RuleName: "rule1", Value: 5}}
	cfg := FormatConfigFromRules(userRules, []string{"rule1", "rule2"})

	r1, ok := cfg.Rule("rule1")
	require.True(t, ok)
	assert.True(t, r1.On)
	assert.Equal(t, 5, r1.Quantity)

	r2, ok := cfg.Rule("rule2")
	require.True(t, ok)
	assert.False(t, r2.On)
	assert.Equal(t, 0, r2.Quantity)

	_, ok = cfg.Rule("rule3")
	assert.False(t, ok)
}

func TestScriptedInput(t *testing.T) {
	lines := []string{"a", "b"}
	in := NewScriptedInput(lines)
	lines[0] = "mutated"

	got, err := in.ReadInput("prompt")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	got, err = in.ReadInput("")
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	_, err = in.ReadInput("")
	assert.ErrorIs(t, err, ErrNoInput)
}

type stubEngine struct{ Engine }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	e := stubEngine{}
	r.Register(core.V1, e)

	got, err := r.For(core.V1)
	require.NoError(t, err)
	assert.Equal(t, e, got)

	_, err = r.For(core.V2)
	assert.ErrorIs(t, err, core.ErrUnsupportedVersion)
}
