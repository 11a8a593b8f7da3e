package engine

import "github.com/sevigo/snippet-engine/internal/core"

// LintRule is the resolved setting of one lint rule.
type LintRule struct {
	Enabled bool
	Value   string
}

// LintConfig maps rule names to their settings.
type LintConfig map[string]LintRule

// Enabled reports whether the named rule is switched on.
func (c LintConfig) Enabled(name string) bool {
	return c[name].Enabled
}

// FormatRule is the resolved setting of one format rule.
type FormatRule struct {
	On       bool
	Quantity int
}

// FormatConfig maps rule names to their settings.
type FormatConfig map[string]FormatRule

// Rule returns the setting for name and whether the rule was configured at all.
func (c FormatConfig) Rule(name string) (FormatRule, bool) {
	r, ok := c[name]
	return r, ok
}

// LintConfigFromRules builds a LintConfig with one entry per known rule. A
// rule is enabled only if the user selected it, in which case the user's
// value is kept.
func LintConfigFromRules(userRules []core.RuleNameWithValue, allRules []string) LintConfig {
	selected := make(map[string]string, len(userRules))
	for _, r := range userRules {
		selected[r.RuleName] = r.Value
	}

	cfg := make(LintConfig, len(allRules))
	for _, name := range allRules {
		value, ok := selected[name]
		cfg[name] = LintRule{Enabled: ok, Value: value}
	}
	return cfg
}

// FormatConfigFromRules builds a FormatConfig with one entry per known rule.
// Rules the user did not select are off with a zero quantity.
func FormatConfigFromRules(userRules []core.FormatRuleNameWithValue, allRules []string) FormatConfig {
	selected := make(map[string]int, len(userRules))
	for _, r := range userRules {
		selected[r.RuleName] = r.Value
	}

	cfg := make(FormatConfig, len(allRules))
	for _, name := range allRules {
		quantity, ok := selected[name]
		cfg[name] = FormatRule{On: ok, Quantity: quantity}
	}
	return cfg
}
