package core

// RuleSet represents the structure of a local rules file used by the CLI.
type RuleSet struct {
	// Lint rules to enable. Rules not listed are not evaluated.
	Lint []RuleNameWithValue `yaml:"lint"`

	// Format rules to enable, each with its numeric setting.
	Format []FormatRuleNameWithValue `yaml:"format"`
}

// DefaultRuleSet returns an empty rule set.
func DefaultRuleSet() *RuleSet {
	return &RuleSet{
		Lint:   []RuleNameWithValue{},
		Format: []FormatRuleNameWithValue{},
	}
}

// LintRuleNames lists the names of the configured lint rules.
func (r *RuleSet) LintRuleNames() []string {
	names := make([]string, 0, len(r.Lint))
	for _, rule := range r.Lint {
		names = append(names, rule.RuleName)
	}
	return names
}

// FormatRuleNames lists the names of the configured format rules.
func (r *RuleSet) FormatRuleNames() []string {
	names := make([]string, 0, len(r.Format))
	for _, rule := range r.Format {
		names = append(names, rule.RuleName)
	}
	return names
}
