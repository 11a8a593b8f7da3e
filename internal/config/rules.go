package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/snippet-engine/internal/core"
)

var (
	ErrConfigNotFound = errors.New("rule file not found")
	ErrConfigParsing  = errors.New("rule file parsing failed")
)

// LoadRuleFile loads a YAML rule file for the CLI. An empty path yields the
// default (empty) rule set.
func LoadRuleFile(path string) (*core.RuleSet, error) {
	if path == "" {
		return core.DefaultRuleSet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	rules := core.DefaultRuleSet()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return rules, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
