package core

import (
	"fmt"
	"strings"
)

// RuleNameWithValue is a lint rule chosen by the user, with an optional value
// (for example an identifier format).
type RuleNameWithValue struct {
	RuleName string `json:"ruleName" yaml:"ruleName"`
	Value    string `json:"value" yaml:"value"`
}

// FormatRuleNameWithValue is a formatting rule chosen by the user with a
// numeric value (for example a number of blank lines).
type FormatRuleNameWithValue struct {
	RuleName string `json:"ruleName" yaml:"ruleName"`
	Value    int    `json:"value" yaml:"value"`
}

// LintRequest is the work item carried by the lint requests stream.
type LintRequest struct {
	SnippetID      string              `json:"snippetId"`
	SnippetVersion string              `json:"snippetVersion"`
	UserRules      []RuleNameWithValue `json:"userRules"`
	AllRules       []string            `json:"allRules"`
	RequestedAt    int64               `json:"requestedAt"`
}

// Validate checks the fields the engine cannot work without and resolves the
// dialect version. It acts as the anti-corruption layer between the stream
// payload and the pipeline.
func (r *LintRequest) Validate() (Version, error) {
	return validateWorkItem(r.SnippetID, r.SnippetVersion)
}

// FormatRequest is the work item carried by the format requests stream.
type FormatRequest struct {
	SnippetID      string                    `json:"snippetId"`
	SnippetVersion string                    `json:"snippetVersion"`
	UserRules      []FormatRuleNameWithValue `json:"userRules"`
	AllRules       []string                  `json:"allRules"`
	RequestedAt    int64                     `json:"requestedAt"`
}

// Validate checks required fields and resolves the dialect version.
func (r *FormatRequest) Validate() (Version, error) {
	return validateWorkItem(r.SnippetID, r.SnippetVersion)
}

func validateWorkItem(snippetID, version string) (Version, error) {
	if strings.TrimSpace(snippetID) == "" {
		return "", fmt.Errorf("%w: snippet id cannot be empty", ErrMalformedMessage)
	}
	if version == "" {
		return "", fmt.Errorf("%w: snippet version cannot be empty", ErrMalformedMessage)
	}
	return ParseVersion(version)
}
