package core

// ResultType is the binary outcome reported to HTTP callers.
type ResultType string

const (
	ResultSuccess ResultType = "SUCCESS"
	ResultFailure ResultType = "FAILURE"
)

// ParseSnippetRequest is the body of POST /snippet/parse.
type ParseSnippetRequest struct {
	SnippetContent string `json:"snippetContent"`
	Version        string `json:"version"`
}

// ParseSnippetResponse reports whether the snippet parsed.
type ParseSnippetResponse struct {
	ResultType ResultType `json:"resultType"`
}

// InterpretSnippetRequest is the body of POST /snippet/interpret. Inputs are
// the scripted stdin lines consumed by readInput, in order.
type InterpretSnippetRequest struct {
	SnippetContent string   `json:"snippetContent"`
	Version        string   `json:"version"`
	Inputs         []string `json:"inputs"`
}

// InterpretSnippetResponse carries the printed outputs. Results is empty
// (never null) when ResultType is FAILURE.
type InterpretSnippetResponse struct {
	Results    []string   `json:"results"`
	ResultType ResultType `json:"resultType"`
}

// LintSnippetRequest is the body of POST /snippet/lint.
type LintSnippetRequest struct {
	SnippetContent string              `json:"snippetContent"`
	Version        string              `json:"version"`
	UserRules      []RuleNameWithValue `json:"userRules"`
	AllRules       []string            `json:"allRules"`
}

// LintSnippetResponse carries the violations of a synchronous lint.
type LintSnippetResponse struct {
	Results    []LintResult `json:"results"`
	ResultType ResultType   `json:"resultType"`
}

// FormatSnippetRequest is the body of POST /snippet/format.
type FormatSnippetRequest struct {
	SnippetContent string                    `json:"snippetContent"`
	Version        string                    `json:"version"`
	UserRules      []FormatRuleNameWithValue `json:"userRules"`
	AllRules       []string                  `json:"allRules"`
}

// FormatSnippetResponse carries the formatted text of a synchronous format.
type FormatSnippetResponse struct {
	Formatted  string     `json:"formatted"`
	ResultType ResultType `json:"resultType"`
}
