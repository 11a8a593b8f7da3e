package core

// LintResult is a single rule violation reported for a snippet.
type LintResult struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// SnippetLintResults is the envelope published to the snippet service and
// stored in the results store. It is keyed by SnippetID so republishing the
// same envelope overwrites the previous one.
type SnippetLintResults struct {
	SnippetID string       `json:"snippetId"`
	Results   []LintResult `json:"results"`
}
