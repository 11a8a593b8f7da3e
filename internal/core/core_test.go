package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{in: "1.0", want: V1},
		{in: "1.1", want: V2},
		{in: "2.0", wantErr: true},
		{in: "", wantErr: true},
		{in: "v1.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedVersion)
				assert.Equal(t, KindRequestValidation, Classify(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLintRequest_Validate(t *testing.T) {
	req := LintRequest{SnippetID: "abc", SnippetVersion: "1.1"}
	v, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, V2, v)

	req.SnippetID = "  "
	_, err = req.Validate()
	assert.ErrorIs(t, err, ErrMalformedMessage)

	req = LintRequest{SnippetID: "abc", SnippetVersion: "9.9"}
	_, err = req.Validate()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestFormatRequest_Validate(t *testing.T) {
	req := FormatRequest{SnippetID: "abc"}
	_, err := req.Validate()
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestClassify(t *testing.T) {
	wrappedCredential := fmt.Errorf("publish: %w", fmt.Errorf("%w: %w", ErrDependency, ErrCredential))

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"validation", ErrMalformedMessage, KindRequestValidation},
		{"pipeline", fmt.Errorf("lint: %w", ErrPipeline), KindPipelineFatal},
		{"resource", ErrResourceLimit, KindResourceLimit},
		{"dependency", fmt.Errorf("fetch: %w", ErrDependency), KindDependencyFailure},
		{"credential wins over dependency", wrappedCredential, KindCredentialFailure},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	assert.True(t, KindDependencyFailure.Retryable())
	assert.True(t, KindCredentialFailure.Retryable())
	assert.False(t, KindRequestValidation.Retryable())
	assert.False(t, KindPipelineFatal.Retryable())
	assert.False(t, KindResourceLimit.Retryable())
}

func TestRuleSet_Names(t *testing.T) {
	rs := &RuleSet{
		Lint:   []RuleNameWithValue{{RuleName: "identifier_format", Value: "camel case"}},
		Format: []FormatRuleNameWithValue{{RuleName: "space_around_equals", Value: 1}},
	}
	assert.Equal(t, []string{"identifier_format"}, rs.LintRuleNames())
	assert.Equal(t, []string{"space_around_equals"}, rs.FormatRuleNames())
	assert.Empty(t, DefaultRuleSet().LintRuleNames())
}
