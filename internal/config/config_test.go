package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/snippet-engine/internal/core"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("ASSET_SERVICE_URL", "http://asset:8080")
	t.Setenv("SNIPPET_SERVICE_URL", "http://snippet:8080")
	t.Setenv("AUTH_TOKEN_URL", "https://auth/oauth/token")
	t.Setenv("AUTH_CLIENT_ID", "engine")
	t.Setenv("AUTH_CLIENT_SECRET", "secret")
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, StreamConfig{
		Stream:     "lint-requests",
		Group:      "lint-engine-group",
		Consumer:   "engine-1",
		DeadLetter: "lint-requests-dlq",
	}, cfg.Streams.Lint)
	assert.Equal(t, "formatting-requests", cfg.Streams.Format.Stream)
	assert.Equal(t, "format-engine-group", cfg.Streams.Format.Group)
	assert.Equal(t, "engine-2", cfg.Streams.Format.Consumer)
	assert.Equal(t, "data", cfg.Streams.PayloadField)
	assert.Equal(t, 3, cfg.Streams.MaxAttempts)
	assert.Equal(t, "snippets", cfg.Asset.Container)
	assert.Equal(t, 10, cfg.Pipeline.BatchSize)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "engine", cfg.Auth.ClientID)
}

func TestLoadConfigFile_DotEnvAndOverrides(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=9000\nPIPELINE_BATCH_SIZE=4\nAUTH_AUDIENCE=https://snippets\nLOG_LEVEL=DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.BatchSize)
	assert.Equal(t, "https://snippets", cfg.Auth.Audience)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfigFile_MissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_CLIENT_SECRET", "")

	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorIs(t, err, errMissing)
	assert.ErrorContains(t, err, "AUTH_CLIENT_SECRET")
}

func TestLoadConfigFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero batch size", key: "PIPELINE_BATCH_SIZE", val: "0"},
		{name: "zero attempts", key: "STREAM_MAX_ATTEMPTS", val: "0"},
		{name: "same streams", key: "STREAM_FORMAT_KEY", val: "lint-requests"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.val)

			_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile_UnknownLogLevel(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose")

	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRuleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")
	content := `
lint:
  - ruleName: identifier_format
    value: snake case
  - ruleName: println_arguments
format:
  - ruleName: line_breaks_before_println
    value: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRuleFile(path)
	require.NoError(t, err)
	assert.Equal(t, []core.RuleNameWithValue{
		{RuleName: "identifier_format", Value: "snake case"},
		{RuleName: "println_arguments"},
	}, rules.Lint)
	assert.Equal(t, []core.FormatRuleNameWithValue{
		{RuleName: "line_breaks_before_println", Value: 2},
	}, rules.Format)
	assert.Equal(t, []string{"identifier_format", "println_arguments"}, rules.LintRuleNames())
}

func TestLoadRuleFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRuleFile(filepath.Join(dir, "nope.yml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("lint: [unterminated"), 0o600))
	_, err = LoadRuleFile(bad)
	assert.ErrorIs(t, err, ErrConfigParsing)

	rules, err := LoadRuleFile("")
	require.NoError(t, err)
	assert.Empty(t, rules.Lint)
}
