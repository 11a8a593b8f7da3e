// Package config loads the service configuration from the environment and an
// optional .env file, and the CLI's YAML rule files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/snippet-engine/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server         ServerConfig
	Redis          RedisConfig
	Streams        StreamsConfig
	Asset          AssetConfig
	SnippetService SnippetServiceConfig
	Auth           AuthConfig
	Pipeline       PipelineConfig
	Logging        logger.Config
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// RedisConfig configures the connection pool shared by consumers and the
// result store.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	MaxIdle     int
	MaxActive   int
	IdleTimeout time.Duration
}

// StreamConfig names one request stream and its consumer group.
type StreamConfig struct {
	Stream     string
	Group      string
	Consumer   string
	DeadLetter string
}

// StreamsConfig configures both job consumers.
type StreamsConfig struct {
	Lint         StreamConfig
	Format       StreamConfig
	PayloadField string
	ResultsKey   string
	Block        time.Duration
	Count        int
	MaxAttempts  int
	RetryBackoff time.Duration
}

// AssetConfig points at the asset service holding snippet sources.
type AssetConfig struct {
	BaseURL   string
	Container string
	Timeout   time.Duration
}

// SnippetServiceConfig points at the service receiving lint results.
type SnippetServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig holds the client-credentials grant used for the snippet service.
type AuthConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Audience     string
	SafetyMargin time.Duration
}

// PipelineConfig tunes the engine pipeline.
type PipelineConfig struct {
	BatchSize   int
	MemoryLimit int
}

var errMissing = errors.New("required setting is missing")

// LoadConfig reads configuration from environment variables and a .env file
// in the working directory.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(".env")
}

// LoadConfigFile is LoadConfig with an explicit .env path. Environment
// variables take precedence over the file, which takes precedence over
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			slog.Error("failed to read config file", "path", path, "error", err)
		}
	}

	for _, key := range []string{
		"ASSET_SERVICE_URL",
		"SNIPPET_SERVICE_URL",
		"AUTH_TOKEN_URL",
		"AUTH_CLIENT_ID",
		"AUTH_CLIENT_SECRET",
	} {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("%w: %s must be set", errMissing, key)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:        v.GetString("REDIS_ADDR"),
			Password:    v.GetString("REDIS_PASSWORD"),
			DB:          v.GetInt("REDIS_DB"),
			MaxIdle:     v.GetInt("REDIS_MAX_IDLE"),
			MaxActive:   v.GetInt("REDIS_MAX_ACTIVE"),
			IdleTimeout: v.GetDuration("REDIS_IDLE_TIMEOUT"),
		},
		Streams: StreamsConfig{
			Lint: StreamConfig{
				Stream:     v.GetString("STREAM_LINT_KEY"),
				Group:      v.GetString("STREAM_LINT_GROUP"),
				Consumer:   v.GetString("STREAM_LINT_CONSUMER"),
				DeadLetter: v.GetString("STREAM_LINT_DEAD_LETTER"),
			},
			Format: StreamConfig{
				Stream:     v.GetString("STREAM_FORMAT_KEY"),
				Group:      v.GetString("STREAM_FORMAT_GROUP"),
				Consumer:   v.GetString("STREAM_FORMAT_CONSUMER"),
				DeadLetter: v.GetString("STREAM_FORMAT_DEAD_LETTER"),
			},
			PayloadField: v.GetString("STREAM_PAYLOAD_FIELD"),
			ResultsKey:   v.GetString("STREAM_RESULTS_KEY"),
			Block:        v.GetDuration("STREAM_BLOCK"),
			Count:        v.GetInt("STREAM_COUNT"),
			MaxAttempts:  v.GetInt("STREAM_MAX_ATTEMPTS"),
			RetryBackoff: v.GetDuration("STREAM_RETRY_BACKOFF"),
		},
		Asset: AssetConfig{
			BaseURL:   v.GetString("ASSET_SERVICE_URL"),
			Container: v.GetString("ASSET_CONTAINER"),
			Timeout:   v.GetDuration("ASSET_TIMEOUT"),
		},
		SnippetService: SnippetServiceConfig{
			BaseURL: v.GetString("SNIPPET_SERVICE_URL"),
			Timeout: v.GetDuration("SNIPPET_SERVICE_TIMEOUT"),
		},
		Auth: AuthConfig{
			TokenURL:     v.GetString("AUTH_TOKEN_URL"),
			ClientID:     v.GetString("AUTH_CLIENT_ID"),
			ClientSecret: v.GetString("AUTH_CLIENT_SECRET"),
			Audience:     v.GetString("AUTH_AUDIENCE"),
			SafetyMargin: v.GetDuration("AUTH_SAFETY_MARGIN"),
		},
		Pipeline: PipelineConfig{
			BatchSize:   v.GetInt("PIPELINE_BATCH_SIZE"),
			MemoryLimit: v.GetInt("PIPELINE_MEMORY_LIMIT"),
		},
		Logging: logger.Config{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
			File:   v.GetString("LOG_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_MAX_IDLE", 4)
	v.SetDefault("REDIS_MAX_ACTIVE", 16)
	v.SetDefault("REDIS_IDLE_TIMEOUT", "5m")

	v.SetDefault("STREAM_LINT_KEY", "lint-requests")
	v.SetDefault("STREAM_LINT_GROUP", "lint-engine-group")
	v.SetDefault("STREAM_LINT_CONSUMER", "engine-1")
	v.SetDefault("STREAM_LINT_DEAD_LETTER", "lint-requests-dlq")
	v.SetDefault("STREAM_FORMAT_KEY", "formatting-requests")
	v.SetDefault("STREAM_FORMAT_GROUP", "format-engine-group")
	v.SetDefault("STREAM_FORMAT_CONSUMER", "engine-2")
	v.SetDefault("STREAM_FORMAT_DEAD_LETTER", "formatting-requests-dlq")
	v.SetDefault("STREAM_PAYLOAD_FIELD", "data")
	v.SetDefault("STREAM_RESULTS_KEY", "lint-results")
	v.SetDefault("STREAM_BLOCK", "5s")
	v.SetDefault("STREAM_COUNT", 1)
	v.SetDefault("STREAM_MAX_ATTEMPTS", 3)
	v.SetDefault("STREAM_RETRY_BACKOFF", "500ms")

	v.SetDefault("ASSET_CONTAINER", "snippets")
	v.SetDefault("ASSET_TIMEOUT", "10s")
	v.SetDefault("SNIPPET_SERVICE_TIMEOUT", "10s")
	v.SetDefault("AUTH_SAFETY_MARGIN", "30s")

	v.SetDefault("PIPELINE_BATCH_SIZE", 10)
	v.SetDefault("PIPELINE_MEMORY_LIMIT", 16<<20)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")
}

func (c *Config) validate() error {
	switch {
	case c.Pipeline.BatchSize <= 0:
		return fmt.Errorf("PIPELINE_BATCH_SIZE must be positive, got %d", c.Pipeline.BatchSize)
	case c.Pipeline.MemoryLimit <= 0:
		return fmt.Errorf("PIPELINE_MEMORY_LIMIT must be positive, got %d", c.Pipeline.MemoryLimit)
	case c.Streams.MaxAttempts <= 0:
		return fmt.Errorf("STREAM_MAX_ATTEMPTS must be positive, got %d", c.Streams.MaxAttempts)
	case c.Streams.Count <= 0:
		return fmt.Errorf("STREAM_COUNT must be positive, got %d", c.Streams.Count)
	case c.Streams.Lint.Stream == c.Streams.Format.Stream:
		return fmt.Errorf("lint and format streams must differ, both are %q", c.Streams.Lint.Stream)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", c.Logging.Level)
		c.Logging.Level = "info"
	}
	return nil
}
