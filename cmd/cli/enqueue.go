package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/db"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/stream"
)

var (
	enqueueStream string
	payloadField  string
)

var (
	knownLintRules = []string{
		printscript.RuleIdentifierFormat,
		printscript.RulePrintlnArguments,
		printscript.RuleReadInputArguments,
	}
	knownFormatRules = []string{
		printscript.RuleSpaceBeforeColon,
		printscript.RuleSpaceAfterColon,
		printscript.RuleSpaceAroundEquals,
		printscript.RuleLineBreaksBeforePrintln,
	}
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [lint|format] [snippet-id]",
	Short: "Push a lint or format request for a stored snippet onto its stream",
	Long: `Push a lint or format request onto the request stream consumed by the
engine. The rules of the --rules file become the user's selected rules.

Examples:
  snippet-cli enqueue lint 3f2a9c --rules rules.yaml
  snippet-cli enqueue format 3f2a9c --dialect 1.0`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"lint", "format"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, snippetID := args[0], args[1]
		version, err := selectedVersion()
		if err != nil {
			return err
		}
		rules, err := config.LoadRuleFile(rulesFile)
		if err != nil {
			return err
		}

		var (
			req        any
			streamName string
		)
		requestedAt := time.Now().UnixMilli()
		switch kind {
		case "lint":
			req = core.LintRequest{SnippetID: snippetID, SnippetVersion: version.String(),
				UserRules: rules.Lint, AllRules: knownLintRules, RequestedAt: requestedAt}
			streamName = "lint-requests"
		case "format":
			req = core.FormatRequest{SnippetID: snippetID, SnippetVersion: version.String(),
				UserRules: rules.Format, AllRules: knownFormatRules, RequestedAt: requestedAt}
			streamName = "formatting-requests"
		default:
			return fmt.Errorf("unknown request kind %q, expected lint or format", kind)
		}
		if enqueueStream != "" {
			streamName = enqueueStream
		}

		payload, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}

		pool, cleanup, err := db.NewPool(config.RedisConfig{Addr: redisAddr, MaxIdle: 1})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := stream.NewQueue(pool, newLogger()).Add(ctx, streamName, map[string]string{payloadField: string(payload)})
		if err != nil {
			return err
		}

		_, _ = successColor.Fprintf(cmd.OutOrStdout(), "✓ queued %s request for %s on %s (id %s)\n", kind, snippetID, streamName, id)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	enqueueCmd.Flags().StringVar(&enqueueStream, "stream", "", "Stream to push to (defaults to the request stream of the kind)")
	enqueueCmd.Flags().StringVar(&payloadField, "field", "data", "Stream field carrying the JSON request")
	rootCmd.AddCommand(enqueueCmd)
}
