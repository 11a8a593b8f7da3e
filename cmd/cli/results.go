package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/db"
	"github.com/sevigo/snippet-engine/internal/storage"
)

var (
	outputJSON bool
	resultsKey string
)

var resultsCmd = &cobra.Command{
	Use:   "results [snippet-id]",
	Short: "Show the lint results the engine stored for a snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, cleanup, err := db.NewPool(config.RedisConfig{Addr: redisAddr, MaxIdle: 1})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return printResults(ctx, cmd, storage.NewResultStore(pool, resultsKey), args[0])
	},
}

func printResults(ctx context.Context, cmd *cobra.Command, store storage.ResultStore, snippetID string) error {
	out := cmd.OutOrStdout()
	results, err := store.GetLintResults(ctx, snippetID)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = dimColor.Fprintf(out, "No lint results stored for %s.\n", snippetID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to retrieve lint results: %w", err)
	}

	if outputJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}

	_, _ = titleColor.Fprintf(out, "%s: %d violation(s)\n", results.SnippetID, len(results.Results))
	if len(results.Results) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "LINE\tCOLUMN\tMESSAGE")
	for _, r := range results.Results {
		fmt.Fprintf(w, "%d\t%d\t%s\n", r.Line, r.Column, r.Message)
	}
	return w.Flush()
}

func init() { //nolint:gochecknoinits // Cobra command registration
	resultsCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format")
	resultsCmd.Flags().StringVar(&resultsKey, "key", "lint-results", "Redis hash holding the results")
	rootCmd.AddCommand(resultsCmd)
}
