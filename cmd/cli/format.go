package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/engine"
)

var writeInPlace bool

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Format a snippet with the format rules of the --rules file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := selectedVersion()
		if err != nil {
			return err
		}
		rules, err := config.LoadRuleFile(rulesFile)
		if err != nil {
			return err
		}
		src, err := readSource(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		cfg := engine.FormatConfigFromRules(rules.Format, rules.FormatRuleNames())
		formatted, err := newService().Format(context.Background(), version, src, cfg)
		if err != nil {
			_, _ = errorColor.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", args[0], err)
			return fmt.Errorf("format failed")
		}

		if writeInPlace && args[0] != "-" {
			if err := os.WriteFile(args[0], []byte(formatted+"\n"), 0o644); err != nil { //nolint:gosec // snippet files are not secret
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			_, _ = successColor.Fprintf(cmd.OutOrStdout(), "✓ formatted %s\n", args[0])
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), formatted)
		return err
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	formatCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write the result back to the file")
	rootCmd.AddCommand(formatCmd)
}
