package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/engine"
)

var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Report rule violations in a snippet",
	Long: `Lint a snippet with the lint rules of the --rules file. Only listed rules
are evaluated. The command fails when any violation is found.

Example rules file:
  lint:
    - ruleName: identifier_format
      value: camel case
    - ruleName: println_arguments`,
	Args: cobra.ExactArgs(1),
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

		cfg := engine.LintConfigFromRules(rules.Lint, rules.LintRuleNames())
		results, err := newService().Lint(context.Background(), version, src, cfg)
		if err != nil {
			_, _ = errorColor.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", args[0], err)
			return fmt.Errorf("lint failed")
		}

		out := cmd.OutOrStdout()
		if len(results) == 0 {
			_, _ = successColor.Fprintf(out, "✓ %s: no violations\n", args[0])
			return nil
		}
		for _, r := range results {
			_, _ = warnColor.Fprintf(out, "%s:%d:%d: %s\n", args[0], r.Line, r.Column, r.Message)
		}
		return fmt.Errorf("found %d violation(s)", len(results))
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(lintCmd)
}
