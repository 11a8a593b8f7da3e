package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Check that a snippet parses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := selectedVersion()
		if err != nil {
			return err
		}
		src, err := readSource(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		if err := newService().Parse(context.Background(), version, src); err != nil {
			_, _ = errorColor.Fprintf(cmd.OutOrStdout(), "✗ %s: %v\n", args[0], err)
			return fmt.Errorf("snippet does not parse")
		}
		_, _ = successColor.Fprintf(cmd.OutOrStdout(), "✓ %s parses as version %s\n", args[0], version)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(parseCmd)
}
