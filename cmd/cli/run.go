package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Interpret a snippet, answering readInput from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := selectedVersion()
		if err != nil {
			return err
		}
		if args[0] == "-" {
			return fmt.Errorf("run needs a file, stdin is reserved for input")
		}
		src, err := readSource(args[0], nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		output, err := newService().Interpret(context.Background(), version, src, newPromptInput(cmd.InOrStdin(), out))
		if err != nil {
			_, _ = errorColor.Fprintf(out, "✗ %v\n", err)
			return fmt.Errorf("execution failed")
		}
		for _, line := range output {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(runCmd)
}
