package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dialect   string
	rulesFile string
	verbose   bool
	redisAddr string
)

var rootCmd = &cobra.Command{
	Use:   "snippet-cli",
	Short: "snippet-cli runs the snippet engine on local files.",
	Long: `A CLI for the snippet engine. It parses, lints, formats and runs snippets
from local files, and can push lint or format work onto the request streams.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&dialect, "dialect", "d", "1.1", "Language version of the snippet (1.0 or 1.1)")
	flags.StringVarP(&rulesFile, "rules", "r", "", "YAML file with lint and format rules")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log pipeline activity to stderr")
	flags.StringVar(&redisAddr, "redis-addr", "localhost:6379", "Redis address for enqueue and results")

	for key, name := range map[string]string{
		"SNIPPET_DIALECT": "dialect",
		"SNIPPET_RULES":   "rules",
		"REDIS_ADDR":      "redis-addr",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			slog.Error("Error binding flag", "flag", name, "error", err)
			os.Exit(1)
		}
	}
}

// initConfig lets environment variables fill flags that were not given.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	dialect = viper.GetString("SNIPPET_DIALECT")
	rulesFile = viper.GetString("SNIPPET_RULES")
	redisAddr = viper.GetString("REDIS_ADDR")
}
