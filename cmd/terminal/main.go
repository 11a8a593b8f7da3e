package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sevigo/snippet-engine/internal/config"
	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

func main() {
	themeFlag := flag.String("theme", "", "UI theme (cyan, matrix, amber, dracula)")
	listThemes := flag.Bool("list-themes", false, "List all available themes")
	dialect := flag.String("dialect", "1.1", "Language version (1.0 or 1.1)")
	rulesPath := flag.String("rules", "", "YAML file with lint and format rules")
	flag.Parse()

	if *listThemes {
		fmt.Println("Available themes:")
		for _, theme := range ListThemes() {
			fmt.Printf("  - %s\n", theme)
		}
		os.Exit(0)
	}

	selectedTheme := *themeFlag
	if selectedTheme == "" {
		selectedTheme = os.Getenv("SNIPPET_THEME")
	}
	if selectedTheme == "" {
		selectedTheme = string(ThemeCyan)
	}
	theme := ThemeName(selectedTheme)
	if !slices.Contains(ListThemes(), theme) {
		fmt.Printf("Invalid theme '%s'. Use --list-themes to see available options.\n", theme)
		os.Exit(1)
	}

	version, err := core.ParseVersion(*dialect)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	rules, err := config.LoadRuleFile(*rulesPath)
	if err != nil {
		fmt.Printf("Failed to load rules: %v\n", err)
		os.Exit(1)
	}

	// The alternate screen owns stdout, so pipeline logs go to a file.
	log := logger.NewLogger(logger.Config{Level: "warn", Output: "file", File: "snippet-playground.log"}, nil)
	registry := engine.NewRegistry()
	printscript.Register(registry, printscript.WithEnv(os.LookupEnv))
	svc := pipeline.NewService(registry, pipeline.NewDriver(pipeline.DefaultBatchSize), nil, log)

	p := tea.NewProgram(initialModel(theme, newSession(svc, version, rules)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("error running program", "error", err)
		os.Exit(1)
	}
}
