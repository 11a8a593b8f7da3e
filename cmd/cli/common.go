package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/engine/printscript"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/pipeline"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

// newLogger logs to stderr. Only errors are shown without --verbose.
func newLogger() *slog.Logger {
	level := "error"
	if verbose {
		level = "debug"
	}
	return logger.NewLogger(logger.Config{Level: level, Format: "text"}, os.Stderr)
}

// newService builds a pipeline over the built-in engines.
func newService() *pipeline.Service {
	log := newLogger()
	registry := engine.NewRegistry()
	printscript.Register(registry, printscript.WithEnv(os.LookupEnv))
	return pipeline.NewService(registry, pipeline.NewDriver(pipeline.DefaultBatchSize), nil, log)
}

func selectedVersion() (core.Version, error) {
	return core.ParseVersion(dialect)
}

// readSource reads a snippet file, or stdin when path is "-".
func readSource(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read snippet %s: %w", path, err)
	}
	return string(data), nil
}

// promptInput answers readInput from the terminal, echoing each prompt.
type promptInput struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPromptInput(in io.Reader, out io.Writer) *promptInput {
	return &promptInput{in: bufio.NewScanner(in), out: out}
}

func (p *promptInput) ReadInput(prompt string) (string, error) {
	if prompt != "" {
		_, _ = dimColor.Fprint(p.out, prompt+" ")
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", engine.ErrNoInput
	}
	return strings.TrimRight(p.in.Text(), "\r"), nil
}
