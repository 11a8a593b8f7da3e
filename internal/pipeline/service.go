package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
	"github.com/sevigo/snippet-engine/internal/logger"
	"github.com/sevigo/snippet-engine/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	OpParse     = "parse"
	OpLint      = "lint"
	OpFormat    = "format"
	OpInterpret = "interpret"
)

// Service runs the four snippet operations against the engine registered for
// a dialect version.
type Service struct {
	registry *engine.Registry
	driver   Driver
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService creates a Service. m may be nil.
func NewService(registry *engine.Registry, driver Driver, m *metrics.Metrics, logger *slog.Logger) *Service {
	if registry == nil {
		panic("engine registry cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Service{registry: registry, driver: driver, metrics: m, logger: logger}
}

// Parse checks that content is a well-formed program.
func (s *Service) Parse(ctx context.Context, version core.Version, content string) (err error) {
	defer s.observe(ctx, OpParse, time.Now(), &err)

	eng, err := s.registry.For(version)
	if err != nil {
		return err
	}
	return s.driver.Stream(eng.NewTokenSource(strings.NewReader(content)), eng.NewStatementBuilder(),
		func(engine.Statement) error { return nil })
}

// Lint parses content and reports every rule violation. The returned slice is
// never nil on success.
func (s *Service) Lint(ctx context.Context, version core.Version, content string, cfg engine.LintConfig) (_ []core.LintResult, err error) {
	defer s.observe(ctx, OpLint, time.Now(), &err)

	eng, err := s.registry.For(version)
	if err != nil {
		return nil, err
	}
	statements, err := s.driver.Collect(eng.NewTokenSource(strings.NewReader(content)), eng.NewStatementBuilder())
	if err != nil {
		return nil, err
	}

	violations, err := eng.NewLinter().Lint(statements, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: lint failed: %w", ErrFatal, err)
	}
	results := make([]core.LintResult, 0, len(violations))
	for _, v := range violations {
		results = append(results, core.LintResult{Message: v.Message, Line: v.Line, Column: v.Column})
	}
	return results, nil
}

// Format parses content and renders every statement with cfg. The output of
// the last statement loses its trailing newline.
func (s *Service) Format(ctx context.Context, version core.Version, content string, cfg engine.FormatConfig) (_ string, err error) {
	defer s.observe(ctx, OpFormat, time.Now(), &err)

	eng, err := s.registry.For(version)
	if err != nil {
		return "", err
	}
	statements, err := s.driver.Collect(eng.NewTokenSource(strings.NewReader(content)), eng.NewStatementBuilder())
	if err != nil {
		return "", err
	}

	formatter := eng.NewFormatter()
	var sb strings.Builder
	for i, stmt := range statements {
		out, err := formatter.Format(stmt, cfg)
		if err != nil {
			return "", fmt.Errorf("%w: format failed: %w", ErrFatal, err)
		}
		if i == len(statements)-1 {
			out = strings.TrimSuffix(out, "\n")
		}
		sb.WriteString(out)
	}
	return sb.String(), nil
}

// Interpret executes content statement by statement as it is parsed and
// returns the printed output. Statements producing no value are skipped.
func (s *Service) Interpret(ctx context.Context, version core.Version, content string, input engine.InputProvider) (_ []string, err error) {
	defer s.observe(ctx, OpInterpret, time.Now(), &err)

	eng, err := s.registry.For(version)
	if err != nil {
		return nil, err
	}
	interp := eng.NewInterpreter(input)

	var output []string
	err = s.driver.Stream(eng.NewTokenSource(strings.NewReader(content)), eng.NewStatementBuilder(),
		func(stmt engine.Statement) error {
			res, err := execute(interp, stmt)
			if err != nil {
				return err
			}
			switch v := res.(type) {
			case nil:
			case string:
				output = append(output, v)
			default:
				output = append(output, fmt.Sprint(v))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return output, nil
}

// execute runs one statement, turning engine panics into fatal errors.
func execute(interp engine.Interpreter, stmt engine.Statement) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: interpreter panic: %v", ErrFatal, r)
		}
	}()

	res, err = interp.Execute(stmt)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, engine.ErrMemoryLimit):
		return nil, fmt.Errorf("%w: %w", ErrResourceLimit, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrFatal, err)
	}
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, errp *error) {
	result := core.ResultSuccess
	if *errp != nil {
		result = core.ResultFailure
		logger.FromContext(ctx, s.logger).Debug("pipeline run failed",
			"operation", op,
			"kind", core.Classify(*errp),
			"error", *errp,
		)
	}
	s.metrics.RecordPipeline(op, string(result), time.Since(start))
}
