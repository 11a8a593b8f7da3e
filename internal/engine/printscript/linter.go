package printscript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

// Lint rule names understood by this engine.
const (
	RuleIdentifierFormat   = "identifier_format"
	RulePrintlnArguments   = "println_arguments"
	RuleReadInputArguments = "read_input_arguments"
)

var identifierFormats = map[string]*regexp.Regexp{
	"camel case": regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	"snake case": regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`),
}

type linter struct {
	version core.Version
}

func (l *linter) Lint(statements []engine.Statement, cfg engine.LintConfig) ([]engine.Violation, error) {
	var violations []engine.Violation

	identifierRule := cfg[RuleIdentifierFormat]
	var (
		format     *regexp.Regexp
		formatName string
	)
	if identifierRule.Enabled {
		formatName = strings.ToLower(strings.TrimSpace(identifierRule.Value))
		if formatName == "" {
			formatName = "camel case"
		}
		var ok bool
		format, ok = identifierFormats[formatName]
		if !ok {
			return nil, fmt.Errorf("unknown identifier format %q", identifierRule.Value)
		}
	}

	for _, s := range statements {
		switch stmt := s.(type) {
		case *Declaration:
			if format != nil && !format.MatchString(stmt.Name) {
				violations = append(violations, violation(stmt.NamePos,
					"identifier '%s' does not match %s", stmt.Name, formatName))
			}
			violations = l.checkCalls(violations, stmt.Value, cfg)
		case *Assignment:
			violations = l.checkCalls(violations, stmt.Value, cfg)
		case *Println:
			if cfg.Enabled(RulePrintlnArguments) && !isSimple(stmt.Arg) {
				violations = append(violations, violation(stmt.Arg.Position(),
					"println must only be called with an identifier or a literal"))
			}
			violations = l.checkCalls(violations, stmt.Arg, cfg)
		default:
			return nil, fmt.Errorf("unsupported statement type %T", s)
		}
	}
	return violations, nil
}

// checkCalls applies the readInput argument rule to every call inside e.
func (l *linter) checkCalls(violations []engine.Violation, e Expr, cfg engine.LintConfig) []engine.Violation {
	if l.version != core.V2 || !cfg.Enabled(RuleReadInputArguments) {
		return violations
	}
	walk(e, func(n Expr) {
		if call, ok := n.(*Call); ok && call.Func == "readInput" && !isSimple(call.Arg) {
			violations = append(violations, violation(call.Arg.Position(),
				"readInput must only be called with an identifier or a literal"))
		}
	})
	return violations
}

func isSimple(e Expr) bool {
	switch e.(type) {
	case *Identifier, *Literal:
		return true
	default:
		return false
	}
}

func walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch n := e.(type) {
	case *Binary:
		walk(n.Left, fn)
		walk(n.Right, fn)
	case *Unary:
		walk(n.Operand, fn)
	case *Call:
		walk(n.Arg, fn)
	case *Group:
		walk(n.Inner, fn)
	}
}

func violation(pos Position, format string, args ...any) engine.Violation {
	return engine.Violation{
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
	}
}
