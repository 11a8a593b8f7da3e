package printscript

import (
	"fmt"
	"strings"

	"github.com/sevigo/snippet-engine/internal/engine"
)

// Format rule names understood by this engine.
const (
	RuleSpaceBeforeColon        = "space_before_colon"
	RuleSpaceAfterColon         = "space_after_colon"
	RuleSpaceAroundEquals       = "space_around_equals"
	RuleLineBreaksBeforePrintln = "line_breaks_before_println"
)

const maxLineBreaksBeforePrintln = 2

type formatter struct{}

func (f *formatter) Format(s engine.Statement, cfg engine.FormatConfig) (string, error) {
	var sb strings.Builder

	switch stmt := s.(type) {
	case *Declaration:
		sb.WriteString(stmt.Keyword)
		sb.WriteString(" ")
		sb.WriteString(stmt.Name)
		if stmt.Type != "" {
			if setting(cfg, RuleSpaceBeforeColon, false) {
				sb.WriteString(" ")
			}
			sb.WriteString(":")
			if setting(cfg, RuleSpaceAfterColon, true) {
				sb.WriteString(" ")
			}
			sb.WriteString(stmt.Type)
		}
		if stmt.Value != nil {
			sb.WriteString(equals(cfg))
			sb.WriteString(renderExpr(stmt.Value))
		}
	case *Assignment:
		sb.WriteString(stmt.Name)
		sb.WriteString(equals(cfg))
		sb.WriteString(renderExpr(stmt.Value))
	case *Println:
		if rule, ok := cfg.Rule(RuleLineBreaksBeforePrintln); ok && rule.On {
			n := min(max(rule.Quantity, 0), maxLineBreaksBeforePrintln)
			sb.WriteString(strings.Repeat("\n", n))
		}
		sb.WriteString("println(")
		sb.WriteString(renderExpr(stmt.Arg))
		sb.WriteString(")")
	default:
		return "", fmt.Errorf("unsupported statement type %T", s)
	}

	sb.WriteString(";\n")
	return sb.String(), nil
}

// setting returns whether a boolean rule applies, falling back to def when
// the rule is not configured.
func setting(cfg engine.FormatConfig, name string, def bool) bool {
	rule, ok := cfg.Rule(name)
	if !ok {
		return def
	}
	return rule.On
}

func equals(cfg engine.FormatConfig) string {
	if setting(cfg, RuleSpaceAroundEquals, true) {
		return " = "
	}
	return "="
}

func renderExpr(e Expr) string {
	switch n := e.(type) {
	case *Literal:
		return n.Value
	case *Identifier:
		return n.Name
	case *Binary:
		return renderExpr(n.Left) + " " + n.Op + " " + renderExpr(n.Right)
	case *Unary:
		return n.Op + renderExpr(n.Operand)
	case *Call:
		return n.Func + "(" + renderExpr(n.Arg) + ")"
	case *Group:
		return "(" + renderExpr(n.Inner) + ")"
	default:
		return ""
	}
}
