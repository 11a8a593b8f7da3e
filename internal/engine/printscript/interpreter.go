package printscript

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

// DefaultMemoryLimit bounds the bytes held by variables and intermediate
// strings of one interpreter.
const DefaultMemoryLimit = 16 << 20

var errDivisionByZero = errors.New("division by zero")

type variable struct {
	typ      string
	value    any
	constant bool
}

type interpreter struct {
	version   core.Version
	input     engine.InputProvider
	lookupEnv func(string) (string, bool)
	vars      map[string]*variable
	limit     int
	used      int
}

func runtimeError(pos Position, err error) error {
	return fmt.Errorf("line %d, column %d: %w", pos.Line, pos.Column, err)
}

func runtimeErrorf(pos Position, format string, args ...any) error {
	return runtimeError(pos, fmt.Errorf(format, args...))
}

func (in *interpreter) Execute(s engine.Statement) (any, error) {
	switch stmt := s.(type) {
	case *Declaration:
		return nil, in.declare(stmt)
	case *Assignment:
		return nil, in.assign(stmt)
	case *Println:
		val, err := in.eval(stmt.Arg, "")
		if err != nil {
			return nil, err
		}
		return stringify(val), nil
	default:
		return nil, fmt.Errorf("unsupported statement type %T", s)
	}
}

func (in *interpreter) declare(stmt *Declaration) error {
	if _, exists := in.vars[stmt.Name]; exists {
		return runtimeErrorf(stmt.Pos, "variable %q is already declared", stmt.Name)
	}
	v := &variable{typ: stmt.Type, constant: stmt.Keyword == "const"}
	if stmt.Value != nil {
		val, err := in.eval(stmt.Value, stmt.Type)
		if err != nil {
			return err
		}
		if v.typ == "" {
			v.typ = typeOf(val)
		}
		if typeOf(val) != v.typ {
			return runtimeErrorf(stmt.Pos, "cannot assign %s to %q of type %s", typeOf(val), stmt.Name, v.typ)
		}
		if err := in.charge(stmt.Pos, val); err != nil {
			return err
		}
		v.value = val
	}
	in.vars[stmt.Name] = v
	return nil
}

func (in *interpreter) assign(stmt *Assignment) error {
	v, ok := in.vars[stmt.Name]
	if !ok {
		return runtimeErrorf(stmt.Pos, "variable %q is not declared", stmt.Name)
	}
	if v.constant {
		return runtimeErrorf(stmt.Pos, "cannot reassign constant %q", stmt.Name)
	}
	val, err := in.eval(stmt.Value, v.typ)
	if err != nil {
		return err
	}
	if typeOf(val) != v.typ {
		return runtimeErrorf(stmt.Pos, "cannot assign %s to %q of type %s", typeOf(val), stmt.Name, v.typ)
	}
	if err := in.charge(stmt.Pos, val); err != nil {
		return err
	}
	v.value = val
	return nil
}

// charge accounts for a value kept alive by a variable.
func (in *interpreter) charge(pos Position, val any) error {
	in.used += sizeOf(val)
	if in.used > in.limit {
		return runtimeError(pos, engine.ErrMemoryLimit)
	}
	return nil
}

// eval evaluates e. hint is the declared type of the receiving variable, used
// to convert readInput results.
func (in *interpreter) eval(e Expr, hint string) (any, error) {
	switch n := e.(type) {
	case *Literal:
		return literalValue(n)
	case *Identifier:
		v, ok := in.vars[n.Name]
		if !ok {
			return nil, runtimeErrorf(n.Pos, "variable %q is not declared", n.Name)
		}
		if v.value == nil {
			return nil, runtimeErrorf(n.Pos, "variable %q is not initialized", n.Name)
		}
		return v.value, nil
	case *Group:
		return in.eval(n.Inner, hint)
	case *Unary:
		val, err := in.eval(n.Operand, "")
		if err != nil {
			return nil, err
		}
		num, ok := val.(float64)
		if !ok {
			return nil, runtimeErrorf(n.Pos, "cannot negate %s", typeOf(val))
		}
		return -num, nil
	case *Binary:
		return in.binary(n)
	case *Call:
		return in.call(n, hint)
	default:
		return nil, fmt.Errorf("unsupported expression %T", e)
	}
}

func (in *interpreter) binary(n *Binary) (any, error) {
	left, err := in.eval(n.Left, "")
	if err != nil {
		return nil, err
	}
	right, err := in.eval(n.Right, "")
	if err != nil {
		return nil, err
	}

	if n.Op == "+" {
		_, ls := left.(string)
		_, rs := right.(string)
		if ls || rs {
			s := stringify(left) + stringify(right)
			if len(s) > in.limit-in.used {
				return nil, runtimeError(n.Pos, engine.ErrMemoryLimit)
			}
			return s, nil
		}
	}

	l, lok := left.(float64)
	r, rok := right.(float64)
	if !lok || !rok {
		return nil, runtimeErrorf(n.Pos, "operator %s is not defined for %s and %s", n.Op, typeOf(left), typeOf(right))
	}
	switch n.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return nil, runtimeError(n.Pos, errDivisionByZero)
		}
		return l / r, nil
	default:
		return nil, runtimeErrorf(n.Pos, "unknown operator %s", n.Op)
	}
}

func (in *interpreter) call(n *Call, hint string) (any, error) {
	arg, err := in.eval(n.Arg, "")
	if err != nil {
		return nil, err
	}
	name := stringify(arg)

	switch n.Func {
	case "readInput":
		line, err := in.input.ReadInput(name)
		if err != nil {
			return nil, runtimeError(n.Pos, err)
		}
		return convert(n.Pos, line, hint)
	case "readEnv":
		val, ok := in.lookupEnv(name)
		if !ok {
			return nil, runtimeErrorf(n.Pos, "environment variable %q is not set", name)
		}
		return convert(n.Pos, val, hint)
	default:
		return nil, runtimeErrorf(n.Pos, "unknown function %s", n.Func)
	}
}

func convert(pos Position, raw, hint string) (any, error) {
	switch hint {
	case "number":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, runtimeErrorf(pos, "%q is not a number", raw)
		}
		return f, nil
	case "boolean":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, runtimeErrorf(pos, "%q is not a boolean", raw)
		}
		return b, nil
	default:
		return raw, nil
	}
}

func literalValue(l *Literal) (any, error) {
	switch {
	case l.Kind == KindNumber:
		f, err := strconv.ParseFloat(l.Value, 64)
		if err != nil {
			return nil, runtimeErrorf(l.Pos, "invalid number %q", l.Value)
		}
		return f, nil
	case l.Kind == KindString:
		return unquote(l.Value), nil
	case isBoolLiteral(l):
		return l.Value == "true", nil
	default:
		return nil, runtimeErrorf(l.Pos, "invalid literal %q", l.Value)
	}
}

// unquote strips the surrounding quotes and resolves backslash escapes.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if raw[0] == '"' {
		if s, err := strconv.Unquote(raw); err == nil {
			return s
		}
	}
	return body
}

func typeOf(val any) string {
	switch val.(type) {
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}

func sizeOf(val any) int {
	switch v := val.(type) {
	case string:
		return len(v) + 16
	case float64:
		return 8
	default:
		return 1
	}
}

func stringify(val any) string {
	switch v := val.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
