package printscript

import (
	"fmt"
	"io"
	"slices"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

// SyntaxError is a grammar error at a source position.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// statementBuilder buffers tokens until a ';' closes a statement. It only
// asks for more tokens while the end of input has not been seen.
type statementBuilder struct {
	version core.Version
	buf     []Token
	eof     bool
	eofPos  Position
}

func newStatementBuilder(v core.Version) *statementBuilder {
	return &statementBuilder{version: v}
}

func (b *statementBuilder) HasMore() bool {
	return len(b.buf) > 0
}

func (b *statementBuilder) AddTokens(tokens []engine.Token) {
	for _, t := range tokens {
		tok, ok := t.(Token)
		if !ok {
			continue
		}
		if tok.Kind == KindEOF {
			b.eof = true
			b.eofPos = tok.Pos
			continue
		}
		b.buf = append(b.buf, tok)
	}
}

func (b *statementBuilder) Next() (engine.Statement, error) {
	end := -1
	for i, tok := range b.buf {
		if tok.Kind == KindPunct && tok.Value == ";" {
			end = i
			break
		}
	}

	if end < 0 {
		switch {
		case len(b.buf) == 0 && b.eof:
			return nil, io.EOF
		case b.eof:
			last := b.buf[len(b.buf)-1]
			b.buf = nil
			return nil, &SyntaxError{Pos: last.Pos, Msg: "expected ';' at end of statement"}
		default:
			return nil, engine.ErrNeedMoreTokens
		}
	}

	stmtTokens := b.buf[:end+1]
	b.buf = append([]Token(nil), b.buf[end+1:]...)

	p := &parser{version: b.version, tokens: stmtTokens}
	return p.statement()
}

type parser struct {
	version core.Version
	tokens  []Token
	pos     int
}

func (p *parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: KindEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) is(kind Kind, value string) bool {
	tok := p.peek()
	return tok.Kind == kind && tok.Value == value
}

func (p *parser) expect(kind Kind, value string) (Token, error) {
	tok := p.peek()
	if tok.Kind != kind || (value != "" && tok.Value != value) {
		want := value
		if want == "" {
			want = kind.String()
		}
		return tok, p.errorf(tok, "expected %s, found %s", want, describe(tok))
	}
	return p.advance(), nil
}

func (p *parser) errorf(tok Token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok Token) string {
	if tok.Kind == KindEOF {
		return "end of statement"
	}
	return fmt.Sprintf("%q", tok.Value)
}

func (p *parser) statement() (Node, error) {
	tok := p.peek()
	var (
		stmt Node
		err  error
	)
	switch {
	case tok.Kind == KindKeyword && (tok.Value == "let" || tok.Value == "const"):
		stmt, err = p.declaration()
	case tok.Kind == KindKeyword && tok.Value == "println":
		stmt, err = p.println()
	case tok.Kind == KindIdentifier:
		stmt, err = p.assignment()
	default:
		return nil, p.errorf(tok, "unexpected %s at start of statement", describe(tok))
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindPunct, ";"); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) declaration() (Node, error) {
	kw := p.advance()
	name, err := p.expect(KindIdentifier, "")
	if err != nil {
		return nil, err
	}
	decl := &Declaration{Pos: kw.Pos, Keyword: kw.Value, Name: name.Value, NamePos: name.Pos}

	if p.is(KindPunct, ":") {
		p.advance()
		typ := p.peek()
		if typ.Kind != KindKeyword || !p.isType(typ.Value) {
			return nil, p.errorf(typ, "expected type, found %s", describe(typ))
		}
		decl.Type = p.advance().Value
	}
	if p.is(KindPunct, "=") {
		p.advance()
		decl.Value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	switch {
	case decl.Type == "" && decl.Value == nil:
		return nil, p.errorf(name, "declaration of %q needs a type or a value", name.Value)
	case decl.Keyword == "const" && decl.Value == nil:
		return nil, p.errorf(name, "constant %q must be initialized", name.Value)
	}
	return decl, nil
}

func (p *parser) isType(name string) bool {
	switch name {
	case "number", "string":
		return true
	case "boolean":
		return p.version == core.V2
	default:
		return false
	}
}

func (p *parser) println() (Node, error) {
	kw := p.advance()
	if _, err := p.expect(KindPunct, "("); err != nil {
		return nil, err
	}
	arg, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindPunct, ")"); err != nil {
		return nil, err
	}
	return &Println{Pos: kw.Pos, Arg: arg}, nil
}

func (p *parser) assignment() (Node, error) {
	name := p.advance()
	if _, err := p.expect(KindPunct, "="); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Assignment{Pos: name.Pos, Name: name.Value, Value: value}, nil
}

func (p *parser) expression() (Expr, error) {
	return p.binary(p.multiplicative, "+", "-")
}

func (p *parser) multiplicative() (Expr, error) {
	return p.binary(p.unary, "*", "/")
}

func (p *parser) binary(operand func() (Expr, error), ops ...string) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind != KindPunct || !slices.Contains(ops, tok.Value) {
			return left, nil
		}
		p.advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Pos: tok.Pos, Op: tok.Value, Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	if p.is(KindPunct, "-") {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Pos: op.Pos, Op: op.Value, Operand: operand}, nil
	}
	return p.primary()
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch {
	case tok.Kind == KindNumber || tok.Kind == KindString:
		p.advance()
		return &Literal{Pos: tok.Pos, Kind: tok.Kind, Value: tok.Value}, nil
	case tok.Kind == KindKeyword && (tok.Value == "true" || tok.Value == "false"):
		p.advance()
		return &Literal{Pos: tok.Pos, Kind: KindKeyword, Value: tok.Value}, nil
	case tok.Kind == KindKeyword && (tok.Value == "readInput" || tok.Value == "readEnv"):
		return p.call()
	case tok.Kind == KindIdentifier:
		p.advance()
		return &Identifier{Pos: tok.Pos, Name: tok.Value}, nil
	case tok.Kind == KindPunct && tok.Value == "(":
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(KindPunct, ")"); err != nil {
			return nil, err
		}
		return &Group{Pos: tok.Pos, Inner: inner}, nil
	default:
		return nil, p.errorf(tok, "expected expression, found %s", describe(tok))
	}
}

func (p *parser) call() (Expr, error) {
	fn := p.advance()
	if _, err := p.expect(KindPunct, "("); err != nil {
		return nil, err
	}
	arg, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KindPunct, ")"); err != nil {
		return nil, err
	}
	return &Call{Pos: fn.Pos, Func: fn.Value, Arg: arg}, nil
}
