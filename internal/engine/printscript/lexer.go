// Package printscript is the default engine behind the pipeline: a small
// statement language where every statement ends with ';'. Version 1.0 knows
// let declarations, assignments and println; version 1.1 adds const,
// booleans, readInput and readEnv.
package printscript

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sevigo/snippet-engine/internal/core"
	"github.com/sevigo/snippet-engine/internal/engine"
)

// Kind is the class of a Token.
type Kind int

const (
	KindEOF Kind = iota
	KindIdentifier
	KindKeyword
	KindNumber
	KindString
	KindPunct
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of input"
	case KindIdentifier:
		return "identifier"
	case KindKeyword:
		return "keyword"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindPunct:
		return "punctuation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Position is a 1-based line and column in the source text.
type Position struct {
	Line   int
	Column int
}

// Token is the concrete engine.Token produced by this package.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `\d+(\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-+*/=:;(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var keywordsByVersion = map[core.Version]map[string]bool{
	core.V1: {"let": true, "println": true, "number": true, "string": true},
	core.V2: {
		"let": true, "const": true, "println": true, "number": true, "string": true,
		"boolean": true, "true": true, "false": true, "readInput": true, "readEnv": true,
	},
}

// tokenSource pulls tokens lazily from a participle lexer. Whitespace and
// comments are dropped. The final batch ends with a KindEOF token so the
// statement builder knows no further input can arrive.
type tokenSource struct {
	lex      lexer.Lexer
	initErr  error
	names    map[lexer.TokenType]string
	keywords map[string]bool
	done     bool
}

func newTokenSource(v core.Version, r io.Reader) *tokenSource {
	names := make(map[lexer.TokenType]string)
	for name, typ := range definition.Symbols() {
		names[typ] = name
	}
	lex, err := definition.Lex("snippet", r)
	return &tokenSource{
		lex:      lex,
		initErr:  err,
		names:    names,
		keywords: keywordsByVersion[v],
	}
}

func (s *tokenSource) HasMore() bool {
	return !s.done
}

func (s *tokenSource) NextBatch(n int) ([]engine.Token, error) {
	if s.done {
		return nil, nil
	}
	if s.initErr != nil {
		s.done = true
		return nil, fmt.Errorf("failed to read source: %w", s.initErr)
	}

	batch := make([]engine.Token, 0, n)
	for len(batch) < n {
		tok, err := s.lex.Next()
		if err != nil {
			s.done = true
			return batch, fmt.Errorf("lexical error: %w", err)
		}
		pos := Position{Line: tok.Pos.Line, Column: tok.Pos.Column}
		if tok.EOF() {
			s.done = true
			return append(batch, Token{Kind: KindEOF, Pos: pos}), nil
		}

		var kind Kind
		switch s.names[tok.Type] {
		case "Whitespace", "Comment":
			continue
		case "String":
			kind = KindString
		case "Number":
			kind = KindNumber
		case "Punct":
			kind = KindPunct
		case "Ident":
			kind = KindIdentifier
			if s.keywords[tok.Value] {
				kind = KindKeyword
			}
		default:
			s.done = true
			return batch, fmt.Errorf("line %d, column %d: unexpected token %q", pos.Line, pos.Column, tok.Value)
		}
		batch = append(batch, Token{Kind: kind, Value: tok.Value, Pos: pos})
	}
	return batch, nil
}
