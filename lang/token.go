package lang

import (
	"log/slog"
	"strconv"
)

// Position identifies a location in source text.
//
// Offset is a zero-based byte index. Line and Column are one-based.
// Label names the source (a file path, "<stdin>", and so on) and is used only
// for diagnostics.
type Position struct {
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Offset int    `json:"offset"          yaml:"offset"`
	Line   int    `json:"line"            yaml:"line"`
	Column int    `json:"column"          yaml:"column"`
}

// StartPosition returns the position of the first character of a source
// identified by label.
func StartPosition(label string) Position {
	return Position{Label: label, Offset: 0, Line: 1, Column: 1}
}

// advance returns the position following the character r.
func (p Position) advance(r rune, size int) Position {
	p.Offset += size
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}

	return p
}

// String returns the position formatted as "label:line:column".
func (p Position) String() string {
	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Label != "" {
		s = p.Label + ":" + s
	}

	return s
}

// LogValue implements slog.LogValuer.
func (p Position) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("label", p.Label),
		slog.Int("line", p.Line),
		slog.Int("column", p.Column),
	)
}

// TokenType classifies a [Token].
type TokenType int

// Token types.
const (
	EOF TokenType = iota
	NEWLINE
	INT
	DOUBLE
	STRING
	IDENTIFIER
	KEYWORD
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	MODULO
	POWER
	INC
	DEC
	LPAREN
	RPAREN
	EQUALS
	BANG
)

var tokenTypeName = [...]string{
	EOF:        "EOF",
	NEWLINE:    "NEWLINE",
	INT:        "INT",
	DOUBLE:     "DOUBLE",
	STRING:     "STRING",
	IDENTIFIER: "IDENTIFIER",
	KEYWORD:    "KEYWORD",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	MULTIPLY:   "MULTIPLY",
	DIVIDE:     "DIVIDE",
	MODULO:     "MODULO",
	POWER:      "POWER",
	INC:        "INC",
	DEC:        "DEC",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	EQUALS:     "EQUALS",
	BANG:       "BANG",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeName) {
		return tokenTypeName[t]
	}

	return "TokenType(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Keywords of the language.
const (
	KeywordStore  = "store"
	KeywordDefine = "define"
	KeywordAs     = "as"
	KeywordAnd    = "and"
	KeywordOr     = "or"
	KeywordNot    = "not"
	KeywordTrue   = "true"
	KeywordFalse  = "false"
)

// Keywords lists every reserved word in the order they are documented.
var Keywords = []string{
	KeywordStore,
	KeywordDefine,
	KeywordAs,
	KeywordAnd,
	KeywordOr,
	KeywordNot,
	KeywordTrue,
	KeywordFalse,
}

// IsKeyword reports whether s is a reserved word. Matching is case-sensitive.
func IsKeyword(s string) bool {
	switch s {
	case KeywordStore, KeywordDefine, KeywordAs, KeywordAnd, KeywordOr,
		KeywordNot, KeywordTrue, KeywordFalse:
		return true
	}

	return false
}

// Token is a classified lexical unit.
//
// End is exclusive. Concat is set on string literals opened with a double
// quote, which may be joined with an adjacent double-quoted literal.
type Token struct {
	Literal string    `json:"literal" yaml:"literal"`
	Start   Position  `json:"start"   yaml:"start"`
	End     Position  `json:"end"     yaml:"end"`
	Type    TokenType `json:"type"    yaml:"type"`
	Concat  bool      `json:"concat"  yaml:"concat,omitempty"`
}

// Matches reports whether the token has type typ and literal text lit.
func (t Token) Matches(typ TokenType, lit string) bool {
	return t.Type == typ && t.Literal == lit
}

// IsKeyword reports whether the token is the keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Matches(KEYWORD, kw)
}

func (t Token) String() string {
	switch t.Type {
	case EOF, NEWLINE:
		return t.Type.String()
	case STRING:
		return t.Type.String() + ":" + strconv.Quote(t.Literal)
	default:
		return t.Type.String() + ":" + t.Literal
	}
}
