package lang

import (
	"errors"
	"strings"
	"testing"
)

type tokenSpec struct {
	typ TokenType
	lit string
}

func lexSpecs(t *testing.T, src string) []tokenSpec {
	t.Helper()

	tokens, err := Lex(t.Context(), src, "test")
	if err != nil {
		t.Fatalf("Lex(%q) error: %v", src, err)
	}

	specs := make([]tokenSpec, len(tokens))
	for i, tok := range tokens {
		specs[i] = tokenSpec{tok.Type, tok.Literal}
	}

	return specs
}

func TestLex_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tokenSpec
	}{
		{
			name:  "empty",
			input: "",
			want:  []tokenSpec{{EOF, ""}},
		},
		{
			name:  "declaration",
			input: "store a as int = 5\n",
			want: []tokenSpec{
				{KEYWORD, "store"},
				{IDENTIFIER, "a"},
				{KEYWORD, "as"},
				{IDENTIFIER, "int"},
				{EQUALS, "="},
				{INT, "5"},
				{NEWLINE, "\n"},
				{EOF, ""},
			},
		},
		{
			name:  "keywords are case sensitive",
			input: "Store define _x1",
			want: []tokenSpec{
				{IDENTIFIER, "Store"},
				{KEYWORD, "define"},
				{IDENTIFIER, "_x1"},
				{EOF, ""},
			},
		},
		{
			name:  "digit grouping",
			input: "1_000_000",
			want:  []tokenSpec{{INT, "1000000"}, {EOF, ""}},
		},
		{
			name:  "leading point",
			input: ".5",
			want:  []tokenSpec{{DOUBLE, "0.5"}, {EOF, ""}},
		},
		{
			name:  "trailing point",
			input: "5.",
			want:  []tokenSpec{{DOUBLE, "5.0"}, {EOF, ""}},
		},
		{
			name:  "second point starts a new number",
			input: "1.2.3",
			want:  []tokenSpec{{DOUBLE, "1.2"}, {DOUBLE, "0.3"}, {EOF, ""}},
		},
		{
			name:  "operators",
			input: "+ ++ - -- * ** / % ( ) = !",
			want: []tokenSpec{
				{PLUS, "+"},
				{INC, "++"},
				{MINUS, "-"},
				{DEC, "--"},
				{MULTIPLY, "*"},
				{POWER, "**"},
				{DIVIDE, "/"},
				{MODULO, "%"},
				{LPAREN, "("},
				{RPAREN, ")"},
				{EQUALS, "="},
				{BANG, "!"},
				{EOF, ""},
			},
		},
		{
			name:  "tripled operator",
			input: "+++",
			want:  []tokenSpec{{INC, "++"}, {PLUS, "+"}, {EOF, ""}},
		},
		{
			name:  "escaped quote",
			input: `"a\"b\\"`,
			want:  []tokenSpec{{STRING, `a"b\`}, {EOF, ""}},
		},
		{
			name:  "single quoted",
			input: `'it\'s'`,
			want:  []tokenSpec{{STRING, "it's"}, {EOF, ""}},
		},
		{
			name:  "crlf is one newline",
			input: "1\r\n2",
			want: []tokenSpec{
				{INT, "1"},
				{NEWLINE, "\r\n"},
				{INT, "2"},
				{EOF, ""},
			},
		},
		{
			name:  "comment and tab",
			input: "1\t# one\n2",
			want: []tokenSpec{
				{INT, "1"},
				{NEWLINE, "\n"},
				{INT, "2"},
				{EOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexSpecs(t, tt.input)

			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v",
					len(got), got, len(tt.want), tt.want)
			}

			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLex_Concat(t *testing.T) {
	tokens, err := Lex(t.Context(), `"a" 'b'`, "test")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}

	if !tokens[0].Concat {
		t.Error("double-quoted string should be concatenation-eligible")
	}

	if tokens[1].Concat {
		t.Error("single-quoted string should not be concatenation-eligible")
	}
}

func TestLex_Spans(t *testing.T) {
	tokens, err := Lex(t.Context(), "ab  ++\n x", "src")
	if err != nil {
		t.Fatalf("Lex error: %v", err)
	}

	tests := []struct {
		idx        int
		start, end Position
	}{
		{0, Position{"src", 0, 1, 1}, Position{"src", 2, 1, 3}},
		{1, Position{"src", 4, 1, 5}, Position{"src", 6, 1, 7}},
		{2, Position{"src", 6, 1, 7}, Position{"src", 7, 2, 1}},
		{3, Position{"src", 8, 2, 2}, Position{"src", 9, 2, 3}},
		{4, Position{"src", 9, 2, 3}, Position{"src", 9, 2, 3}},
	}

	for _, tt := range tests {
		tok := tokens[tt.idx]
		if tok.Start != tt.start || tok.End != tt.end {
			t.Errorf("token %d (%v) span = [%v, %v), want [%v, %v)",
				tt.idx, tok, tok.Start, tok.End, tt.start, tt.end)
		}
	}
}

func TestLex_Faults(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		opts   []Option
		want   *Fault
		line   int
		column int
	}{
		{"illegal character", "1 @ 2", nil, ErrIllegalCharacter, 1, 3},
		{"illegal after newline", "1\n  $", nil, ErrIllegalCharacter, 2, 3},
		{"lone carriage return", "1\r2", nil, ErrIllegalCharacter, 1, 2},
		{"point without digit", "a . b", nil, ErrIllegalCharacter, 1, 3},
		{"unclosed double", `"abc`, nil, ErrUnclosedString, 1, 1},
		{"unclosed single", `x = 'abc`, nil, ErrUnclosedString, 1, 5},
		{"escape at end", `"abc\`, nil, ErrUnclosedString, 1, 1},
		{
			"string too long",
			`"abcd"`,
			[]Option{WithMaxStringLength(3)},
			ErrTypeOverflow,
			1, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(t.Context(), tt.input, "test", tt.opts...)
			if err == nil {
				t.Fatalf("expected fault, got tokens %v", tokens)
			}

			if tokens != nil {
				t.Errorf("expected no tokens with fault, got %v", tokens)
			}

			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want kind %v", err, tt.want.Kind)
			}

			var f *Fault
			if !errors.As(err, &f) {
				t.Fatalf("error %T is not a *Fault", err)
			}

			if f.Start.Line != tt.line || f.Start.Column != tt.column {
				t.Errorf("fault at %d:%d, want %d:%d",
					f.Start.Line, f.Start.Column, tt.line, tt.column)
			}
		})
	}
}

func TestLex_MaxStringLength(t *testing.T) {
	src := `"` + strings.Repeat("x", DefaultMaxStringLength) + `"`

	if _, err := Lex(t.Context(), src, "test"); err != nil {
		t.Fatalf("string at the limit: %v", err)
	}

	src = `"` + strings.Repeat("x", DefaultMaxStringLength+1) + `"`

	if _, err := Lex(t.Context(), src, "test"); !errors.Is(err, ErrTypeOverflow) {
		t.Fatalf("string over the limit: got %v, want overflow", err)
	}
}

func TestLexReader(t *testing.T) {
	tokens, err := LexReader(t.Context(), strings.NewReader("a"), "reader")
	if err != nil {
		t.Fatalf("LexReader error: %v", err)
	}

	if len(tokens) != 2 || tokens[0].Start.Label != "reader" {
		t.Errorf("unexpected tokens %v", tokens)
	}
}
