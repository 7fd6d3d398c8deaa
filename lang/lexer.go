package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Lex converts src into a token sequence terminated by a single [EOF] token.
// The label identifies src in every [Position] and is used only for
// diagnostics.
//
// The first invalid or unterminated construct aborts tokenization: the
// returned error is a [*Fault] and no tokens are returned.
func Lex(
	ctx context.Context,
	src, label string,
	opts ...Option,
) ([]Token, error) {
	o := makeOptions(opts...)

	lx := &lexer{
		src:    src,
		pos:    StartPosition(label),
		maxStr: o.maxStringLen,
	}

	tokens, err := lx.run()
	if err != nil {
		o.logger.TraceContext(ctx, "lex failed",
			slog.String("label", label),
			slog.Any("fault", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "lex complete",
		slog.String("label", label),
		slog.Int("token_count", len(tokens)))

	return tokens, nil
}

// LexReader reads all of r and tokenizes it with [Lex].
func LexReader(
	ctx context.Context,
	r io.Reader,
	label string,
	opts ...Option,
) ([]Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("label", label))
	}

	return Lex(ctx, string(data), label, opts...)
}

type lexer struct {
	src    string
	tokens []Token
	pos    Position
	maxStr int
}

// peek returns the rune at the current position without consuming it.
// The returned size is 0 at end of input.
func (lx *lexer) peek() (rune, int) {
	return lx.peekAt(lx.pos.Offset)
}

func (lx *lexer) peekAt(offset int) (rune, int) {
	if offset >= len(lx.src) {
		return 0, 0
	}

	return utf8.DecodeRuneInString(lx.src[offset:])
}

func (lx *lexer) next() rune {
	r, size := lx.peek()
	if size > 0 {
		lx.pos = lx.pos.advance(r, size)
	}

	return r
}

func (lx *lexer) emit(typ TokenType, lit string, start Position) {
	lx.tokens = append(lx.tokens, Token{
		Type:    typ,
		Literal: lit,
		Start:   start,
		End:     lx.pos,
	})
}

func (lx *lexer) run() ([]Token, error) {
	for {
		r, size := lx.peek()
		if size == 0 {
			lx.emit(EOF, "", lx.pos)

			return lx.tokens, nil
		}

		start := lx.pos

		switch {
		case r == ' ' || r == '\t':
			lx.next()

		case r == '#':
			lx.skipComment()

		case r == '\n':
			lx.next()
			lx.emit(NEWLINE, "\n", start)

		case r == '\r':
			lx.next()

			if n, _ := lx.peek(); n != '\n' {
				return nil, newFault(IllegalCharacter, start, lx.pos, "%q", r)
			}

			lx.next()
			lx.emit(NEWLINE, "\r\n", start)

		case isIdentStart(r):
			lx.lexIdentifier()

		case isDigit(r) || (r == '.' && lx.digitFollows()):
			lx.lexNumber()

		case r == '"' || r == '\'':
			if err := lx.lexString(); err != nil {
				return nil, err
			}

		default:
			if !lx.lexOperator(r) {
				lx.next()

				return nil, newFault(IllegalCharacter, start, lx.pos, "%q", r)
			}
		}
	}
}

func (lx *lexer) skipComment() {
	for {
		r, size := lx.peek()
		if size == 0 || r == '\n' || r == '\r' {
			return
		}

		lx.next()
	}
}

func (lx *lexer) digitFollows() bool {
	r, _ := lx.peekAt(lx.pos.Offset + 1)

	return isDigit(r)
}

func (lx *lexer) lexIdentifier() {
	start := lx.pos

	for {
		r, size := lx.peek()
		if size == 0 || !isIdentPart(r) {
			break
		}

		lx.next()
	}

	lit := lx.src[start.Offset:lx.pos.Offset]
	if IsKeyword(lit) {
		lx.emit(KEYWORD, lit, start)
	} else {
		lx.emit(IDENTIFIER, lit, start)
	}
}

// lexNumber accumulates digits, '_' separators, and at most one '.'.
// A second '.' ends the number.
func (lx *lexer) lexNumber() {
	start := lx.pos

	var (
		sb   strings.Builder
		dots int
	)

loop:
	for {
		r, size := lx.peek()
		if size == 0 {
			break
		}

		switch {
		case isDigit(r):
			sb.WriteRune(r)
		case r == '_':
		case r == '.' && dots == 0:
			sb.WriteRune(r)
			dots++
		default:
			break loop
		}

		lx.next()
	}

	lit := sb.String()
	if dots == 0 {
		lx.emit(INT, lit, start)

		return
	}

	if strings.HasPrefix(lit, ".") {
		lit = "0" + lit
	}

	if strings.HasSuffix(lit, ".") {
		lit += "0"
	}

	lx.emit(DOUBLE, lit, start)
}

func (lx *lexer) lexString() error {
	start := lx.pos
	quote := lx.next()

	var sb strings.Builder

	for {
		r, size := lx.peek()
		if size == 0 {
			return newFault(UnclosedString, start, lx.pos,
				"missing closing %c", quote)
		}

		lx.next()

		if r == quote {
			break
		}

		if r == '\\' {
			if _, size = lx.peek(); size == 0 {
				return newFault(UnclosedString, start, lx.pos,
					"missing closing %c", quote)
			}

			r = lx.next()
		}

		sb.WriteRune(r)

		if sb.Len() > lx.maxStr {
			return newFault(TypeOverflow, start, lx.pos,
				"string literal exceeds %d bytes", lx.maxStr)
		}
	}

	lx.tokens = append(lx.tokens, Token{
		Type:    STRING,
		Literal: sb.String(),
		Start:   start,
		End:     lx.pos,
		Concat:  quote == '"',
	})

	return nil
}

// lexOperator consumes a one- or two-character operator starting with r.
// It reports false, consuming nothing, if r does not start an operator.
func (lx *lexer) lexOperator(r rune) bool {
	start := lx.pos

	double := func(single, doubled TokenType) {
		lx.next()

		if n, _ := lx.peek(); n == r {
			lx.next()
			lx.emit(doubled, string([]rune{r, r}), start)

			return
		}

		lx.emit(single, string(r), start)
	}

	switch r {
	case '+':
		double(PLUS, INC)
	case '-':
		double(MINUS, DEC)
	case '*':
		double(MULTIPLY, POWER)
	case '/', '%', '(', ')', '=', '!':
		lx.next()
		lx.emit(singleOperator[r], string(r), start)
	default:
		return false
	}

	return true
}

var singleOperator = map[rune]TokenType{
	'/': DIVIDE,
	'%': MODULO,
	'(': LPAREN,
	')': RPAREN,
	'=': EQUALS,
	'!': BANG,
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool { return isIdentStart(r) || isDigit(r) }
