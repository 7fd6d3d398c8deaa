package lang

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
)

// Parse builds a syntax tree from tokens produced by [Lex]. The result is a
// single [ListNode] holding one child per newline-separated statement.
//
// Any missing, unexpected, or trailing token aborts parsing: the returned
// error is a [*Fault] and no tree is returned.
func Parse(ctx context.Context, tokens []Token, opts ...Option) (*Node, error) {
	o := makeOptions(opts...)

	p := newParser(tokens, o)

	root, err := p.parseProgram()
	if err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Any("fault", err))

		return nil, err
	}

	o.logger.TraceContext(ctx, "parse complete",
		slog.Int("statement_count", len(root.Children)))

	return root, nil
}

// ParseString tokenizes and parses src.
func ParseString(
	ctx context.Context,
	src, label string,
	opts ...Option,
) (*Node, error) {
	tokens, err := Lex(ctx, src, label, opts...)
	if err != nil {
		return nil, err
	}

	return Parse(ctx, tokens, opts...)
}

type parser struct {
	tokens []Token
	curr   Token
	idx    int
	maxStr int
}

func newParser(tokens []Token, o options) *parser {
	// Guarantee a terminating EOF so lookahead never runs off the end.
	if n := len(tokens); n == 0 {
		tokens = []Token{{Type: EOF, Start: StartPosition(""), End: StartPosition("")}}
	} else if tokens[n-1].Type != EOF {
		end := tokens[n-1].End
		tokens = append(tokens[:n:n], Token{Type: EOF, Start: end, End: end})
	}

	return &parser{tokens: tokens, curr: tokens[0], maxStr: o.maxStringLen}
}

func (p *parser) advance() {
	if p.idx < len(p.tokens)-1 {
		p.idx++
	}

	p.curr = p.tokens[p.idx]
}

func (p *parser) peek() Token {
	if p.idx < len(p.tokens)-1 {
		return p.tokens[p.idx+1]
	}

	return p.tokens[p.idx]
}

func (p *parser) expect(tt TokenType, what string) (Token, error) {
	if p.curr.Type != tt {
		return Token{}, p.unexpected(what)
	}

	tok := p.curr
	p.advance()

	return tok, nil
}

func (p *parser) expectKeyword(kw string) (Token, error) {
	if !p.curr.IsKeyword(kw) {
		return Token{}, p.unexpected(strconv.Quote(kw))
	}

	tok := p.curr
	p.advance()

	return tok, nil
}

func (p *parser) errorf(tok Token, format string, args ...any) *Fault {
	return newFault(InvalidSyntax, tok.Start, tok.End, format, args...)
}

func (p *parser) unexpected(what string) *Fault {
	return p.errorf(p.curr, "expected %s, found %s", what, describe(p.curr))
}

func describe(tok Token) string {
	switch tok.Type {
	case EOF:
		return "end of input"
	case NEWLINE:
		return "newline"
	case STRING:
		return "string " + strconv.Quote(tok.Literal)
	case KEYWORD:
		return "keyword " + strconv.Quote(tok.Literal)
	default:
		return strconv.Quote(tok.Literal)
	}
}

func (p *parser) skipNewlines() {
	for p.curr.Type == NEWLINE {
		p.advance()
	}
}

// parseProgram parses: NEWLINE* (statement (NEWLINE+ statement)*)? NEWLINE*
// EOF.
func (p *parser) parseProgram() (*Node, error) {
	start := p.curr.Start

	var stmts []*Node

	p.skipNewlines()

	for p.curr.Type != EOF {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)

		if p.curr.Type != EOF && p.curr.Type != NEWLINE {
			return nil, p.unexpected("newline or end of input")
		}

		p.skipNewlines()
	}

	return NewListNode(stmts, start, p.curr.End), nil
}

// parseDeclaration parses a store or define declaration, or a logic
// expression.
func (p *parser) parseDeclaration() (*Node, error) {
	switch {
	case p.curr.IsKeyword(KeywordStore):
		return p.parseStore()
	case p.curr.IsKeyword(KeywordDefine):
		return p.parseDefine()
	default:
		return p.parseLogic()
	}
}

// parseBinding parses the part common to both declarations:
// keyword IDENT "as" TYPE.
func (p *parser) parseBinding() (start Position, name, typ Token, err error) {
	start = p.curr.Start
	p.advance()

	if name, err = p.expect(IDENTIFIER, "variable name"); err != nil {
		return start, name, typ, err
	}

	if _, err = p.expectKeyword(KeywordAs); err != nil {
		return start, name, typ, err
	}

	typ, err = p.parseTypeName()

	return start, name, typ, err
}

func (p *parser) parseTypeName() (Token, error) {
	typ, err := p.expect(IDENTIFIER, "type name")
	if err != nil {
		return typ, err
	}

	if _, ok := LookupType(typ.Literal); !ok {
		return typ, p.errorf(typ, "unknown type %q", typ.Literal)
	}

	return typ, nil
}

// parseStore parses: "store" IDENT "as" TYPE ("=" declaration)?.
func (p *parser) parseStore() (*Node, error) {
	start, name, typ, err := p.parseBinding()
	if err != nil {
		return nil, err
	}

	if p.curr.Type != EQUALS {
		return NewVarAssignNode(name.Literal, typ.Literal, nil, start, typ.End), nil
	}

	p.advance()

	init, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}

	return NewVarAssignNode(name.Literal, typ.Literal, init, start, init.End), nil
}

// parseDefine parses: "define" IDENT "as" TYPE "=" declaration.
func (p *parser) parseDefine() (*Node, error) {
	start, name, typ, err := p.parseBinding()
	if err != nil {
		return nil, err
	}

	if _, err = p.expect(EQUALS, `"=" and constant value`); err != nil {
		return nil, err
	}

	init, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}

	return NewDefineConstNode(name.Literal, typ.Literal, init, start, init.End), nil
}

// parseLogic parses: negation (("and" | "or") negation)*.
func (p *parser) parseLogic() (*Node, error) {
	left, err := p.parseNegation()
	if err != nil {
		return nil, err
	}

	for {
		var kind NodeKind

		switch {
		case p.curr.IsKeyword(KeywordAnd):
			kind = AndNode
		case p.curr.IsKeyword(KeywordOr):
			kind = OrNode
		default:
			return left, nil
		}

		p.advance()

		right, err := p.parseNegation()
		if err != nil {
			return nil, err
		}

		left = NewBinaryNode(kind, left, right)
	}
}

// parseNegation parses: ("not" | "!") negation | additive.
func (p *parser) parseNegation() (*Node, error) {
	if !p.curr.IsKeyword(KeywordNot) && p.curr.Type != BANG {
		return p.parseAdditive()
	}

	start := p.curr.Start
	p.advance()

	operand, err := p.parseNegation()
	if err != nil {
		return nil, err
	}

	return NewUnaryNode(NotNode, operand, start), nil
}

// parseAdditive parses: term (("+" | "-") term)*.
func (p *parser) parseAdditive() (*Node, error) {
	return p.parseLeftAssoc(p.parseTerm, map[TokenType]NodeKind{
		PLUS:  AddNode,
		MINUS: SubNode,
	})
}

// parseTerm parses: sign (("*" | "/" | "%" | "**") sign)*.
func (p *parser) parseTerm() (*Node, error) {
	return p.parseLeftAssoc(p.parseSign, map[TokenType]NodeKind{
		MULTIPLY: MulNode,
		DIVIDE:   DivNode,
		MODULO:   ModNode,
		POWER:    PowerNode,
	})
}

func (p *parser) parseLeftAssoc(
	operand func() (*Node, error),
	ops map[TokenType]NodeKind,
) (*Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		kind, ok := ops[p.curr.Type]
		if !ok {
			return left, nil
		}

		p.advance()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = NewBinaryNode(kind, left, right)
	}
}

// parseSign parses: ("+" | "-") sign | cast.
func (p *parser) parseSign() (*Node, error) {
	var kind NodeKind

	switch p.curr.Type {
	case PLUS:
		kind = PositiveNode
	case MINUS:
		kind = NegativeNode
	default:
		return p.parseCast()
	}

	start := p.curr.Start
	p.advance()

	operand, err := p.parseSign()
	if err != nil {
		return nil, err
	}

	return NewUnaryNode(kind, operand, start), nil
}

// parseCast parses: primary ("as" TYPE)*.
func (p *parser) parseCast() (*Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for p.curr.IsKeyword(KeywordAs) {
		p.advance()

		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}

		n = NewCastNode(n, typ.Literal, typ.End)
	}

	return n, nil
}

// parsePrimary parses a parenthesized declaration, a literal, a variable
// read, or a reassignment.
func (p *parser) parsePrimary() (*Node, error) {
	tok := p.curr

	switch tok.Type {
	case LPAREN:
		p.advance()

		n, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}

		if _, err = p.expect(RPAREN, `")"`); err != nil {
			return nil, err
		}

		return n, nil

	case INT:
		p.advance()

		n, err := strconv.ParseInt(tok.Literal, 10, 32)
		if err != nil {
			return nil, p.numberFault(tok, err)
		}

		return NewIntegerNode(int32(n), tok.Start, tok.End), nil

	case DOUBLE:
		p.advance()

		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.numberFault(tok, err)
		}

		return NewDoubleNode(f, tok.Start, tok.End), nil

	case STRING:
		return p.parseString()

	case KEYWORD:
		if tok.Literal == KeywordTrue || tok.Literal == KeywordFalse {
			p.advance()

			return NewBooleanNode(tok.Literal == KeywordTrue, tok.Start, tok.End), nil
		}

	case IDENTIFIER:
		if p.peek().Type == EQUALS {
			p.advance()
			p.advance()

			init, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}

			return NewVarModifyNode(tok.Literal, init, tok.Start), nil
		}

		p.advance()

		return NewVarAccessNode(tok.Literal, tok.Start, tok.End), nil

	case INC, DEC:
		return nil, p.errorf(tok, "operator %s is not supported", tok.Literal)
	}

	return nil, p.unexpected("expression")
}

func (p *parser) numberFault(tok Token, err error) *Fault {
	if errors.Is(err, strconv.ErrRange) {
		return newFault(TypeOverflow, tok.Start, tok.End,
			"number %s is out of range", tok.Literal)
	}

	return p.errorf(tok, "invalid number %s", tok.Literal)
}

// parseString joins adjacent double-quoted literals into one string.
func (p *parser) parseString() (*Node, error) {
	first := p.curr
	text := first.Literal
	end := first.End

	p.advance()

	for p.curr.Type == STRING {
		if !first.Concat || !p.curr.Concat {
			return nil, p.errorf(p.curr,
				"only double-quoted strings may be concatenated")
		}

		text += p.curr.Literal
		end = p.curr.End

		if len(text) > p.maxStr {
			return nil, newFault(TypeOverflow, first.Start, end,
				"string literal exceeds %d bytes", p.maxStr)
		}

		p.advance()
	}

	return NewStringNode(text, first.Start, end), nil
}
