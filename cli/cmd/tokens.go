package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// Tokens lexes a source file and prints its token stream.
type Tokens struct {
	Format string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})"    short:"o"`
	Indent int    `default:"2"                          help:"Indent width for json and yaml" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the tokens command.
func (c *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	tokens, err := lang.Lex(ctx, src.text, src.label, lang.WithLogger(log.Default()))
	if err != nil {
		reportFault(stderr(ctx), err, src.text)

		return ErrExec.Wrap(err).With(slog.String("command", "tokens"))
	}

	out := stdout(ctx)

	if c.Format != formatText {
		return encode(ctx, out, tokens, c.Format, c.Indent)
	}

	for _, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Start.Line, tok.Start.Column)
		fmt.Fprintf(out, "%-7s %s\n", pos, tok)
	}

	return nil
}
