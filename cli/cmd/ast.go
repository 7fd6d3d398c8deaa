package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// formatSexpr renders a tree in its parenthesized prefix form.
const formatSexpr = "sexpr"

// AST parses a source file and prints its syntax tree.
type AST struct {
	Format string `default:"sexpr" enum:"sexpr,json,yaml" help:"Output format (${enum})"        short:"o"`
	Indent int    `default:"2"                            help:"Indent width for json and yaml" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the ast command.
func (c *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	root, err := lang.ParseString(ctx, src.text, src.label, lang.WithLogger(log.Default()))
	if err != nil {
		reportFault(stderr(ctx), err, src.text)

		return ErrExec.Wrap(err).With(slog.String("command", "ast"))
	}

	out := stdout(ctx)

	if c.Format == formatSexpr {
		_, err = fmt.Fprintln(out, root)

		return err
	}

	return encode(ctx, out, root, c.Format, c.Indent)
}
