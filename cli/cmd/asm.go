package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/stash/codegen"
	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// Asm translates a source file into x86-64 NASM assembly.
type Asm struct {
	Entry    string `default:"${asmEntry}" help:"Entry point symbol"`
	Comments bool   `default:"true"        help:"Precede each statement with its source form" negatable:""`
	Output   string `                      help:"Write assembly to file instead of stdout"    short:"o" type:"path"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the asm command.
func (c *Asm) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, c.Source)
	if err != nil {
		return err
	}

	logger := log.Default()

	root, err := lang.ParseString(ctx, src.text, src.label, lang.WithLogger(logger))
	if err != nil {
		reportFault(stderr(ctx), err, src.text)

		return ErrExec.Wrap(err).With(slog.String("command", "asm"))
	}

	text, err := codegen.Generate(ctx, root,
		codegen.WithLogger(logger),
		codegen.WithEntry(c.Entry),
		codegen.WithComments(c.Comments))
	if err != nil {
		return ErrGenerate.Wrap(err).With(slog.String("source", src.label))
	}

	if c.Output == "" {
		_, err = fmt.Fprint(stdout(ctx), text)

		return err
	}

	if err := os.WriteFile(c.Output, []byte(text), 0o644); err != nil { //nolint:gosec
		return ErrGenerate.Wrap(err).With(slog.String("file", c.Output))
	}

	log.DebugContext(ctx, "wrote assembly", slog.String("path", c.Output))

	return nil
}
