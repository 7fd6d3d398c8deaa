package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// Run executes source files in order within one session.
type Run struct {
	Files     []string `arg:""                  help:"Source files to execute, or '-' for stdin" name:"file" optional:""`
	Quiet     bool     `                        help:"Suppress per-statement results"                                     short:"q"`
	Types     bool     `                        help:"Prefix each result with its type"                                   short:"t"`
	MaxString int      `default:"${maxString}"  help:"Maximum length of a string literal"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := readSources(ctx, r.Files)
	if err != nil {
		return err
	}

	session := lang.NewSession("", r.options()...)

	out, errOut := stdout(ctx), stderr(ctx)

	for _, src := range srcs {
		values, err := session.Exec(ctx, src.text, src.label)

		if !r.Quiet {
			writeValues(out, values, r.Types)
		}

		if err != nil {
			reportFault(errOut, err, src.text)

			return ErrExec.Wrap(err).With(slog.String("source", src.label))
		}
	}

	return nil
}

func (r *Run) options() []lang.Option {
	opts := []lang.Option{lang.WithLogger(log.Default())}

	if r.MaxString > 0 {
		opts = append(opts, lang.WithMaxStringLength(r.MaxString))
	}

	return opts
}

// writeValues prints one line per value.
func writeValues(w io.Writer, values []*lang.Value, typed bool) {
	for _, v := range values {
		if typed {
			fmt.Fprintf(w, "%s: %s\n", v.Type, v)
		} else {
			fmt.Fprintln(w, v)
		}
	}
}

// reportFault writes the traceback and snippet of a language fault to w.
// Other errors are left to the caller.
func reportFault(w io.Writer, err error, src string) {
	var f *lang.Fault
	if errors.As(err, &f) {
		fmt.Fprint(w, f.Report(src))
	}
}
