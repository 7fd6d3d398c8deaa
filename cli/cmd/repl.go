package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/stash/cli/cmd/repl"
	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// Repl starts an interactive session.
type Repl struct {
	Plain     bool     `help:"Use a line-oriented prompt instead of the full-screen interface" short:"p"`
	Files     []string `arg:""                                                                         help:"Source files to run before the first prompt" name:"file" optional:""`
	MaxString int      `default:"${maxString}"                                                         help:"Maximum length of a string literal"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := []lang.Option{lang.WithLogger(log.Default())}
	if r.MaxString > 0 {
		opts = append(opts, lang.WithMaxStringLength(r.MaxString))
	}

	session := lang.NewSession("", opts...)

	if len(r.Files) > 0 {
		if err := r.preload(ctx, session); err != nil {
			return err
		}
	}

	cfg := repl.Config{
		CacheDir: cacheDir(ctx),
		Logger:   log.Default(),
		Stdin:    stdinFrom(ctx),
		Stdout:   stdout(ctx),
		Stderr:   stderr(ctx),
	}

	if r.Plain {
		return repl.RunPlain(ctx, session, cfg)
	}

	return repl.Run(ctx, session, cfg)
}

// preload runs each file in session without printing results, so its
// declarations are visible from the prompt.
func (r *Repl) preload(ctx context.Context, session *lang.Session) error {
	srcs, err := readSources(ctx, r.Files)
	if err != nil {
		return err
	}

	for _, src := range srcs {
		if _, err := session.Exec(ctx, src.text, src.label); err != nil {
			reportFault(stderr(ctx), err, src.text)

			return ErrExec.Wrap(err).With(slog.String("source", src.label))
		}

		log.DebugContext(ctx, "repl preload", slog.String("source", src.label))
	}

	return nil
}

// cacheDir returns the cache directory named by the kong context in ctx, or
// "" to keep REPL history in memory.
func cacheDir(ctx context.Context) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[CacheIdentifier]
	}

	return ""
}
