package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/ardnew/stash/lang"
)

// commandPrefix introduces a control command in plain mode.
const commandPrefix = ":"

// RunPlain starts a line-oriented REPL on session. Input from a terminal is
// read with line editing and history; any other input is read line by line
// without prompts, as from a pipe.
func RunPlain(ctx context.Context, session *lang.Session, cfg Config) error {
	cfg = cfg.withDefaults()

	eval := newEvaluator(session, cfg.Logger)

	if f, ok := cfg.Stdin.(*os.File); ok && isTerminal(f) {
		return runLiner(ctx, eval, cfg)
	}

	return runBuffered(ctx, eval, cfg)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runBuffered evaluates each line of cfg.Stdin, writing results to
// cfg.Stdout and faults to cfg.Stderr. Interactive commands that need a
// terminal are ignored.
func runBuffered(ctx context.Context, eval *evaluator, cfg Config) error {
	scanner := bufio.NewScanner(cfg.Stdin)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, done := step(ctx, eval, scanner.Text())
		if done {
			return nil
		}

		writeOutcome(cfg.Stdout, cfg.Stderr, res)
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if eval.Pending() {
		// Input ended inside a string; report the fault it now is.
		res := eval.Run(ctx, eval.pending.String(), inputLabel)
		writeOutcome(cfg.Stdout, cfg.Stderr, res)
	}

	return nil
}

func runLiner(ctx context.Context, eval *evaluator, cfg Config) error {
	state := liner.NewLiner()
	defer state.Close()

	state.SetCtrlCAborts(true)
	state.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return complete(eval, line, pos)
	})

	history := cfg.history()
	if err := history.Load(); err != nil {
		fmt.Fprintf(cfg.Stderr, "Warning: could not load history: %v\n", err)
	}

	var recall strings.Builder

	for _, line := range history.Lines(modeEval) {
		// Liner history is line-oriented.
		if !strings.Contains(line, "\n") {
			recall.WriteString(line + "\n")
		}
	}

	_, _ = state.ReadHistory(strings.NewReader(recall.String()))

	cfg.Logger.TraceContext(ctx, "plain repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("history_count", history.Len()))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := state.Prompt(eval.Prompt())
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				eval.Reset()

				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(cfg.Stdout)

				return nil
			default:
				return err
			}
		}

		wasPending := eval.Pending()

		res, done := step(ctx, eval, line)
		if done {
			return nil
		}

		cmd, isCmd := strings.CutPrefix(strings.TrimSpace(line), commandPrefix)

		switch {
		case isCmd && !wasPending:
			_ = history.Add(cmd, modeCtrl)
		case !res.pending && (wasPending || strings.TrimSpace(line) != ""):
			if !strings.Contains(eval.last, "\n") {
				state.AppendHistory(eval.last)
			}

			_ = history.Add(eval.last, modeEval)
		}

		if res.edit {
			res = editPlain(ctx, eval, cfg)
		}

		writeOutcome(cfg.Stdout, cfg.Stderr, res)
	}
}

// step runs one input line, dispatching ':'-prefixed lines as commands. It
// reports done when the user asked to quit.
func step(ctx context.Context, eval *evaluator, line string) (outcome, bool) {
	if !eval.Pending() {
		if cmd, ok := strings.CutPrefix(strings.TrimSpace(line), commandPrefix); ok {
			res := eval.Command(ctx, cmd)

			return res, res.quit
		}

		if strings.TrimSpace(line) == "" {
			return outcome{}, false
		}
	}

	return eval.Eval(ctx, line), false
}

func editPlain(ctx context.Context, eval *evaluator, cfg Config) outcome {
	cmd := &editCommand{
		eval:    eval,
		ctxFunc: func() context.Context { return ctx },
		stdin:   cfg.Stdin,
		stdout:  cfg.Stdout,
		stderr:  cfg.Stderr,
	}

	err := cmd.Run()

	switch {
	case errors.Is(err, ErrEditDeclined):
		return outcome{info: "edit abandoned"}
	case err != nil:
		return outcome{report: "error: " + err.Error()}
	case !cmd.ran:
		return outcome{info: "edit cancelled"}
	default:
		return cmd.result
	}
}

// complete offers prefix completions for the word at pos.
func complete(eval *evaluator, line string, pos int) (string, []string, string) {
	word, start, end := wordBounds(line, pos)

	var candidates []string

	if rest, ok := strings.CutPrefix(strings.TrimLeft(line[:start], " \t"), commandPrefix); ok &&
		strings.TrimSpace(rest) == "" {
		candidates = ctrlCommands
	} else {
		candidates = evalCandidates(eval.session, line, start)
	}

	var matches []string

	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, c)
		}
	}

	return line[:start], matches, line[end:]
}

func writeOutcome(stdout, stderr io.Writer, res outcome) {
	for _, r := range res.results {
		fmt.Fprintln(stdout, r)
	}

	if res.info != "" {
		fmt.Fprintln(stdout, res.info)
	}

	if res.report != "" {
		fmt.Fprintln(stderr, res.report)
	}
}
