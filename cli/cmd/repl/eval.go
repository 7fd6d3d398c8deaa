package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/log"
)

// inputLabel identifies interactive input in diagnostics.
const inputLabel = "<input>"

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "enter", "leave", "edit", "clear", "quit"}

func helpMessage() string {
	return `
Commands (press Esc to toggle mode, or prefix with ':' in plain mode):

  help          Print this message
  vars          List variables visible from the current scope
  enter [name]  Open a nested scope
  leave         Discard the current scope and return to its parent
  edit          Edit source in external $EDITOR and run it
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type a statement to evaluate it; declarations persist between lines
  An unclosed string continues onto the next line
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// outcome is the result of one line of input.
type outcome struct {
	// results holds one rendered line per statement.
	results []string
	// report is the rendered fault, if evaluation failed.
	report string
	// info is command output that is neither a result nor a fault.
	info string
	// pending reports that input is incomplete and more is expected.
	pending bool
	clear   bool
	quit    bool
	edit    bool
}

// evaluator runs input lines against a session. It is shared by the
// full-screen and plain front ends.
type evaluator struct {
	session *lang.Session
	logger  log.Logger
	pending strings.Builder
	last    string
	scopes  int
}

func newEvaluator(session *lang.Session, logger log.Logger) *evaluator {
	return &evaluator{session: session, logger: logger}
}

// Pending reports whether a partial statement is buffered.
func (e *evaluator) Pending() bool { return e.pending.Len() > 0 }

// Reset discards any buffered partial statement.
func (e *evaluator) Reset() { e.pending.Reset() }

// Eval runs line, joined to any buffered partial statement.
func (e *evaluator) Eval(ctx context.Context, line string) outcome {
	if e.pending.Len() > 0 {
		e.pending.WriteByte('\n')
	}

	e.pending.WriteString(line)
	src := e.pending.String()

	values, err := e.session.Exec(ctx, src, inputLabel)
	if errors.Is(err, lang.ErrUnclosedString) {
		e.logger.TraceContext(ctx, "repl continuation",
			slog.Int("length", len(src)))

		return outcome{pending: true}
	}

	e.pending.Reset()
	e.last = src

	return e.render(ctx, src, values, err)
}

// Run executes a complete batch, such as the contents of an edited file.
func (e *evaluator) Run(ctx context.Context, src, label string) outcome {
	e.pending.Reset()

	values, err := e.session.Exec(ctx, src, label)
	if err == nil {
		e.last = src
	}

	return e.render(ctx, src, values, err)
}

func (e *evaluator) render(
	ctx context.Context,
	src string,
	values []*lang.Value,
	err error,
) outcome {
	var out outcome

	if err != nil {
		var f *lang.Fault
		if errors.As(err, &f) {
			out.report = strings.TrimRight(f.Report(src), "\n")
		} else {
			out.report = err.Error()
		}

		e.logger.TraceContext(ctx, "repl eval result",
			slog.String("result_type", "fault"),
			slog.Any("error", err))

		return out
	}

	for _, v := range values {
		out.results = append(out.results, display(v))
	}

	e.logger.TraceContext(ctx, "repl eval result",
		slog.Int("result_count", len(values)))

	return out
}

// Command runs a control command.
func (e *evaluator) Command(ctx context.Context, input string) outcome {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return outcome{}
	}

	cmd, args := parts[0], parts[1:]

	e.logger.TraceContext(ctx, "repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args))

	switch cmd {
	case "q", "quit", "exit":
		return outcome{quit: true}

	case "h", "help":
		return outcome{info: helpMessage()}

	case "v", "vars":
		return outcome{info: e.vars()}

	case "enter":
		e.scopes++

		name := "scope " + strconv.Itoa(e.scopes)
		if len(args) > 0 {
			name = strings.Join(args, " ")
		}

		e.session.Enter(name, lang.StartPosition(inputLabel))

		return outcome{info: "entered " + e.scopePath()}

	case "leave":
		if !e.session.Leave() {
			return outcome{report: "already at top-level scope " + e.scopePath()}
		}

		return outcome{info: "returned to " + e.scopePath()}

	case "c", "clear":
		return outcome{clear: true}

	case "e", "edit":
		return outcome{edit: true}

	default:
		return outcome{report: "Unknown command: " + cmd + " (try 'help')"}
	}
}

// vars lists every visible variable with its type and value.
func (e *evaluator) vars() string {
	names := e.session.Names()
	if len(names) == 0 {
		return "  (no variables)"
	}

	var b strings.Builder

	for _, name := range names {
		if v, ok := e.session.Lookup(name); ok {
			fmt.Fprintf(&b, "  %s %s\n", name, hintStyle.Render(preview(v)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// scopePath renders the chain of scopes from the top level to the current
// one, separated by " > ".
func (e *evaluator) scopePath() string {
	var names []string

	for c := e.session.Scope(); c != nil; c = c.Parent {
		names = append([]string{c.Name}, names...)
	}

	return strings.Join(names, " > ")
}

// Prompt returns the eval-mode prompt for the current state.
func (e *evaluator) Prompt() string {
	if e.Pending() {
		return continuePrompt
	}

	if depth := e.session.Scope().Depth(); depth > 0 {
		return strings.Repeat("·", depth) + evalPrompt
	}

	return evalPrompt
}

// display renders a value the way it would be written in source: strings
// are quoted and list elements are rendered recursively.
func display(v *lang.Value) string {
	switch v.Type {
	case lang.String:
		return strconv.Quote(v.Str)
	case lang.List:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = display(e)
		}

		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.String()
	}
}

// preview renders a value with its type, shortened to fit a hint line.
func preview(v *lang.Value) string {
	const maxPreview = 40

	s := display(v)
	if r := []rune(s); len(r) > maxPreview {
		s = string(r[:maxPreview-3]) + "..."
	}

	return v.Type.String() + " = " + s
}
