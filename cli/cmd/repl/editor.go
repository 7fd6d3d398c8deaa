package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/stash/pkg"
)

const defaultEditor = "vi"

// editLabel identifies edited source in diagnostics.
const editLabel = "<edit>"

// editCommand implements [tea.ExecCommand] for the edit-run-retry loop. It
// writes the most recent input to a temp file, opens the user's editor, and
// runs the result in the session. On a fault the user is prompted to re-edit;
// declining returns [ErrEditDeclined].
type editCommand struct {
	eval    *evaluator
	ctxFunc func() context.Context
	result  outcome
	ran     bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-run-retry loop.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp(os.TempDir(), pkg.Name+"-repl-*"+pkg.FileExt)
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	f.Close()

	content := c.eval.last

	for {
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil // cleared content cancels the edit
		}

		c.result = c.eval.Run(ctx, content, editLabel)
		c.ran = true

		c.eval.logger.TraceContext(ctx, "editor run attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", c.result.report == ""))

		if c.result.report == "" {
			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", c.result.report)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}
	}
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...) //nolint:gosec
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
