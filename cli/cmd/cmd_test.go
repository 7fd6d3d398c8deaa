package cmd

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stash/codegen"
	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/pkg"
)

// testCLI mirrors the command set of the stash CLI.
type testCLI struct {
	Run    Run    `cmd:""`
	Tokens Tokens `cmd:""`
	AST    AST    `cmd:"" name:"ast"`
	Asm    Asm    `cmd:""`
	Init   Init   `cmd:""`
}

// result is the captured outcome of a command run.
type result struct {
	stdout string
	stderr string
	err    error
}

// execute parses args and runs the selected command with stdin as standard
// input. The configuration file is placed in a fresh temporary directory.
func execute(t *testing.T, stdin string, args ...string) result {
	t.Helper()

	var (
		cli         testCLI
		out, errOut bytes.Buffer
		ctx         context.Context
	)

	parser, err := kong.New(&cli,
		kong.Writers(&out, &errOut),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		kong.Vars{
			ConfigIdentifier:    filepath.Join(t.TempDir(), "config.yaml"),
			CacheIdentifier:     t.TempDir(),
			MaxStringIdentifier: strconv.Itoa(lang.DefaultMaxStringLength),
			AsmEntryIdentifier:  codegen.DefaultEntry,
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", args, err)
	}

	ctx = WithContext(WithStdin(t.Context(), strings.NewReader(stdin)), ktx)

	err = ktx.Run(ctx)

	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()

	a := writeFile(t, dir, "a.stash", "1")
	b := writeFile(t, dir, "b.stash", "2")

	link := filepath.Join(dir, "alias.stash")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		names  []string
		stdin  string
		labels []string
		texts  []string
	}{
		{
			name:   "none_reads_stdin",
			stdin:  "9",
			labels: []string{stdinLabel},
			texts:  []string{"9"},
		},
		{
			name:   "in_order",
			names:  []string{b, a},
			labels: []string{b, a},
			texts:  []string{"2", "1"},
		},
		{
			name:   "duplicates_by_identity",
			names:  []string{a, link, a},
			labels: []string{a},
			texts:  []string{"1"},
		},
		{
			name:   "stdin_last_once",
			names:  []string{"-", a, "-"},
			stdin:  "3",
			labels: []string{a, stdinLabel},
			texts:  []string{"1", "3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithStdin(t.Context(), strings.NewReader(tt.stdin))

			srcs, err := readSources(ctx, tt.names)
			if err != nil {
				t.Fatalf("readSources() error: %v", err)
			}

			if len(srcs) != len(tt.labels) {
				t.Fatalf("readSources() = %d sources, want %d", len(srcs), len(tt.labels))
			}

			for i, src := range srcs {
				if src.label != tt.labels[i] || src.text != tt.texts[i] {
					t.Errorf("source %d = {%q, %q}, want {%q, %q}",
						i, src.label, src.text, tt.labels[i], tt.texts[i])
				}
			}
		})
	}
}

func TestReadSources_Missing(t *testing.T) {
	_, err := readSources(t.Context(), []string{filepath.Join(t.TempDir(), "nope")})

	if !errors.Is(err, ErrOpenSource) {
		t.Errorf("error = %v, want ErrOpenSource", err)
	}

	if !errors.Is(err, pkg.ErrSourceNotFound) {
		t.Errorf("error = %v, want ErrSourceNotFound", err)
	}
}

func TestStdout_NoKongContext(t *testing.T) {
	if stdout(t.Context()) != os.Stdout || stderr(t.Context()) != os.Stderr {
		t.Error("writers without a kong context should be the process streams")
	}

	if stdinFrom(t.Context()) != os.Stdin {
		t.Error("stdin without an override should be os.Stdin")
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	base := ErrExec.With(slog.String("source", "a.stash"))
	err := base.Wrap(cause).With(slog.Int("line", 3))

	if !errors.Is(err, ErrExec) || !errors.Is(err, cause) {
		t.Errorf("errors.Is failed for %v", err)
	}

	if errors.Is(err, ErrEncode) {
		t.Error("matched an unrelated sentinel")
	}

	if got, want := err.Error(), "execution failed: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if len(base.attrs) != 1 || len(ErrExec.attrs) != 0 {
		t.Errorf("With modified its receiver: base %v sentinel %v",
			base.attrs, ErrExec.attrs)
	}

	group := err.LogValue().Group()
	if len(group) != 4 {
		t.Errorf("LogValue() = %v, want error, cause and two attrs", group)
	}
}
