package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// useDefault points the package-level logger at a buffer for the duration
// of the test.
func useDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	original := Default()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	Config(append([]Option{WithOutput(&buf), WithPretty(false)}, opts...)...)

	return &buf
}

func TestPackage_LogFunctions(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", func(m string, a ...slog.Attr) { TraceContext(t.Context(), m, a...) }, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"DebugContext", func(m string, a ...slog.Attr) { DebugContext(t.Context(), m, a...) }, "DEBUG"},
		{"InfoContext", func(m string, a ...slog.Attr) { InfoContext(t.Context(), m, a...) }, "INFO"},
		{"WarnContext", func(m string, a ...slog.Attr) { WarnContext(t.Context(), m, a...) }, "WARN"},
		{"ErrorContext", func(m string, a ...slog.Attr) { ErrorContext(t.Context(), m, a...) }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			out := buf.String()
			for _, want := range []string{"package message", `"level":"` + tt.level + `"`, `"key":"value"`} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %s: %s", want, out)
				}
			}
		})
	}
}

func TestPackage_With(t *testing.T) {
	buf := useDefault(t, WithFormat(FormatText))

	With(slog.String("session", "repl")).Info("ready")

	if !strings.Contains(buf.String(), "session=repl") {
		t.Errorf("attribute missing: %s", buf.String())
	}
}

func TestPackage_ConfigKeepsSettings(t *testing.T) {
	useDefault(t, WithLevel(LevelWarn))
	Config(WithFormat(FormatText))

	if Default().Level() != LevelWarn || Default().Format() != FormatText {
		t.Errorf("Config lost earlier settings: level %v format %v",
			Default().Level(), Default().Format())
	}
}
