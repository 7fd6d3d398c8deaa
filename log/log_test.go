package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("default level = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("default format = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller != DefaultCaller || logger.pretty != DefaultPretty {
		t.Errorf("default caller %v pretty %v", logger.caller, logger.pretty)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name   string
		fn     func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.fn(Make(&buf, WithLevel(tt.min)), "message")

			if logged := buf.Len() > 0; logged != tt.logged {
				t.Errorf("logged = %v, want %v", logged, tt.logged)
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithFormat(FormatJSON),
		WithPretty(false),
		WithTimeLayout("none"))

	logger.With(slog.String("component", "lexer")).
		Trace("lex complete", slog.Int("token_count", 7))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	want := map[string]any{
		"level":       "TRACE",
		"msg":         "lex complete",
		"component":   "lexer",
		"token_count": float64(7),
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("%s = %v, want %v", k, rec[k], v)
		}
	}

	if _, ok := rec["time"]; ok {
		t.Error("time present with an empty layout")
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
	logger.Info("started", slog.String("key", "value"))

	out := buf.String()
	if !strings.Contains(out, "msg=started") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected text output: %s", out)
	}
}

func TestLogger_Caller(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		for _, pretty := range []bool{false, true} {
			var buf bytes.Buffer

			Make(&buf, WithCaller(true), WithFormat(format), WithPretty(pretty)).
				Info("here")

			if !strings.Contains(buf.String(), "log_test.go") {
				t.Errorf("%v pretty=%v: caller missing or wrong: %s",
					format, pretty, buf.String())
			}

			buf.Reset()

			Make(&buf, WithCaller(false), WithFormat(format), WithPretty(pretty)).
				Info("here")

			if strings.Contains(buf.String(), "source") {
				t.Errorf("%v pretty=%v: caller included when disabled", format, pretty)
			}
		}
	}
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   []string
	}{
		{
			name:   "text",
			format: FormatText,
			want: []string{
				"TRACE",
				"evaluate failed",
				"scope" + colorReset + "=" + colorCyan + "<program>",
				"fault.kind" + colorReset + "=" + colorCyan + "Arithmetic Error",
				"count" + colorReset + "=" + colorYellow + "3",
				"cause" + colorReset + "=" + colorCyan + "boom",
			},
		},
		{
			name:   "json",
			format: FormatJSON,
			want: []string{
				"{\n",
				"TRACE",
				"  " + colorGray + "scope" + colorReset + ": " + colorCyan + "<program>",
				"  " + colorGray + "fault.kind" + colorReset + ": ",
				"\n}\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := Make(&buf,
				WithLevel(LevelTrace),
				WithFormat(tt.format),
				WithPretty(true),
				WithTimeLayout("none"))

			logger.With(slog.String("scope", "<program>")).Trace("evaluate failed",
				slog.Group("fault", slog.String("kind", "Arithmetic Error")),
				slog.Int("count", 3),
				slog.Any("cause", errors.New("boom")))

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%q", w, out)
				}
			}

			if strings.Contains(out, "time") {
				t.Errorf("time present with an empty layout:\n%s", out)
			}
		})
	}
}

func TestLogger_WithGroup(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))
	slogger := slog.New(logger.Handler().WithGroup("repl"))
	slogger.Info("x", slog.String("mode", "eval"))

	if !strings.Contains(buf.String(), "repl.mode") {
		t.Errorf("group prefix missing: %s", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || wrapped.Level() != LevelDebug {
		t.Errorf("Wrap changed the original: base %v wrapped %v",
			base.Level(), wrapped.Level())
	}

	wrapped.Debug("visible")

	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not keep the output writer")
	}
}

func TestLogger_Concurrent(t *testing.T) {
	var buf safeBuffer

	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup

	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent", slog.Int("id", i))
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("got %d lines, want 100", len(lines))
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Info("test")
	l.Error("test")

	if l.With(slog.String("k", "v")).Logger != nil {
		t.Error("With on the zero logger produced a live logger")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}
}

// safeBuffer serializes writes from concurrent handlers.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf, WithPretty(false))

	for b.Loop() {
		logger.Info("benchmark", slog.Int("n", 1))
	}
}

func BenchmarkLogger_Info_Pretty(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf).With(slog.String("component", "bench"))

	for b.Loop() {
		logger.Info("benchmark", slog.Int("n", 1))
	}
}
