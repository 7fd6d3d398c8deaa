package log_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/stash/log"
)

func Example_basic() {
	logger := log.Make(os.Stdout, log.WithPretty(false), log.WithTimeLayout("none"))
	logger.Info("session started", slog.String("scope", "global"))
	// Output:
	// {"level":"INFO","msg":"session started","scope":"global"}
}

func Example_configuration() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelDebug),
		log.WithTimeLayout("RFC3339Nano"),
		log.WithCaller(true))

	logger.Debug("debug message with caller info")
}

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("history file unreadable", slog.String("path", "history"))
	logger.Error("exec failed", slog.String("error", "Undefined Variable"))
}

func Example_textFormat() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"))
	logger.Info("exec", slog.String("label", "main.stash"), slog.Int("length", 42))
	// Output:
	// level=INFO msg=exec label=main.stash length=42
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout)
	logger = logger.With(slog.String("label", "<stdin>"))

	logger.Info("batch started")
	logger.Debug("batch details", slog.Int("statements", 3))
}

func Example_withContext() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.Make(os.Stdout)

	logger.InfoContext(ctx, "evaluating batch")
	logger.DebugContext(ctx, "scope entered", slog.String("scope", "block"))
}
