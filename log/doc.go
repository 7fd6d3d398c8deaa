// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session started", slog.String("scope", "global"))
//	logger.Error("exec failed", slog.Any("fault", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Level] and [Format] implement [encoding.TextUnmarshaler], so they can be
// bound directly to command-line flags.
//
// # Package-Level Logger
//
// The package keeps a default logger that writes to standard error. [Config]
// layers options onto it, and the package functions such as [Info] and
// [TraceContext] log through it.
//
// # Context-Aware Logging
//
// Each level has both a context-aware and context-unaware variant.
// Context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Supported Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level are
// discarded.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and [FormatText].
// With pretty printing enabled (the default) both are colorized for a
// terminal, and JSON records span several lines.
package log
