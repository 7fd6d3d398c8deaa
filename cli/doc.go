// Package cli contains the command line interface for stash.
//
// # Usage
//
//	stash [flags] [file ...]           run files, or stdin, in one session
//	stash repl [--plain] [file ...]    interactive session
//	stash tokens|ast [-o FORMAT] FILE  dump the lexer or parser output
//	stash asm [-o OUT] FILE            translate to NASM assembly
//	stash init [--force]               write the configuration file
//
// Relative source names are searched for in the working directory and then
// in each directory of STASH_PATH, with and without the .stash extension.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory, keyed by flag name. Command-line flags override the file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
