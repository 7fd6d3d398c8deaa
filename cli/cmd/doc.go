// Package cmd implements the stash subcommands: run, tokens, ast, asm, init
// and repl.
//
// Every command is a kong command struct with a Run(context.Context) error
// method. Commands read the parsed [kong.Context] from the context with
// [WithContext] and write to its Stdout and Stderr writers, so tests can
// capture output with [kong.Writers].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"

	// MaxStringIdentifier is the kong variable identifier containing the
	// default maximum length of a string literal.
	MaxStringIdentifier = "maxString"

	// AsmEntryIdentifier is the kong variable identifier containing the
	// default entry point symbol of generated assembly.
	AsmEntryIdentifier = "asmEntry"
)
