package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/stash/cli/cmd"
	"github.com/ardnew/stash/codegen"
	"github.com/ardnew/stash/lang"
	"github.com/ardnew/stash/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for stash.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Execute source files in one session"`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session"`
	Tokens cmd.Tokens `cmd:""                    help:"Print the token stream of a source file"`
	AST    cmd.AST    `cmd:"" name:"ast"         help:"Print the syntax tree of a source file"`
	Asm    cmd.Asm    `cmd:""                    help:"Translate a source file to x86-64 assembly"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the stash CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":               pkg.Version,
		cmd.ConfigIdentifier:    configFilePath,
		cmd.CacheIdentifier:     pkg.CacheDir(),
		cmd.MaxStringIdentifier: strconv.Itoa(lang.DefaultMaxStringLength),
		cmd.AsmEntryIdentifier:  codegen.DefaultEntry,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply logging flags before kong parses anything, so messages logged
	// while parsing honor them.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
