package cmd

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stash/log"
	"github.com/ardnew/stash/pkg"
	"github.com/ardnew/stash/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

var errNoKongContext = errors.New("no command-line context")

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run writes the configuration file named by the [ConfigIdentifier] var. An
// existing file is replaced only with --force.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errNoKongContext)
	}

	path := ktx.Model.Vars()[ConfigIdentifier]
	failed := ErrWriteConfig.With(slog.String("file", path))

	data, err := yaml.MarshalWithOptions(i.buildConfig(ctx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return failed.Wrap(pkg.ErrYAMLMarshal.Wrap(err))
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flag |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flag, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return failed.With(slog.Bool("exists", true)).Wrap(ErrFileExists)
	}

	if err != nil {
		return failed.Wrap(err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()

		return failed.Wrap(err)
	}

	if err := file.Close(); err != nil {
		return failed.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path))

	return nil
}

// buildConfig collects the current value of every visible top-level flag, in
// declaration order.
func (i *Init) buildConfig(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	var entries yaml.MapSlice

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			entries = append(entries, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return entries
}

// flagValue returns the YAML representation of a flag's value, or nil if the
// flag is unset or empty.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	val := ktx.FlagValue(flag)

	switch v := val.(type) {
	case nil:
		return nil

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return nil
		}

		return string(text)

	case string:
		if v == "" {
			return nil
		}

		return v

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		return fmt.Sprint(v)
	}
}
