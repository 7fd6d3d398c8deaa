package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/stash/log"
	"github.com/ardnew/stash/pkg"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files
// such as the one written by the init command:
//
//	log-level: debug
//	log-format: text
//	log-pretty: false
//
// Keys are flag names. Underscores may be used in place of hyphens, so
// log_level sets --log-level. Command-line flags override file values.
//
// A file that cannot be parsed is logged and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		var raw map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &raw); err != nil {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := make(config, len(raw))
		for k, v := range raw {
			cfg[k] = flagText(v)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flat map of flag values.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	if v, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return v, nil
	}

	return nil, nil
}

// flagText converts YAML numbers to strings, which kong parses with the
// flag's own mapper. Sequences are converted element-wise.
func flagText(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagText(e)
		}

		return out
	default:
		return v
	}
}
