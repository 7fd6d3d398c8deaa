package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/stash/pkg"
)

// Output formats shared by the dump commands.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// encodeJSON writes v to w as JSON. An indent of zero writes compact output.
func encodeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return ErrEncode.Wrap(pkg.ErrJSONMarshal.Wrap(err))
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// encodeYAML writes v to w as YAML. An indent of zero writes flow style.
func encodeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return ErrEncode.Wrap(pkg.ErrYAMLMarshal.Wrap(err))
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// encode writes v to w in the structured format named by format.
func encode(ctx context.Context, w io.Writer, v any, format string, indent int) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, v, indent)
	case formatYAML:
		return encodeYAML(ctx, w, v, indent)
	default:
		return ErrEncode.Wrap(pkg.ErrInvalidFormat.Wrapf("%q", format)).
			With(slog.String("format", format))
	}
}
