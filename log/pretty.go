package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// field is one rendered key/value pair of a record.
type field struct {
	key   string
	color string
	value slog.Value
}

// prettyHandler writes colorized records meant for a terminal.
//
// In text form a record is a single line of key=value pairs. In JSON form
// each pair is on its own indented line between braces. Group attributes are
// flattened into dotted keys in both forms.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	group  string  // dotted path prefixed to attribute keys
	fields []field // attributes added with WithAttrs
	json   bool
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	h := newPrettyTextHandler(w, opts)
	h.json = true

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	lowest := slog.LevelInfo
	if h.opts.Level != nil {
		lowest = h.opts.Level.Level()
	}

	return level >= lowest
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.fields)+r.NumAttrs())

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			fields = append(fields, field{a.Key, colorBlue, a.Value})
		}
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))
	fields = append(fields, field{level.Key, levelColor(r.Level), level.Value})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				colorGray,
				slog.StringValue(src.File + ":" + strconv.Itoa(src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, "", slog.StringValue(r.Message)})
	fields = append(fields, h.fields...)

	r.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, h.group, a)

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		writeJSON(buf, fields)
	} else {
		writeText(buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.fields = slices.Clip(h.fields)

	for _, a := range attrs {
		c.fields = appendAttr(c.fields, h.group, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = qualify(h.group, name)

	return &c
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	}

	return group + "." + key
}

// appendAttr resolves a and appends it to fields. Groups are flattened.
func appendAttr(fields []field, group string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields
	}

	key := qualify(group, a.Key)

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			fields = appendAttr(fields, key, ga)
		}

		return fields
	}

	return append(fields, field{key, valueColor(a.Value), a.Value})
}

func writeText(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray + f.key + colorReset + "=")
		writeValue(buf, f)
	}

	buf.WriteByte('\n')
}

func writeJSON(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  " + colorGray + f.key + colorReset + ": ")
		writeValue(buf, f)
	}

	buf.WriteString("\n}\n")
}

func writeValue(buf *bytes.Buffer, f field) {
	var s string

	switch f.value.Kind() {
	case slog.KindFloat64:
		s = strconv.FormatFloat(f.value.Float64(), 'g', -1, 64)
	case slog.KindAny:
		if err, ok := f.value.Any().(error); ok {
			s = err.Error()
		} else {
			s = f.value.String()
		}
	default:
		s = f.value.String()
	}

	if f.color == "" {
		buf.WriteString(s)

		return
	}

	buf.WriteString(f.color + s + colorReset)
}

func valueColor(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return colorYellow
	case slog.KindBool:
		if v.Bool() {
			return colorGreen
		}

		return colorRed
	case slog.KindDuration:
		return colorMagenta
	case slog.KindTime:
		return colorBlue
	}

	return colorCyan
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorCyan
	}

	return colorBlue
}
