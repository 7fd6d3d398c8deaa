package cmd

import (
	"log/slog"
	"slices"
)

// Error is a command failure. It carries a fixed message, an optional cause,
// and attributes that are logged with it.
//
// Errors derived from a sentinel with Wrap or With match the sentinel under
// [errors.Is].
type Error struct {
	cause error
	msg   string
	attrs []slog.Attr
}

var (
	ErrOpenSource  = NewError("open source")
	ErrExec        = NewError("execution failed")
	ErrEncode      = NewError("encode output")
	ErrGenerate    = NewError("generate assembly")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
)

func NewError(msg string) *Error { return &Error{msg: msg} }

func (e *Error) Error() string {
	switch {
	case e.cause == nil:
		return e.msg
	case e.msg == "":
		return e.cause.Error()
	}

	return e.msg + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue groups the message, cause, and attributes.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("error", e.msg)}

	if e.cause != nil {
		attrs = append(attrs, slog.Any("cause", e.cause))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e caused by err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.cause = err

	return &c
}

// With returns a copy of e with attrs added.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(slices.Clip(e.attrs), attrs...)

	return &c
}
