package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrReadInput            = NewError("failed to read input")
	ErrUnsupportedOperation = NewError("unsupported operation")
	ErrDivisionByZero       = NewError("division by zero")
	ErrNoDefault            = NewError("type has no default value")
	ErrNotStatementList     = NewError("root node is not a statement list")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Error is used for conditions outside the language itself, such as I/O
// failures, and as the reason a [Value] operation could not produce a result.
// Faults in user programs are reported as [*Fault].
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error derived from the same sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// Wrapf creates a new Error wrapping a formatted error message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}

// FaultKind classifies a [Fault].
type FaultKind int

// Fault kinds raised while lexing and parsing.
const (
	IllegalCharacter FaultKind = iota + 1
	UnclosedString
	TypeOverflow
	InvalidSyntax
)

// Fault kinds raised during evaluation.
const (
	IllegalOperation FaultKind = iota + 16
	UndefinedVariable
	RedeclaredVariable
	TypeMismatch
	Arithmetic
)

func (k FaultKind) String() string {
	switch k {
	case IllegalCharacter:
		return "Illegal Character"
	case UnclosedString:
		return "Unclosed String"
	case TypeOverflow:
		return "Type Overflow"
	case InvalidSyntax:
		return "Invalid Syntax"
	case IllegalOperation:
		return "Illegal Operation"
	case UndefinedVariable:
		return "Undefined Variable"
	case RedeclaredVariable:
		return "Redeclared Variable"
	case TypeMismatch:
		return "Type Mismatch"
	case Arithmetic:
		return "Arithmetic Error"
	default:
		return "FaultKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Runtime reports whether faults of this kind are raised by evaluation rather
// than by lexing or parsing.
func (k FaultKind) Runtime() bool { return k >= IllegalOperation }

// Fault is a positioned description of a lex, parse, or evaluation failure.
//
// A Fault matches any other Fault of the same kind under errors.Is, so the
// sentinel values below can be used to test for a kind.
type Fault struct {
	Context *Context
	Message string
	Start   Position
	End     Position
	Kind    FaultKind
}

// Sentinel faults, one per kind, for use with errors.Is.
var (
	ErrIllegalCharacter   = &Fault{Kind: IllegalCharacter}
	ErrUnclosedString     = &Fault{Kind: UnclosedString}
	ErrTypeOverflow       = &Fault{Kind: TypeOverflow}
	ErrInvalidSyntax      = &Fault{Kind: InvalidSyntax}
	ErrIllegalOperation   = &Fault{Kind: IllegalOperation}
	ErrUndefinedVariable  = &Fault{Kind: UndefinedVariable}
	ErrRedeclaredVariable = &Fault{Kind: RedeclaredVariable}
	ErrTypeMismatch       = &Fault{Kind: TypeMismatch}
	ErrArithmetic         = &Fault{Kind: Arithmetic}
)

func newFault(
	kind FaultKind,
	start, end Position,
	format string,
	args ...any,
) *Fault {
	return &Fault{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Start:   start,
		End:     end,
	}
}

// in attaches the evaluation scope the fault was raised in.
func (f *Fault) in(ctx *Context) *Fault {
	f.Context = ctx

	return f
}

// Error implements the error interface.
func (f *Fault) Error() string {
	var sb strings.Builder

	if f.Start.Line > 0 {
		sb.WriteString(f.Start.String())
		sb.WriteString(": ")
	}

	sb.WriteString(f.Kind.String())

	if f.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(f.Message)
	}

	return sb.String()
}

// Is reports whether target is a Fault of the same kind.
func (f *Fault) Is(target error) bool {
	t, ok := target.(*Fault)

	return ok && t.Kind == f.Kind
}

// LogValue implements slog.LogValuer.
func (f *Fault) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", f.Kind.String()),
		slog.String("message", f.Message),
		slog.Any("start", f.Start),
		slog.Any("end", f.End),
	}

	if f.Context != nil {
		attrs = append(attrs, slog.String("context", f.Context.Name))
	}

	return slog.GroupValue(attrs...)
}

// Report renders the fault for a human reader: a traceback when the fault
// was raised during evaluation, the error line, and the underlined source
// excerpt from src.
func (f *Fault) Report(src string) string {
	var sb strings.Builder

	if f.Context != nil {
		sb.WriteString(f.Context.Traceback(f.Start))
	}

	sb.WriteString(f.Error())
	sb.WriteByte('\n')
	sb.WriteString(f.Snippet(src))

	return sb.String()
}

// Snippet returns the lines of src covered by the fault's span, each followed
// by a marker line underlining the covered columns.
//
// An empty string is returned if the span lies outside src.
func (f *Fault) Snippet(src string) string {
	lines := strings.Split(src, "\n")

	first, last := f.Start.Line, f.End.Line
	if last > first && f.End.Column <= 1 {
		last-- // end is exclusive, so the span stops at the previous line
	}

	if last < first {
		last = first
	}

	if first < 1 || first > len(lines) {
		return ""
	}

	last = min(last, len(lines))
	width := len(strconv.Itoa(last))

	var buf strings.Builder

	for n := first; n <= last; n++ {
		line := []rune(strings.TrimSuffix(lines[n-1], "\r"))

		lo, hi := 1, len(line)+1
		if n == first {
			lo = f.Start.Column
		}

		if n == f.End.Line {
			hi = f.End.Column
		}

		if hi <= lo {
			hi = lo + 1
		}

		num := strconv.Itoa(n)
		buf.WriteString("  ")
		buf.WriteString(strings.Repeat(" ", width-len(num)))
		buf.WriteString(num)
		buf.WriteString(" | ")
		buf.WriteString(string(line))
		buf.WriteByte('\n')

		buf.WriteString(strings.Repeat(" ", width+5))

		for col := 1; col < lo; col++ {
			// Keep tabs so the marker lines up with the source text.
			if col <= len(line) && line[col-1] == '\t' {
				buf.WriteByte('\t')
			} else {
				buf.WriteByte(' ')
			}
		}

		buf.WriteString(strings.Repeat("^", hi-lo))
		buf.WriteByte('\n')
	}

	return buf.String()
}
