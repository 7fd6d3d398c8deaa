package pkg

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a chain of errors, outermost context first. A sentinel is a
// one-element chain; wrapping it appends detail, and the result still
// matches the sentinel with [errors.Is].
type Error []error

var (
	// ErrMakeDir is returned when a configuration or cache directory cannot
	// be created.
	ErrMakeDir = newError("failed to create directory")

	// ErrSourceNotFound is wrapped with the name that was searched for.
	ErrSourceNotFound = newError("source file not found")

	// ErrReadInput is wrapped with the underlying I/O error.
	ErrReadInput = newError("failed to read input")

	ErrJSONMarshal = newError("JSON marshal error")
	ErrYAMLMarshal = newError("YAML marshal error")

	// ErrInvalidFormat is wrapped with the rejected format name.
	ErrInvalidFormat = newError("invalid format")
)

func newError(text string) Error { return Error{errors.New(text)} }

func (e Error) Error() string {
	text := make([]string, len(e))
	for i, err := range e {
		text[i] = err.Error()
	}

	return strings.Join(text, ": ")
}

// Wrap returns a copy of e with errs appended. Nil errors are skipped.
func (e Error) Wrap(errs ...error) Error {
	chain := make(Error, len(e), len(e)+len(errs))
	copy(chain, e)

	for _, err := range errs {
		if err != nil {
			chain = append(chain, err)
		}
	}

	return chain
}

// Wrapf returns a copy of e with a formatted error appended.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

func (e Error) Unwrap() []error { return e }

// Is reports whether target is an Error whose chain is a prefix of e.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i, err := range t {
		if e[i] != err {
			return false
		}
	}

	return true
}
