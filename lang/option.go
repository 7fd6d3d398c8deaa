package lang

import "github.com/ardnew/stash/log"

// DefaultMaxStringLength is the default maximum length, in bytes, of the
// decoded text of a single string literal.
const DefaultMaxStringLength = 1 << 16

// DefaultContextName is the display name of a session's top-level scope.
const DefaultContextName = "<program>"

// options configures the lexer, parser, and interpreter.
type options struct {
	logger       log.Logger
	maxStringLen int
}

// Option is a functional option that configures the pipeline.
type Option func(*options)

// WithLogger sets the logger used to trace each pipeline stage.
// The zero [log.Logger] discards all messages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMaxStringLength sets the maximum decoded length of a string literal.
// Values less than 1 select [DefaultMaxStringLength].
func WithMaxStringLength(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultMaxStringLength
		}

		o.maxStringLen = n
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxStringLen: DefaultMaxStringLength}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
