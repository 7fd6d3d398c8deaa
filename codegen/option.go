package codegen

import "github.com/ardnew/stash/log"

// DefaultEntry is the name of the program entry point.
const DefaultEntry = "_start"

type options struct {
	logger   log.Logger
	entry    string
	comments bool
}

// Option is a functional option that configures [Generate].
type Option func(*options)

// WithLogger sets the logger that traces each generated statement.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEntry sets the global symbol of the program entry point.
// An empty name selects [DefaultEntry].
func WithEntry(name string) Option {
	return func(o *options) {
		if name == "" {
			name = DefaultEntry
		}

		o.entry = name
	}
}

// WithComments controls whether each statement is preceded by a comment
// holding its source form.
func WithComments(enable bool) Option {
	return func(o *options) { o.comments = enable }
}

func makeOptions(opts ...Option) options {
	o := options{entry: DefaultEntry, comments: true}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
