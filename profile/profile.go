package profile

// Stopper ends a profiling session started by [Config.Start].
type Stopper interface{ Stop() }

// Config describes a profiling session.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option applies a configuration option to a [Config].
type Option func(Config) Config

// New returns a Config with the given options applied.
func New(opts ...Option) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode sets the profiling mode. An unknown or empty mode disables
// profiling.
func WithMode(mode string) Option {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath sets the directory profile data is written to.
func WithPath(path string) Option {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet suppresses the profiler's own start and stop messages.
func WithQuiet(quiet bool) Option {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

// Enabled reports whether Start would begin a profiling session.
func (c Config) Enabled() bool {
	for _, m := range Modes() {
		if m == c.Mode {
			return true
		}
	}

	return false
}

// Start begins profiling and returns the handle that ends it.
// Both Start and Stop are always safely callable.
func (c Config) Start() Stopper {
	if !c.Enabled() {
		return ignore{}
	}

	return start(c)
}

type ignore struct{}

func (ignore) Stop() {}
