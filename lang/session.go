package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/stash/log"
)

// Session runs successive batches of source against one long-lived scope,
// so declarations made by earlier batches remain visible to later ones.
type Session struct {
	interp *Interpreter
	global *Context
	scope  *Context
	logger log.Logger
	opts   []Option
}

// NewSession returns a session whose top-level scope is named name.
// An empty name selects [DefaultContextName].
func NewSession(name string, opts ...Option) *Session {
	if name == "" {
		name = DefaultContextName
	}

	global := NewContext(name, nil, Position{})

	return &Session{
		interp: NewInterpreter(opts...),
		global: global,
		scope:  global,
		logger: makeOptions(opts...).logger,
		opts:   opts,
	}
}

// Scope returns the scope new batches are evaluated in.
func (s *Session) Scope() *Context { return s.scope }

// Global returns the session's top-level scope.
func (s *Session) Global() *Context { return s.global }

// Enter nests a new scope named name inside the current one. Declarations in
// the new scope shadow those of enclosing scopes until [Session.Leave].
func (s *Session) Enter(name string, entry Position) *Context {
	s.scope = NewContext(name, s.scope, entry)

	return s.scope
}

// Leave discards the current scope and its declarations, returning to the
// enclosing one. It reports false if the current scope is the top level.
func (s *Session) Leave() bool {
	if s.scope.Parent == nil {
		return false
	}

	s.scope = s.scope.Parent

	return true
}

// Exec lexes, parses, and evaluates one batch of source identified by label.
// It returns one value per statement, or the first fault encountered.
//
// Statements evaluated before a fault keep their effects.
func (s *Session) Exec(
	ctx context.Context,
	src, label string,
) ([]*Value, error) {
	s.logger.DebugContext(ctx, "exec",
		slog.String("label", label),
		slog.String("scope", s.scope.Name),
		slog.Int("length", len(src)))

	root, err := ParseString(ctx, src, label, s.opts...)
	if err != nil {
		return nil, err
	}

	return s.interp.Run(ctx, root, s.scope)
}

// ExecReader reads all of r and runs it with [Session.Exec].
func (s *Session) ExecReader(
	ctx context.Context,
	r io.Reader,
	label string,
) ([]*Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("label", label))
	}

	return s.Exec(ctx, string(data), label)
}

// Lookup returns a copy of the value of name visible from the current scope.
func (s *Session) Lookup(name string) (*Value, bool) {
	return s.scope.Symbols.Get(name)
}

// Names returns every variable name visible from the current scope.
func (s *Session) Names() []string {
	return s.scope.Symbols.VisibleNames()
}
