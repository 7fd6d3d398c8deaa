package lang

import (
	"strconv"
	"strings"
)

// Context is an evaluation scope: a display name, the scope it was entered
// from, and the variables it owns.
//
// The symbol table of a child Context chains to its parent's table, so names
// declared in enclosing scopes remain visible.
type Context struct {
	Parent  *Context
	Symbols *SymbolTable
	Name    string
	Entry   Position
}

// NewContext returns a scope named name. If parent is non-nil the new scope
// is nested in it and entry records where it was entered from.
func NewContext(name string, parent *Context, entry Position) *Context {
	var symbols *SymbolTable
	if parent != nil {
		symbols = NewSymbolTable(parent.Symbols)
	} else {
		symbols = NewSymbolTable(nil)
	}

	return &Context{
		Name:    name,
		Parent:  parent,
		Entry:   entry,
		Symbols: symbols,
	}
}

// IsContextIn reports whether this scope or any enclosing scope is named
// name.
func (c *Context) IsContextIn(name string) bool {
	for s := c; s != nil; s = s.Parent {
		if s.Name == name {
			return true
		}
	}

	return false
}

// Depth returns the number of enclosing scopes.
func (c *Context) Depth() int {
	n := 0
	for s := c.Parent; s != nil; s = s.Parent {
		n++
	}

	return n
}

// Traceback renders the chain of scopes leading to pos, outermost first.
func (c *Context) Traceback(pos Position) string {
	var frames []string

	for s := c; s != nil; s = s.Parent {
		frames = append(frames, "  "+frame(pos, s.Name))
		pos = s.Entry
	}

	var sb strings.Builder

	sb.WriteString("Traceback (most recent call last):\n")

	for i := len(frames) - 1; i >= 0; i-- {
		sb.WriteString(frames[i])
		sb.WriteByte('\n')
	}

	return sb.String()
}

func frame(pos Position, name string) string {
	label := pos.Label
	if label == "" {
		label = "<input>"
	}

	return "File " + strconv.Quote(label) +
		", line " + strconv.Itoa(pos.Line) +
		", in " + name
}
