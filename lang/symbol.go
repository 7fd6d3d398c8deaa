package lang

import (
	"maps"
	"slices"
)

// entry is a stored binding.
type entry struct {
	value    *Value
	constant bool
}

// SymbolTable maps names to stored values within one scope.
//
// Tables form a chain through their parents. Lookups walk the chain outward;
// declarations always bind in the receiving table. A parent table may be
// shared by any number of children.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]entry
}

// NewSymbolTable returns an empty table whose lookups fall back to parent.
// The parent may be nil.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{parent: parent, symbols: make(map[string]entry)}
}

// Parent returns the enclosing table, or nil for a top-level table.
func (t *SymbolTable) Parent() *SymbolTable { return t.parent }

// Exists reports whether name is bound in this scope.
func (t *SymbolTable) Exists(name string) bool {
	_, ok := t.symbols[name]

	return ok
}

// ExistsGlobally reports whether name is bound in this scope or any
// enclosing scope.
func (t *SymbolTable) ExistsGlobally(name string) bool {
	return t.owner(name) != nil
}

// owner returns the innermost table binding name, or nil.
func (t *SymbolTable) owner(name string) *SymbolTable {
	for s := t; s != nil; s = s.parent {
		if _, ok := s.symbols[name]; ok {
			return s
		}
	}

	return nil
}

// Get returns a copy of the value bound to name in the innermost scope that
// binds it.
func (t *SymbolTable) Get(name string) (*Value, bool) {
	s := t.owner(name)
	if s == nil {
		return nil, false
	}

	return s.symbols[name].value.Copy(), true
}

// IsConstant reports whether the innermost binding of name is immutable.
func (t *SymbolTable) IsConstant(name string) bool {
	s := t.owner(name)

	return s != nil && s.symbols[name].constant
}

// Set binds a copy of value to name in this scope, replacing any existing
// binding in this scope. Callers check for redeclaration first.
func (t *SymbolTable) Set(name string, value *Value, constant bool) {
	t.symbols[name] = entry{value: value.Copy(), constant: constant}
}

// Modify replaces the value of the innermost binding of name with a copy of
// value, keeping its mutability. It reports false, changing nothing, if name
// is not bound in any scope.
func (t *SymbolTable) Modify(name string, value *Value) bool {
	s := t.owner(name)
	if s == nil {
		return false
	}

	e := s.symbols[name]
	e.value = value.Copy()
	s.symbols[name] = e

	return true
}

// Remove deletes the binding of name from this scope.
func (t *SymbolTable) Remove(name string) { delete(t.symbols, name) }

// Clear deletes every binding in this scope.
func (t *SymbolTable) Clear() { clear(t.symbols) }

// Len returns the number of bindings in this scope.
func (t *SymbolTable) Len() int { return len(t.symbols) }

// Names returns the names bound in this scope in sorted order.
func (t *SymbolTable) Names() []string {
	return slices.Sorted(maps.Keys(t.symbols))
}

// VisibleNames returns every name visible from this scope, sorted, each
// listed once.
func (t *SymbolTable) VisibleNames() []string {
	seen := make(map[string]struct{})

	for s := t; s != nil; s = s.parent {
		for name := range s.symbols {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
