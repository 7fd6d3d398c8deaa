package lang

import "strconv"

// Type is the kind of a runtime [Value].
type Type int

// Native value types.
const (
	Integer Type = iota
	Double
	String
	Boolean
	List
)

// Native type names as written in declarations.
const (
	TypeNameInteger = "int"
	TypeNameDouble  = "double"
	TypeNameString  = "string"
	TypeNameBoolean = "bool"
	TypeNameList    = "list"
)

// TypeNames lists the native type names in declaration order of [Type].
var TypeNames = []string{
	TypeNameInteger,
	TypeNameDouble,
	TypeNameString,
	TypeNameBoolean,
	TypeNameList,
}

// LookupType returns the native type with the given name.
func LookupType(name string) (Type, bool) {
	switch name {
	case TypeNameInteger:
		return Integer, true
	case TypeNameDouble:
		return Double, true
	case TypeNameString:
		return String, true
	case TypeNameBoolean:
		return Boolean, true
	case TypeNameList:
		return List, true
	}

	return 0, false
}

// String returns the type's name as written in declarations.
func (t Type) String() string {
	if t >= 0 && int(t) < len(TypeNames) {
		return TypeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Numeric reports whether values of type t take part in arithmetic.
func (t Type) Numeric() bool { return t == Integer || t == Double }
