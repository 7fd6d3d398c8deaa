package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxRepeatLength bounds the length, in bytes, of a string produced by
// repetition.
const MaxRepeatLength = 1 << 24

// Value is a runtime value.
//
// Exactly one payload field is meaningful, selected by Type. Start, End, and
// Context record where the value was produced. They are used for diagnostics
// only and are ignored by [Value.Equal].
type Value struct {
	Context *Context
	Str     string
	List    []*Value
	Float   float64
	Start   Position
	End     Position
	Int     int32
	Type    Type
	Bool    bool
}

// NewInteger returns an Integer value.
func NewInteger(n int32) *Value { return &Value{Type: Integer, Int: n} }

// NewDouble returns a Double value.
func NewDouble(f float64) *Value { return &Value{Type: Double, Float: f} }

// NewString returns a String value.
func NewString(s string) *Value { return &Value{Type: String, Str: s} }

// NewBoolean returns a Boolean value.
func NewBoolean(b bool) *Value { return &Value{Type: Boolean, Bool: b} }

// NewList returns a List value holding elems.
func NewList(elems ...*Value) *Value {
	if elems == nil {
		elems = []*Value{}
	}

	return &Value{Type: List, List: elems}
}

// Default returns the value substituted for a declaration of type t that has
// no initializer. Lists have no default.
func Default(t Type) (*Value, error) {
	switch t {
	case Integer:
		return NewInteger(0), nil
	case Double:
		return NewDouble(0), nil
	case String:
		return NewString(""), nil
	case Boolean:
		return NewBoolean(false), nil
	default:
		return nil, ErrNoDefault.Wrapf("%s", t)
	}
}

// at stamps v with its source span and creating scope and returns v.
func (v *Value) at(start, end Position, ctx *Context) *Value {
	v.Start, v.End, v.Context = start, end, ctx

	return v
}

// Copy returns a deep copy of v. Lists are copied element by element.
func (v *Value) Copy() *Value {
	if v == nil {
		return nil
	}

	c := *v

	if v.List != nil {
		c.List = make([]*Value, len(v.List))
		for i, e := range v.List {
			c.List[i] = e.Copy()
		}
	}

	return &c
}

// Equal reports whether v and o have the same type and payload.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}

	if v.Type != o.Type {
		return false
	}

	switch v.Type {
	case Integer:
		return v.Int == o.Int
	case Double:
		return v.Float == o.Float
	case String:
		return v.Str == o.Str
	case Boolean:
		return v.Bool == o.Bool
	case List:
		if len(v.List) != len(o.List) {
			return false
		}

		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}

		return true
	}

	return false
}

// Truthy reports the truthiness of v: numbers are true when nonzero, strings
// and lists when nonempty, and booleans are their own value.
func (v *Value) Truthy() bool {
	switch v.Type {
	case Integer:
		return v.Int != 0
	case Double:
		return v.Float != 0
	case String:
		return v.Str != ""
	case Boolean:
		return v.Bool
	case List:
		return len(v.List) > 0
	}

	return false
}

// String renders v as text. A Double is rendered in its shortest form, so
// 3.0 renders as "3".
func (v *Value) String() string {
	switch v.Type {
	case Integer:
		return strconv.FormatInt(int64(v.Int), 10)
	case Double:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case String:
		return v.Str
	case Boolean:
		return strconv.FormatBool(v.Bool)
	case List:
		var sb strings.Builder

		sb.WriteByte('[')

		for i, e := range v.List {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(e.String())
		}

		sb.WriteByte(']')

		return sb.String()
	}

	return ""
}

// Native returns the payload of v as a plain Go value: int32, float64,
// string, bool, or []any.
func (v *Value) Native() any {
	switch v.Type {
	case Integer:
		return v.Int
	case Double:
		return v.Float
	case String:
		return v.Str
	case Boolean:
		return v.Bool
	case List:
		out := make([]any, len(v.List))
		for i, e := range v.List {
			out[i] = e.Native()
		}

		return out
	}

	return nil
}

// LogValue implements slog.LogValuer.
func (v *Value) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("type", v.Type.String()),
		slog.String("value", v.String()),
	)
}

func unsupported(op string, v, o *Value) error {
	return ErrUnsupportedOperation.Wrapf("%s %s %s", v.Type, op, o.Type)
}

// Add returns v + o. Adding a String to any value concatenates the text of
// both operands in order.
func (v *Value) Add(o *Value) (*Value, error) {
	if v.Type == String || o.Type == String {
		return NewString(v.String() + o.String()), nil
	}

	return arith("+", v, o,
		func(a, b int32) (int32, error) { return a + b, nil },
		func(a, b float64) (float64, error) { return a + b, nil },
	)
}

// Sub returns v - o.
func (v *Value) Sub(o *Value) (*Value, error) {
	return arith("-", v, o,
		func(a, b int32) (int32, error) { return a - b, nil },
		func(a, b float64) (float64, error) { return a - b, nil },
	)
}

// Mul returns v * o. A String multiplied by a non-negative Integer is
// repeated that many times.
func (v *Value) Mul(o *Value) (*Value, error) {
	if v.Type == String {
		if o.Type != Integer || o.Int < 0 {
			return nil, unsupported("*", v, o)
		}

		if int64(len(v.Str))*int64(o.Int) > MaxRepeatLength {
			return nil, ErrUnsupportedOperation.Wrapf(
				"repetition exceeds %d bytes", MaxRepeatLength)
		}

		return NewString(strings.Repeat(v.Str, int(o.Int))), nil
	}

	return arith("*", v, o,
		func(a, b int32) (int32, error) { return a * b, nil },
		func(a, b float64) (float64, error) { return a * b, nil },
	)
}

// Div returns v / o. Integer division truncates toward zero.
func (v *Value) Div(o *Value) (*Value, error) {
	return arith("/", v, o,
		func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}

			return a / b, nil
		},
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}

			return a / b, nil
		},
	)
}

// Mod returns v % o. The result takes the sign of the dividend.
func (v *Value) Mod(o *Value) (*Value, error) {
	return arith("%", v, o,
		func(a, b int32) (int32, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}

			return a % b, nil
		},
		func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, ErrDivisionByZero
			}

			return math.Mod(a, b), nil
		},
	)
}

// Pow returns v ** o. An Integer raised to a negative Integer power is
// truncated toward zero.
func (v *Value) Pow(o *Value) (*Value, error) {
	return arith("**", v, o, intPow, func(a, b float64) (float64, error) {
		return math.Pow(a, b), nil
	})
}

func intPow(base, exp int32) (int32, error) {
	if exp < 0 {
		switch base {
		case 0:
			return 0, ErrDivisionByZero
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}

			return -1, nil
		default:
			return 0, nil
		}
	}

	result := int32(1)

	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}

		base *= base
		exp >>= 1
	}

	return result, nil
}

// arith applies an arithmetic operator to two numeric values. The result is
// a Double if either operand is a Double.
func arith(
	op string,
	v, o *Value,
	ints func(a, b int32) (int32, error),
	floats func(a, b float64) (float64, error),
) (*Value, error) {
	if !v.Type.Numeric() || !o.Type.Numeric() {
		return nil, unsupported(op, v, o)
	}

	if v.Type == Integer && o.Type == Integer {
		n, err := ints(v.Int, o.Int)
		if err != nil {
			return nil, err
		}

		return NewInteger(n), nil
	}

	f, err := floats(v.float(), o.float())
	if err != nil {
		return nil, err
	}

	return NewDouble(f), nil
}

func (v *Value) float() float64 {
	if v.Type == Integer {
		return float64(v.Int)
	}

	return v.Float
}

// Negate returns -v for numeric v.
func (v *Value) Negate() (*Value, error) {
	switch v.Type {
	case Integer:
		return NewInteger(-v.Int), nil
	case Double:
		return NewDouble(-v.Float), nil
	}

	return nil, ErrUnsupportedOperation.Wrapf("-%s", v.Type)
}

// Abs returns the absolute value of numeric v.
func (v *Value) Abs() (*Value, error) {
	switch v.Type {
	case Integer:
		if v.Int < 0 {
			return NewInteger(-v.Int), nil
		}

		return NewInteger(v.Int), nil
	case Double:
		return NewDouble(math.Abs(v.Float)), nil
	}

	return nil, ErrUnsupportedOperation.Wrapf("+%s", v.Type)
}

// Not returns the negation of v's truthiness.
func (v *Value) Not() *Value { return NewBoolean(!v.Truthy()) }

// Cast converts v to type t. The supported conversions are Boolean to
// Integer, Double, or String; Double to Integer, truncating; and String to
// Integer, yielding the number of characters.
func (v *Value) Cast(t Type) (*Value, error) {
	switch {
	case v.Type == Boolean && t == Integer:
		if v.Bool {
			return NewInteger(1), nil
		}

		return NewInteger(0), nil

	case v.Type == Boolean && t == Double:
		if v.Bool {
			return NewDouble(1), nil
		}

		return NewDouble(0), nil

	case v.Type == Boolean && t == String:
		return NewString(strconv.FormatBool(v.Bool)), nil

	case v.Type == Double && t == Integer:
		f := math.Trunc(v.Float)
		if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
			return nil, ErrUnsupportedOperation.Wrapf(
				"%s out of range for %s", v, t)
		}

		return NewInteger(int32(f)), nil

	case v.Type == String && t == Integer:
		n := utf8.RuneCountInString(v.Str)
		if n > math.MaxInt32 {
			return nil, ErrUnsupportedOperation.Wrapf("string too long for %s", t)
		}

		return NewInteger(int32(n)), nil
	}

	return nil, ErrUnsupportedOperation.Wrapf("cast %s as %s", v.Type, t)
}
