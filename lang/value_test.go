package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want string
	}{
		{"integer", NewInteger(-12), "-12"},
		{"whole double", NewDouble(3.0), "3"},
		{"fractional double", NewDouble(2.5), "2.5"},
		{"string", NewString("hi"), "hi"},
		{"boolean", NewBoolean(true), "true"},
		{"empty list", NewList(), "[]"},
		{"list", NewList(NewInteger(1), NewString("a")), "[1, a]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		v    *Value
		want bool
	}{
		{NewInteger(0), false},
		{NewInteger(-1), true},
		{NewDouble(0), false},
		{NewDouble(0.1), true},
		{NewString(""), false},
		{NewString("0"), true},
		{NewBoolean(false), false},
		{NewBoolean(true), true},
		{NewList(), false},
		{NewList(NewInteger(0)), true},
	}

	for _, tt := range tests {
		if got := tt.v.Truthy(); got != tt.want {
			t.Errorf("%s %q Truthy() = %v, want %v", tt.v.Type, tt.v, got, tt.want)
		}
	}
}

func TestDefault(t *testing.T) {
	for _, typ := range []Type{Integer, Double, String, Boolean} {
		v, err := Default(typ)
		if err != nil {
			t.Fatalf("Default(%s) error: %v", typ, err)
		}

		if v.Type != typ || v.Truthy() {
			t.Errorf("Default(%s) = %s %q", typ, v.Type, v)
		}
	}

	if _, err := Default(List); !errors.Is(err, ErrNoDefault) {
		t.Errorf("Default(list) error = %v, want ErrNoDefault", err)
	}
}

func TestValue_Copy(t *testing.T) {
	inner := NewList(NewInteger(1))
	orig := NewList(inner, NewString("x"))

	c := orig.Copy()
	c.List[0].List[0].Int = 99
	c.List[1].Str = "y"

	if orig.List[0].List[0].Int != 1 || orig.List[1].Str != "x" {
		t.Errorf("mutating copy changed original: %s", orig)
	}

	if !orig.Equal(NewList(NewList(NewInteger(1)), NewString("x"))) {
		t.Errorf("original no longer equal to itself: %s", orig)
	}
}

func TestValue_Equal(t *testing.T) {
	if NewInteger(1).Equal(NewDouble(1)) {
		t.Error("values of different types compared equal")
	}

	a := NewInteger(1).at(Position{Line: 1}, Position{Line: 2}, nil)
	if !a.Equal(NewInteger(1)) {
		t.Error("span should not affect equality")
	}
}

func TestValue_Arithmetic(t *testing.T) {
	type op func(v, o *Value) (*Value, error)

	var (
		add = (*Value).Add
		sub = (*Value).Sub
		mul = (*Value).Mul
		div = (*Value).Div
		mod = (*Value).Mod
		pow = (*Value).Pow
	)

	tests := []struct {
		name string
		fn   op
		v, o *Value
		want *Value
	}{
		{"int add", add, NewInteger(2), NewInteger(3), NewInteger(5)},
		{"promoted add", add, NewInteger(2), NewDouble(0.5), NewDouble(2.5)},
		{"promoted sub", sub, NewDouble(2), NewInteger(3), NewDouble(-1)},
		{"int wraps", add, NewInteger(math.MaxInt32), NewInteger(1), NewInteger(math.MinInt32)},
		{"string add int", add, NewString("x"), NewInteger(3), NewString("x3")},
		{"int add string", add, NewInteger(3), NewString("x"), NewString("3x")},
		{"string add double", add, NewString("v"), NewDouble(2.5), NewString("v2.5")},
		{"string add bool", add, NewString("b"), NewBoolean(true), NewString("btrue")},
		{"int mul", mul, NewInteger(6), NewInteger(7), NewInteger(42)},
		{"repeat", mul, NewString("ab"), NewInteger(3), NewString("ababab")},
		{"repeat zero", mul, NewString("ab"), NewInteger(0), NewString("")},
		{"int div truncates", div, NewInteger(7), NewInteger(2), NewInteger(3)},
		{"negative div truncates", div, NewInteger(10), NewInteger(-3), NewInteger(-3)},
		{"double div", div, NewInteger(7), NewDouble(2), NewDouble(3.5)},
		{"mod dividend sign", mod, NewInteger(10), NewInteger(-3), NewInteger(1)},
		{"mod negative dividend", mod, NewInteger(-10), NewInteger(3), NewInteger(-1)},
		{"double mod", mod, NewDouble(7.5), NewInteger(2), NewDouble(1.5)},
		{"pow", pow, NewInteger(2), NewInteger(10), NewInteger(1024)},
		{"pow zero", pow, NewInteger(5), NewInteger(0), NewInteger(1)},
		{"pow negative exponent", pow, NewInteger(2), NewInteger(-1), NewInteger(0)},
		{"pow one", pow, NewInteger(1), NewInteger(-5), NewInteger(1)},
		{"pow minus one odd", pow, NewInteger(-1), NewInteger(-3), NewInteger(-1)},
		{"pow minus one even", pow, NewInteger(-1), NewInteger(-4), NewInteger(1)},
		{"double pow", pow, NewDouble(4), NewDouble(0.5), NewDouble(2)},
		{"promoted mul", mul, NewInteger(2), NewDouble(0.5), NewDouble(1)},
		{"promoted mul reversed", mul, NewDouble(0.5), NewInteger(4), NewDouble(2)},
		{"promoted div reversed", div, NewDouble(7), NewInteger(2), NewDouble(3.5)},
		{"promoted mod reversed", mod, NewInteger(7), NewDouble(2.5), NewDouble(2)},
		{"promoted pow", pow, NewInteger(2), NewDouble(0.5), NewDouble(math.Sqrt(2))},
		{"promoted pow reversed", pow, NewDouble(2), NewInteger(2), NewDouble(4)},
		{"promoted add reversed", add, NewDouble(0.5), NewInteger(2), NewDouble(2.5)},
		{"promoted sub reversed", sub, NewInteger(3), NewDouble(0.5), NewDouble(2.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.v, tt.o)
			if err != nil {
				t.Fatalf("error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s %q, want %s %q", got.Type, got, tt.want.Type, tt.want)
			}
		})
	}
}

func TestValue_ArithmeticErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func(v, o *Value) (*Value, error)
		v, o *Value
		want error
	}{
		{"int div zero", (*Value).Div, NewInteger(1), NewInteger(0), ErrDivisionByZero},
		{"double div zero", (*Value).Div, NewDouble(1), NewDouble(0), ErrDivisionByZero},
		{"mixed div zero", (*Value).Div, NewInteger(1), NewDouble(0), ErrDivisionByZero},
		{"int mod zero", (*Value).Mod, NewInteger(1), NewInteger(0), ErrDivisionByZero},
		{"double mod zero", (*Value).Mod, NewDouble(1.5), NewInteger(0), ErrDivisionByZero},
		{"zero negative power", (*Value).Pow, NewInteger(0), NewInteger(-1), ErrDivisionByZero},
		{"negative repeat", (*Value).Mul, NewString("ab"), NewInteger(-1), ErrUnsupportedOperation},
		{"double repeat", (*Value).Mul, NewString("ab"), NewDouble(2), ErrUnsupportedOperation},
		{"repeat on right", (*Value).Mul, NewInteger(3), NewString("ab"), ErrUnsupportedOperation},
		{"string sub", (*Value).Sub, NewString("a"), NewInteger(1), ErrUnsupportedOperation},
		{"bool add", (*Value).Add, NewBoolean(true), NewInteger(1), ErrUnsupportedOperation},
		{"list mul", (*Value).Mul, NewList(), NewInteger(1), ErrUnsupportedOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.v, tt.o)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got (%v, %v), want %v", got, err, tt.want)
			}
		})
	}
}

func TestValue_RepeatLimit(t *testing.T) {
	s := NewString(strings.Repeat("x", 1024))

	if _, err := s.Mul(NewInteger(MaxRepeatLength/1024 + 1)); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("oversized repetition error = %v", err)
	}

	v, err := s.Mul(NewInteger(MaxRepeatLength / 1024))
	if err != nil {
		t.Fatalf("repetition at the limit: %v", err)
	}

	if len(v.Str) != MaxRepeatLength {
		t.Errorf("len = %d, want %d", len(v.Str), MaxRepeatLength)
	}
}

func TestValue_Unary(t *testing.T) {
	if v, _ := NewInteger(-5).Abs(); v.Int != 5 {
		t.Errorf("Abs(-5) = %s", v)
	}

	if v, _ := NewDouble(2.5).Negate(); v.Float != -2.5 {
		t.Errorf("Negate(2.5) = %s", v)
	}

	if _, err := NewString("a").Negate(); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Negate(string) error = %v", err)
	}

	if _, err := NewBoolean(true).Abs(); !errors.Is(err, ErrUnsupportedOperation) {
		t.Errorf("Abs(bool) error = %v", err)
	}

	if v := NewString("").Not(); !v.Bool {
		t.Errorf("Not(\"\") = %s", v)
	}
}

func TestValue_Cast(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		to   Type
		want *Value
	}{
		{"true to int", NewBoolean(true), Integer, NewInteger(1)},
		{"false to int", NewBoolean(false), Integer, NewInteger(0)},
		{"true to double", NewBoolean(true), Double, NewDouble(1)},
		{"false to string", NewBoolean(false), String, NewString("false")},
		{"double to int", NewDouble(3.9), Integer, NewInteger(3)},
		{"negative double to int", NewDouble(-3.9), Integer, NewInteger(-3)},
		{"string length", NewString("héllo"), Integer, NewInteger(5)},
		{"empty string length", NewString(""), Integer, NewInteger(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.Cast(tt.to)
			if err != nil {
				t.Fatalf("Cast error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("got %s %q, want %s %q", got.Type, got, tt.want.Type, tt.want)
			}
		})
	}

	bad := []struct {
		v  *Value
		to Type
	}{
		{NewInteger(1), Integer},
		{NewInteger(1), Double},
		{NewInteger(1), String},
		{NewString("1"), Double},
		{NewDouble(1), String},
		{NewDouble(1e12), Integer},
		{NewDouble(math.NaN()), Integer},
		{NewList(), Integer},
	}

	for _, tt := range bad {
		if _, err := tt.v.Cast(tt.to); !errors.Is(err, ErrUnsupportedOperation) {
			t.Errorf("Cast(%s %q as %s) error = %v", tt.v.Type, tt.v, tt.to, err)
		}
	}
}

func TestLookupType(t *testing.T) {
	for i, name := range TypeNames {
		typ, ok := LookupType(name)
		if !ok || typ != Type(i) || typ.String() != name {
			t.Errorf("LookupType(%q) = %v, %v", name, typ, ok)
		}
	}

	if _, ok := LookupType("Int"); ok {
		t.Error("type names should be case sensitive")
	}
}
