package codegen

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/stash/lang"
)

func generate(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	root, err := lang.ParseString(t.Context(), src, "test")
	if err != nil {
		t.Fatalf("ParseString(%q) error: %v", src, err)
	}

	return Generate(t.Context(), root, opts...)
}

func TestGenerate_Program(t *testing.T) {
	src := "store a as int = 5\n" +
		"define on as bool = true\n" +
		"store b as int = a + 3\n" +
		"b = 2 * b\n" +
		"store c as int\n" +
		"c = -4\n"

	got, err := generate(t, src, WithComments(false))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	want := `default rel

section .data
    $a dd 5
    $on dd 1
    $b dd 0
    $c dd 0

section .text
    global _start
_start:
    mov eax, [$a]
    mov ebx, 3
    add eax, ebx
    mov [$b], eax
    mov eax, 2
    mov ebx, [$b]
    imul eax, ebx
    mov [$b], eax
    mov eax, -4
    mov [$c], eax
    mov eax, 60
    xor edi, edi
    syscall
`

	if got != want {
		t.Errorf("Generate =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerate_Options(t *testing.T) {
	got, err := generate(t, "store x as int = 10 - x0\n", WithEntry("main"))
	if err == nil {
		t.Fatalf("Generate accepted an undeclared reference:\n%s", got)
	}

	got, err = generate(t, "store x0 as int = 1\nstore x as int = 10 - x0\n",
		WithEntry("main"))
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	for _, want := range []string{"global main\nmain:", "; (", "sub eax, ebx"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	if makeOptions(WithEntry("")).entry != DefaultEntry {
		t.Error("empty entry did not select the default")
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"expression statement", "1 + 2"},
		{"double type", "store d as double = 1.5"},
		{"string type", `store s as string = "x"`},
		{"redeclaration", "store a as int = 1\nstore a as int = 2"},
		{"undeclared assignment", "a = 1"},
		{"constant assignment", "define k as int = 1\nk = 2"},
		{"two identifiers", "store a as int = 1\nstore b as int = a + a"},
		{"two literals", "store a as int = 1 + 2"},
		{"division", "store a as int = 1\nstore b as int = a / 2"},
		{"bool operand", "store a as int = 1\nstore b as int = a + true"},
		{"cast", "store a as int = 1 as int"},
		{"bool into int", "store a as int = true"},
		{"int into bool", "store b as bool = 5"},
		{"negative into bool", "store b as bool = -1"},
		{"arithmetic into bool", "store a as int = 1\nstore b as bool = a + 1"},
		{"bool variable operand", "store b as bool = true\nstore c as int = b + 1"},
		{"bool reassigned int", "store b as bool = true\nb = 1"},
		{"int reassigned bool", "store a as int = 1\na = false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generate(t, tt.src)
			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("Generate(%q) error = %v, want ErrUnsupported", tt.src, err)
			}
		})
	}
}

func TestGenerate_NotStatementList(t *testing.T) {
	node := lang.NewIntegerNode(1, lang.Position{}, lang.Position{})

	if _, err := Generate(t.Context(), node); !errors.Is(err, lang.ErrNotStatementList) {
		t.Errorf("Generate(non-list) error = %v", err)
	}
}
