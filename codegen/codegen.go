package codegen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/stash/lang"
)

// ErrUnsupported is returned for any construct outside the supported subset.
var ErrUnsupported = lang.NewError("unsupported by code generator")

// Generate returns the assembly for the statement list root.
func Generate(ctx context.Context, root *lang.Node, opts ...Option) (string, error) {
	o := makeOptions(opts...)

	if root == nil || root.Kind != lang.ListNode {
		return "", lang.ErrNotStatementList
	}

	g := &generator{opts: o, vars: make(map[string]slot)}

	for _, stmt := range root.Children {
		if err := g.statement(stmt); err != nil {
			o.logger.DebugContext(ctx, "generate failed", slog.Any("error", err))

			return "", err
		}

		o.logger.TraceContext(ctx, "generated statement",
			slog.String("kind", stmt.Kind.String()),
			slog.Any("start", stmt.Start))
	}

	return g.program(), nil
}

// slot is a variable's storage in the .data section.
type slot struct {
	typ      string
	init     int32
	constant bool
}

type generator struct {
	opts  options
	text  strings.Builder
	order []string
	vars  map[string]slot
}

func (g *generator) line(format string, args ...any) {
	fmt.Fprintf(&g.text, "    "+format+"\n", args...)
}

func (g *generator) comment(n *lang.Node) {
	if g.opts.comments {
		g.line("; %s", n)
	}
}

func (g *generator) statement(n *lang.Node) error {
	switch n.Kind {
	case lang.VarAssignNode, lang.DefineConstNode:
		return g.declare(n)
	case lang.VarModifyNode:
		return g.modify(n)
	default:
		return unsupported(n, "statement %s", n.Kind)
	}
}

func (g *generator) declare(n *lang.Node) error {
	if n.TypeName != lang.TypeNameInteger && n.TypeName != lang.TypeNameBoolean {
		return unsupported(n, "type %s", n.TypeName)
	}

	if _, ok := g.vars[n.Name]; ok {
		return unsupported(n, "redeclaration of %s", n.Name)
	}

	g.comment(n)

	s := slot{typ: n.TypeName, constant: n.Kind == lang.DefineConstNode}

	if n.Init != nil {
		if err := checkInit(n, s.typ); err != nil {
			return err
		}

		if v, ok := literal(n.Init); ok {
			// literal initializers are emitted directly into .data
			s.init = v
		} else if err := g.expression(n.Init); err != nil {
			return err
		} else {
			g.line("mov [$%s], eax", n.Name)
		}
	}

	g.order = append(g.order, n.Name)
	g.vars[n.Name] = s

	return nil
}

func (g *generator) modify(n *lang.Node) error {
	s, ok := g.vars[n.Name]
	if !ok {
		return unsupported(n, "assignment to undeclared %s", n.Name)
	}

	if s.constant {
		return unsupported(n, "assignment to constant %s", n.Name)
	}

	if err := checkInit(n, s.typ); err != nil {
		return err
	}

	g.comment(n)

	if err := g.expression(n.Init); err != nil {
		return err
	}

	g.line("mov [$%s], eax", n.Name)

	return nil
}

// expression loads a supported initializer into eax.
func (g *generator) expression(n *lang.Node) error {
	if v, ok := literal(n); ok {
		g.line("mov eax, %d", v)

		return nil
	}

	var op string

	switch n.Kind {
	case lang.AddNode:
		op = "add"
	case lang.SubNode:
		op = "sub"
	case lang.MulNode:
		op = "imul"
	default:
		return unsupported(n, "expression %s", n.Kind)
	}

	switch {
	case n.Left.Kind == lang.VarAccessNode && isInteger(n.Right):
		if err := g.known(n.Left); err != nil {
			return err
		}

		v, _ := literal(n.Right)
		g.line("mov eax, [$%s]", n.Left.Name)
		g.line("mov ebx, %d", v)

	case isInteger(n.Left) && n.Right.Kind == lang.VarAccessNode:
		if err := g.known(n.Right); err != nil {
			return err
		}

		v, _ := literal(n.Left)
		g.line("mov eax, %d", v)
		g.line("mov ebx, [$%s]", n.Right.Name)

	default:
		return unsupported(n, "operands of %s", n.Kind)
	}

	g.line("%s eax, ebx", op)

	return nil
}

// known requires n to name a declared int variable.
func (g *generator) known(n *lang.Node) error {
	s, ok := g.vars[n.Name]
	if !ok {
		return unsupported(n, "reference to undeclared %s", n.Name)
	}

	if s.typ != lang.TypeNameInteger {
		return unsupported(n, "arithmetic on %s %s", s.typ, n.Name)
	}

	return nil
}

// checkInit rejects an initializer of n whose type differs from typ. Only
// bool literals are bool; every other supported initializer is int.
func checkInit(n *lang.Node, typ string) error {
	got := lang.TypeNameInteger
	if n.Init.Kind == lang.BooleanNode {
		got = lang.TypeNameBoolean
	}

	if got != typ {
		return unsupported(n.Init, "%s value for %s %s", got, typ, n.Name)
	}

	return nil
}

// program assembles the final listing. Symbols are written with a leading
// "$" so variable names never collide with register names or directives.
func (g *generator) program() string {
	var sb strings.Builder

	sb.WriteString("default rel\n\nsection .data\n")

	for _, name := range g.order {
		fmt.Fprintf(&sb, "    $%s dd %d\n", name, g.vars[name].init)
	}

	fmt.Fprintf(&sb, "\nsection .text\n    global %s\n%s:\n", g.opts.entry, g.opts.entry)
	sb.WriteString(g.text.String())
	sb.WriteString("    mov eax, 60\n    xor edi, edi\n    syscall\n")

	return sb.String()
}

// literal returns the 32-bit value of an int or bool literal, including a
// signed int literal.
func literal(n *lang.Node) (int32, bool) {
	switch n.Kind {
	case lang.IntegerNode:
		return n.Int, true
	case lang.BooleanNode:
		if n.Bool {
			return 1, true
		}

		return 0, true
	case lang.PositiveNode, lang.NegativeNode:
		if n.Operand.Kind != lang.IntegerNode {
			return 0, false
		}

		if n.Kind == lang.NegativeNode {
			return -n.Operand.Int, true
		}

		return n.Operand.Int, true
	}

	return 0, false
}

func isInteger(n *lang.Node) bool {
	_, ok := literal(n)

	return ok && n.Kind != lang.BooleanNode
}

func unsupported(n *lang.Node, format string, args ...any) error {
	return ErrUnsupported.
		Wrapf("%s: "+format, append([]any{n.Start}, args...)...).
		With(slog.Any("start", n.Start), slog.Any("end", n.End))
}
