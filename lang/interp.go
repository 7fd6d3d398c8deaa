package lang

import (
	"context"
	"errors"
	"log/slog"
)

// Interpreter evaluates syntax trees by walking them recursively.
//
// An Interpreter holds no evaluation state of its own; all variables live in
// the [Context] passed to each call.
type Interpreter struct {
	opts options
}

// NewInterpreter returns an interpreter configured with opts.
func NewInterpreter(opts ...Option) *Interpreter {
	return &Interpreter{opts: makeOptions(opts...)}
}

// Evaluate evaluates node in scope. The returned error, if any, is a
// [*Fault] describing the first failure; no value is returned with it.
//
// Declarations committed before the failure remain in scope.
func (in *Interpreter) Evaluate(
	ctx context.Context,
	node *Node,
	scope *Context,
) (*Value, error) {
	v, f := in.eval(node, scope)
	if f != nil {
		in.opts.logger.TraceContext(ctx, "evaluate failed",
			slog.String("scope", scope.Name),
			slog.Any("fault", f))

		return nil, f
	}

	in.opts.logger.TraceContext(ctx, "evaluate complete",
		slog.String("scope", scope.Name),
		slog.String("kind", node.Kind.String()),
		slog.Any("result", v))

	return v, nil
}

// Run evaluates a statement list and returns one value per statement.
// It returns [ErrNotStatementList] if root is not a [ListNode], and the
// cause of ctx if it is done before the next statement starts.
func (in *Interpreter) Run(
	ctx context.Context,
	root *Node,
	scope *Context,
) ([]*Value, error) {
	if root == nil || root.Kind != ListNode {
		return nil, ErrNotStatementList
	}

	values := make([]*Value, 0, len(root.Children))

	for _, stmt := range root.Children {
		if err := context.Cause(ctx); err != nil {
			return nil, err
		}

		v, err := in.Evaluate(ctx, stmt, scope)
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	return values, nil
}

func (in *Interpreter) eval(n *Node, scope *Context) (*Value, *Fault) {
	if n == nil {
		return nil, newFault(IllegalOperation, Position{}, Position{},
			"missing expression").in(scope)
	}

	switch n.Kind {
	case IntegerNode:
		return NewInteger(n.Int).at(n.Start, n.End, scope), nil

	case DoubleNode:
		return NewDouble(n.Float).at(n.Start, n.End, scope), nil

	case StringNode:
		return NewString(n.Str).at(n.Start, n.End, scope), nil

	case BooleanNode:
		return NewBoolean(n.Bool).at(n.Start, n.End, scope), nil

	case ListNode:
		return in.evalList(n, scope)

	case PositiveNode, NegativeNode, NotNode:
		return in.evalUnary(n, scope)

	case AndNode, OrNode:
		return in.evalLogic(n, scope)

	case AddNode, SubNode, MulNode, DivNode, ModNode, PowerNode:
		return in.evalArith(n, scope)

	case CastNode:
		return in.evalCast(n, scope)

	case VarAssignNode:
		return in.declare(n, scope, false)

	case DefineConstNode:
		return in.declare(n, scope, true)

	case VarAccessNode:
		return in.evalAccess(n, scope)

	case VarModifyNode:
		return in.evalModify(n, scope)
	}

	return nil, newFault(IllegalOperation, n.Start, n.End,
		"cannot evaluate %s", n.Kind).in(scope)
}

func (in *Interpreter) evalList(n *Node, scope *Context) (*Value, *Fault) {
	values := make([]*Value, 0, len(n.Children))

	for _, c := range n.Children {
		v, f := in.eval(c, scope)
		if f != nil {
			return nil, f
		}

		values = append(values, v)
	}

	return NewList(values...).at(n.Start, n.End, scope), nil
}

func (in *Interpreter) evalUnary(n *Node, scope *Context) (*Value, *Fault) {
	v, f := in.eval(n.Operand, scope)
	if f != nil {
		return nil, f
	}

	var (
		r   *Value
		err error
	)

	switch n.Kind {
	case PositiveNode:
		r, err = v.Abs()
	case NegativeNode:
		r, err = v.Negate()
	default:
		r = v.Not()
	}

	if err != nil {
		return nil, opFault(n, err, scope)
	}

	return r.at(n.Start, n.End, scope), nil
}

// evalLogic evaluates the right operand only when the left operand does not
// decide the result. The deciding operand's value is returned unchanged.
func (in *Interpreter) evalLogic(n *Node, scope *Context) (*Value, *Fault) {
	left, f := in.eval(n.Left, scope)
	if f != nil {
		return nil, f
	}

	if left.Truthy() == (n.Kind == OrNode) {
		return left, nil
	}

	return in.eval(n.Right, scope)
}

func (in *Interpreter) evalArith(n *Node, scope *Context) (*Value, *Fault) {
	left, f := in.eval(n.Left, scope)
	if f != nil {
		return nil, f
	}

	right, f := in.eval(n.Right, scope)
	if f != nil {
		return nil, f
	}

	var (
		r   *Value
		err error
	)

	switch n.Kind {
	case AddNode:
		r, err = left.Add(right)
	case SubNode:
		r, err = left.Sub(right)
	case MulNode:
		r, err = left.Mul(right)
	case DivNode:
		r, err = left.Div(right)
	case ModNode:
		r, err = left.Mod(right)
	default:
		r, err = left.Pow(right)
	}

	if err != nil {
		return nil, opFault(n, err, scope)
	}

	return r.at(n.Start, n.End, scope), nil
}

func (in *Interpreter) evalCast(n *Node, scope *Context) (*Value, *Fault) {
	t, ok := LookupType(n.TypeName)
	if !ok {
		return nil, newFault(IllegalOperation, n.Start, n.End,
			"unknown type %q", n.TypeName).in(scope)
	}

	v, f := in.eval(n.Operand, scope)
	if f != nil {
		return nil, f
	}

	r, err := v.Cast(t)
	if err != nil {
		return nil, opFault(n, err, scope)
	}

	return r.at(n.Start, n.End, scope), nil
}

// declare binds a new variable or constant in the innermost scope. A name
// declared in an enclosing scope is shadowed.
func (in *Interpreter) declare(
	n *Node,
	scope *Context,
	constant bool,
) (*Value, *Fault) {
	if scope.Symbols.Exists(n.Name) {
		return nil, redeclared(n, scope)
	}

	t, ok := LookupType(n.TypeName)
	if !ok {
		return nil, newFault(IllegalOperation, n.Start, n.End,
			"unknown type %q", n.TypeName).in(scope)
	}

	var v *Value

	if n.Init != nil {
		var f *Fault
		if v, f = in.eval(n.Init, scope); f != nil {
			return nil, f
		}

		if v.Type != t {
			return nil, newFault(TypeMismatch, n.Start, n.End,
				"cannot initialize %s %s with a %s value",
				t, n.Name, v.Type).in(scope)
		}

		// The initializer may itself have declared the name.
		if scope.Symbols.Exists(n.Name) {
			return nil, redeclared(n, scope)
		}
	} else {
		var err error
		if v, err = Default(t); err != nil {
			return nil, newFault(IllegalOperation, n.Start, n.End,
				"%s %s requires an initializer: %s has no default value",
				n.Name, t, t).in(scope)
		}
	}

	scope.Symbols.Set(n.Name, v, constant)

	return v.Copy().at(n.Start, n.End, scope), nil
}

func redeclared(n *Node, scope *Context) *Fault {
	return newFault(RedeclaredVariable, n.Start, n.End,
		"%s is already declared in %s", n.Name, scope.Name).in(scope)
}

func (in *Interpreter) evalAccess(n *Node, scope *Context) (*Value, *Fault) {
	v, ok := scope.Symbols.Get(n.Name)
	if !ok {
		return nil, undefined(n, scope)
	}

	return v.at(n.Start, n.End, scope), nil
}

func undefined(n *Node, scope *Context) *Fault {
	return newFault(UndefinedVariable, n.Start, n.End,
		"%s is not defined", n.Name).in(scope)
}

func (in *Interpreter) evalModify(n *Node, scope *Context) (*Value, *Fault) {
	if !scope.Symbols.ExistsGlobally(n.Name) {
		return nil, undefined(n, scope)
	}

	if scope.Symbols.IsConstant(n.Name) {
		return nil, constantFault(n, scope)
	}

	v, f := in.eval(n.Init, scope)
	if f != nil {
		return nil, f
	}

	// Look the binding up again since the right-hand side may have declared
	// a shadowing variable of the same name.
	current, ok := scope.Symbols.Get(n.Name)
	if !ok {
		return nil, undefined(n, scope)
	}

	if scope.Symbols.IsConstant(n.Name) {
		return nil, constantFault(n, scope)
	}

	if v.Type != current.Type {
		return nil, newFault(TypeMismatch, n.Start, n.End,
			"cannot assign a %s value to %s %s", v.Type, current.Type, n.Name).
			in(scope)
	}

	scope.Symbols.Modify(n.Name, v)

	return v.Copy().at(n.Start, n.End, scope), nil
}

func constantFault(n *Node, scope *Context) *Fault {
	return newFault(IllegalOperation, n.Start, n.End,
		"cannot modify constant %s", n.Name).in(scope)
}

// opFault converts the reason a [Value] operation failed into a fault
// spanning the whole node.
func opFault(n *Node, err error, scope *Context) *Fault {
	if errors.Is(err, ErrDivisionByZero) {
		return newFault(Arithmetic, n.Start, n.End, "%s", err).in(scope)
	}

	return newFault(IllegalOperation, n.Start, n.End, "%s", err).in(scope)
}
