package lang

import (
	"strconv"
	"strings"
)

// NodeKind discriminates the variants of [Node].
type NodeKind int

// Node kinds.
const (
	IntegerNode NodeKind = iota
	DoubleNode
	StringNode
	BooleanNode
	ListNode
	PositiveNode
	NegativeNode
	NotNode
	AddNode
	SubNode
	MulNode
	DivNode
	ModNode
	PowerNode
	AndNode
	OrNode
	CastNode
	VarAssignNode
	DefineConstNode
	VarAccessNode
	VarModifyNode
)

var nodeKindName = [...]string{
	IntegerNode:     "Integer",
	DoubleNode:      "Double",
	StringNode:      "String",
	BooleanNode:     "Boolean",
	ListNode:        "List",
	PositiveNode:    "Positive",
	NegativeNode:    "Negative",
	NotNode:         "Not",
	AddNode:         "Add",
	SubNode:         "Sub",
	MulNode:         "Mul",
	DivNode:         "Div",
	ModNode:         "Mod",
	PowerNode:       "Power",
	AndNode:         "And",
	OrNode:          "Or",
	CastNode:        "Cast",
	VarAssignNode:   "VarAssign",
	DefineConstNode: "DefineConst",
	VarAccessNode:   "VarAccess",
	VarModifyNode:   "VarModify",
}

func (k NodeKind) String() string {
	if k >= 0 && int(k) < len(nodeKindName) {
		return nodeKindName[k]
	}

	return "NodeKind(" + strconv.Itoa(int(k)) + ")"
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Unary reports whether nodes of kind k have a single Operand.
func (k NodeKind) Unary() bool {
	return k == PositiveNode || k == NegativeNode || k == NotNode ||
		k == CastNode
}

// Binary reports whether nodes of kind k have Left and Right operands.
func (k NodeKind) Binary() bool { return k >= AddNode && k <= OrNode }

// operator returns the source spelling of a unary or binary operator.
func (k NodeKind) operator() string {
	switch k {
	case PositiveNode, AddNode:
		return "+"
	case NegativeNode, SubNode:
		return "-"
	case NotNode:
		return KeywordNot
	case MulNode:
		return "*"
	case DivNode:
		return "/"
	case ModNode:
		return "%"
	case PowerNode:
		return "**"
	case AndNode:
		return KeywordAnd
	case OrNode:
		return KeywordOr
	case CastNode:
		return KeywordAs
	}

	return k.String()
}

// Node is a syntax tree node. Kind selects which fields are meaningful:
//
//   - IntegerNode, DoubleNode, StringNode, BooleanNode: Int, Float, Str, Bool
//   - ListNode: Children
//   - PositiveNode, NegativeNode, NotNode: Operand
//   - CastNode: Operand and TypeName
//   - binary operators AddNode through OrNode: Left and Right
//   - VarAssignNode: Name, TypeName, and Init, which may be nil
//   - DefineConstNode: Name, TypeName, and Init
//   - VarAccessNode: Name
//   - VarModifyNode: Name and Init
//
// Every node records the span of source it was parsed from.
type Node struct {
	Operand  *Node
	Left     *Node
	Right    *Node
	Init     *Node
	Children []*Node
	Name     string
	TypeName string
	Str      string
	Float    float64
	Start    Position
	End      Position
	Int      int32
	Kind     NodeKind
	Bool     bool
}

// NewIntegerNode returns an Integer literal node.
func NewIntegerNode(n int32, start, end Position) *Node {
	return &Node{Kind: IntegerNode, Int: n, Start: start, End: end}
}

// NewDoubleNode returns a Double literal node.
func NewDoubleNode(f float64, start, end Position) *Node {
	return &Node{Kind: DoubleNode, Float: f, Start: start, End: end}
}

// NewStringNode returns a String literal node.
func NewStringNode(s string, start, end Position) *Node {
	return &Node{Kind: StringNode, Str: s, Start: start, End: end}
}

// NewBooleanNode returns a Boolean literal node.
func NewBooleanNode(b bool, start, end Position) *Node {
	return &Node{Kind: BooleanNode, Bool: b, Start: start, End: end}
}

// NewListNode returns a statement list node.
func NewListNode(children []*Node, start, end Position) *Node {
	return &Node{Kind: ListNode, Children: children, Start: start, End: end}
}

// NewUnaryNode returns a Positive, Negative, or Not node applied to operand.
// The span runs from start, the operator position, to the operand's end.
func NewUnaryNode(kind NodeKind, operand *Node, start Position) *Node {
	return &Node{Kind: kind, Operand: operand, Start: start, End: operand.End}
}

// NewBinaryNode returns a binary operator node spanning both operands.
func NewBinaryNode(kind NodeKind, left, right *Node) *Node {
	return &Node{
		Kind:  kind,
		Left:  left,
		Right: right,
		Start: left.Start,
		End:   right.End,
	}
}

// NewCastNode returns a node converting operand to the named type.
func NewCastNode(operand *Node, typeName string, end Position) *Node {
	return &Node{
		Kind:     CastNode,
		Operand:  operand,
		TypeName: typeName,
		Start:    operand.Start,
		End:      end,
	}
}

// NewVarAssignNode returns a variable declaration. init may be nil.
func NewVarAssignNode(
	name, typeName string,
	init *Node,
	start, end Position,
) *Node {
	return &Node{
		Kind:     VarAssignNode,
		Name:     name,
		TypeName: typeName,
		Init:     init,
		Start:    start,
		End:      end,
	}
}

// NewDefineConstNode returns a constant declaration.
func NewDefineConstNode(
	name, typeName string,
	init *Node,
	start, end Position,
) *Node {
	return &Node{
		Kind:     DefineConstNode,
		Name:     name,
		TypeName: typeName,
		Init:     init,
		Start:    start,
		End:      end,
	}
}

// NewVarAccessNode returns a variable read.
func NewVarAccessNode(name string, start, end Position) *Node {
	return &Node{Kind: VarAccessNode, Name: name, Start: start, End: end}
}

// NewVarModifyNode returns a reassignment of name to init.
func NewVarModifyNode(name string, init *Node, start Position) *Node {
	return &Node{
		Kind:  VarModifyNode,
		Name:  name,
		Init:  init,
		Start: start,
		End:   init.End,
	}
}

// children returns the direct descendants of n in evaluation order.
func (n *Node) children() []*Node {
	switch {
	case n.Kind == ListNode:
		return n.Children
	case n.Kind.Unary():
		return []*Node{n.Operand}
	case n.Kind.Binary():
		return []*Node{n.Left, n.Right}
	case n.Init != nil:
		return []*Node{n.Init}
	}

	return nil
}

// Walk visits n and its descendants in pre-order. Descent below a node stops
// when fn returns false for it.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range n.children() {
		c.Walk(fn)
	}
}

// String renders n as a parenthesized prefix expression.
func (n *Node) String() string {
	var sb strings.Builder

	n.write(&sb)

	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("<nil>")

		return
	}

	switch n.Kind {
	case IntegerNode:
		sb.WriteString(strconv.FormatInt(int64(n.Int), 10))
	case DoubleNode:
		s := strconv.FormatFloat(n.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}

		sb.WriteString(s)
	case StringNode:
		sb.WriteString(strconv.Quote(n.Str))
	case BooleanNode:
		sb.WriteString(strconv.FormatBool(n.Bool))
	case VarAccessNode:
		sb.WriteString(n.Name)

	case ListNode:
		sb.WriteString("(list")

		for _, c := range n.Children {
			sb.WriteByte(' ')
			c.write(sb)
		}

		sb.WriteByte(')')

	case CastNode:
		sb.WriteString("(as ")
		n.Operand.write(sb)
		sb.WriteString(" " + n.TypeName + ")")

	case VarAssignNode, DefineConstNode:
		kw := KeywordStore
		if n.Kind == DefineConstNode {
			kw = KeywordDefine
		}

		sb.WriteString("(" + kw + " " + n.Name + " " + n.TypeName)

		if n.Init != nil {
			sb.WriteByte(' ')
			n.Init.write(sb)
		}

		sb.WriteByte(')')

	case VarModifyNode:
		sb.WriteString("(= " + n.Name + " ")
		n.Init.write(sb)
		sb.WriteByte(')')

	default:
		sb.WriteString("(" + n.Kind.operator())

		for _, c := range n.children() {
			sb.WriteByte(' ')
			c.write(sb)
		}

		sb.WriteByte(')')
	}
}
