package lang

import "encoding/json"

// MarshalJSON implements json.Marshaler for Node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler for Node.
func (n *Node) MarshalYAML() (any, error) {
	return n.ToMap(), nil
}

// ToMap converts the tree rooted at n to nested maps and slices of native Go
// values. Each map holds the node kind, its span, and its kind-specific
// fields.
func (n *Node) ToMap() map[string]any {
	if n == nil {
		return nil
	}

	m := map[string]any{
		"kind":  n.Kind.String(),
		"start": n.Start,
		"end":   n.End,
	}

	switch n.Kind {
	case IntegerNode:
		m["value"] = n.Int
	case DoubleNode:
		m["value"] = n.Float
	case StringNode:
		m["value"] = n.Str
	case BooleanNode:
		m["value"] = n.Bool

	case ListNode:
		children := make([]any, len(n.Children))
		for i, c := range n.Children {
			children[i] = c.ToMap()
		}

		m["children"] = children

	case PositiveNode, NegativeNode, NotNode:
		m["operand"] = n.Operand.ToMap()

	case CastNode:
		m["operand"] = n.Operand.ToMap()
		m["type"] = n.TypeName

	case VarAssignNode, DefineConstNode:
		m["name"] = n.Name
		m["type"] = n.TypeName

		if n.Init != nil {
			m["init"] = n.Init.ToMap()
		}

	case VarAccessNode:
		m["name"] = n.Name

	case VarModifyNode:
		m["name"] = n.Name
		m["init"] = n.Init.ToMap()

	default:
		if n.Kind.Binary() {
			m["left"] = n.Left.ToMap()
			m["right"] = n.Right.ToMap()
		}
	}

	return m
}

// MarshalJSON implements json.Marshaler for Value, encoding its payload.
func (v *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"type":  v.Type,
		"value": v.Native(),
	})
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler for Value.
func (v *Value) MarshalYAML() (any, error) {
	return map[string]any{
		"type":  v.Type.String(),
		"value": v.Native(),
	}, nil
}
