package syntax

import "github.com/coregx/rex/uniset"

// NodeKind tags the shape of an AST node.
type NodeKind uint8

const (
	NodeLiteral NodeKind = iota
	NodeAnyChar
	NodeProperty
	NodeClass
	NodeSequence
	NodeGroup
	NodeAlternate
	NodeZeroOne
	NodeOneMore
	NodeZeroMore
	NodeRepeat
)

// ClassElem is one member of a bracket expression: a single code point, a
// code-point range, or a nested \p{...}/\P{...} property reference.
type ClassElem struct {
	IsRange  bool
	IsProp   bool
	Lo, Hi   rune
	PropSign PropSign
	PropName string
}

// Node is the AST produced by the parser. Which fields are meaningful
// depends on Kind: Rune for NodeLiteral, PropSign/PropName for NodeProperty,
// Negated/Elems for NodeClass, Group for NodeGroup, N for NodeRepeat,
// Children for everything with an operand or operands.
type Node struct {
	Kind     NodeKind
	Rune     rune
	PropSign PropSign
	PropName string
	Negated  bool
	Elems    []ClassElem
	Group    GroupName
	N        int
	Children []*Node
}

// Set resolves a NodeProperty or NodeClass node into the code-point set it
// denotes. It is the one place AST construction touches uniset, so the
// parser itself stays free of Unicode table lookups.
func (n *Node) Set() (*uniset.Set, error) {
	switch n.Kind {
	case NodeProperty:
		s, err := uniset.Resolve(n.PropName)
		if err != nil {
			return nil, err
		}
		if n.PropSign == PropNegative {
			return uniset.Complement(s), nil
		}
		return s, nil
	case NodeClass:
		parts := make([]*uniset.Set, 0, len(n.Elems))
		for _, e := range n.Elems {
			switch {
			case e.IsProp:
				s, err := uniset.Resolve(e.PropName)
				if err != nil {
					return nil, err
				}
				if e.PropSign == PropNegative {
					s = uniset.Complement(s)
				}
				parts = append(parts, s)
			case e.IsRange:
				parts = append(parts, uniset.Range(e.Lo, e.Hi))
			default:
				parts = append(parts, uniset.Char(e.Lo))
			}
		}
		s := uniset.UnionAll(parts...)
		if n.Negated {
			return uniset.Complement(s), nil
		}
		return s, nil
	default:
		return nil, nil
	}
}
