package nfa

import (
	"github.com/coregx/rex/syntax"
	"github.com/coregx/rex/uniset"
)

// newline is the single code point AnyChar excludes unless dotall is set.
var newline = uniset.Char('\n')

// Compile lowers an AST into an NFA using the combinator table: every
// syntax.Node kind expands to a small fixed graph shape, with children
// compiled first and threaded through an explicit "what comes next" state;
// only the looping quantifiers patch their Split once the body exists.
// dotall controls whether AnyChar
// matches '\n'.
func Compile(root *syntax.Node, dotall bool) (*NFA, error) {
	b := NewBuilder()
	c := &compiler{b: b, dotall: dotall}

	success := b.AddSuccess()
	entry, err := c.build(root, success)
	if err != nil {
		return nil, err
	}

	start := b.AddStart(entry)
	b.SetStart(start)
	return b.Build()
}

type compiler struct {
	b      *Builder
	dotall bool
}

// build compiles n into a fragment that, once satisfied, continues at
// next, and returns the fragment's entry state.
func (c *compiler) build(n *syntax.Node, next StateID) (StateID, error) {
	switch n.Kind {
	case syntax.NodeLiteral:
		return c.b.AddMatch(uniset.Char(n.Rune), false, next), nil

	case syntax.NodeAnyChar:
		set := uniset.All()
		if !c.dotall {
			set = uniset.Complement(newline)
		}
		return c.b.AddMatch(set, false, next), nil

	case syntax.NodeProperty:
		set, err := n.Set()
		if err != nil {
			return InvalidState, &CompileError{Err: err}
		}
		return c.b.AddMatch(set, false, next), nil

	case syntax.NodeClass:
		return c.buildClass(n, next)

	case syntax.NodeSequence:
		return c.buildSequence(n.Children, next)

	case syntax.NodeGroup:
		return c.buildGroup(n, next)

	case syntax.NodeAlternate:
		return c.buildAlternate(n.Children, next)

	case syntax.NodeZeroOne:
		return c.buildZeroOne(n.Children[0], next)

	case syntax.NodeOneMore:
		return c.buildOneMore(n.Children[0], next)

	case syntax.NodeZeroMore:
		return c.buildZeroMore(n.Children[0], next)

	case syntax.NodeRepeat:
		return c.buildRepeat(n.Children[0], n.N, next)

	default:
		return InvalidState, &BuildError{Message: "unknown AST node kind"}
	}
}

func (c *compiler) buildSequence(children []*syntax.Node, next StateID) (StateID, error) {
	if len(children) == 0 {
		return next, nil
	}
	cur := next
	for i := len(children) - 1; i >= 0; i-- {
		id, err := c.build(children[i], cur)
		if err != nil {
			return InvalidState, err
		}
		cur = id
	}
	return cur, nil
}

// buildGroup wires BeginGroup(name) -> body -> EndGroup for every
// capturing form (numbered or labeled), or just the body for :nocap.
func (c *compiler) buildGroup(n *syntax.Node, next StateID) (StateID, error) {
	body := n.Children[0]

	if n.Group.Kind == syntax.GroupNoCap {
		return c.build(body, next)
	}

	key := CaptureKey{Ordinal: n.Group.Ordinal, Label: n.Group.Label}
	end := c.b.AddEndGroup(key, next)
	bodyStart, err := c.build(body, end)
	if err != nil {
		return InvalidState, err
	}
	begin := c.b.AddBeginGroup(key, bodyStart)
	c.b.DeclareCapture(key)
	return begin, nil
}

func (c *compiler) buildAlternate(children []*syntax.Node, next StateID) (StateID, error) {
	starts := make([]StateID, len(children))
	for i, child := range children {
		id, err := c.build(child, next)
		if err != nil {
			return InvalidState, err
		}
		starts[i] = id
	}
	return c.b.AddSplit(starts...), nil
}

// buildZeroOne: try the body, or bypass straight to next.
func (c *compiler) buildZeroOne(body *syntax.Node, next StateID) (StateID, error) {
	bodyStart, err := c.build(body, next)
	if err != nil {
		return InvalidState, err
	}
	return c.b.AddSplit(bodyStart, next), nil
}

// buildOneMore: run the body once, then loop or exit. The fragment's
// entry is the body itself, since at least one match is mandatory.
func (c *compiler) buildOneMore(body *syntax.Node, next StateID) (StateID, error) {
	split := c.b.AddSplit(next, next) // placeholder, patched below
	bodyStart, err := c.build(body, split)
	if err != nil {
		return InvalidState, err
	}
	if err := c.b.PatchSplit(split, bodyStart, next); err != nil {
		return InvalidState, err
	}
	return bodyStart, nil
}

// buildZeroMore: the fragment's entry is the Split itself, which either
// enters the body (looping back to itself) or bypasses to next.
func (c *compiler) buildZeroMore(body *syntax.Node, next StateID) (StateID, error) {
	split := c.b.AddSplit(next, next) // placeholder, patched below
	bodyStart, err := c.build(body, split)
	if err != nil {
		return InvalidState, err
	}
	if err := c.b.PatchSplit(split, bodyStart, next); err != nil {
		return InvalidState, err
	}
	return split, nil
}

// buildRepeat chains N independently-compiled copies of body in sequence.
func (c *compiler) buildRepeat(body *syntax.Node, count int, next StateID) (StateID, error) {
	cur := next
	for i := 0; i < count; i++ {
		id, err := c.build(body, cur)
		if err != nil {
			return InvalidState, err
		}
		cur = id
	}
	return cur, nil
}

// buildClass compiles a bracket expression. Positive classes alternate
// over an atomic matcher per element; negative classes bracket an
// AND-chain of inverted peek-matchers between BeginPeek/EndPeek, with
// EndPeek carrying the union of the (non-negated) element sets so it can
// sample or test the complement in one step.
func (c *compiler) buildClass(n *syntax.Node, next StateID) (StateID, error) {
	elemSets, err := classElemSets(n.Elems)
	if err != nil {
		return InvalidState, err
	}

	if !n.Negated {
		if len(elemSets) == 1 {
			return c.b.AddMatch(elemSets[0], false, next), nil
		}
		starts := make([]StateID, len(elemSets))
		for i, set := range elemSets {
			starts[i] = c.b.AddMatch(set, false, next)
		}
		return c.b.AddSplit(starts...), nil
	}

	union := uniset.UnionAll(elemSets...)
	cur := c.b.AddEndPeek(union, next)
	for i := len(elemSets) - 1; i >= 0; i-- {
		cur = c.b.AddMatch(elemSets[i], true, cur)
	}
	return c.b.AddBeginPeek(cur), nil
}

// classElemSets resolves each bracket-expression member to the code-point
// set it denotes on its own, before any enclosing negation. Mirrors the
// per-element resolution syntax.Node.Set does internally for NodeClass,
// which the combinator layer needs unflattened so it can build one
// matcher per element.
func classElemSets(elems []syntax.ClassElem) ([]*uniset.Set, error) {
	sets := make([]*uniset.Set, len(elems))
	for i, e := range elems {
		switch {
		case e.IsProp:
			s, err := uniset.Resolve(e.PropName)
			if err != nil {
				return nil, err
			}
			if e.PropSign == syntax.PropNegative {
				s = uniset.Complement(s)
			}
			sets[i] = s
		case e.IsRange:
			sets[i] = uniset.Range(e.Lo, e.Hi)
		default:
			sets[i] = uniset.Char(e.Lo)
		}
	}
	return sets, nil
}
