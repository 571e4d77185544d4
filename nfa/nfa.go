// Package nfa builds a Thompson construction over Unicode code points and
// runs it with a traversal-counting executor instead of backtracking.
package nfa

import (
	"fmt"

	"github.com/coregx/rex/uniset"
)

// StateID uniquely identifies a node in an NFA's arena.
type StateID uint32

const (
	// InvalidState is the zero-value sentinel for an unset StateID.
	InvalidState StateID = 0xFFFFFFFF
)

// StateKind tags the shape of an NFA node. Unlike a byte-oriented Thompson
// NFA, every node here operates on whole Unicode code points.
type StateKind uint8

const (
	// StateStart is a pass-through entry node; every NFA has exactly one.
	StateStart StateKind = iota

	// StateMatch consumes one code point from the set carried on the node
	// and transitions to Next. The same set doubles as the acceptor during
	// Parse-time matching and as the sampling source during Generate-time
	// traversal. Peek is true for a negative-character-class member: the
	// node must be combined with its siblings under a BeginPeek/EndPeek
	// pair rather than consuming independently.
	StateMatch

	// StateSplit is an epsilon transition fanning out to N successor
	// states (fan-out >= 2). Used for alternation and all quantifiers.
	StateSplit

	// StateBeginGroup/StateEndGroup mark the boundaries of a capture
	// group. They carry the CaptureKey the capture should be recorded
	// under and an epsilon transition to Next.
	StateBeginGroup
	StateEndGroup

	// StateBeginPeek/StateEndPeek bracket a negated character class: the
	// peek Match nodes between them test the current code point without
	// consuming it (each fails the traversal if the code point is in its
	// set), and EndPeek then consumes that one code point. EndPeek also
	// carries the union of the member sets, whose complement the generator
	// samples from.
	StateBeginPeek
	StateEndPeek

	// StateSuccess marks a successful traversal; it has no successor.
	StateSuccess
)

func (k StateKind) String() string {
	switch k {
	case StateStart:
		return "Start"
	case StateMatch:
		return "Match"
	case StateSplit:
		return "Split"
	case StateBeginGroup:
		return "BeginGroup"
	case StateEndGroup:
		return "EndGroup"
	case StateBeginPeek:
		return "BeginPeek"
	case StateEndPeek:
		return "EndPeek"
	case StateSuccess:
		return "Success"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// CaptureKey identifies a capture slot: the group's 1-based ordinal, plus
// its name for labelled groups. A labelled group's capture is recorded
// under one key holding both fields; a key carrying only the ordinal, or
// only the label, does not find it.
type CaptureKey struct {
	Ordinal int
	Label   string
}

// State is one node in the NFA arena. Which fields are meaningful depends
// on Kind.
type State struct {
	id   StateID
	kind StateKind

	// Match and EndPeek.
	set  *uniset.Set
	peek bool

	// Start, Match, BeginGroup, EndGroup, EndPeek: single successor.
	next StateID

	// Split: fan-out successors. The executor's LIFO work stack explores
	// the last listed first (so it has priority for single-match mode);
	// all are explored for multi-match.
	out []StateID

	// BeginGroup/EndGroup.
	group CaptureKey
}

func (s *State) ID() StateID     { return s.id }
func (s *State) Kind() StateKind { return s.kind }

// Set returns the code-point set for a Match or EndPeek node.
func (s *State) Set() *uniset.Set { return s.set }

// Peek reports whether a Match node is a peek-member of a negated class.
func (s *State) Peek() bool { return s.peek }

// Next returns the single successor for Start/Match/BeginGroup/EndGroup/EndPeek nodes.
func (s *State) Next() StateID { return s.next }

// Out returns the fan-out successors of a Split node.
func (s *State) Out() []StateID { return s.out }

// Group returns the capture key for a BeginGroup/EndGroup node.
func (s *State) Group() CaptureKey { return s.group }

func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match peek=%v -> %d)", s.id, s.peek, s.next)
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> %v)", s.id, s.out)
	case StateBeginGroup:
		return fmt.Sprintf("State(%d, BeginGroup %v -> %d)", s.id, s.group, s.next)
	case StateEndGroup:
		return fmt.Sprintf("State(%d, EndGroup %v -> %d)", s.id, s.group, s.next)
	case StateBeginPeek:
		return fmt.Sprintf("State(%d, BeginPeek -> %d)", s.id, s.next)
	case StateEndPeek:
		return fmt.Sprintf("State(%d, EndPeek -> %d)", s.id, s.next)
	case StateSuccess:
		return fmt.Sprintf("State(%d, Success)", s.id)
	default:
		return fmt.Sprintf("State(%d, Start -> %d)", s.id, s.next)
	}
}

// NFA is a compiled Thompson construction: an arena of States plus the
// entry point and metadata the executor and generator need.
type NFA struct {
	states []State
	start  StateID

	captureCount int
	captureNames []CaptureKey
}

// Start returns the NFA's single entry point.
func (n *NFA) Start() StateID { return n.start }

// State returns the node with the given ID, or nil if id is out of range.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the number of nodes in the arena.
func (n *NFA) States() int { return len(n.states) }

// CaptureCount returns the number of named/numbered capture groups.
func (n *NFA) CaptureCount() int { return n.captureCount }

// CaptureNames returns the capture keys in the order their BeginGroup nodes
// were allocated.
func (n *NFA) CaptureNames() []CaptureKey {
	out := make([]CaptureKey, len(n.captureNames))
	copy(out, n.captureNames)
	return out
}

// Iter returns an iterator over every node in the arena.
func (n *NFA) Iter() *StateIter { return &StateIter{nfa: n} }

// StateIter walks every node of an NFA in arena order.
type StateIter struct {
	nfa *NFA
	pos int
}

// Next returns the next state, or nil when iteration is complete.
func (it *StateIter) Next() *State {
	if it.pos >= len(it.nfa.states) {
		return nil
	}
	s := &it.nfa.states[it.pos]
	it.pos++
	return s
}

// HasNext reports whether more nodes remain.
func (it *StateIter) HasNext() bool { return it.pos < len(it.nfa.states) }

func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, start: %d, captures: %d}", len(n.states), n.start, n.captureCount)
}
