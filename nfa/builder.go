package nfa

import (
	"fmt"

	"github.com/coregx/rex/internal/conv"
	"github.com/coregx/rex/uniset"
)

// Builder constructs an NFA arena incrementally. The combinator layer
// (combinators.go) is the only caller; it wires nodes together exactly as
// the AST prescribes and leaves validation to Build.
type Builder struct {
	states []State
	start  StateID

	captureCount int
	captureNames []CaptureKey
}

// NewBuilder creates an empty Builder with default arena capacity.
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates an empty Builder with the given arena capacity.
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

func (b *Builder) add(s State) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	s.id = id
	b.states = append(b.states, s)
	return id
}

// AddStart adds the pass-through entry node.
func (b *Builder) AddStart(next StateID) StateID {
	return b.add(State{kind: StateStart, next: next})
}

// AddMatch adds a node that consumes one code point from set and
// transitions to next. peek marks it as a peek-member of a negated class,
// to be wired between BeginPeek/EndPeek rather than consumed directly.
func (b *Builder) AddMatch(set *uniset.Set, peek bool, next StateID) StateID {
	return b.add(State{kind: StateMatch, set: set, peek: peek, next: next})
}

// AddSplit adds an epsilon fan-out to the given successors. The executor
// pushes them onto a LIFO work stack, so the last listed is explored
// first (and so wins single-match mode when it accepts); all are explored
// for exhaustive enumeration.
func (b *Builder) AddSplit(out ...StateID) StateID {
	cp := make([]StateID, len(out))
	copy(cp, out)
	return b.add(State{kind: StateSplit, out: cp})
}

// AddBeginGroup/AddEndGroup add capture-boundary nodes for the given key.
func (b *Builder) AddBeginGroup(key CaptureKey, next StateID) StateID {
	return b.add(State{kind: StateBeginGroup, group: key, next: next})
}

func (b *Builder) AddEndGroup(key CaptureKey, next StateID) StateID {
	return b.add(State{kind: StateEndGroup, group: key, next: next})
}

// AddBeginPeek/AddEndPeek bracket a negated character class. set on
// EndPeek is the union of all peek-members seen inside the bracket; its
// complement is what actually gets consumed.
func (b *Builder) AddBeginPeek(next StateID) StateID {
	return b.add(State{kind: StateBeginPeek, next: next})
}

func (b *Builder) AddEndPeek(set *uniset.Set, next StateID) StateID {
	return b.add(State{kind: StateEndPeek, set: set, next: next})
}

// AddSuccess adds a terminal accepting node.
func (b *Builder) AddSuccess() StateID {
	return b.add(State{kind: StateSuccess})
}

// Patch rewires the single successor of a Start/Match/BeginGroup/EndGroup/EndPeek node.
func (b *Builder) Patch(id, target StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: id}
	}
	s := &b.states[id]
	switch s.kind {
	case StateStart, StateMatch, StateBeginGroup, StateEndGroup, StateEndPeek:
		s.next = target
		return nil
	default:
		return &BuildError{Message: fmt.Sprintf("cannot patch state of kind %s", s.kind), StateID: id}
	}
}

// PatchSplit rewires the fan-out successors of a Split node.
func (b *Builder) PatchSplit(id StateID, out ...StateID) error {
	if int(id) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: id}
	}
	s := &b.states[id]
	if s.kind != StateSplit {
		return &BuildError{Message: fmt.Sprintf("expected Split state, got %s", s.kind), StateID: id}
	}
	cp := make([]StateID, len(out))
	copy(cp, out)
	s.out = cp
	return nil
}

// SetStart sets the NFA's entry point.
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// DeclareCapture registers a capture group's key in allocation order. The
// combinator layer calls this once per BeginGroup it emits so the built
// NFA can report CaptureNames()/CaptureCount() without re-walking the arena.
func (b *Builder) DeclareCapture(key CaptureKey) {
	b.captureNames = append(b.captureNames, key)
	b.captureCount++
}

// States returns the number of nodes allocated so far.
func (b *Builder) States() int { return len(b.states) }

// Validate checks that the arena is well-formed: the start state is set
// and in range, and every node's successor references point at allocated
// states.
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set"}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{Message: "start state out of bounds", StateID: b.start}
	}

	for i, s := range b.states {
		id := StateID(i)
		switch s.kind {
		case StateStart, StateMatch, StateBeginGroup, StateEndGroup, StateEndPeek:
			if s.next != InvalidState && int(s.next) >= len(b.states) {
				return &BuildError{Message: fmt.Sprintf("invalid next state %d", s.next), StateID: id}
			}
		case StateSplit:
			if len(s.out) < 2 {
				return &BuildError{Message: "split state needs at least 2 successors", StateID: id}
			}
			for _, o := range s.out {
				if o != InvalidState && int(o) >= len(b.states) {
					return &BuildError{Message: fmt.Sprintf("invalid split target %d", o), StateID: id}
				}
			}
		}
	}
	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	names := make([]CaptureKey, len(b.captureNames))
	copy(names, b.captureNames)
	return &NFA{
		states:       b.states,
		start:        b.start,
		captureCount: b.captureCount,
		captureNames: names,
	}, nil
}
