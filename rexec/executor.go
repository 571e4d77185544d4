package rexec

import (
	"context"
	"fmt"

	"github.com/coregx/rex/internal/conv"
	"github.com/coregx/rex/internal/sparse"
	"github.com/coregx/rex/nfa"
)

// SearchKey is the distinguished capture key nfa.WrapSearch pushes via
// BeginGroup (with no matching EndGroup) at the point its ".*" prefix
// hands off into the wrapped pattern. It is never popped; explore reads
// it off to learn where a ModeSearch match began.
var SearchKey = nfa.SearchCaptureKey

// Mode selects which Success semantics a run uses.
type Mode uint8

const (
	// ModeMatch requires the whole input to be consumed.
	ModeMatch Mode = iota
	// ModeSearch accepts a Success as soon as the graph reaches it,
	// regardless of leftover input; the caller (the rex package's search
	// wrapping) is responsible for compiling a graph whose Start already
	// explores every candidate begin offset.
	ModeSearch
)

// Multiplicity selects whether a run stops at the first result or
// exhaustively enumerates every accepting traversal.
type Multiplicity uint8

const (
	One Multiplicity = iota
	All
)

// DefaultMaxTraversals bounds the number of concurrently pending
// traversals a Run will carry before giving up with a
// TooManyTraversalsError. Callers may override it; 0 means use this
// default, a negative value means unlimited.
const DefaultMaxTraversals = 1 << 20

// Result is one accepted traversal: a full match (ModeMatch) or a
// substring match (ModeSearch, where Begin/Len locate it in the input).
type Result struct {
	Begin    int
	Len      int
	Captures Captures
}

// Outcome collects every Result a Run produced, in discovery order.
type Outcome struct {
	Results []Result
}

// traversal is one pending exploration: a node to resume at, the input
// position it has consumed up to, its open-group stack and recorded
// captures, the rune offset it began at (for ModeSearch), and the set of
// zero-width nodes visited since its last consumption (cycle guard).
type traversal struct {
	node       nfa.StateID
	pos        int
	caps       Captures
	stack      []groupFrame
	begin      int
	noProgress *sparse.SparseSet
}

// Run explores g over input from its Start state, following mode's
// Success semantics, and returns every accepted traversal (one, if
// multiple is One and a result is found; every one of them, if All).
func Run(ctx context.Context, g *nfa.NFA, input []rune, mode Mode, multiple Multiplicity, maxTraversals int) (*Outcome, error) {
	if maxTraversals == 0 {
		maxTraversals = DefaultMaxTraversals
	}

	capacity := conv.IntToUint32(g.States())

	out := &Outcome{}
	work := []traversal{{node: g.Start(), pos: 0, caps: Captures{}, noProgress: sparse.NewSparseSet(capacity)}}
	active := 1

	for len(work) > 0 {
		select {
		case <-ctx.Done():
			return nil, &TimeoutError{Elapsed: ctx.Err().Error()}
		default:
		}

		t := work[len(work)-1]
		work = work[:len(work)-1]
		active--

		results, spawned, err := explore(g, input, mode, t)
		if err != nil {
			return nil, err
		}

		for _, r := range results {
			r.Captures = withAbsentCaptures(r.Captures, g.CaptureNames())
			out.Results = append(out.Results, r)
			if multiple == One {
				return out, nil
			}
			// No re-seeding needed in ModeSearch: the graph's own ".*"
			// prefix (§4.7) is built as an ordinary ZeroMore, so its
			// Split already forks a candidate traversal at every start
			// offset up front. Every match — overlapping or not —
			// falls out of that fan-out without further help.
		}

		work = append(work, spawned...)
		active += len(spawned)
		if maxTraversals > 0 && active > maxTraversals {
			return nil, &TooManyTraversalsError{Limit: maxTraversals}
		}
	}

	return out, nil
}

// explore advances one traversal through zero-width nodes until it either
// forks at a Split (returns the fork as new pending traversals), dies at a
// failed Match/EndPeek or a cycle, or reaches Success (returns a Result).
func explore(g *nfa.NFA, input []rune, mode Mode, t traversal) ([]Result, []traversal, error) {
	np := t.noProgress

	seenOnce := func(id nfa.StateID) bool {
		return !np.Insert(conv.IntToUint32(int(id)))
	}

	for {
		st := g.State(t.node)
		if st == nil {
			return nil, nil, &ProtocolError{Message: fmt.Sprintf("invalid state id %d", t.node)}
		}

		switch st.Kind() {
		case nfa.StateStart:
			if seenOnce(t.node) {
				return nil, nil, nil
			}
			t.node = st.Next()

		case nfa.StateMatch:
			if st.Peek() {
				if seenOnce(t.node) {
					return nil, nil, nil
				}
				if t.pos >= len(input) || st.Set().Contains(input[t.pos]) {
					return nil, nil, nil
				}
				t.node = st.Next()
			} else {
				if t.pos >= len(input) || !st.Set().Contains(input[t.pos]) {
					return nil, nil, nil
				}
				t.pos++
				t.node = st.Next()
				np = sparse.NewSparseSet(conv.IntToUint32(g.States()))
			}

		case nfa.StateBeginGroup:
			if seenOnce(t.node) {
				return nil, nil, nil
			}
			stack := make([]groupFrame, len(t.stack)+1)
			copy(stack, t.stack)
			stack[len(t.stack)] = groupFrame{key: st.Group(), start: t.pos}
			t.stack = stack
			if st.Group() == SearchKey {
				t.begin = t.pos
			}
			t.node = st.Next()

		case nfa.StateEndGroup:
			if seenOnce(t.node) {
				return nil, nil, nil
			}
			if len(t.stack) == 0 {
				return nil, nil, &ProtocolError{Message: "EndGroup with empty open-group stack"}
			}
			frame := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.caps = t.caps.with(frame.key, Capture{Start: frame.start, Len: t.pos - frame.start})
			t.node = st.Next()

		case nfa.StateBeginPeek:
			if seenOnce(t.node) {
				return nil, nil, nil
			}
			t.node = st.Next()

		case nfa.StateEndPeek:
			if t.pos >= len(input) {
				return nil, nil, nil
			}
			t.pos++
			t.node = st.Next()
			np = sparse.NewSparseSet(conv.IntToUint32(g.States()))

		case nfa.StateSplit:
			if seenOnce(t.node) {
				return nil, nil, nil
			}
			out := st.Out()
			spawned := make([]traversal, len(out))
			for i, target := range out {
				cp := np.Clone()
				spawned[i] = traversal{
					node:       target,
					pos:        t.pos,
					caps:       t.caps,
					stack:      t.stack,
					begin:      t.begin,
					noProgress: cp,
				}
			}
			return nil, spawned, nil

		case nfa.StateSuccess:
			switch mode {
			case ModeMatch:
				if t.pos == len(input) {
					return []Result{{Begin: t.begin, Len: t.pos - t.begin, Captures: t.caps}}, nil, nil
				}
				return nil, nil, nil
			case ModeSearch:
				return []Result{{Begin: t.begin, Len: t.pos - t.begin, Captures: t.caps}}, nil, nil
			default:
				return nil, nil, &ProtocolError{Message: "unknown mode"}
			}

		default:
			return nil, nil, &ProtocolError{Message: fmt.Sprintf("unhandled node kind %v", st.Kind())}
		}
	}
}

// withAbsentCaptures ensures the final captures mapping for a successful
// traversal contains every declared group, filling any the traversal
// never entered with NoCapture. It never mutates caps in place: caps may
// still be the shared, unforked map another pending traversal also
// holds a reference to.
func withAbsentCaptures(caps Captures, declared []nfa.CaptureKey) Captures {
	missing := false
	for _, key := range declared {
		if _, ok := caps[key]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return caps
	}

	out := make(Captures, len(caps)+len(declared))
	for k, v := range caps {
		out[k] = v
	}
	for _, key := range declared {
		if _, ok := out[key]; !ok {
			out[key] = NoCapture
		}
	}
	return out
}
