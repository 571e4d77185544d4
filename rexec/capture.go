// Package rexec runs a compiled NFA with a traversal-counting executor: a
// single-threaded cooperative scheduler over a work stack of pending
// traversals, dispatching by node kind, rather than backtracking.
package rexec

import "github.com/coregx/rex/nfa"

// Capture records the half-open span [Start, Start+Len) of one recorded
// group. A group that never matched has Len == -1.
type Capture struct {
	Start int
	Len   int
}

// NoCapture is the sentinel for a capture slot that was never populated.
var NoCapture = Capture{Start: -1, Len: -1}

// Captures is an immutable-by-convention map from capture key to span:
// BeginGroup never writes it, EndGroup builds a new map by copying the old
// one and overwriting the single changed key. Traversals that fork at a
// Split share the same map pointer until one of them actually records a
// capture, at which point only that branch pays the copy.
type Captures map[nfa.CaptureKey]Capture

func (c Captures) with(key nfa.CaptureKey, span Capture) Captures {
	next := make(Captures, len(c)+1)
	for k, v := range c {
		next[k] = v
	}
	next[key] = span
	return next
}

// groupFrame is one entry of the open-group stack a traversal carries
// between BeginGroup and EndGroup.
type groupFrame struct {
	key   nfa.CaptureKey
	start int
}
