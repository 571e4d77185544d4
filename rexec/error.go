package rexec

import "fmt"

// ProtocolError reports that the executor reached a node it could not
// dispatch, or a node whose internal invariants (an EndGroup with nothing
// open) were violated. Per the graph's own failure semantics, this is
// always fatal to the whole run, never just the one traversal.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("rexec: protocol error: %s", e.Message)
}

// TimeoutError reports that the run's context was cancelled before it
// finished exploring every traversal.
type TimeoutError struct {
	Elapsed string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("rexec: timed out after %s", e.Elapsed)
}

// TooManyTraversalsError reports that the number of concurrently pending
// traversals exceeded the run's configured ceiling, almost always because
// the pattern admits unbounded ambiguity against the given input.
type TooManyTraversalsError struct {
	Limit int
}

func (e *TooManyTraversalsError) Error() string {
	return fmt.Sprintf("rexec: exceeded traversal limit (%d)", e.Limit)
}
