package rex

import "github.com/coregx/rex/nfa"

// CaptureKey identifies a capture slot: the group's 1-based ordinal,
// plus its name for labelled groups. Ordinal 0 is reserved for
// the whole input, which every successful result carries regardless of
// Options.Capture.
type CaptureKey = nfa.CaptureKey

// WholeInputKey is the reserved key (ordinal 0) every successful result
// maps to the original input, independent of any capture filtering.
var WholeInputKey = CaptureKey{Ordinal: 0}

// Capture is one reported span: code-point (Pos, Len), plus the sliced
// Text when Options.Return is ReturnBinary.
type Capture struct {
	Pos  int
	Len  int
	Text string
}

// NoCapture is the sentinel for a capture group that never matched.
var NoCapture = Capture{Pos: -1, Len: -1}

// Captures maps a pattern's capture keys to their recorded spans.
type Captures map[CaptureKey]Capture

// MatchResult is the result of a Match call. Matched is false for
// NoMatch; Matches holds exactly one entry unless Options.Multiple is
// MultipleAll, in which case it holds every accepted traversal.
type MatchResult struct {
	Input   string
	Matches []Captures
}

// Matched reports whether the pattern matched at all.
func (r MatchResult) Matched() bool { return len(r.Matches) > 0 }

// SearchMatch is one located substring: its code-point span plus the
// captures recorded inside it.
type SearchMatch struct {
	Pos, Len int
	Captures Captures
}

// SearchResult is the result of a Search call. Matches holds every
// located substring; empty means no occurrence was found.
type SearchResult struct {
	Input   string
	Matches []SearchMatch
}

// Matched reports whether the pattern was found anywhere in the input.
func (r SearchResult) Matched() bool { return len(r.Matches) > 0 }
