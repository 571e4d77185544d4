package rex

import "time"

// ReturnMode selects how a matched span is reported.
type ReturnMode uint8

const (
	// ReturnIndex reports captures as code-point (pos, len) pairs.
	ReturnIndex ReturnMode = iota
	// ReturnBinary additionally slices the matched text out of the input.
	ReturnBinary
)

// CaptureMode selects which captures a result exposes.
type CaptureMode uint8

const (
	// CaptureAll exposes every capture the pattern declares.
	CaptureAll CaptureMode = iota
	// CaptureNamed exposes only labelled groups.
	CaptureNamed
	// CaptureNone exposes no group captures (key 0 is still present).
	CaptureNone
	// CaptureList exposes only the groups named in Options.CaptureKeys.
	CaptureList
)

// Multiplicity selects whether a call stops at the first result or
// enumerates every accepting traversal.
type Multiplicity uint8

const (
	// MultipleOne stops at the first accepted traversal.
	MultipleOne Multiplicity = iota
	// MultipleAll exhaustively enumerates every accepted traversal.
	MultipleAll
)

// Options is the closed set of knobs every Compile/Match/Search/Generate
// call accepts. There is no functional-options pattern here: the set is
// closed by specification, so a plain struct with named defaults is all
// that is needed.
type Options struct {
	// Dotall, if true, makes "." match '\n' as well as everything else.
	Dotall bool

	// Return selects index or binary capture payloads.
	Return ReturnMode

	// Capture selects which captures a result exposes. CaptureKeys is
	// only consulted when Capture == CaptureList.
	Capture     CaptureMode
	CaptureKeys []CaptureKey

	// Timeout bounds how long a single Match/Search call may run before
	// it is aborted with a *TimeoutError. Zero means DefaultTimeout.
	// Generate does not consult it; its walk is bounded by maxLen.
	Timeout time.Duration

	// Multiple selects single-result or exhaustive-enumeration mode.
	Multiple Multiplicity

	// Offset is the initial code-point position Match/Search starts
	// scanning from.
	Offset int

	// GraphName is accepted for interface parity with the closed option
	// set but never consulted: DOT/PNG graph export is out of scope.
	GraphName *string
}

// DefaultTimeout is used whenever Options.Timeout is zero.
const DefaultTimeout = 1000 * time.Millisecond

// DefaultOptions returns the zero-value defaults: Dotall off, index
// captures, every capture exposed, a 1s timeout, single-result mode, no
// initial offset.
func DefaultOptions() Options {
	return Options{Timeout: DefaultTimeout}
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// validate checks the option fields whose bad values are detectable
// without a compiled pattern (negative timeout/offset, an unknown
// enum value, an empty key list under CaptureList).
func (o Options) validate() error {
	if o.Timeout < 0 {
		return &OptionError{Field: "Timeout", Message: "must not be negative"}
	}
	if o.Offset < 0 {
		return &OptionError{Field: "Offset", Message: "must not be negative"}
	}
	switch o.Return {
	case ReturnIndex, ReturnBinary:
	default:
		return &OptionError{Field: "Return", Message: "unknown return mode"}
	}
	switch o.Capture {
	case CaptureAll, CaptureNamed, CaptureNone:
	case CaptureList:
		if len(o.CaptureKeys) == 0 {
			return &OptionError{Field: "CaptureKeys", Message: "must be non-empty when Capture is CaptureList"}
		}
	default:
		return &OptionError{Field: "Capture", Message: "unknown capture mode"}
	}
	switch o.Multiple {
	case MultipleOne, MultipleAll:
	default:
		return &OptionError{Field: "Multiple", Message: "unknown multiplicity"}
	}
	return nil
}

// validateAgainstInput checks the option fields that can only be judged
// once the input is known (offset past end of input).
func (o Options) validateAgainstInput(input []rune) error {
	if o.Offset > len(input) {
		return &OptionError{Field: "Offset", Message: "past end of input"}
	}
	return nil
}
