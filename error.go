package rex

import (
	"fmt"

	"github.com/coregx/rex/rexec"
)

// OptionError reports a bad value in an Options struct, caught eagerly
// before any traversal starts.
type OptionError struct {
	Field   string
	Message string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("rex: option %s: %s", e.Field, e.Message)
}

// ProtocolError reports that the executor reached an internal state it
// could not dispatch. This should never happen against a pattern this
// package itself compiled; seeing one means a combinator or executor
// invariant broke.
type ProtocolError struct {
	err error
}

func (e *ProtocolError) Error() string { return "rex: " + e.err.Error() }
func (e *ProtocolError) Unwrap() error { return e.err }

// TimeoutError reports that a Match/Search call exceeded its
// Options.Timeout before finishing.
type TimeoutError struct {
	err error
}

func (e *TimeoutError) Error() string { return "rex: " + e.err.Error() }
func (e *TimeoutError) Unwrap() error { return e.err }

// wrapExecErr translates an error surfaced by rexec.Run into the
// rex-level error kinds §7 names, passing anything else through as-is.
func wrapExecErr(err error) error {
	switch e := err.(type) {
	case *rexec.ProtocolError:
		return &ProtocolError{err: e}
	case *rexec.TimeoutError:
		return &TimeoutError{err: e}
	default:
		return err
	}
}
