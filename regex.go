// Package rex is the public façade over the lexer/parser/NFA/executor
// pipeline: Compile a pattern once, then Match, Search, or Generate
// against it any number of times. It adds no semantics of its own beyond
// option validation and result shaping — the core lives in syntax, nfa,
// and rexec.
package rex

import (
	"context"
	"errors"
	"sync"

	"github.com/coregx/rex/nfa"
	"github.com/coregx/rex/rexec"
	"github.com/coregx/rex/syntax"
)

// ErrTornDown is returned by Match/Search/Generate on a Regex whose
// Teardown has already been called.
var ErrTornDown = errors.New("rex: handle has been torn down")

// Regex is a compiled pattern: an AST, its NFA, and a lazily-built
// search-wrapped NFA shared across every Search call until Teardown.
type Regex struct {
	pattern     string
	defaultOpts Options
	ast         *syntax.Node

	mu          sync.Mutex
	graph       *nfa.NFA
	searchGraph *nfa.NFA
	torn        bool
}

// Compile parses pattern and builds its NFA. opts.Dotall is baked into
// the compiled graph; the remaining fields become the default options
// every Match/Search call uses unless it supplies its own.
func Compile(pattern string, opts Options) (*Regex, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ast, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}

	graph, err := nfa.Compile(ast, opts.Dotall)
	if err != nil {
		return nil, err
	}

	return &Regex{
		pattern:     pattern,
		defaultOpts: opts,
		ast:         ast,
		graph:       graph,
	}, nil
}

// MustCompile is like Compile but panics on error, for patterns known to
// be valid at init time.
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic("rex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// String returns the source pattern text.
func (r *Regex) String() string { return r.pattern }

// NumSubexp returns the number of capture groups the pattern declares.
func (r *Regex) NumSubexp() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.graph == nil {
		return 0
	}
	return r.graph.CaptureCount()
}

// Teardown invalidates the handle. Every subsequent Match/Search/Generate
// call on it returns ErrTornDown; calling Teardown more than once is a
// no-op, matching §6's "teardown ignores non-handles".
func (r *Regex) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.torn = true
	r.graph = nil
	r.searchGraph = nil
}

func (r *Regex) resolveOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return r.defaultOpts
}

func multiplicity(o Options) rexec.Multiplicity {
	if o.Multiple == MultipleAll {
		return rexec.All
	}
	return rexec.One
}

// Match runs the pattern against input in full-match mode: it accepts
// only if the whole input is consumed. opts, if given, overrides the
// options Compile was called with.
func (r *Regex) Match(input string, opts ...Options) (MatchResult, error) {
	o := r.resolveOptions(opts)
	if err := o.validate(); err != nil {
		return MatchResult{}, err
	}

	full := []rune(input)
	if err := o.validateAgainstInput(full); err != nil {
		return MatchResult{}, err
	}

	r.mu.Lock()
	if r.torn {
		r.mu.Unlock()
		return MatchResult{}, ErrTornDown
	}
	graph := r.graph
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout())
	defer cancel()

	outcome, err := rexec.Run(ctx, graph, full[o.Offset:], rexec.ModeMatch, multiplicity(o), 0)
	if err != nil {
		return MatchResult{}, wrapExecErr(err)
	}

	res := MatchResult{Input: input}
	for _, result := range outcome.Results {
		res.Matches = append(res.Matches, shapeCaptures(result.Captures, input, full, o.Offset, o))
	}
	return res, nil
}

// searchGraphFor lazily splices a disposable ".*" prefix onto a copy of
// the compiled NFA, caching it so repeated Search calls against the same
// handle pay the splice cost once.
func (r *Regex) searchGraphFor() (*nfa.NFA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.torn {
		return nil, ErrTornDown
	}
	if r.searchGraph == nil {
		g, err := nfa.WrapSearch(r.graph)
		if err != nil {
			return nil, err
		}
		r.searchGraph = g
	}
	return r.searchGraph, nil
}

// Search finds every occurrence (or, with Options.Multiple == MultipleOne,
// the first occurrence) of the pattern anywhere in input.
func (r *Regex) Search(input string, opts ...Options) (SearchResult, error) {
	o := r.resolveOptions(opts)
	if err := o.validate(); err != nil {
		return SearchResult{}, err
	}

	full := []rune(input)
	if err := o.validateAgainstInput(full); err != nil {
		return SearchResult{}, err
	}

	g, err := r.searchGraphFor()
	if err != nil {
		return SearchResult{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout())
	defer cancel()

	outcome, err := rexec.Run(ctx, g, full[o.Offset:], rexec.ModeSearch, multiplicity(o), 0)
	if err != nil {
		return SearchResult{}, wrapExecErr(err)
	}

	res := SearchResult{Input: input}
	for _, result := range outcome.Results {
		res.Matches = append(res.Matches, SearchMatch{
			Pos:      result.Begin + o.Offset,
			Len:      result.Len,
			Captures: shapeCaptures(result.Captures, input, full, o.Offset, o),
		})
	}
	return res, nil
}

// shapeCaptures turns the executor's raw capture map into the public
// Captures a caller sees: it always adds WholeInputKey, applies the
// option's capture filter, fills absent groups with NoCapture, and
// slices out Text when Return is ReturnBinary. offset shifts every
// position back to the caller's original (unsliced) input.
func shapeCaptures(caps rexec.Captures, input string, full []rune, offset int, o Options) Captures {
	out := make(Captures, len(caps)+1)
	out[WholeInputKey] = Capture{Pos: 0, Len: len(full), Text: sliceText(o, full, 0, len(full))}

	for key, c := range caps {
		if key == nfa.SearchCaptureKey || !captureAllowed(key, o) {
			continue
		}
		if c.Len < 0 {
			out[key] = NoCapture
			continue
		}
		pos := c.Start + offset
		out[key] = Capture{Pos: pos, Len: c.Len, Text: sliceText(o, full, pos, c.Len)}
	}
	return out
}

func captureAllowed(key CaptureKey, o Options) bool {
	switch o.Capture {
	case CaptureAll:
		return true
	case CaptureNamed:
		return key.Label != ""
	case CaptureNone:
		return false
	case CaptureList:
		for _, k := range o.CaptureKeys {
			if k == key {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sliceText(o Options, full []rune, pos, length int) string {
	if o.Return != ReturnBinary {
		return ""
	}
	return string(full[pos : pos+length])
}
