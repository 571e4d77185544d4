package rex

import (
	"math/rand/v2"

	"github.com/coregx/rex/rexec"
)

// DefaultMaxGenerateLen bounds how many code points Generate will
// produce before giving up on a pattern that admits unbounded
// repetition. Callers needing longer output pass their own maxLen.
const DefaultMaxGenerateLen = 256

// Generate produces one random string matching the pattern, using rng
// for every choice. maxLen, if given, overrides DefaultMaxGenerateLen.
func (r *Regex) Generate(rng *rand.Rand, maxLen ...int) (string, error) {
	r.mu.Lock()
	if r.torn {
		r.mu.Unlock()
		return "", ErrTornDown
	}
	graph := r.graph
	r.mu.Unlock()

	limit := DefaultMaxGenerateLen
	if len(maxLen) > 0 {
		limit = maxLen[0]
	}

	s, err := rexec.Generate(rng, graph, limit)
	if err != nil {
		return "", wrapExecErr(err)
	}
	return s, nil
}

// Generate compiles pattern and produces one random string matching it,
// a convenience for callers that do not need the handle afterward.
func Generate(pattern string, opts Options, rng *rand.Rand, maxLen ...int) (string, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return "", err
	}
	return re.Generate(rng, maxLen...)
}
