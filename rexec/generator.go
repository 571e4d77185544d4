package rexec

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/coregx/rex/nfa"
)

// ErrGenerateNoCharacter is returned when a negated class's complement is
// empty (its accumulated set denotes every code point), so EndPeek has
// nothing left to sample.
var ErrGenerateNoCharacter = errors.New("rexec: no character available to satisfy a negated class")

// ErrGenerateTooLong is returned when a random walk produces more
// characters than maxLen allows, almost always because the pattern admits
// unbounded repetition.
var ErrGenerateTooLong = errors.New("rexec: generated output exceeded max length")

// Generate walks g as a single random traversal, sampling a code point at
// every Match/EndPeek node instead of testing one, and returns the string
// it produced. Split nodes choose one successor uniformly at random: a
// generation walk never forks the way Parse/Search do, since it only
// needs to produce one string per call.
func Generate(rng *rand.Rand, g *nfa.NFA, maxLen int) (string, error) {
	var sb strings.Builder
	node := g.Start()
	count := 0
	maxSteps := maxLen*64 + 1024
	for steps := 0; ; steps++ {
		if steps > maxSteps {
			return "", ErrGenerateTooLong
		}
		st := g.State(node)
		if st == nil {
			return "", &ProtocolError{Message: fmt.Sprintf("invalid state id %d", node)}
		}

		switch st.Kind() {
		case nfa.StateStart:
			node = st.Next()

		case nfa.StateMatch:
			if st.Peek() {
				// Peek members only accumulate into EndPeek's carried
				// set, which is already folded in at build time.
				node = st.Next()
				continue
			}
			if count >= maxLen {
				return "", ErrGenerateTooLong
			}
			sb.WriteRune(st.Set().Pick(rng))
			count++
			node = st.Next()

		case nfa.StateBeginGroup, nfa.StateEndGroup, nfa.StateBeginPeek:
			node = st.Next()

		case nfa.StateEndPeek:
			if count >= maxLen {
				return "", ErrGenerateTooLong
			}
			c, ok := st.Set().PickNeg(rng)
			if !ok {
				return "", ErrGenerateNoCharacter
			}
			sb.WriteRune(c)
			count++
			node = st.Next()

		case nfa.StateSplit:
			out := st.Out()
			node = out[rng.IntN(len(out))]

		case nfa.StateSuccess:
			return sb.String(), nil

		default:
			return "", &ProtocolError{Message: fmt.Sprintf("unhandled node kind %v", st.Kind())}
		}
	}
}
