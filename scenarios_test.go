package rex_test

import (
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/coregx/rex"
)

// choose is the plain binomial coefficient, used only to compute the
// expected count for TestLawPascalTriangleCount below.
func choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}

// TestLawGenerateIsSubsetOfMatch is spec's "Generate ⊂ Match" law: for
// every regex r and every generated string s = generate(r), match(r, s)
// succeeds. Run as an ensemble over a range of quantifier/alternation/
// class/group shapes, several random draws each.
func TestLawGenerateIsSubsetOfMatch(t *testing.T) {
	patterns := []string{
		"abc",
		"a+b*c?",
		"[a-c]{3}",
		"cat|dog",
		"(foo)+bar",
		"[0-9]{2}",
		"(a|b){3}",
		`\w+`,
		"a*b*c*",
		`(?<word>[a-z]+)\-[0-9]{2}`,
	}

	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			re := rex.MustCompile(p, rex.DefaultOptions())
			rng := rand.New(rand.NewPCG(1, uint64(len(p))))
			for i := 0; i < 15; i++ {
				s, err := re.Generate(rng)
				if err != nil {
					t.Fatalf("Generate(%q) error: %v", p, err)
				}
				res, err := re.Match(s)
				if err != nil {
					t.Fatalf("Match(%q) error: %v", s, err)
				}
				if !res.Matched() {
					t.Fatalf("Generate(%q) produced %q, which the same pattern does not match", p, s)
				}
			}
		})
	}
}

// capturesEqual compares two Captures maps by value, since rex.Captures
// is a map and cannot be compared with ==.
func capturesEqual(a, b rex.Captures) bool {
	return reflect.DeepEqual(a, b)
}

// TestLawMultiplicitySanity is spec's multiplicity-sanity law: the
// MultipleOne result is an element of the MultipleAll result set, and the
// MultipleAll result set contains no duplicates. The ensemble below is
// restricted to patterns whose ambiguous branches always differ in their
// captures — a pattern like "a|a" is ambiguous but every branch reports
// identical (empty) captures, and this engine's traversal-counting
// design deliberately reports that case as repeated results (see
// TestMatchAmbiguousAllEnumeratesEveryResult), so it is not a
// counterexample to this law, just outside its scope.
func TestLawMultiplicitySanity(t *testing.T) {
	cases := []struct{ pattern, input string }{
		{"(a?)(a*)", "aa"},
		{"(a?)(a?)(a*)(a*)", "aa"},
		{"(ab|a)(b|bc|c)", "abc"},
	}

	for _, c := range cases {
		t.Run(c.pattern+"/"+c.input, func(t *testing.T) {
			oneOpts := rex.DefaultOptions()
			oneOpts.Multiple = rex.MultipleOne
			allOpts := rex.DefaultOptions()
			allOpts.Multiple = rex.MultipleAll

			re := rex.MustCompile(c.pattern, rex.DefaultOptions())

			oneRes, err := re.Match(c.input, oneOpts)
			if err != nil {
				t.Fatalf("Match (one) error: %v", err)
			}
			if !oneRes.Matched() {
				t.Fatalf("expected a match for %q against %q", c.pattern, c.input)
			}

			allRes, err := re.Match(c.input, allOpts)
			if err != nil {
				t.Fatalf("Match (all) error: %v", err)
			}

			found := false
			for _, m := range allRes.Matches {
				if capturesEqual(m, oneRes.Matches[0]) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("the MultipleOne result is not an element of the MultipleAll result set")
			}

			for i := range allRes.Matches {
				for j := i + 1; j < len(allRes.Matches); j++ {
					if capturesEqual(allRes.Matches[i], allRes.Matches[j]) {
						t.Errorf("MultipleAll result set has a duplicate at indices %d and %d", i, j)
					}
				}
			}
		})
	}
}

// TestLawSearchEqualsWrappedMatch is spec's "search == wrapped match"
// law: for r/x without unusual surface syntax, the span of group 1 in
// match(".*(" + r + ").*", x) equals the span search(r, x) reports for
// its first occurrence.
func TestLawSearchEqualsWrappedMatch(t *testing.T) {
	cases := []struct{ pattern, input string }{
		{"ana", "banana"},
		{"cat", "the cat sat"},
		{"Z", "aZnZs"},
		{"[0-9]+", "age 42 now"},
	}

	for _, c := range cases {
		t.Run(c.pattern+"/"+c.input, func(t *testing.T) {
			wrapped := rex.MustCompile(".*("+c.pattern+").*", rex.DefaultOptions())
			wrappedRes, err := wrapped.Match(c.input)
			if err != nil {
				t.Fatalf("Match error: %v", err)
			}
			if !wrappedRes.Matched() {
				t.Fatalf("wrapped match against %q did not match", c.input)
			}
			group1 := wrappedRes.Matches[0][rex.CaptureKey{Ordinal: 1}]

			direct := rex.MustCompile(c.pattern, rex.DefaultOptions())
			searchRes, err := direct.Search(c.input)
			if err != nil {
				t.Fatalf("Search error: %v", err)
			}
			if !searchRes.Matched() {
				t.Fatalf("search for %q in %q found nothing", c.pattern, c.input)
			}
			first := searchRes.Matches[0]

			if group1.Pos != first.Pos || group1.Len != first.Len {
				t.Errorf("wrapped-match group 1 = {%d,%d}, search = {%d,%d}",
					group1.Pos, group1.Len, first.Pos, first.Len)
			}
		})
	}
}

// TestLawPascalTriangleCount is spec's Pascal-triangle-count law: for
// r = (a?)^n(a*)^n against input a^n, the number of ambiguous matches is
// Σ_{k=0}^{n} C(n,k)·C(n+k-1,k) — every independent way to split n
// code points across n optional slots and n unbounded slots.
func TestLawPascalTriangleCount(t *testing.T) {
	allOpts := rex.DefaultOptions()
	allOpts.Multiple = rex.MultipleAll

	for n := 1; n <= 3; n++ {
		pattern := ""
		for i := 0; i < n; i++ {
			pattern += "(a?)"
		}
		for i := 0; i < n; i++ {
			pattern += "(a*)"
		}
		input := ""
		for i := 0; i < n; i++ {
			input += "a"
		}

		want := 0
		for k := 0; k <= n; k++ {
			want += choose(n, k) * choose(n+k-1, k)
		}

		re := rex.MustCompile(pattern, allOpts)
		res, err := re.Match(input)
		if err != nil {
			t.Fatalf("n=%d: Match error: %v", n, err)
		}
		if len(res.Matches) != want {
			t.Errorf("n=%d: |Matches| = %d, want %d", n, len(res.Matches), want)
		}
	}
}

// TestScenarioPascalPairExactCaptures is spec's concrete scenario 5:
// match("(a?)(a*)", "aa", multiple=all) yields exactly the two capture
// sets {1:"",2:"aa"} and {1:"a",2:"a"}.
func TestScenarioPascalPairExactCaptures(t *testing.T) {
	allOpts := rex.DefaultOptions()
	allOpts.Multiple = rex.MultipleAll
	re := rex.MustCompile("(a?)(a*)", allOpts)

	res, err := re.Match("aa")
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(res.Matches))
	}

	g1, g2 := rex.CaptureKey{Ordinal: 1}, rex.CaptureKey{Ordinal: 2}
	type span struct{ len1, len2 int }
	got := map[span]bool{}
	for _, m := range res.Matches {
		got[span{m[g1].Len, m[g2].Len}] = true
	}
	want := map[span]bool{{0, 2}: true, {1, 1}: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("capture (len1,len2) pairs = %v, want %v", got, want)
	}
}

// TestScenarioSearchAllOverlapsAndDisjoint is spec's concrete scenario 7:
// search("Z", "aZnZs", multiple=all) locates both Z's, each still
// carrying the whole input at key 0.
func TestScenarioSearchAllOverlapsAndDisjoint(t *testing.T) {
	allOpts := rex.DefaultOptions()
	allOpts.Multiple = rex.MultipleAll
	re := rex.MustCompile("Z", allOpts)

	res, err := re.Search("aZnZs")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(res.Matches))
	}

	type span struct{ pos, len int }
	got := map[span]bool{}
	for _, m := range res.Matches {
		got[span{m.Pos, m.Len}] = true
		whole := m.Captures[rex.WholeInputKey]
		if whole.Pos != 0 || whole.Len != 5 {
			t.Errorf("key 0 span = %+v, want {0 5 ...}", whole)
		}
	}
	want := map[span]bool{{1, 1}: true, {3, 1}: true}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("search spans = %v, want %v", got, want)
	}
}

// TestScenarioOffsetHappyPath is the positive half of spec's concrete
// scenario 1: match("XYab", offset=2) succeeds because "ab" sits at
// code-point offset 2.
func TestScenarioOffsetHappyPath(t *testing.T) {
	re := rex.MustCompile("ab", rex.DefaultOptions())
	opts := rex.DefaultOptions()
	opts.Offset = 2

	res, err := re.Match("XYab", opts)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if !res.Matched() {
		t.Error("expected offset=2 to land exactly on \"ab\"")
	}
}
