package nfa

import "github.com/coregx/rex/uniset"

// SearchCaptureKey is the distinguished capture key WrapSearch's prefix
// pushes via BeginGroup, with no matching EndGroup, at the point it hands
// off into the wrapped pattern. The executor reads it to learn where an
// unanchored match began; it never appears in a compiled NFA's own
// CaptureNames, since WrapSearch never declares it.
var SearchCaptureKey = CaptureKey{Ordinal: 1, Label: "__search__"}

// Splice copies every node of sub into b, offsetting state IDs past b's
// current arena, and re-declares sub's captures in order so the combined
// NFA still reports them correctly. sub itself is left untouched. Splice
// returns sub's entry point, remapped into b's arena.
func (b *Builder) Splice(sub *NFA) StateID {
	offset := StateID(len(b.states))

	remap := func(id StateID) StateID {
		if id == InvalidState {
			return InvalidState
		}
		return id + offset
	}

	for _, s := range sub.states {
		ns := s
		ns.id = remap(s.id)
		ns.next = remap(s.next)
		if s.out != nil {
			out := make([]StateID, len(s.out))
			for i, o := range s.out {
				out[i] = remap(o)
			}
			ns.out = out
		}
		b.states = append(b.states, ns)
	}

	for _, key := range sub.captureNames {
		b.DeclareCapture(key)
	}

	return remap(sub.start)
}

// WrapSearch builds a disposable unanchored-search graph around a copy of
// user's states: a ".*" prefix (always dotall, since a search candidate
// offset must be reachable regardless of embedded newlines) whose Split
// fans out to both "consume one more prefix rune" and "hand off to the
// wrapped pattern" at every position, preceded by a BeginGroup carrying
// SearchCaptureKey and no matching EndGroup. Because the fan-out happens
// at every position, the resulting Start already explores every candidate
// begin offset as an independent traversal; no re-seeding after a match is
// needed. user is left untouched, so the same compiled pattern can still
// be run anchored.
func WrapSearch(user *NFA) (*NFA, error) {
	b := NewBuilderWithCapacity(user.States() + 8)

	userEntry := b.Splice(user)
	begin := b.AddBeginGroup(SearchCaptureKey, userEntry)

	split := b.AddSplit(begin, begin) // placeholder, patched below
	prefix := b.AddMatch(uniset.All(), false, split)
	if err := b.PatchSplit(split, prefix, begin); err != nil {
		return nil, err
	}

	start := b.AddStart(split)
	b.SetStart(start)
	return b.Build()
}
