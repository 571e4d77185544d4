package uniset

import (
	"fmt"
	"strings"
	"unicode"
)

// literalWhitespace is the explicit whitespace list the extension class Xsp
// folds in alongside the Unicode space-separator category, per the \s
// definition quoted in the property grammar: [\s \n \r \t \v \f].
var literalWhitespace = []rune{' ', '\n', '\r', '\t', '\v', '\f'}

func xan() *Set {
	return UnionAll(FromRangeTable(unicode.L), FromRangeTable(unicode.N))
}

func xwd() *Set {
	return Union(xan(), Char('_'))
}

func xsp() *Set {
	return Union(FromRangeTable(unicode.Z), CharList(literalWhitespace))
}

var extensionClasses = map[string]func() *Set{
	"xan": xan,
	"xwd": xwd,
	"xsp": xsp,
}

// blockRanges holds the Unicode blocks this engine recognizes by name.
// Unlike categories and scripts, Go's standard library does not ship a
// block table, so the common blocks are enumerated here directly; every
// Unicode block is, by definition, a single contiguous run.
var blockRanges = map[string]Run{
	"basiclatin":           {Start: 0x0000, Length: 0x0080},
	"latin-1supplement":    {Start: 0x0080, Length: 0x0080},
	"latinextended-a":      {Start: 0x0100, Length: 0x0080},
	"latinextended-b":      {Start: 0x0180, Length: 0x00D0},
	"greekandcoptic":       {Start: 0x0370, Length: 0x0090},
	"cyrillic":             {Start: 0x0400, Length: 0x0100},
	"hebrew":               {Start: 0x0590, Length: 0x0070},
	"arabic":               {Start: 0x0600, Length: 0x0100},
	"devanagari":           {Start: 0x0900, Length: 0x0080},
	"armenian":             {Start: 0x0530, Length: 0x0060},
	"hiragana":             {Start: 0x3040, Length: 0x0060},
	"katakana":             {Start: 0x30A0, Length: 0x0060},
	"cjkunifiedideographs": {Start: 0x4E00, Length: 0x5200},
	"hangulsyllables":      {Start: 0xAC00, Length: 0x2BB0},
	"generalpunctuation":   {Start: 0x2000, Length: 0x0070},
	"currencysymbols":      {Start: 0x20A0, Length: 0x0030},
	"emoticons":            {Start: 0x1F600, Length: 0x0050},
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "")
	name = strings.ReplaceAll(name, "_", "")
	return name
}

// Resolve looks up a \p{name}-style property name and returns the set of
// code points it denotes. Lookup order: the literal (case-sensitive)
// Unicode general category table, the engine's extension classes (Xan,
// Xwd, Xsp), named Unicode blocks, then named Unicode scripts. "Any" is an
// alias for the full code point space.
func Resolve(name string) (*Set, error) {
	if name == "Any" {
		return All(), nil
	}
	if t, ok := unicode.Categories[name]; ok {
		return FromRangeTable(t), nil
	}

	norm := normalizeName(name)
	if ctor, ok := extensionClasses[norm]; ok {
		return ctor(), nil
	}
	if run, ok := blockRanges[norm]; ok {
		return &Set{tag: General, size: run.Length, runs: []Run{run}}, nil
	}
	for sname, t := range unicode.Scripts {
		if normalizeName(sname) == norm {
			return FromRangeTable(t), nil
		}
	}

	return nil, fmt.Errorf("uniset: unknown property %q", name)
}
