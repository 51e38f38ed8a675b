// seehuhn.de/go/typeset - font access and PDF font emission for a typesetter
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package ligature implements ligature substitution tables.
//
// A [Table] maps the first glyph of a ligature to an ordered list of
// rules.  When a glyph sequence is converted, the rules for the current
// glyph are tried in the order they were added, and the first rule which
// matches is used.  This is not necessarily the longest match: if "f f"
// was added before "f f i", the sequence "f f i" is converted to the
// "ff" ligature followed by "i".
package ligature

import (
	"slices"
	"sort"

	"golang.org/x/text/language"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/opentype/gtab"
)

// Rule describes a single ligature.  The rule applies if the glyphs in Tail
// follow the start glyph under which the rule is stored.
type Rule struct {
	Tail []glyph.ID
	Lig  glyph.ID
}

// Table holds ligature rules, indexed by their first glyph.
// A Table must not be modified while it is being used concurrently.
type Table struct {
	rules map[glyph.ID][]Rule
}

// New returns an empty ligature table.
func New() *Table {
	return &Table{
		rules: make(map[glyph.ID][]Rule),
	}
}

// Add appends a rule which replaces first followed by tail with lig.
// A rule with an empty tail replaces the single glyph first.
func (t *Table) Add(first glyph.ID, tail []glyph.ID, lig glyph.ID) {
	t.rules[first] = append(t.rules[first], Rule{
		Tail: slices.Clone(tail),
		Lig:  lig,
	})
}

// Rules returns the rules starting with the given glyph, in the order they
// were added.
func (t *Table) Rules(first glyph.ID) []Rule {
	return t.rules[first]
}

// Len returns the total number of rules in the table.
func (t *Table) Len() int {
	n := 0
	for _, rr := range t.rules {
		n += len(rr)
	}
	return n
}

// Apply returns a copy of seq with all ligatures substituted.
//
// The sequence is scanned from left to right.  At each position, the rules
// for the current glyph are tried in order.  If a rule matches, the
// matched glyphs are replaced by the ligature glyph and scanning continues
// after the matched span.  Ligature glyphs are not considered as the start
// of further ligatures.
func (t *Table) Apply(seq []glyph.ID) []glyph.ID {
	res := make([]glyph.ID, 0, len(seq))
	pos := 0
	for pos < len(seq) {
		gid := seq[pos]
		rest := seq[pos+1:]
		matched := false
		for _, r := range t.rules[gid] {
			if len(r.Tail) <= len(rest) && slices.Equal(r.Tail, rest[:len(r.Tail)]) {
				res = append(res, r.Lig)
				pos += 1 + len(r.Tail)
				matched = true
				break
			}
		}
		if !matched {
			res = append(res, gid)
			pos++
		}
	}
	return res
}

// Latin is the language tag used to select GSUB lookups.
var Latin = language.Make("und-Latn")

// FromGsub builds a ligature table from the "liga" feature of a GSUB table,
// using the lookups for the Latin script and the default language.
// Only ligature substitution subtables (lookup type 4) are used.
//
// Lookups are processed in the order given by the font.  Within a
// subtable, start glyphs are visited in increasing order and the rules for
// each start glyph keep the order of the font's ligature set.
//
// If gsub is nil, an empty table is returned.
func FromGsub(gsub *gtab.Info) *Table {
	t := New()
	if gsub == nil {
		return t
	}

	lookups := gsub.FindLookups(Latin, map[string]bool{"liga": true})
	for _, idx := range lookups {
		if int(idx) >= len(gsub.LookupList) {
			continue
		}
		for _, subtable := range gsub.LookupList[idx].Subtables {
			lig, ok := subtable.(*gtab.Gsub4_1)
			if !ok {
				continue
			}

			firsts := make([]glyph.ID, 0, len(lig.Cov))
			for gid := range lig.Cov {
				firsts = append(firsts, gid)
			}
			sort.Slice(firsts, func(i, j int) bool { return firsts[i] < firsts[j] })

			for _, first := range firsts {
				k := lig.Cov[first]
				if k < 0 || k >= len(lig.Repl) {
					continue
				}
				for _, l := range lig.Repl[k] {
					t.Add(first, l.In, l.Out)
				}
			}
		}
	}
	return t
}
