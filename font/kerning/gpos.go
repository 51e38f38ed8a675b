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

package kerning

import (
	"sort"

	"golang.org/x/text/language"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/opentype/gtab"
)

// Latin is the language tag used to select GPOS lookups.
var Latin = language.Make("und-Latn")

// FromGpos builds a kerning table from the "kern" feature of a GPOS table,
// using the lookups for the Latin script and the default language.
//
// Pair adjustment subtables of format 1 contribute exact pairs, subtables
// of format 2 contribute class subtables.  Only the advance adjustment of
// the first glyph is used, and adjustments of zero are dropped.  If the
// same pair occurs in several subtables, the first occurrence is used.
//
// If gpos is nil, an empty table is returned.
func FromGpos(gpos *gtab.Info) *Table {
	t := New()
	if gpos == nil {
		return t
	}

	lookups := gpos.FindLookups(Latin, map[string]bool{"kern": true})
	for _, idx := range lookups {
		if int(idx) >= len(gpos.LookupList) {
			continue
		}
		for _, subtable := range gpos.LookupList[idx].Subtables {
			switch st := subtable.(type) {
			case gtab.Gpos2_1:
				addPairs(t, st)
			case *gtab.Gpos2_2:
				if cst := convertClasses(st); cst != nil {
					t.AddClassSubtable(cst)
				}
			}
		}
	}
	return t
}

func addPairs(t *Table, st gtab.Gpos2_1) {
	pairs := make([]glyph.Pair, 0, len(st))
	for pair := range st {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Left != pairs[j].Left {
			return pairs[i].Left < pairs[j].Left
		}
		return pairs[i].Right < pairs[j].Right
	})

	for _, pair := range pairs {
		dx := xAdvance(st[pair])
		if dx == 0 || t.HasPair(pair.Left, pair.Right) {
			continue
		}
		t.Set(pair.Left, pair.Right, dx)
	}
}

func convertClasses(st *gtab.Gpos2_2) *ClassSubtable {
	pairs := make(map[ClassPair]funit.Int16)
	for c1, row := range st.Adjust {
		if c1 == 0 {
			continue
		}
		for c2, adj := range row {
			if c2 == 0 {
				continue
			}
			dx := xAdvance(adj)
			if dx == 0 {
				continue
			}
			pairs[ClassPair{Left: uint16(c1), Right: uint16(c2)}] = dx
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	// Only glyphs in the coverage table can start a pair.
	first := make(map[glyph.ID]uint16, len(st.Class1))
	for gid, class := range st.Class1 {
		if st.Cov[gid] {
			first[gid] = class
		}
	}

	return &ClassSubtable{
		First:  NewClassDef(first),
		Second: NewClassDef(st.Class2),
		Pairs:  pairs,
	}
}

func xAdvance(adj *gtab.PairAdjust) funit.Int16 {
	if adj == nil || adj.First == nil {
		return 0
	}
	return funit.Int16(adj.First.XAdvance)
}
