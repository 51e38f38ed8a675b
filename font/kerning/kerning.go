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

// Package kerning implements pairwise and class-based kerning tables.
//
// A [Table] stores kerning values for exact glyph pairs, together with an
// ordered list of class-based subtables.  Exact pairs always take
// precedence.  Class subtables are searched in the order they were added.
//
// Kerning values are given in font design units.  Positive values move
// glyphs apart, negative values move them closer together.
package kerning

import (
	"sort"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
)

// Table holds the kerning information for a font.
// A Table must not be modified while it is being used concurrently.
type Table struct {
	pairs   map[glyph.Pair]funit.Int16
	classes []*ClassSubtable
}

// New returns an empty kerning table.
func New() *Table {
	return &Table{
		pairs: make(map[glyph.Pair]funit.Int16),
	}
}

// Set sets the kerning value for the glyph pair (left, right),
// replacing any previous value for the pair.
func (t *Table) Set(left, right glyph.ID, value funit.Int16) {
	t.pairs[glyph.Pair{Left: left, Right: right}] = value
}

// HasPair reports whether an exact kerning value is stored for the pair.
func (t *Table) HasPair(left, right glyph.ID) bool {
	_, ok := t.pairs[glyph.Pair{Left: left, Right: right}]
	return ok
}

// AddClassSubtable appends a class-based subtable.  Subtables added
// earlier take precedence over subtables added later.
func (t *Table) AddClassSubtable(st *ClassSubtable) {
	t.classes = append(t.classes, st)
}

// NumPairs returns the number of exact glyph pairs in the table.
func (t *Table) NumPairs() int {
	return len(t.pairs)
}

// NumClassSubtables returns the number of class-based subtables.
func (t *Table) NumClassSubtables() int {
	return len(t.classes)
}

// Find returns the kerning value for the glyph pair (left, right).
//
// An exact pair entry is used if present.  Otherwise the class subtables
// are searched in order, and the first subtable which assigns a class to
// both glyphs and has a value for the class pair is used.  The second
// return value is false if no kerning applies.
func (t *Table) Find(left, right glyph.ID) (funit.Int16, bool) {
	if v, ok := t.pairs[glyph.Pair{Left: left, Right: right}]; ok {
		return v, true
	}
	for _, st := range t.classes {
		if v, ok := st.Find(left, right); ok {
			return v, true
		}
	}
	return 0, false
}

// ClassRule assigns a class to a single glyph (First == Last) or to an
// inclusive range of glyphs.
type ClassRule struct {
	First, Last glyph.ID
	Class       uint16
}

// Contains reports whether gid is covered by the rule.
func (r ClassRule) Contains(gid glyph.ID) bool {
	return gid >= r.First && gid <= r.Last
}

// ClassDef is a list of non-overlapping class rules, sorted by glyph id.
type ClassDef []ClassRule

// NewClassDef converts a glyph to class mapping into a list of class rules.
// Consecutive glyphs with the same class are combined into ranges.  Glyphs
// in class 0 are omitted, since class 0 stands for "no class".
func NewClassDef(classes map[glyph.ID]uint16) ClassDef {
	gids := make([]glyph.ID, 0, len(classes))
	for gid, class := range classes {
		if class != 0 {
			gids = append(gids, gid)
		}
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	var res ClassDef
	for _, gid := range gids {
		class := classes[gid]
		if n := len(res); n > 0 && res[n-1].Last+1 == gid && res[n-1].Class == class {
			res[n-1].Last = gid
			continue
		}
		res = append(res, ClassRule{First: gid, Last: gid, Class: class})
	}
	return res
}

// ClassOf returns the class of gid.  The second return value is false if
// no rule covers gid.
func (cd ClassDef) ClassOf(gid glyph.ID) (uint16, bool) {
	idx := sort.Search(len(cd), func(i int) bool {
		return cd[i].Last >= gid
	})
	if idx < len(cd) && cd[idx].Contains(gid) {
		return cd[idx].Class, true
	}
	return 0, false
}

// ClassPair is a pair of glyph classes.
type ClassPair struct {
	Left, Right uint16
}

// ClassSubtable stores kerning values for pairs of glyph classes.
type ClassSubtable struct {
	First  ClassDef
	Second ClassDef
	Pairs  map[ClassPair]funit.Int16
}

// Find returns the kerning value for the glyph pair (left, right).  The
// second return value is false unless both glyphs have a class in this
// subtable and a value is stored for the class pair.
func (st *ClassSubtable) Find(left, right glyph.ID) (funit.Int16, bool) {
	c1, ok := st.First.ClassOf(left)
	if !ok {
		return 0, false
	}
	c2, ok := st.Second.ClassOf(right)
	if !ok {
		return 0, false
	}
	v, ok := st.Pairs[ClassPair{Left: c1, Right: c2}]
	return v, ok
}
