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
	"fmt"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset/font"
)

// Coverage bits of a "kern" subtable.
const (
	kernHorizontal  = 1 << 0
	kernMinimum     = 1 << 1
	kernCrossStream = 1 << 2
)

// FromKern builds a kerning table from the contents of a legacy "kern"
// table.
//
// Only subtables in format 0 with horizontal kerning values are used.
// Subtables containing minimum values or cross-stream kerning are
// skipped.  If a pair occurs more than once, the last value is used.
// https://learn.microsoft.com/en-us/typography/opentype/spec/kern
func FromKern(data []byte) (*Table, error) {
	if len(data) < 4 {
		return nil, kernError("table too short")
	}
	version := getUint16(data, 0)
	if version != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/kern",
			Feature:   fmt.Sprintf("\"kern\" table version %d", version),
		}
	}
	nTables := int(getUint16(data, 2))

	t := New()
	pos := 4
	for i := 0; i < nTables; i++ {
		if pos+6 > len(data) {
			return nil, kernError("subtable header beyond end of table")
		}
		length := int(getUint16(data, pos+2))
		format := data[pos+4]
		coverage := data[pos+5]
		if format == 0 && pos+8 <= len(data) {
			// The length field holds only the low 16 bits for large
			// format 0 subtables.
			nPairs := int(getUint16(data, pos+6))
			if full := 14 + 6*nPairs; full > 0xFFFF && full&0xFFFF == length {
				length = full
			}
		}
		if length < 6+8 {
			return nil, kernError(fmt.Sprintf("invalid subtable length %d", length))
		}
		start := pos
		pos += length

		if format != 0 ||
			coverage&kernHorizontal == 0 ||
			coverage&(kernMinimum|kernCrossStream) != 0 {
			continue
		}

		if start+14 > len(data) {
			return nil, kernError("subtable beyond end of table")
		}
		nPairs := int(getUint16(data, start+6))
		body := data[start+14:]
		if 6*nPairs > len(body) {
			return nil, kernError("kerning pairs beyond end of table")
		}
		for j := 0; j < nPairs; j++ {
			rec := body[6*j : 6*j+6]
			left := glyph.ID(getUint16(rec, 0))
			right := glyph.ID(getUint16(rec, 2))
			value := funit.Int16(getUint16(rec, 4))
			t.Set(left, right, value)
		}
	}
	return t, nil
}

func kernError(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/kern",
		Reason:    reason,
	}
}

func getUint16(data []byte, pos int) uint16 {
	return uint16(data[pos])<<8 | uint16(data[pos+1])
}
