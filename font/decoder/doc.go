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

// Package decoder gives cached access to the glyphs of a font file.
//
// A [Decoder] wraps one parsed font file together with its ligature and
// kerning tables.  Character to glyph lookups and glyph metrics are
// memoized on first use, so that repeated queries during line breaking
// do not touch the font tables again.  The set of glyphs whose metrics
// have been requested is later used to build the /W array of composite
// PDF fonts.
//
// A [Cache] holds at most one decoder per font file path.
package decoder

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'typeset.font'.
func tracer() tracing.Trace {
	return tracing.Select("typeset.font")
}
