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

// Package embed writes fonts into PDF files.
//
// Simple fonts ([Simple]) cover the Type1 and TrueType font types, and
// composite fonts ([Type0]) wrap a CIDFontType0 or CIDFontType2 descendant
// font.  All font types implement [pdf.Embedder]; they are written using
// [pdf.ResourceManagerEmbed].
//
// Font programs are embedded as ASCII85 encoded streams.  Within one PDF
// file every [font.Program] is embedded at most once, however many font
// dictionaries refer to it.
package embed

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'typeset.font'.
func tracer() tracing.Trace {
	return tracing.Select("typeset.font")
}
