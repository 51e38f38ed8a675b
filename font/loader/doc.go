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

// Package loader reads font files and maps font abbreviations to font
// sources.
//
// Font files are always read as a whole.  [ReadFile] distinguishes between
// files which are too large or were truncated while reading ([SizeError])
// and other operating system failures ([SystemError]).
//
// A [Registry] maps the abbreviations used by document authors, for example
// "rm" or "it", to a font file or to one of the 14 standard PDF fonts
// together with the resource name used in content streams.  Registries are
// filled at start-up, either in code, from a line based font map, or from a
// YAML configuration file.
package loader

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'typeset.font'.
func tracer() tracing.Trace {
	return tracing.Select("typeset.font")
}
