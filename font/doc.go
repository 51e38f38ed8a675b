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

// Package font holds the font types shared by the font access and PDF
// embedding packages.
//
// # Font access
//
//   - [seehuhn.de/go/typeset/font/loader] reads font files and maps font
//     abbreviations to files.
//   - [seehuhn.de/go/typeset/font/sfntfile] decodes OpenType and TrueType
//     font files.
//   - [seehuhn.de/go/typeset/font/ligature] and
//     [seehuhn.de/go/typeset/font/kerning] hold the ligature and kerning
//     tables of a font.
//   - [seehuhn.de/go/typeset/font/decoder] combines these into a cached
//     per-font view used during layout.
//
// # PDF output
//
// A [Descriptor] summarizes a font for the PDF font descriptor
// dictionary, and a [Program] holds the font file to be embedded.  The
// font dictionaries themselves are written by
// [seehuhn.de/go/typeset/font/embed].
package font
