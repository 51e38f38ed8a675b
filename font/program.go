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

package font

import "seehuhn.de/go/typeset/pdf"

// ProgramKind describes the format of an embedded font program.
type ProgramKind int

// Supported font program formats.
const (
	// KindTrueType is a TrueType font file with "glyf" outlines.
	KindTrueType ProgramKind = iota + 1

	// KindOpenType is an OpenType font file with CFF outlines.
	KindOpenType

	// KindType1C is bare CFF data for a simple font.
	KindType1C

	// KindCIDFontType0C is bare CID-keyed CFF data.
	KindCIDFontType0C
)

func (k ProgramKind) String() string {
	switch k {
	case KindTrueType:
		return "TrueType"
	case KindOpenType:
		return "OpenType"
	case KindType1C:
		return "Type1C"
	case KindCIDFontType0C:
		return "CIDFontType0C"
	}
	return "ProgramKind(?)"
}

// FontFileKey returns the font descriptor key used to reference an
// embedded font program of this kind.
func (k ProgramKind) FontFileKey() pdf.Name {
	if k == KindTrueType {
		return "FontFile2"
	}
	return "FontFile3"
}

// Subtype returns the /Subtype of the font file stream, or "" if the
// stream has no subtype.
func (k ProgramKind) Subtype() pdf.Name {
	switch k {
	case KindOpenType:
		return "OpenType"
	case KindType1C:
		return "Type1C"
	case KindCIDFontType0C:
		return "CIDFontType0C"
	}
	return ""
}

// Program is a font program which can be embedded in a PDF file.
//
// A Program is identified by its address: within one PDF file, every
// *Program is embedded at most once, however many fonts refer to it.
// The data must not be modified after the Program has been created.
type Program struct {
	Kind ProgramKind
	Data []byte
}
