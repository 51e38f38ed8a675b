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

import (
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/typeset/pdf"
)

// Descriptor represents a PDF font descriptor.  All lengths are given in
// PDF glyph space units, i.e. 1/1000 of the text size.
//
// See section 9.8.1 of PDF 32000-1:2008.
type Descriptor struct {
	FontName    string     // required
	FontFamily  string     // optional
	FontStretch os2.Width  // optional
	FontWeight  os2.Weight // optional

	Flags Flags

	FontBBox    rect.Rect // required
	ItalicAngle float64   // required
	Ascent      float64   // required
	Descent     float64   // required
	StemV       float64   // required (0 = unknown)

	// Program is the font program described by the descriptor, or nil if
	// the font is not embedded.
	Program *Program
}

// Summary collects the font header data needed to build a [Descriptor].
// Lengths are in font design units.
type Summary struct {
	PostScriptName string
	UnitsPerEm     uint16
	BBox           funit.Rect16 // from "head"
	Ascent         funit.Int16  // from "hhea"
	Descent        funit.Int16  // from "hhea"
	WeightClass    uint16       // from "OS/2"
	WidthClass     uint16       // from "OS/2"
}

// NewDescriptor builds a font descriptor from the font header data.
//
// The font family, the flags, the italic angle and the stem width cannot be
// derived from the header tables.  They are left at their zero values.
func NewDescriptor(s *Summary) (*Descriptor, error) {
	if s.UnitsPerEm == 0 {
		return nil, &InvalidFontError{
			SubSystem: "font",
			Reason:    "unitsPerEm is zero",
		}
	}
	stretch, err := StretchFromWidthClass(s.WidthClass)
	if err != nil {
		return nil, err
	}

	q := 1000 / float64(s.UnitsPerEm)
	d := &Descriptor{
		FontName:    s.PostScriptName,
		FontStretch: stretch,
		FontWeight:  os2.Weight(s.WeightClass),
		FontBBox: rect.Rect{
			LLx: float64(s.BBox.LLx) * q,
			LLy: float64(s.BBox.LLy) * q,
			URx: float64(s.BBox.URx) * q,
			URy: float64(s.BBox.URy) * q,
		},
		Ascent:  float64(s.Ascent) * q,
		Descent: float64(s.Descent) * q,
	}
	return d, nil
}

// StretchFromWidthClass maps an OS/2 width class to a PDF font stretch.
//
// The values 0, 1 and 3 to 9 are accepted.  Width class 2 has no
// corresponding stretch in this table, and neither do values of 10 or
// more; these cases return a [WidthClassError].
func StretchFromWidthClass(widthClass uint16) (os2.Width, error) {
	switch widthClass {
	case 0:
		return os2.WidthUltraCondensed, nil
	case 1:
		return os2.WidthExtraCondensed, nil
	case 3:
		return os2.WidthCondensed, nil
	case 4:
		return os2.WidthSemiCondensed, nil
	case 5:
		return os2.WidthNormal, nil
	case 6:
		return os2.WidthSemiExpanded, nil
	case 7:
		return os2.WidthExpanded, nil
	case 8:
		return os2.WidthExtraExpanded, nil
	case 9:
		return os2.WidthUltraExpanded, nil
	}
	return 0, &WidthClassError{Value: widthClass}
}

// stretchName returns the PDF name for a font stretch, or "" if the value
// has no name.
func stretchName(w os2.Width) pdf.Name {
	switch w {
	case os2.WidthUltraCondensed:
		return "UltraCondensed"
	case os2.WidthExtraCondensed:
		return "ExtraCondensed"
	case os2.WidthCondensed:
		return "Condensed"
	case os2.WidthSemiCondensed:
		return "SemiCondensed"
	case os2.WidthNormal:
		return "Normal"
	case os2.WidthSemiExpanded:
		return "SemiExpanded"
	case os2.WidthExpanded:
		return "Expanded"
	case os2.WidthExtraExpanded:
		return "ExtraExpanded"
	case os2.WidthUltraExpanded:
		return "UltraExpanded"
	}
	return ""
}

// AsDict returns the font descriptor dictionary.  The caller adds the
// /FontFile, /FontFile2 or /FontFile3 entry for the embedded font program.
func (d *Descriptor) AsDict() pdf.Dict {
	dict := pdf.Dict{
		"Type":        pdf.Name("FontDescriptor"),
		"FontName":    pdf.Name(d.FontName),
		"Flags":       pdf.Integer(d.Flags),
		"FontBBox":    rectToArray(d.FontBBox),
		"ItalicAngle": pdf.Number(d.ItalicAngle),
		"Ascent":      pdf.Number(d.Ascent),
		"Descent":     pdf.Number(d.Descent),
		"StemV":       pdf.Number(d.StemV),
	}
	if d.FontFamily != "" {
		dict["FontFamily"] = pdf.String(d.FontFamily)
	}
	if name := stretchName(d.FontStretch); name != "" {
		dict["FontStretch"] = name
	}
	if d.FontWeight != 0 {
		dict["FontWeight"] = pdf.Integer(d.FontWeight.Rounded())
	}
	return dict
}

func rectToArray(r rect.Rect) pdf.Array {
	return pdf.Array{
		pdf.Number(r.LLx),
		pdf.Number(r.LLy),
		pdf.Number(r.URx),
		pdf.Number(r.URy),
	}
}
