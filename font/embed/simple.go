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

package embed

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/font/decoder"
	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/pdf"
)

// Simple is a simple PDF font, of type Type1 or TrueType.
//
// Character codes are single bytes.  The widths of the codes FirstChar,
// FirstChar+1, ... are listed in Widths, in PDF glyph space units.
type Simple struct {
	Subtype  pdf.Name // "Type1" or "TrueType"
	BaseFont string

	// Descriptor describes the font and refers to the embedded font
	// program.  It is nil for the 14 standard fonts.
	Descriptor *font.Descriptor

	// Encoding is the name of a predefined encoding, for example
	// "WinAnsiEncoding", or "" to use the built-in encoding of the font.
	Encoding pdf.Name

	FirstChar byte
	Widths    []float64
}

// NewSimple describes a font file as a simple font covering the codes
// firstChar to lastChar.  Codes are mapped to characters using the
// WinAnsi encoding; codes for which the font has no glyph get width 0.
//
// Fonts with "glyf" outlines become TrueType fonts, CFF-based fonts
// become Type1 fonts.
//
// The widths are read from the font tables directly.  They do not affect
// the set of glyphs listed in the /W array of composite fonts.
func NewSimple(d *decoder.Decoder, firstChar, lastChar byte) (*Simple, error) {
	if lastChar < firstChar {
		return nil, fmt.Errorf("embed: invalid code range %d-%d", firstChar, lastChar)
	}
	fd, err := d.Descriptor()
	if err != nil {
		return nil, err
	}
	fd.Flags |= font.FlagNonsymbolic

	f := d.File()
	q := 1000 / float64(d.UnitsPerEm())
	widths := make([]float64, int(lastChar)-int(firstChar)+1)
	for i := range widths {
		r := charmap.Windows1252.DecodeByte(firstChar + byte(i))
		gid, ok, err := d.GlyphID(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		widths[i] = float64(f.AdvanceWidth(gid)) * q
	}

	subtype := pdf.Name("TrueType")
	if f.IsCFF() {
		subtype = "Type1"
	}
	return &Simple{
		Subtype:    subtype,
		BaseFont:   d.PostScriptName(),
		Descriptor: fd,
		Encoding:   "WinAnsiEncoding",
		FirstChar:  firstChar,
		Widths:     widths,
	}, nil
}

// Standard returns one of the 14 standard PDF fonts.  The font is not
// embedded, and no widths are included.
func Standard(name string) (*Simple, error) {
	if !loader.IsStandard(name) {
		return nil, fmt.Errorf("embed: %q is not a standard font", name)
	}
	s := &Simple{
		Subtype:  "Type1",
		BaseFont: name,
	}
	if name != "Symbol" && name != "ZapfDingbats" {
		s.Encoding = "WinAnsiEncoding"
	}
	return s, nil
}

// LastChar returns the last code covered by the widths.
func (f *Simple) LastChar() byte {
	if len(f.Widths) == 0 {
		return f.FirstChar
	}
	return f.FirstChar + byte(len(f.Widths)-1)
}

// Embed implements the [pdf.Embedder] interface.
func (f *Simple) Embed(rm *pdf.ResourceManager) (pdf.Object, pdf.Unused, error) {
	var zero pdf.Unused

	if err := f.check(); err != nil {
		return nil, zero, err
	}

	// See section 9.6.2.1 of PDF 32000-1:2008.
	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  f.Subtype,
		"BaseFont": pdf.Name(f.BaseFont),
	}
	if f.Encoding != "" {
		dict["Encoding"] = f.Encoding
	}
	if len(f.Widths) > 0 {
		widths := make(pdf.Array, len(f.Widths))
		for i, w := range f.Widths {
			widths[i] = pdf.Number(w)
		}
		dict["FirstChar"] = pdf.Integer(f.FirstChar)
		dict["LastChar"] = pdf.Integer(f.LastChar())
		dict["Widths"] = widths
	}
	if f.Descriptor != nil {
		fdRef, err := embedDescriptor(rm, f.Descriptor)
		if err != nil {
			return nil, zero, err
		}
		dict["FontDescriptor"] = fdRef
	}

	ref, err := pdf.Add(rm.Out, dict)
	if err != nil {
		return nil, zero, err
	}
	tracer().Debugf("embedded %s font %q as %s", f.Subtype, f.BaseFont, ref)
	return ref, zero, nil
}

func (f *Simple) check() error {
	if int(f.FirstChar)+len(f.Widths) > 256 {
		return errors.New("embed: widths exceed the code range")
	}

	if f.Descriptor == nil {
		if f.Subtype != "Type1" || !loader.IsStandard(f.BaseFont) {
			return fmt.Errorf("embed: font %q needs a font descriptor", f.BaseFont)
		}
		return nil
	}
	if len(f.Widths) == 0 {
		return fmt.Errorf("embed: font %q has no widths", f.BaseFont)
	}

	p := f.Descriptor.Program
	if p == nil {
		return nil
	}
	var ok bool
	switch f.Subtype {
	case "TrueType":
		ok = p.Kind == font.KindTrueType
	case "Type1":
		ok = p.Kind == font.KindOpenType || p.Kind == font.KindType1C
	default:
		return fmt.Errorf("embed: unsupported simple font type %q", f.Subtype)
	}
	if !ok {
		return fmt.Errorf("embed: cannot use %s font program for %s font",
			p.Kind, f.Subtype)
	}
	return nil
}
