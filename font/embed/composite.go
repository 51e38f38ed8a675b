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

	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset/ascii85"
	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/font/decoder"
	"seehuhn.de/go/typeset/pdf"
)

// Type0 is a composite PDF font.
//
// See section 9.7.6 of PDF 32000-1:2008.
type Type0 struct {
	BaseFont string

	// Encoding is the name of a predefined CMap, usually "Identity-H".
	Encoding pdf.Name

	CIDFont *CIDFont
}

// CIDFont is the descendant font of a [Type0] font.
//
// See section 9.7.4 of PDF 32000-1:2008.
type CIDFont struct {
	Subtype    pdf.Name // "CIDFontType0" or "CIDFontType2"
	BaseFont   string
	ROS        *cid.SystemInfo
	Descriptor *font.Descriptor

	// Widths lists the glyph widths in PDF glyph space units.  CIDs not
	// listed use the default width of 1000.
	Widths map[cid.CID]float64

	// CIDToGID maps CIDs to glyph IDs.  If this is nil, the identity
	// mapping is used.  Only CIDFontType2 fonts can have a non-identity
	// mapping.
	CIDToGID []glyph.ID
}

// IdentityROS is the character collection used for fonts where CIDs
// equal glyph IDs.
var IdentityROS = &cid.SystemInfo{
	Registry:   "Adobe",
	Ordering:   "Identity",
	Supplement: 0,
}

// NewType0 describes a font file as a composite font with Identity-H
// encoding, where CIDs equal glyph IDs.
//
// The widths are taken from the glyph metrics cached by d at the time of
// the call: exactly the glyphs for which [decoder.Decoder.Metrics] has been
// called are listed.  Fonts with "glyf" outlines get a CIDFontType2
// descendant, CFF-based fonts a CIDFontType0 descendant.
func NewType0(d *decoder.Decoder) (*Type0, error) {
	fd, err := d.Descriptor()
	if err != nil {
		return nil, err
	}
	fd.Flags |= font.FlagSymbolic

	q := 1000 / float64(d.UnitsPerEm())
	cached := d.Widths()
	widths := make(map[cid.CID]float64, len(cached))
	for gid, w := range cached {
		widths[cid.CID(gid)] = float64(w) * q
	}

	name := d.PostScriptName()
	baseFont := name
	subtype := pdf.Name("CIDFontType2")
	if fd.Program.Kind != font.KindTrueType {
		subtype = "CIDFontType0"
		baseFont = name + "-Identity-H"
	}

	return &Type0{
		BaseFont: baseFont,
		Encoding: "Identity-H",
		CIDFont: &CIDFont{
			Subtype:    subtype,
			BaseFont:   name,
			ROS:        IdentityROS,
			Descriptor: fd,
			Widths:     widths,
		},
	}, nil
}

// Embed implements the [pdf.Embedder] interface.
func (f *Type0) Embed(rm *pdf.ResourceManager) (pdf.Object, pdf.Unused, error) {
	var zero pdf.Unused

	err := pdf.CheckVersion(rm.Out, "composite fonts", pdf.V1_2)
	if err != nil {
		return nil, zero, err
	}
	if f.CIDFont == nil {
		return nil, zero, errors.New("embed: missing descendant font")
	}
	if f.Encoding == "" {
		return nil, zero, errors.New("embed: missing CMap name")
	}

	cidFontRef, err := f.CIDFont.embed(rm)
	if err != nil {
		return nil, zero, err
	}

	dict := pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name(f.BaseFont),
		"Encoding":        f.Encoding,
		"DescendantFonts": pdf.Array{cidFontRef},
	}
	ref, err := pdf.Add(rm.Out, dict)
	if err != nil {
		return nil, zero, err
	}
	tracer().Debugf("embedded Type0 font %q as %s (%d widths)",
		f.BaseFont, ref, len(f.CIDFont.Widths))
	return ref, zero, nil
}

func (f *CIDFont) embed(rm *pdf.ResourceManager) (pdf.Reference, error) {
	if err := f.check(); err != nil {
		return 0, err
	}

	fdRef, err := embedDescriptor(rm, f.Descriptor)
	if err != nil {
		return 0, err
	}

	dict := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  f.Subtype,
		"BaseFont": pdf.Name(f.BaseFont),
		"CIDSystemInfo": pdf.Dict{
			"Registry":   pdf.String(f.ROS.Registry),
			"Ordering":   pdf.String(f.ROS.Ordering),
			"Supplement": pdf.Integer(f.ROS.Supplement),
		},
		"FontDescriptor": fdRef,
	}

	if w := EncodeWidths(f.Widths); w != nil {
		wRef, err := pdf.Add(rm.Out, w)
		if err != nil {
			return 0, err
		}
		dict["W"] = wRef
	}

	if f.Subtype == "CIDFontType2" {
		if f.CIDToGID == nil {
			dict["CIDToGIDMap"] = pdf.Name("Identity")
		} else {
			mapRef, err := pdf.Add(rm.Out, cidToGIDStream(f.CIDToGID))
			if err != nil {
				return 0, err
			}
			dict["CIDToGIDMap"] = mapRef
		}
	}

	return pdf.Add(rm.Out, dict)
}

func (f *CIDFont) check() error {
	if f.ROS == nil {
		return errors.New("embed: missing CIDSystemInfo")
	}
	if f.Descriptor == nil {
		return fmt.Errorf("embed: font %q needs a font descriptor", f.BaseFont)
	}

	var ok bool
	p := f.Descriptor.Program
	switch f.Subtype {
	case "CIDFontType2":
		ok = p == nil || p.Kind == font.KindTrueType
	case "CIDFontType0":
		if f.CIDToGID != nil {
			return errors.New("embed: CIDFontType0 fonts cannot have a CIDToGIDMap")
		}
		ok = p == nil || p.Kind == font.KindOpenType || p.Kind == font.KindCIDFontType0C
	default:
		return fmt.Errorf("embed: unsupported CIDFont type %q", f.Subtype)
	}
	if !ok {
		return fmt.Errorf("embed: cannot use %s font program for %s font",
			p.Kind, f.Subtype)
	}
	return nil
}

// cidToGIDStream encodes a CIDToGIDMap as a stream of big-endian
// two-byte glyph IDs.
func cidToGIDStream(m []glyph.ID) *pdf.Stream {
	data := make([]byte, 2*len(m))
	for i, gid := range m {
		data[2*i] = byte(gid >> 8)
		data[2*i+1] = byte(gid)
	}
	return &pdf.Stream{
		Dict: pdf.Dict{"Filter": pdf.Name(ascii85.FilterName)},
		Data: ascii85.EncodeBytes(data),
	}
}
