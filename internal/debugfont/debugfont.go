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

// Package debugfont builds variants of the Go Regular font for use in
// tests: fonts with tables replaced or removed, fonts with composite
// glyphs, and a small CFF-based font.
package debugfont

import (
	"bytes"

	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/header"
)

// Tables returns the raw tables of an sfnt font file, together with the
// scaler type from the file header.
func Tables(data []byte) (map[string][]byte, uint32, error) {
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return nil, 0, err
	}
	tables := make(map[string][]byte, len(info.Toc))
	for name := range info.Toc {
		body, err := info.ReadTableBytes(r, name)
		if err != nil {
			return nil, 0, err
		}
		tables[name] = body
	}
	return tables, info.ScalerType, nil
}

// Rebuild returns a copy of the font file data where the tables listed in
// replace are substituted.  A nil entry removes the table.
func Rebuild(data []byte, replace map[string][]byte) ([]byte, error) {
	tables, scalerType, err := Tables(data)
	if err != nil {
		return nil, err
	}
	for name, body := range replace {
		if body == nil {
			delete(tables, name)
		} else {
			tables[name] = body
		}
	}

	buf := &bytes.Buffer{}
	_, err = header.Write(buf, scalerType, tables)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GoRegular returns the Go Regular font with the given tables replaced.
// It panics on error.
func GoRegular(replace map[string][]byte) []byte {
	data, err := Rebuild(goregular.TTF, replace)
	if err != nil {
		panic(err)
	}
	return data
}

// MakeComposite returns a copy of the TrueType font file data where glyph
// gid is replaced by a composite glyph with base as its only component.
func MakeComposite(data []byte, gid, base glyph.ID) ([]byte, error) {
	tables, _, err := Tables(data)
	if err != nil {
		return nil, err
	}
	headInfo, err := head.Read(bytes.NewReader(tables["head"]))
	if err != nil {
		return nil, err
	}
	glyphs, err := glyf.Decode(&glyf.Encoded{
		GlyfData:   tables["glyf"],
		LocaData:   tables["loca"],
		LocaFormat: headInfo.LocaFormat,
	})
	if err != nil {
		return nil, err
	}

	var bbox funit.Rect16
	if g := glyphs[base]; g != nil {
		bbox = g.Rect16
	}
	glyphs[gid] = &glyf.Glyph{
		Rect16: bbox,
		Data: glyf.CompositeGlyph{
			Components: []glyf.GlyphComponent{
				{
					Flags:      glyf.FlagArgsAreXYValues,
					GlyphIndex: base,
					Data:       []byte{0, 0},
				},
			},
		},
	}
	enc := glyphs.Encode()

	headData := bytes.Clone(tables["head"])
	headData[50] = byte(enc.LocaFormat >> 8)
	headData[51] = byte(enc.LocaFormat)

	return Rebuild(data, map[string][]byte{
		"head": headData,
		"glyf": enc.GlyfData,
		"loca": enc.LocaData,
	})
}

// MakeCFF returns a font file with CFF outlines.  The font maps 'A' and
// 'B' to triangles of different sizes; all other characters are missing.
// It panics on error.
func MakeCFF() []byte {
	info, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}

	outlines := &cff.Outlines{
		Private: []*type1.PrivateDict{{}},
		FDSelect: func(glyph.ID) int {
			return 0
		},
		Encoding: make([]glyph.ID, 256),
	}
	outlines.Glyphs = append(outlines.Glyphs, cff.NewGlyph(".notdef", 500))

	cm := cmap.Format4{}
	for i, size := range []float64{600, 400} {
		c := 'A' + rune(i)
		g := cff.NewGlyph(string(c), size+100)
		g.MoveTo(50, 0)
		g.LineTo(50+size, 0)
		g.LineTo(50+size/2, size)

		gid := glyph.ID(len(outlines.Glyphs))
		outlines.Glyphs = append(outlines.Glyphs, g)
		outlines.Encoding[c] = gid
		cm[uint16(c)] = gid
	}

	res := &sfnt.Font{
		FamilyName: "Debug",
		Width:      info.Width,
		Weight:     info.Weight,
		IsRegular:  true,

		UnitsPerEm: info.UnitsPerEm,
		FontMatrix: info.FontMatrix,

		Ascent:    info.Ascent,
		Descent:   info.Descent,
		LineGap:   info.LineGap,
		CapHeight: info.CapHeight,
		XHeight:   info.XHeight,

		Outlines: outlines,
	}
	res.InstallCMap(cm)

	buf := &bytes.Buffer{}
	_, err = res.Write(buf)
	if err != nil {
		panic(err)
	}
	return buf.Bytes()
}
