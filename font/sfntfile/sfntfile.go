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

// Package sfntfile gives access to the tables of an OpenType or TrueType
// font file held in memory.
//
// Glyph outlines, the character map and the GSUB/GPOS tables are decoded
// by [seehuhn.de/go/sfnt].  The legacy "kern" table is hidden from the
// sfnt decoder and is left to the caller, via [File.TableBytes].
package sfntfile

import (
	"bytes"
	"errors"
	"io"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/opentype/gtab"

	"seehuhn.de/go/typeset/font"
)

// File is a parsed font file.
type File struct {
	data   []byte
	header *header.Info
	font   *sfnt.Font

	cmap    cmap.Subtable
	cmapErr error
}

// Parse decodes the font file contained in data.  The File keeps a
// reference to data, which must not be modified afterwards.
func Parse(data []byte) (*File, error) {
	r := bytes.NewReader(data)
	info, err := header.Read(r)
	if err != nil {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "cannot read table directory",
			Err:       err,
		}
	}

	var src io.Reader = r
	if info.Has("kern") {
		stripped, err := withoutTable(data, info, "kern")
		if err != nil {
			return nil, &font.InvalidFontError{
				SubSystem: "sfnt",
				Reason:    "cannot read table directory",
				Err:       err,
			}
		}
		src = bytes.NewReader(stripped)
	}
	f, err := sfnt.Read(src)
	if err != nil {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "cannot decode font",
			Err:       err,
		}
	}

	res := &File{
		data:   data,
		header: info,
		font:   f,
	}
	if f.CMapTable == nil {
		res.cmapErr = errors.New("no \"cmap\" table")
	} else {
		res.cmap, res.cmapErr = f.CMapTable.GetBest()
	}
	return res, nil
}

// withoutTable re-assembles the font file with one table left out.
// The sfnt decoder turns a "kern" table into GPOS data and rejects the
// whole font if the table cannot be read.
func withoutTable(data []byte, info *header.Info, name string) ([]byte, error) {
	r := bytes.NewReader(data)
	tables := make(map[string][]byte, len(info.Toc))
	for tableName := range info.Toc {
		if tableName == name {
			continue
		}
		body, err := info.ReadTableBytes(r, tableName)
		if err != nil {
			return nil, err
		}
		tables[tableName] = body
	}

	buf := &bytes.Buffer{}
	_, err := header.Write(buf, info.ScalerType, tables)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Data returns the complete font file.
func (f *File) Data() []byte {
	return f.data
}

// PostScriptName returns the PostScript name of the font.
func (f *File) PostScriptName() string {
	return f.font.PostScriptName()
}

// IsCFF reports whether the font uses CFF glyph outlines.
func (f *File) IsCFF() bool {
	return f.font.IsCFF()
}

// NumGlyphs returns the number of glyphs in the font.
func (f *File) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// UnitsPerEm returns the number of font design units per em.
func (f *File) UnitsPerEm() uint16 {
	return f.font.UnitsPerEm
}

// HasTable reports whether the table directory lists the given table.
func (f *File) HasTable(name string) bool {
	_, ok := f.header.Toc[name]
	return ok
}

// TableBytes returns the raw contents of the given table.
func (f *File) TableBytes(name string) ([]byte, error) {
	if !f.HasTable(name) {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "missing \"" + name + "\" table",
		}
	}
	data, err := f.header.ReadTableBytes(bytes.NewReader(f.data), name)
	if err != nil {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "cannot read \"" + name + "\" table",
			Err:       err,
		}
	}
	return data, nil
}

// GlyphIndex maps a character to a glyph using the best Unicode subtable of
// the "cmap" table.  Characters not covered by the character map are
// mapped to glyph 0.  An error is returned if the font has no usable
// Unicode character map.
func (f *File) GlyphIndex(r rune) (glyph.ID, error) {
	if f.cmapErr != nil {
		return 0, &font.InvalidFontError{
			SubSystem: "sfnt/cmap",
			Reason:    "no usable character map",
			Err:       f.cmapErr,
		}
	}
	return f.cmap.Lookup(r), nil
}

// AdvanceWidth returns the advance width of a glyph from the "hmtx" table.
// If the glyph has no recorded width, 0 is returned.
func (f *File) AdvanceWidth(gid glyph.ID) funit.Int16 {
	if int(gid) >= f.font.NumGlyphs() {
		return 0
	}
	return funit.Int16(f.font.GlyphWidth(gid))
}

// GlyphBox returns the bounding box of a simple TrueType glyph.  Empty
// glyphs have a zero bounding box.  The second return value is false if
// the font has no "glyf" outlines, if the glyph does not exist, or if the
// glyph is a composite glyph.
func (f *File) GlyphBox(gid glyph.ID) (funit.Rect16, bool) {
	outlines, ok := f.font.Outlines.(*glyf.Outlines)
	if !ok || int(gid) >= len(outlines.Glyphs) {
		return funit.Rect16{}, false
	}
	g := outlines.Glyphs[gid]
	if g == nil {
		return funit.Rect16{}, true
	}
	if _, isComposite := g.Data.(glyf.CompositeGlyph); isComposite {
		return funit.Rect16{}, false
	}
	return g.Rect16, true
}

// Gsub returns the decoded "GSUB" table, or nil if the font has none.
// Substitutions which the sfnt decoder synthesizes for fonts without a
// "GSUB" table are not returned.
func (f *File) Gsub() *gtab.Info {
	if !f.HasTable("GSUB") {
		return nil
	}
	return f.font.Gsub
}

// Gpos returns the decoded "GPOS" table, or nil if the font has none.
func (f *File) Gpos() *gtab.Info {
	if !f.HasTable("GPOS") {
		return nil
	}
	return f.font.Gpos
}
