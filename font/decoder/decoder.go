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

package decoder

import (
	"sort"
	"sync"

	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/font/kerning"
	"seehuhn.de/go/typeset/font/ligature"
	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/font/sfntfile"
)

// Metrics describes the size of a glyph in font design units.
// Height is measured upwards from the baseline, Depth downwards.
type Metrics struct {
	Width  funit.Int16
	Height funit.Int16
	Depth  funit.Int16
}

// glyphSource is the part of a font file used to compute glyph data.
type glyphSource interface {
	GlyphIndex(r rune) (glyph.ID, error)
	AdvanceWidth(gid glyph.ID) funit.Int16
	GlyphBox(gid glyph.ID) (funit.Rect16, bool)
}

// Decoder gives access to the glyphs of a font file.
// It is safe for concurrent use.
type Decoder struct {
	// Path is the file name the font was loaded from, or "" if the font
	// was loaded from memory.
	Path string

	file    *sfntfile.File
	program *font.Program
	src     glyphSource
	lig     *ligature.Table
	kern    *kerning.Table

	// Ascent and descent from "hhea", used as the height and depth of
	// glyphs without a bounding box.
	ascent, descent funit.Int16

	mu      sync.Mutex
	gids    map[rune]glyph.ID // 0 records a missing character
	metrics map[glyph.ID]Metrics
}

// Open reads and decodes the font file at path.
func Open(path string) (*Decoder, error) {
	data, err := loader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := New(data)
	if err != nil {
		return nil, err
	}
	d.Path = path
	return d, nil
}

// New decodes a font file held in memory.  The decoder keeps a reference
// to data, which must not be modified afterwards.
func New(data []byte) (*Decoder, error) {
	f, err := sfntfile.Parse(data)
	if err != nil {
		return nil, err
	}
	hhea, err := f.Hhea()
	if err != nil {
		return nil, err
	}

	kern, err := kerningTable(f)
	if err != nil {
		return nil, err
	}

	kind := font.KindTrueType
	if f.IsCFF() {
		kind = font.KindOpenType
	}

	d := newDecoder(f, ligature.FromGsub(f.Gsub()), kern, hhea.Ascent, hhea.Descent)
	d.file = f
	d.program = &font.Program{Kind: kind, Data: f.Data()}

	tracer().Debugf("decoded font %q: %d glyphs, %d ligature rules, %d kerning pairs",
		f.PostScriptName(), f.NumGlyphs(), d.lig.Len(), kern.NumPairs())
	return d, nil
}

func newDecoder(src glyphSource, lig *ligature.Table, kern *kerning.Table, ascent, descent funit.Int16) *Decoder {
	if lig == nil {
		lig = ligature.New()
	}
	if kern == nil {
		kern = kerning.New()
	}
	return &Decoder{
		src:     src,
		lig:     lig,
		kern:    kern,
		ascent:  ascent,
		descent: descent,
		gids:    make(map[rune]glyph.ID),
		metrics: make(map[glyph.ID]Metrics),
	}
}

// kerningTable reads kerning information from the GPOS table if present,
// and from the legacy "kern" table otherwise.
func kerningTable(f *sfntfile.File) (*kerning.Table, error) {
	if f.HasTable("GPOS") {
		return kerning.FromGpos(f.Gpos()), nil
	}
	if !f.HasTable("kern") {
		return kerning.New(), nil
	}

	data, err := f.TableBytes("kern")
	if err != nil {
		return nil, err
	}
	kern, err := kerning.FromKern(data)
	if font.IsUnsupported(err) {
		tracer().Infof("font %q: ignoring kerning: %v", f.PostScriptName(), err)
		return kerning.New(), nil
	} else if err != nil {
		return nil, err
	}
	return kern, nil
}

// File returns the underlying font file.
func (d *Decoder) File() *sfntfile.File {
	return d.file
}

// Program returns the font program for embedding.  All calls return the
// same pointer.
func (d *Decoder) Program() *font.Program {
	return d.program
}

// PostScriptName returns the PostScript name of the font.
func (d *Decoder) PostScriptName() string {
	return d.file.PostScriptName()
}

// UnitsPerEm returns the number of font design units per em.
func (d *Decoder) UnitsPerEm() uint16 {
	return d.file.UnitsPerEm()
}

// Descriptor builds a font descriptor for the font.  The descriptor refers
// to the font program returned by [Decoder.Program].
func (d *Decoder) Descriptor() (*font.Descriptor, error) {
	s, err := d.file.Summary()
	if err != nil {
		return nil, err
	}
	fd, err := font.NewDescriptor(s)
	if err != nil {
		return nil, err
	}
	fd.Program = d.program
	return fd, nil
}

// GlyphID returns the glyph for the character r.  The second return value
// is false if the font has no glyph for r.  In this case the glyph ID is 0,
// the .notdef glyph.
func (d *Decoder) GlyphID(r rune) (glyph.ID, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.glyphID(r)
}

func (d *Decoder) glyphID(r rune) (glyph.ID, bool, error) {
	if gid, ok := d.gids[r]; ok {
		return gid, gid != 0, nil
	}
	gid, err := d.src.GlyphIndex(r)
	if err != nil {
		return 0, false, err
	}
	d.gids[r] = gid
	return gid, gid != 0, nil
}

// GlyphIDs maps every character of s to a glyph.  Characters missing from
// the font are mapped to glyph 0 and are listed in missing.
func (d *Decoder) GlyphIDs(s string) (gids []glyph.ID, missing []rune, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, r := range s {
		gid, ok, err := d.glyphID(r)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			missing = append(missing, r)
		}
		gids = append(gids, gid)
	}
	return gids, missing, nil
}

// Metrics returns the width, height and depth of a glyph.
//
// Glyphs without a bounding box, for example composite glyphs or glyphs
// in CFF-based fonts, are given the ascent and descent of the font.
// Empty glyphs have height and depth zero.
func (d *Decoder) Metrics(gid glyph.ID) Metrics {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m, ok := d.metrics[gid]; ok {
		return m
	}
	m := Metrics{Width: d.src.AdvanceWidth(gid)}
	if box, ok := d.src.GlyphBox(gid); ok {
		m.Height = box.URy
		m.Depth = -box.LLy
	} else {
		m.Height = d.ascent
		m.Depth = -d.descent
	}
	d.metrics[gid] = m
	return m
}

// UsedGlyphs returns the glyphs for which [Decoder.Metrics] has been
// called, in increasing order.
func (d *Decoder) UsedGlyphs() []glyph.ID {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := make([]glyph.ID, 0, len(d.metrics))
	for gid := range d.metrics {
		res = append(res, gid)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Widths returns the advance widths of all glyphs for which
// [Decoder.Metrics] has been called.
func (d *Decoder) Widths() map[glyph.ID]funit.Int16 {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := make(map[glyph.ID]funit.Int16, len(d.metrics))
	for gid, m := range d.metrics {
		res[gid] = m.Width
	}
	return res
}

// Ligatures applies the ligature rules of the font to a glyph sequence.
func (d *Decoder) Ligatures(seq []glyph.ID) []glyph.ID {
	return d.lig.Apply(seq)
}

// Kerning returns the kerning adjustment between two glyphs, in font
// design units.  The second return value is false if the font has no
// kerning information for the pair.
func (d *Decoder) Kerning(left, right glyph.ID) (funit.Int16, bool) {
	return d.kern.Find(left, right)
}
