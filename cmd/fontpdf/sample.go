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

package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset/font/decoder"
	"seehuhn.de/go/typeset/font/embed"
	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/pdf"
)

// A4 paper size in PDF units.
const (
	pageWidth  = 595.276
	pageHeight = 841.890
	margin     = 72
)

// sample is a line of text set in one font.
type sample struct {
	Entry  *loader.Entry
	Text   string
	Size   float64
	Simple bool
}

// WritePDF writes a one-page PDF file showing the sample.
func (s *sample) WritePDF(out io.Writer, ver pdf.Version, cache *decoder.Cache) error {
	font, tj, err := s.layout(cache)
	if err != nil {
		return err
	}

	w := pdf.NewWriter(ver)
	rm := pdf.NewResourceManager(w)
	fontRef, _, err := pdf.ResourceManagerEmbed(rm, font)
	if err != nil {
		return err
	}
	err = rm.Close()
	if err != nil {
		return err
	}

	content := &bytes.Buffer{}
	fmt.Fprintln(content, "BT")
	fmt.Fprintf(content, "/%s %g Tf\n", s.Entry.Resource, s.Size)
	fmt.Fprintf(content, "%d %g Td\n", margin, pageHeight-margin-s.Size)
	err = tj.PDF(content)
	if err != nil {
		return err
	}
	fmt.Fprintln(content, " TJ")
	fmt.Fprintln(content, "ET")
	contentRef, err := w.Add(&pdf.Stream{Data: content.Bytes()})
	if err != nil {
		return err
	}

	pagesRef := w.Alloc()
	pageRef, err := w.Add(pdf.Dict{
		"Type":   pdf.Name("Page"),
		"Parent": pagesRef,
		"MediaBox": pdf.Array{
			pdf.Integer(0), pdf.Integer(0),
			pdf.Number(pageWidth), pdf.Number(pageHeight),
		},
		"Resources": pdf.Dict{
			"Font": pdf.Dict{s.Entry.Resource: fontRef},
		},
		"Contents": contentRef,
	})
	if err != nil {
		return err
	}
	err = w.Put(pagesRef, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{pageRef},
		"Count": pdf.Integer(1),
	})
	if err != nil {
		return err
	}
	catalogRef, err := w.Add(pdf.Dict{
		"Type":  pdf.Name("Catalog"),
		"Pages": pagesRef,
	})
	if err != nil {
		return err
	}

	return w.Write(out, catalogRef)
}

// layout converts the text into the operand of a TJ operator and returns
// the font used.
func (s *sample) layout(cache *decoder.Cache) (pdf.Embedder[pdf.Unused], pdf.Array, error) {
	if s.Entry.Standard {
		font, err := embed.Standard(s.Entry.Source)
		if err != nil {
			return nil, nil, err
		}
		codes, err := encodeWinAnsi(s.Text)
		if err != nil {
			return nil, nil, err
		}
		return font, pdf.Array{pdf.String(codes)}, nil
	}

	d, err := cache.Get(s.Entry.Source)
	if err != nil {
		return nil, nil, err
	}
	if s.Simple {
		return layoutSimple(d, s.Text)
	}
	return layoutComposite(d, s.Text)
}

// layoutComposite sets the text using ligatures and kerning, with
// two-byte glyph IDs as character codes.
func layoutComposite(d *decoder.Decoder, text string) (pdf.Embedder[pdf.Unused], pdf.Array, error) {
	gids, missing, err := d.GlyphIDs(text)
	if err != nil {
		return nil, nil, err
	}
	if len(missing) > 0 {
		tracer().Infof("font %q has no glyphs for %q", d.PostScriptName(), string(missing))
	}
	gids = d.Ligatures(gids)

	q := 1000 / float64(d.UnitsPerEm())
	tj := kernedRun(d, gids, q, func(gid glyph.ID) []byte {
		return []byte{byte(gid >> 8), byte(gid)}
	})

	// The widths are collected after all glyphs have been measured.
	font, err := embed.NewType0(d)
	if err != nil {
		return nil, nil, err
	}
	return font, tj, nil
}

// layoutSimple sets the text with single-byte WinAnsi codes.  Ligatures
// are not used, since the ligature glyphs have no codes.
func layoutSimple(d *decoder.Decoder, text string) (pdf.Embedder[pdf.Unused], pdf.Array, error) {
	codes, err := encodeWinAnsi(text)
	if err != nil {
		return nil, nil, err
	}
	gids, _, err := d.GlyphIDs(text)
	if err != nil {
		return nil, nil, err
	}

	code := make(map[glyph.ID]byte, len(gids))
	for i, gid := range gids {
		code[gid] = codes[i]
	}

	q := 1000 / float64(d.UnitsPerEm())
	tj := kernedRun(d, gids, q, func(gid glyph.ID) []byte {
		return []byte{code[gid]}
	})

	font, err := embed.NewSimple(d, 32, 255)
	if err != nil {
		return nil, nil, err
	}
	return font, tj, nil
}

// kernedRun builds a TJ array, splitting the string wherever the font
// has a kerning value for consecutive glyphs.
func kernedRun(d *decoder.Decoder, gids []glyph.ID, q float64, enc func(glyph.ID) []byte) pdf.Array {
	var tj pdf.Array
	var cur pdf.String
	for i, gid := range gids {
		d.Metrics(gid)
		if i > 0 {
			if kern, ok := d.Kerning(gids[i-1], gid); ok {
				tj = append(tj, cur, pdf.Number(-float64(kern)*q))
				cur = nil
			}
		}
		cur = append(cur, enc(gid)...)
	}
	if len(cur) > 0 {
		tj = append(tj, cur)
	}
	return tj
}

// encodeWinAnsi converts text to WinAnsi codes.
func encodeWinAnsi(text string) ([]byte, error) {
	codes, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %q: %w", text, err)
	}
	return []byte(codes), nil
}

// tracer traces with key 'typeset.font'.
func tracer() tracing.Trace {
	return tracing.Select("typeset.font")
}
