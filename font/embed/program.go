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
	"fmt"

	"seehuhn.de/go/typeset/ascii85"
	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/pdf"
)

// EmbedProgram writes the font program p into the PDF file managed by rm
// and returns a reference to the font file stream.  If p has already been
// embedded by rm, the existing reference is returned.
func EmbedProgram(rm *pdf.ResourceManager, p *font.Program) (pdf.Reference, error) {
	obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, programRes{p})
	if err != nil {
		return 0, err
	}
	return obj.(pdf.Reference), nil
}

// IsProgramEmbedded reports whether p has been embedded by rm.
func IsProgramEmbedded(rm *pdf.ResourceManager, p *font.Program) bool {
	return rm.IsEmbedded(programRes{p})
}

// programRes is the resource manager key for a font program.
type programRes struct {
	p *font.Program
}

// Embed implements the [pdf.Embedder] interface.
func (r programRes) Embed(rm *pdf.ResourceManager) (pdf.Object, pdf.Unused, error) {
	var zero pdf.Unused

	p := r.p
	if p == nil || len(p.Data) == 0 {
		return nil, zero, fmt.Errorf("embed: empty font program")
	}

	// See section 9.9 of PDF 32000-1:2008.
	var minVersion pdf.Version
	switch p.Kind {
	case font.KindTrueType:
		minVersion = pdf.V1_1
	case font.KindType1C:
		minVersion = pdf.V1_2
	case font.KindCIDFontType0C:
		minVersion = pdf.V1_3
	case font.KindOpenType:
		minVersion = pdf.V1_6
	default:
		return nil, zero, fmt.Errorf("embed: unknown font program kind %d", p.Kind)
	}
	err := pdf.CheckVersion(rm.Out, "embedding "+p.Kind.String()+" fonts", minVersion)
	if err != nil {
		return nil, zero, err
	}

	dict := pdf.Dict{
		"Filter": pdf.Name(ascii85.FilterName),
	}
	if p.Kind == font.KindTrueType {
		dict["Length1"] = pdf.Integer(len(p.Data))
	}
	if subtype := p.Kind.Subtype(); subtype != "" {
		dict["Subtype"] = subtype
	}

	ref := rm.Out.Alloc()
	err = rm.Out.Put(ref, &pdf.Stream{
		Dict: dict,
		Data: ascii85.EncodeBytes(p.Data),
	})
	if err != nil {
		return nil, zero, err
	}
	tracer().Debugf("embedded %s font program (%d bytes) as %s", p.Kind, len(p.Data), ref)
	return ref, zero, nil
}

// embedDescriptor writes the font descriptor, together with the font
// program it refers to, and returns a reference to the descriptor.
func embedDescriptor(rm *pdf.ResourceManager, fd *font.Descriptor) (pdf.Reference, error) {
	dict := fd.AsDict()
	if fd.Program != nil {
		ref, err := EmbedProgram(rm, fd.Program)
		if err != nil {
			return 0, err
		}
		dict[fd.Program.Kind.FontFileKey()] = ref
	}
	return pdf.Add(rm.Out, dict)
}
