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

package sfntfile

import (
	"bytes"

	"seehuhn.de/go/sfnt/head"
	"seehuhn.de/go/sfnt/hmtx"
	"seehuhn.de/go/sfnt/os2"

	"seehuhn.de/go/typeset/font"
)

// Head reads the "head" table.
func (f *File) Head() (*head.Info, error) {
	data, err := f.TableBytes("head")
	if err != nil {
		return nil, err
	}
	info, err := head.Read(bytes.NewReader(data))
	if err != nil {
		return nil, tableError("head", err)
	}
	return info, nil
}

// Hhea reads the "hhea" table.  The horizontal metrics from "hmtx" are not
// included in the result.
func (f *File) Hhea() (*hmtx.Info, error) {
	data, err := f.TableBytes("hhea")
	if err != nil {
		return nil, err
	}
	info, err := hmtx.Decode(data, nil)
	if err != nil {
		return nil, tableError("hhea", err)
	}
	return info, nil
}

// OS2 reads the "OS/2" table.  Weight and width class are reported as
// stored in the file, without range checks.
func (f *File) OS2() (*os2.Info, error) {
	data, err := f.TableBytes("OS/2")
	if err != nil {
		return nil, err
	}
	info, err := os2.Read(bytes.NewReader(data))
	if err != nil {
		return nil, tableError("OS/2", err)
	}
	return info, nil
}

// Summary collects the header data needed to build a font descriptor.
func (f *File) Summary() (*font.Summary, error) {
	headInfo, err := f.Head()
	if err != nil {
		return nil, err
	}
	hhea, err := f.Hhea()
	if err != nil {
		return nil, err
	}
	os2Info, err := f.OS2()
	if err != nil {
		return nil, err
	}
	return &font.Summary{
		PostScriptName: f.PostScriptName(),
		UnitsPerEm:     headInfo.UnitsPerEm,
		BBox:           headInfo.FontBBox,
		Ascent:         hhea.Ascent,
		Descent:        hhea.Descent,
		WeightClass:    uint16(os2Info.WeightClass),
		WidthClass:     uint16(os2Info.WidthClass),
	}, nil
}

func tableError(name string, err error) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt",
		Reason:    "malformed \"" + name + "\" table",
		Err:       err,
	}
}
