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

// Package gofont provides access to the Go font family.
//
// The fonts are compiled into the binary.  [Install] writes them to a
// directory and registers them under short abbreviations, so that they
// can be used wherever a font file name is expected.
package gofont

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"

	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/pdf"
)

// Font identifies individual fonts in the Go font family.
type Font int

// Constants for the available fonts in the Go font family.
const (
	Regular         Font = iota // Go Regular
	Bold                        // Go Semi Bold
	BoldItalic                  // Go Semi Bold Italic
	Italic                      // Go Italic
	Medium                      // Go Medium Regular
	MediumItalic                // Go Medium Italic
	Smallcaps                   // Go Smallcaps Regular
	SmallcapsItalic             // Go Smallcaps Italic
	Mono                        // Go Mono Regular
	MonoBold                    // Go Mono Semi Bold
	MonoBoldItalic              // Go Mono Semi Bold Italic
	MonoItalic                  // Go Mono Italic
)

type fontInfo struct {
	abbrev string
	file   string
	ttf    []byte
}

var fonts = map[Font]fontInfo{
	Regular:         {"rm", "Go-Regular.ttf", goregular.TTF},
	Bold:            {"bf", "Go-Bold.ttf", gobold.TTF},
	BoldItalic:      {"bi", "Go-Bold-Italic.ttf", gobolditalic.TTF},
	Italic:          {"it", "Go-Italic.ttf", goitalic.TTF},
	Medium:          {"md", "Go-Medium.ttf", gomedium.TTF},
	MediumItalic:    {"mi", "Go-Medium-Italic.ttf", gomediumitalic.TTF},
	Smallcaps:       {"sc", "Go-Smallcaps.ttf", gosmallcaps.TTF},
	SmallcapsItalic: {"si", "Go-Smallcaps-Italic.ttf", gosmallcapsitalic.TTF},
	Mono:            {"tt", "Go-Mono.ttf", gomono.TTF},
	MonoBold:        {"tb", "Go-Mono-Bold.ttf", gomonobold.TTF},
	MonoBoldItalic:  {"tbi", "Go-Mono-Bold-Italic.ttf", gomonobolditalic.TTF},
	MonoItalic:      {"ti", "Go-Mono-Italic.ttf", gomonoitalic.TTF},
}

// All contains all the Go font family fonts available in this package.
var All = []Font{
	Regular,
	Bold,
	BoldItalic,
	Italic,
	Medium,
	MediumItalic,
	Smallcaps,
	SmallcapsItalic,
	Mono,
	MonoBold,
	MonoBoldItalic,
	MonoItalic,
}

// TTF returns the font file data.
func (f Font) TTF() []byte {
	return fonts[f].ttf
}

// Abbrev returns the abbreviation used by [Install].
func (f Font) Abbrev() string {
	return fonts[f].abbrev
}

// FileName returns the base name of the font file written by [Font.WriteFile].
func (f Font) FileName() string {
	return fonts[f].file
}

// WriteFile writes the font file into the directory dir and returns the
// full path of the new file.
func (f Font) WriteFile(dir string) (string, error) {
	info, ok := fonts[f]
	if !ok {
		return "", fmt.Errorf("gofont: unknown font %d", f)
	}
	path := filepath.Join(dir, info.file)
	err := os.WriteFile(path, info.ttf, 0o644)
	if err != nil {
		return "", fmt.Errorf("gofont: %w", err)
	}
	return path, nil
}

// Install writes all Go fonts into dir and adds them to the registry.
// The resource names are "F" followed by the abbreviation, for example
// "Frm" for Go Regular.
func Install(reg *loader.Registry, dir string) error {
	for _, f := range All {
		path, err := f.WriteFile(dir)
		if err != nil {
			return err
		}
		err = reg.Add(loader.Entry{
			Abbrev:   f.Abbrev(),
			Source:   path,
			Resource: pdf.Name("F" + f.Abbrev()),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Gopher is the Unicode code point for the gopher symbol in the Go fonts.
const Gopher = '\uF800'
