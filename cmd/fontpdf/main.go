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

// Fontpdf writes a one-page PDF file showing a line of text set in a
// font from a font map.
//
// Usage:
//
//	fontpdf [-map fonts.yaml] [-font rm] [-simple] [-o out.pdf] text...
//
// Without -map, the Go fonts are used.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"seehuhn.de/go/typeset/font/decoder"
	"seehuhn.de/go/typeset/font/gofont"
	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/pdf"
)

func main() {
	mapFile := flag.String("map", "", "font map (YAML or line based)")
	abbrev := flag.String("font", "rm", "font abbreviation")
	outName := flag.String("o", "out.pdf", "output file name")
	simple := flag.Bool("simple", false, "embed as a simple font instead of a composite font")
	size := flag.Float64("size", 24, "font size in points")
	version := flag.String("version", "1.7", "PDF version")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		text = "Efficient fluffy office waffles"
	}

	ver, err := pdf.ParseVersion(*version)
	if err != nil {
		log.Fatal(err)
	}

	reg, cleanup, err := loadRegistry(*mapFile)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	entry, err := reg.Lookup(*abbrev)
	if err != nil {
		log.Fatal(err)
	}

	s := &sample{
		Entry:  entry,
		Text:   text,
		Size:   *size,
		Simple: *simple,
	}

	out, err := os.Create(*outName)
	if err != nil {
		log.Fatal(err)
	}
	err = s.WritePDF(out, ver, decoder.NewCache())
	if err != nil {
		out.Close()
		log.Fatal(err)
	}
	err = out.Close()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %q in %s\n", *outName, text, entry.Source)
}

// loadRegistry reads the font map.  If no font map is given, the Go fonts
// are written to a temporary directory and registered.
func loadRegistry(mapFile string) (*loader.Registry, func(), error) {
	reg := loader.NewRegistry()

	if mapFile == "" {
		dir, err := os.MkdirTemp("", "fontpdf")
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() { os.RemoveAll(dir) }
		err = gofont.Install(reg, dir)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		return reg, cleanup, nil
	}

	fd, err := os.Open(mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer fd.Close()

	switch strings.ToLower(filepath.Ext(mapFile)) {
	case ".yaml", ".yml":
		err = reg.LoadYAML(fd)
	default:
		err = reg.AddFontMap(fd)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", mapFile, err)
	}
	return reg, func() {}, nil
}
