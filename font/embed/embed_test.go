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
	"bytes"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset/ascii85"
	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/font/decoder"
	"seehuhn.de/go/typeset/font/gofont"
	"seehuhn.de/go/typeset/pdf"
)

func goRegular(t *testing.T) *decoder.Decoder {
	t.Helper()
	d, err := decoder.New(gofont.Regular.TTF())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// streams returns all stream objects in w.
func streams(w *pdf.Writer) []*pdf.Stream {
	var res []*pdf.Stream
	for _, ref := range w.References() {
		obj, _ := w.Get(ref)
		if s, ok := obj.(*pdf.Stream); ok {
			res = append(res, s)
		}
	}
	return res
}

func getDict(t *testing.T, w *pdf.Writer, obj pdf.Object) pdf.Dict {
	t.Helper()
	ref, ok := obj.(pdf.Reference)
	if !ok {
		t.Fatalf("expected a reference, got %T", obj)
	}
	val, ok := w.Get(ref)
	if !ok {
		t.Fatalf("object %s not written", ref)
	}
	dict, ok := val.(pdf.Dict)
	if !ok {
		t.Fatalf("object %s: expected a dictionary, got %T", ref, val)
	}
	return dict
}

// decodeWidths expands a /W array into a map.
func decodeWidths(t *testing.T, w pdf.Array) map[cid.CID]float64 {
	t.Helper()
	res := make(map[cid.CID]float64)
	for len(w) > 1 {
		c0 := w[0].(pdf.Integer)
		switch x := w[1].(type) {
		case pdf.Integer:
			wi := w[2].(pdf.Number)
			for c := c0; c <= x; c++ {
				res[cid.CID(c)] = float64(wi)
			}
			w = w[3:]
		case pdf.Array:
			for i, wi := range x {
				res[cid.CID(c0)+cid.CID(i)] = float64(wi.(pdf.Number))
			}
			w = w[2:]
		default:
			t.Fatalf("malformed /W array: %v", w)
		}
	}
	if len(w) != 0 {
		t.Fatalf("malformed /W array: trailing %v", w)
	}
	return res
}

func TestEncodeWidths(t *testing.T) {
	cases := []struct {
		in   map[cid.CID]float64
		want pdf.Array
	}{
		{nil, nil},
		{
			map[cid.CID]float64{1: 500, 2: 500, 3: 500, 5: 600},
			pdf.Array{
				pdf.Integer(1), pdf.Integer(3), pdf.Number(500),
				pdf.Integer(5), pdf.Array{pdf.Number(600)},
			},
		},
		{
			// same width, but not consecutive
			map[cid.CID]float64{1: 500, 3: 500},
			pdf.Array{
				pdf.Integer(1), pdf.Array{pdf.Number(500)},
				pdf.Integer(3), pdf.Array{pdf.Number(500)},
			},
		},
		{
			map[cid.CID]float64{10: 250, 11: 300, 12: 350},
			pdf.Array{
				pdf.Integer(10),
				pdf.Array{pdf.Number(250), pdf.Number(300), pdf.Number(350)},
			},
		},
	}
	for i, c := range cases {
		got := EncodeWidths(c.in)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%d: (-want +got):\n%s", i, diff)
		}
	}
}

func TestEncodeWidthsExact(t *testing.T) {
	in := make(map[cid.CID]float64)
	for c := cid.CID(0); c < 300; c++ {
		if c%7 == 3 {
			continue
		}
		in[c] = float64(500 + 10*(c/20))
	}
	got := decodeWidths(t, EncodeWidths(in))
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestProgramEmbeddedOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typeset.font")
	defer teardown()

	d := goRegular(t)
	p := d.Program()

	embedAll := func(w *pdf.Writer) {
		rm := pdf.NewResourceManager(w)
		simple, err := NewSimple(d, 32, 126)
		if err != nil {
			t.Fatal(err)
		}
		type0, err := NewType0(d)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range []pdf.Embedder[pdf.Unused]{simple, type0, simple} {
			_, _, err := pdf.ResourceManagerEmbed(rm, f)
			if err != nil {
				t.Fatal(err)
			}
		}
		if !IsProgramEmbedded(rm, p) {
			t.Error("font program not marked as embedded")
		}
	}

	w1 := pdf.NewWriter(pdf.V1_7)
	embedAll(w1)
	w2 := pdf.NewWriter(pdf.V1_7)
	embedAll(w2)

	for i, w := range []*pdf.Writer{w1, w2} {
		ss := streams(w)
		if len(ss) != 1 {
			t.Fatalf("document %d: got %d streams, want 1", i+1, len(ss))
		}
		s := ss[0]
		if s.Dict["Filter"] != pdf.Name(ascii85.FilterName) {
			t.Errorf("document %d: wrong filter %v", i+1, s.Dict["Filter"])
		}
		if s.Dict["Length1"] != pdf.Integer(len(p.Data)) {
			t.Errorf("document %d: wrong /Length1 %v", i+1, s.Dict["Length1"])
		}
		data, err := io.ReadAll(ascii85.Decode(bytes.NewReader(s.Data)))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, p.Data) {
			t.Errorf("document %d: font data differs", i+1)
		}
	}
}

func TestWidthsFollowCache(t *testing.T) {
	d := goRegular(t)
	w := pdf.NewWriter(pdf.V1_7)
	rm := pdf.NewResourceManager(w)

	emit := func() map[cid.CID]float64 {
		f, err := NewType0(d)
		if err != nil {
			t.Fatal(err)
		}
		obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
		if err != nil {
			t.Fatal(err)
		}
		dict := getDict(t, w, obj)
		descendants := dict["DescendantFonts"].(pdf.Array)
		cidFont := getDict(t, w, descendants[0])
		wRef, ok := cidFont["W"].(pdf.Reference)
		if !ok {
			return nil
		}
		wObj, _ := w.Get(wRef)
		return decodeWidths(t, wObj.(pdf.Array))
	}

	if widths := emit(); len(widths) != 0 {
		t.Errorf("unexpected widths %v", widths)
	}

	gids, _, err := d.GlyphIDs("AB")
	if err != nil {
		t.Fatal(err)
	}
	for _, gid := range gids {
		d.Metrics(gid)
	}
	first := emit()

	extra, _, err := d.GlyphID('z')
	if err != nil {
		t.Fatal(err)
	}
	d.Metrics(extra)
	second := emit()

	if diff := cmp.Diff(cidSet(gids...), sortedKeys(first)); diff != "" {
		t.Errorf("first emission (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(cidSet(append(gids, extra)...), sortedKeys(second)); diff != "" {
		t.Errorf("second emission (-want +got):\n%s", diff)
	}

	q := 1000 / float64(d.UnitsPerEm())
	if got, want := second[cid.CID(extra)], float64(d.Metrics(extra).Width)*q; got != want {
		t.Errorf("width of 'z': got %g, want %g", got, want)
	}

	if n := len(streams(w)); n != 1 {
		t.Errorf("got %d font file streams, want 1", n)
	}
}

// cidSet returns the CIDs corresponding to gids, sorted and without
// duplicates.
func cidSet(gids ...glyph.ID) []cid.CID {
	seen := make(map[cid.CID]bool)
	var res []cid.CID
	for _, gid := range gids {
		c := cid.CID(gid)
		if !seen[c] {
			seen[c] = true
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

func sortedKeys(m map[cid.CID]float64) []cid.CID {
	var res []cid.CID
	for c := cid.CID(0); len(res) < len(m); c++ {
		if _, ok := m[c]; ok {
			res = append(res, c)
		}
	}
	return res
}

func TestType0Dict(t *testing.T) {
	d := goRegular(t)
	w := pdf.NewWriter(pdf.V1_7)
	rm := pdf.NewResourceManager(w)

	f, err := NewType0(d)
	if err != nil {
		t.Fatal(err)
	}
	obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
	if err != nil {
		t.Fatal(err)
	}
	dict := getDict(t, w, obj)
	if dict["Subtype"] != pdf.Name("Type0") || dict["Encoding"] != pdf.Name("Identity-H") {
		t.Errorf("unexpected font dictionary %v", dict)
	}

	cidFont := getDict(t, w, dict["DescendantFonts"].(pdf.Array)[0])
	if cidFont["Subtype"] != pdf.Name("CIDFontType2") {
		t.Errorf("wrong subtype %v", cidFont["Subtype"])
	}
	if cidFont["CIDToGIDMap"] != pdf.Name("Identity") {
		t.Errorf("wrong CIDToGIDMap %v", cidFont["CIDToGIDMap"])
	}
	ros := cidFont["CIDSystemInfo"].(pdf.Dict)
	want := pdf.Dict{
		"Registry":   pdf.String("Adobe"),
		"Ordering":   pdf.String("Identity"),
		"Supplement": pdf.Integer(0),
	}
	if diff := cmp.Diff(want, ros); diff != "" {
		t.Errorf("CIDSystemInfo (-want +got):\n%s", diff)
	}

	fd := getDict(t, w, cidFont["FontDescriptor"])
	if fd["FontName"] != pdf.Name("Go-Regular") {
		t.Errorf("wrong font name %v", fd["FontName"])
	}
	flags := font.Flags(fd["Flags"].(pdf.Integer))
	if flags&font.FlagSymbolic == 0 {
		t.Error("symbolic flag not set")
	}
	if _, ok := fd["FontFile2"].(pdf.Reference); !ok {
		t.Error("missing /FontFile2")
	}
}

func TestCIDToGIDMap(t *testing.T) {
	d := goRegular(t)
	f, err := NewType0(d)
	if err != nil {
		t.Fatal(err)
	}
	f.CIDFont.CIDToGID = []glyph.ID{0, 36, 37, 0x1234}

	w := pdf.NewWriter(pdf.V1_7)
	rm := pdf.NewResourceManager(w)
	obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
	if err != nil {
		t.Fatal(err)
	}
	cidFont := getDict(t, w, getDict(t, w, obj)["DescendantFonts"].(pdf.Array)[0])
	ref, ok := cidFont["CIDToGIDMap"].(pdf.Reference)
	if !ok {
		t.Fatalf("CIDToGIDMap is %v", cidFont["CIDToGIDMap"])
	}
	s, _ := w.Get(ref)
	data, err := io.ReadAll(ascii85.Decode(bytes.NewReader(s.(*pdf.Stream).Data)))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 36, 0, 37, 0x12, 0x34}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}
}

func TestSimple(t *testing.T) {
	d := goRegular(t)
	f, err := NewSimple(d, 32, 126)
	if err != nil {
		t.Fatal(err)
	}
	if f.Subtype != "TrueType" || f.LastChar() != 126 || len(f.Widths) != 95 {
		t.Errorf("unexpected font %s %d-%d", f.Subtype, f.FirstChar, f.LastChar())
	}
	if n := len(d.UsedGlyphs()); n != 0 {
		t.Errorf("simple font added %d glyphs to the metrics cache", n)
	}

	gid, _, err := d.GlyphID('A')
	if err != nil {
		t.Fatal(err)
	}
	q := 1000 / float64(d.UnitsPerEm())
	want := float64(d.File().AdvanceWidth(gid)) * q
	if got := f.Widths['A'-32]; got != want {
		t.Errorf("width of 'A': got %g, want %g", got, want)
	}

	w := pdf.NewWriter(pdf.V1_7)
	rm := pdf.NewResourceManager(w)
	obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
	if err != nil {
		t.Fatal(err)
	}
	dict := getDict(t, w, obj)
	if dict["FirstChar"] != pdf.Integer(32) || dict["LastChar"] != pdf.Integer(126) {
		t.Errorf("wrong code range %v-%v", dict["FirstChar"], dict["LastChar"])
	}
	if n := len(dict["Widths"].(pdf.Array)); n != 95 {
		t.Errorf("got %d widths", n)
	}
	fd := getDict(t, w, dict["FontDescriptor"])
	if _, ok := fd["FontFile2"]; !ok {
		t.Error("missing /FontFile2")
	}
}

func TestSimpleFullRange(t *testing.T) {
	d := goRegular(t)
	f, err := NewSimple(d, 0, 255)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Widths) != 256 {
		t.Fatalf("got %d widths", len(f.Widths))
	}
	// 0x80 is the Euro sign in WinAnsiEncoding
	if f.Widths[0x80] == 0 {
		t.Error("no width for the Euro sign")
	}
}

func TestStandard(t *testing.T) {
	f, err := Standard("Helvetica")
	if err != nil {
		t.Fatal(err)
	}
	w := pdf.NewWriter(pdf.V1_7)
	rm := pdf.NewResourceManager(w)
	obj, _, err := pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
	if err != nil {
		t.Fatal(err)
	}
	want := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("Type1"),
		"BaseFont": pdf.Name("Helvetica"),
		"Encoding": pdf.Name("WinAnsiEncoding"),
	}
	if diff := cmp.Diff(want, getDict(t, w, obj)); diff != "" {
		t.Errorf("font dictionary (-want +got):\n%s", diff)
	}

	if _, err := Standard("GoRegular"); err == nil {
		t.Error("non-standard font accepted")
	}
}

func TestProgramVersion(t *testing.T) {
	p := &font.Program{Kind: font.KindOpenType, Data: []byte("OTTO")}

	w := pdf.NewWriter(pdf.V1_5)
	_, err := EmbedProgram(pdf.NewResourceManager(w), p)
	var verErr *pdf.VersionError
	if !errors.As(err, &verErr) {
		t.Fatalf("expected VersionError, got %v", err)
	}
	if verErr.Earliest != pdf.V1_6 {
		t.Errorf("wrong minimum version %s", verErr.Earliest)
	}

	w = pdf.NewWriter(pdf.V1_6)
	ref, err := EmbedProgram(pdf.NewResourceManager(w), p)
	if err != nil {
		t.Fatal(err)
	}
	obj, _ := w.Get(ref)
	s := obj.(*pdf.Stream)
	if s.Dict["Subtype"] != pdf.Name("OpenType") {
		t.Errorf("wrong subtype %v", s.Dict["Subtype"])
	}
	if _, ok := s.Dict["Length1"]; ok {
		t.Error("unexpected /Length1")
	}
}

func TestKindMismatch(t *testing.T) {
	d := goRegular(t)
	f, err := NewSimple(d, 32, 126)
	if err != nil {
		t.Fatal(err)
	}
	f.Subtype = "Type1"

	rm := pdf.NewResourceManager(pdf.NewWriter(pdf.V1_7))
	_, _, err = pdf.ResourceManagerEmbed[pdf.Unused](rm, f)
	if err == nil {
		t.Error("TrueType program accepted for a Type1 font")
	}
}
