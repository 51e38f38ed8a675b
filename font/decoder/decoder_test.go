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
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/text/language"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/kern"
	"seehuhn.de/go/sfnt/opentype/coverage"
	"seehuhn.de/go/sfnt/opentype/gtab"

	"seehuhn.de/go/typeset/font"
	"seehuhn.de/go/typeset/font/gofont"
	"seehuhn.de/go/typeset/font/kerning"
	"seehuhn.de/go/typeset/font/loader"
	"seehuhn.de/go/typeset/internal/debugfont"
)

// countingSource is a glyphSource which records how often it is queried.
type countingSource struct {
	cmap    map[rune]glyph.ID
	widths  map[glyph.ID]funit.Int16
	boxes   map[glyph.ID]funit.Rect16
	lookups map[rune]int
	queries map[glyph.ID]int
}

func newCountingSource() *countingSource {
	return &countingSource{
		cmap:   map[rune]glyph.ID{'A': 1, 'B': 2, ' ': 3},
		widths: map[glyph.ID]funit.Int16{1: 600, 2: 550, 3: 250, 4: 700},
		boxes: map[glyph.ID]funit.Rect16{
			1: {LLx: 10, LLy: 0, URx: 590, URy: 700},
			2: {LLx: 20, LLy: -10, URx: 530, URy: 710},
			3: {},
		},
		lookups: make(map[rune]int),
		queries: make(map[glyph.ID]int),
	}
}

func (s *countingSource) GlyphIndex(r rune) (glyph.ID, error) {
	s.lookups[r]++
	return s.cmap[r], nil
}

func (s *countingSource) AdvanceWidth(gid glyph.ID) funit.Int16 {
	s.queries[gid]++
	return s.widths[gid]
}

func (s *countingSource) GlyphBox(gid glyph.ID) (funit.Rect16, bool) {
	box, ok := s.boxes[gid]
	return box, ok
}

func TestGlyphIDMemoized(t *testing.T) {
	src := newCountingSource()
	d := newDecoder(src, nil, nil, 800, -200)

	for i := 0; i < 3; i++ {
		gid, ok, err := d.GlyphID('A')
		if err != nil {
			t.Fatal(err)
		}
		if gid != 1 || !ok {
			t.Errorf("'A': got %d, %t", gid, ok)
		}

		gid, ok, err = d.GlyphID('x')
		if err != nil {
			t.Fatal(err)
		}
		if gid != 0 || ok {
			t.Errorf("'x': got %d, %t", gid, ok)
		}
	}
	if src.lookups['A'] != 1 || src.lookups['x'] != 1 {
		t.Errorf("unexpected lookup counts %v", src.lookups)
	}
}

func TestGlyphIDs(t *testing.T) {
	d := newDecoder(newCountingSource(), nil, nil, 800, -200)
	gids, missing, err := d.GlyphIDs("AxB y")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]glyph.ID{1, 0, 2, 3, 0}, gids); diff != "" {
		t.Errorf("gids (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]rune{'x', 'y'}, missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
}

func TestMetrics(t *testing.T) {
	src := newCountingSource()
	d := newDecoder(src, nil, nil, 800, -200)

	cases := []struct {
		gid  glyph.ID
		want Metrics
	}{
		{1, Metrics{Width: 600, Height: 700, Depth: 0}},
		{2, Metrics{Width: 550, Height: 710, Depth: 10}},
		{3, Metrics{Width: 250}},                          // empty glyph
		{4, Metrics{Width: 700, Height: 800, Depth: 200}}, // no bounding box
		{1, Metrics{Width: 600, Height: 700, Depth: 0}},
	}
	for _, c := range cases {
		got := d.Metrics(c.gid)
		if got != c.want {
			t.Errorf("glyph %d: got %+v, want %+v", c.gid, got, c.want)
		}
	}
	for gid, n := range src.queries {
		if n != 1 {
			t.Errorf("glyph %d: queried %d times", gid, n)
		}
	}

	if diff := cmp.Diff([]glyph.ID{1, 2, 3, 4}, d.UsedGlyphs()); diff != "" {
		t.Errorf("used glyphs (-want +got):\n%s", diff)
	}
}

func TestWidthsSnapshot(t *testing.T) {
	d := newDecoder(newCountingSource(), nil, nil, 800, -200)
	d.Metrics(1)
	before := d.Widths()
	d.Metrics(2)
	after := d.Widths()

	if len(before) != 1 || len(after) != 2 {
		t.Errorf("got %d and %d widths, want 1 and 2", len(before), len(after))
	}
	if after[2] != 550 {
		t.Errorf("glyph 2: got width %d", after[2])
	}
}

func TestKerning(t *testing.T) {
	tab := kerning.New()
	tab.Set(1, 2, -40)
	d := newDecoder(newCountingSource(), nil, tab, 800, -200)

	if v, ok := d.Kerning(1, 2); !ok || v != -40 {
		t.Errorf("(1, 2): got %d, %t", v, ok)
	}
	if _, ok := d.Kerning(2, 1); ok {
		t.Error("(2, 1): unexpected kerning")
	}
}

func TestGoRegular(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typeset.font")
	defer teardown()

	d, err := New(gofont.Regular.TTF())
	if err != nil {
		t.Fatal(err)
	}
	if d.PostScriptName() != "Go-Regular" {
		t.Errorf("wrong PostScript name %q", d.PostScriptName())
	}

	gids, missing, err := d.GlyphIDs("Hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) > 0 {
		t.Errorf("missing characters %q", string(missing))
	}
	for _, gid := range gids {
		m := d.Metrics(gid)
		if m.Width <= 0 || m.Height <= 0 {
			t.Errorf("glyph %d: unexpected metrics %+v", gid, m)
		}
	}

	// Go Regular has no "GSUB" table
	if n := d.lig.Len(); n != 0 {
		t.Errorf("%d ligature rules for a font without GSUB table", n)
	}
	seq, _, err := d.GlyphIDs("fi")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(seq, d.Ligatures(seq)); diff != "" {
		t.Errorf("ligature applied (-want +got):\n%s", diff)
	}
}

func TestProgramAndDescriptor(t *testing.T) {
	d, err := New(gofont.Regular.TTF())
	if err != nil {
		t.Fatal(err)
	}

	p := d.Program()
	if p == nil || p != d.Program() {
		t.Fatal("program is not stable")
	}
	if p.Kind != font.KindTrueType {
		t.Errorf("wrong program kind %s", p.Kind)
	}

	fd, err := d.Descriptor()
	if err != nil {
		t.Fatal(err)
	}
	if fd.FontName != "Go-Regular" {
		t.Errorf("wrong font name %q", fd.FontName)
	}
	if fd.Program != p {
		t.Error("descriptor refers to a different program")
	}
	if fd.Ascent <= 0 || fd.Descent >= 0 {
		t.Errorf("unexpected ascent/descent %g/%g", fd.Ascent, fd.Descent)
	}
}

func TestNewInvalid(t *testing.T) {
	_, err := New([]byte("not a font"))
	if !font.IsInvalidFont(err) {
		t.Errorf("expected InvalidFontError, got %v", err)
	}
}

func TestCache(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typeset.font")
	defer teardown()

	dir := t.TempDir()
	path, err := gofont.Regular.WriteFile(dir)
	if err != nil {
		t.Fatal(err)
	}

	cache := NewCache()
	first, err := cache.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if first.Path != path {
		t.Errorf("wrong path %q", first.Path)
	}

	const n = 8
	res := make([]*Decoder, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res[i], _ = cache.Get(path)
		}(i)
	}
	wg.Wait()
	for i, d := range res {
		if d != first {
			t.Errorf("%d: got a different decoder", i)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("cache holds %d decoders", cache.Len())
	}
}

func TestDefaultCache(t *testing.T) {
	path, err := gofont.Bold.WriteFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	d1, err := Get(path)
	if err != nil {
		t.Fatal(err)
	}
	d2, err := Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if d1 != d2 {
		t.Error("process-wide cache returned different decoders")
	}
}

func TestCacheErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "later.ttf")

	cache := NewCache()
	_, err := cache.Get(path)
	var sysErr *loader.SystemError
	if !errors.As(err, &sysErr) {
		t.Fatalf("expected SystemError, got %v", err)
	}

	// failures are not cached
	err = os.WriteFile(path, gofont.Regular.TTF(), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	d, err := cache.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if d == nil || cache.Len() != 1 {
		t.Error("decoder not cached")
	}
}

func TestCacheOpenOnce(t *testing.T) {
	calls := make(map[string]int)
	cache := NewCache()
	cache.open = func(path string) (*Decoder, error) {
		calls[path]++
		d := newDecoder(newCountingSource(), nil, nil, 800, -200)
		d.Path = path
		return d, nil
	}

	a1, _ := cache.Get("a")
	b, _ := cache.Get("b")
	a2, _ := cache.Get("a")
	if a1 != a2 || a1 == b {
		t.Error("wrong decoder identity")
	}
	if calls["a"] != 1 || calls["b"] != 1 {
		t.Errorf("unexpected open counts %v", calls)
	}
}

// goRegularGlyphs returns the glyphs of Go Regular for the characters in
// text.
func goRegularGlyphs(t *testing.T, text string) []glyph.ID {
	t.Helper()
	d, err := New(gofont.Regular.TTF())
	if err != nil {
		t.Fatal(err)
	}
	gids, missing, err := d.GlyphIDs(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) > 0 {
		t.Fatalf("missing characters %q", string(missing))
	}
	return gids
}

func TestGsubLigatures(t *testing.T) {
	gids := goRegularGlyphs(t, "fi\uFB01")
	f, i, fi := gids[0], gids[1], gids[2]

	gsub := &gtab.Info{
		ScriptList: gtab.ScriptListInfo{
			language.MustParse("und-Latn"): {
				Required: 0xFFFF,
				Optional: []gtab.FeatureIndex{0},
			},
		},
		FeatureList: []*gtab.Feature{
			{Tag: "liga", Lookups: []gtab.LookupIndex{0}},
		},
		LookupList: gtab.LookupList{
			{
				Meta: &gtab.LookupMetaInfo{LookupType: 4},
				Subtables: []gtab.Subtable{
					&gtab.Gsub4_1{
						Cov:  coverage.Table{f: 0},
						Repl: [][]gtab.Ligature{{{In: []glyph.ID{i}, Out: fi}}},
					},
				},
			},
		},
	}

	d, err := New(debugfont.GoRegular(map[string][]byte{"GSUB": gsub.Encode()}))
	if err != nil {
		t.Fatal(err)
	}
	if n := d.lig.Len(); n != 1 {
		t.Errorf("expected 1 ligature rule, got %d", n)
	}
	got := d.Ligatures([]glyph.ID{f, i, i})
	if diff := cmp.Diff([]glyph.ID{fi, i}, got); diff != "" {
		t.Errorf("ligatures (-want +got):\n%s", diff)
	}
}

func kernTestFont(t *testing.T, tables map[string][]byte) *Decoder {
	t.Helper()
	d, err := New(debugfont.GoRegular(tables))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLegacyKern(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typeset.font")
	defer teardown()

	gids := goRegularGlyphs(t, "AVT")
	a, v, tt := gids[0], gids[1], gids[2]
	pairs := kern.Info{
		{Left: a, Right: v}:  -120,
		{Left: tt, Right: a}: -80,
	}

	d := kernTestFont(t, map[string][]byte{"kern": pairs.Encode()})
	if d.File().Gpos() != nil {
		t.Error("kerning pairs converted to GPOS")
	}
	for pair, want := range pairs {
		got, ok := d.Kerning(pair.Left, pair.Right)
		if !ok || got != want {
			t.Errorf("%v: got %d, %t, want %d", pair, got, ok, want)
		}
	}
	if _, ok := d.Kerning(v, a); ok {
		t.Error("unexpected kerning for (V, A)")
	}
}

func TestLegacyKernUnsupported(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "typeset.font")
	defer teardown()

	gids := goRegularGlyphs(t, "AV")

	// an Apple "kern" table, version 1.0 with no subtables
	d := kernTestFont(t, map[string][]byte{"kern": {0, 1, 0, 0, 0, 0, 0, 0}})
	if _, ok := d.Kerning(gids[0], gids[1]); ok {
		t.Error("unexpected kerning")
	}
	if _, ok, err := d.GlyphID('A'); !ok || err != nil {
		t.Errorf("font not usable: %t, %v", ok, err)
	}

	_, err := New(debugfont.GoRegular(map[string][]byte{"kern": {0, 0, 0, 1, 0, 0}}))
	if !font.IsInvalidFont(err) {
		t.Errorf("malformed kern table: expected InvalidFontError, got %v", err)
	}
}

func TestGposBeatsKern(t *testing.T) {
	gids := goRegularGlyphs(t, "AVT")
	a, v, tt := gids[0], gids[1], gids[2]

	gpos := &gtab.Info{
		ScriptList: gtab.ScriptListInfo{
			language.MustParse("und-Latn"): {
				Required: 0xFFFF,
				Optional: []gtab.FeatureIndex{0},
			},
		},
		FeatureList: []*gtab.Feature{
			{Tag: "kern", Lookups: []gtab.LookupIndex{0}},
		},
		LookupList: gtab.LookupList{
			{
				Meta: &gtab.LookupMetaInfo{LookupType: 2},
				Subtables: []gtab.Subtable{
					gtab.Gpos2_1{
						{Left: a, Right: v}: &gtab.PairAdjust{
							First: &gtab.GposValueRecord{XAdvance: -40},
						},
					},
				},
			},
		},
	}
	legacy := kern.Info{
		{Left: a, Right: v}:  -120,
		{Left: tt, Right: a}: -80,
	}

	d := kernTestFont(t, map[string][]byte{
		"GPOS": gpos.Encode(),
		"kern": legacy.Encode(),
	})
	if got, ok := d.Kerning(a, v); !ok || got != -40 {
		t.Errorf("(A, V): got %d, %t, want -40", got, ok)
	}
	if _, ok := d.Kerning(tt, a); ok {
		t.Error("(T, A): kerning taken from the \"kern\" table")
	}
}

func TestCompositeMetrics(t *testing.T) {
	gids := goRegularGlyphs(t, "AB")
	a, b := gids[0], gids[1]

	data, err := debugfont.MakeComposite(gofont.Regular.TTF(), b, a)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(data)
	if err != nil {
		t.Fatal(err)
	}
	hhea, err := d.File().Hhea()
	if err != nil {
		t.Fatal(err)
	}

	want := Metrics{
		Width:  d.File().AdvanceWidth(b),
		Height: hhea.Ascent,
		Depth:  -hhea.Descent,
	}
	if diff := cmp.Diff(want, d.Metrics(b)); diff != "" {
		t.Errorf("composite glyph (-want +got):\n%s", diff)
	}

	box, _ := d.File().GlyphBox(a)
	if m := d.Metrics(a); m.Height != box.URy || m.Depth != -box.LLy {
		t.Errorf("simple glyph: got %+v, box %v", m, box)
	}
}

func TestCFFMetrics(t *testing.T) {
	d, err := New(debugfont.MakeCFF())
	if err != nil {
		t.Fatal(err)
	}
	if kind := d.Program().Kind; kind != font.KindOpenType {
		t.Errorf("wrong program kind %s", kind)
	}
	hhea, err := d.File().Hhea()
	if err != nil {
		t.Fatal(err)
	}

	gid, ok, err := d.GlyphID('A')
	if err != nil || !ok {
		t.Fatalf("no glyph for 'A': %v", err)
	}
	want := Metrics{Width: 700, Height: hhea.Ascent, Depth: -hhea.Descent}
	if diff := cmp.Diff(want, d.Metrics(gid)); diff != "" {
		t.Errorf("metrics (-want +got):\n%s", diff)
	}
	if _, ok, _ := d.GlyphID('C'); ok {
		t.Error("unexpected glyph for 'C'")
	}
}
