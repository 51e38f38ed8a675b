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
	"sort"

	"seehuhn.de/go/dag"
	"seehuhn.de/go/postscript/cid"

	"seehuhn.de/go/typeset/pdf"
)

// EncodeWidths constructs the /W array of a CIDFont dictionary.
//
// The array lists exactly the CIDs present in widths.  Runs of
// consecutive CIDs with the same width are written as ranges, other runs
// of consecutive CIDs as arrays, choosing the shortest representation.
// If widths is empty, nil is returned.
func EncodeWidths(widths map[cid.CID]float64) pdf.Array {
	if len(widths) == 0 {
		return nil
	}

	ww := make([]cidWidth, 0, len(widths))
	for c, w := range widths {
		ww = append(ww, cidWidth{c, w})
	}
	sort.Slice(ww, func(i, j int) bool {
		return ww[i].CID < ww[j].CID
	})

	g := wwGraph(ww)
	ee, err := dag.ShortestPath[wwEdge, int](g, len(ww))
	if err != nil {
		// unreachable: every vertex has a single-CID array edge
		panic(err)
	}

	var res pdf.Array
	pos := 0
	for _, e := range ee {
		if e > 0 {
			res = append(res,
				pdf.Integer(ww[pos].CID),
				pdf.Integer(ww[pos+int(e)-1].CID),
				pdf.Number(ww[pos].Width))
		} else {
			var wi pdf.Array
			for i := pos; i < pos+int(-e); i++ {
				wi = append(wi, pdf.Number(ww[i].Width))
			}
			res = append(res, pdf.Integer(ww[pos].CID), wi)
		}
		pos = g.To(pos, e)
	}
	return res
}

type cidWidth struct {
	CID   cid.CID
	Width float64
}

// wwGraph is the graph of partial /W encodings, sorted by CID.
// Vertex v means that the widths for ww[:v] have been encoded.
type wwGraph []cidWidth

// A wwEdge describes how the next CID widths are encoded:
//
//	e>0: the next e CIDs are consecutive and have the same width, encode as a range
//	e<0: the next -e CIDs are consecutive, encode as an array
type wwEdge int16

func (g wwGraph) AppendEdges(ee []wwEdge, v int) []wwEdge {
	n := len(g)

	// length of the run of consecutive CIDs starting at v
	run := 1
	for v+run < n && run < 1<<14 && g[v+run].CID == g[v].CID+cid.CID(run) {
		run++
	}

	// positive edges: consecutive CIDs with the same width
	i := v + 1
	for i < v+run && g[i].Width == g[v].Width {
		i++
	}
	if i > v+1 {
		ee = append(ee, wwEdge(i-v))
	}

	// negative edges: consecutive CIDs
	for k := 1; k <= run; k++ {
		ee = append(ee, wwEdge(-k))
	}
	return ee
}

func (g wwGraph) Length(v int, e wwEdge) int {
	// for simplicity we assume that all numbers in the output have 3 digits
	if e > 0 {
		// "%d %d %d\n"
		return 12
	}
	// "%d [%d ... %d]\n"
	return 6 + 4*int(-e)
}

func (g wwGraph) To(v int, e wwEdge) int {
	step := int(e)
	if step < 0 {
		step = -step
	}
	return v + step
}
