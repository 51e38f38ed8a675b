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

package pdf

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Putter is the part of a PDF object graph needed to add new objects.
type Putter interface {
	// Alloc allocates an object number for an indirect object.
	Alloc() Reference

	// Put stores obj as the indirect object ref.  Each reference can
	// only be used once.
	Put(ref Reference, obj Object) error

	// GetVersion returns the PDF version of the file being written.
	GetVersion() Version
}

// Add allocates a new reference and stores obj as the corresponding
// indirect object.
func Add(w Putter, obj Object) (Reference, error) {
	ref := w.Alloc()
	err := w.Put(ref, obj)
	if err != nil {
		return 0, err
	}
	return ref, nil
}

// Writer is an in-memory PDF object graph.  Objects are added using
// [Writer.Alloc] and [Writer.Put], and the complete file is written
// using [Writer.Write].
//
// Objects must not be modified after they have been added to the Writer.
type Writer struct {
	// Version is the PDF version used for the output file.
	Version Version

	objects map[Reference]Object
	nextRef uint32
}

var _ Putter = (*Writer)(nil)

// NewWriter prepares an empty PDF object graph.
func NewWriter(ver Version) *Writer {
	return &Writer{
		Version: ver,
		objects: make(map[Reference]Object),
		nextRef: 1,
	}
}

// Alloc allocates an object number for an indirect object.
func (pdf *Writer) Alloc() Reference {
	ref := NewReference(pdf.nextRef, 0)
	pdf.nextRef++
	return ref
}

// Put stores obj as the indirect object ref.
func (pdf *Writer) Put(ref Reference, obj Object) error {
	if ref.Number() == 0 || ref.Number() >= pdf.nextRef {
		return fmt.Errorf("reference %s was not allocated", ref)
	}
	if _, seen := pdf.objects[ref]; seen {
		return errors.New("object " + ref.String() + " already written")
	}
	pdf.objects[ref] = obj
	return nil
}

// Add allocates a new reference and stores obj under it.
func (pdf *Writer) Add(obj Object) (Reference, error) {
	return Add(pdf, obj)
}

// Get returns the indirect object ref, if it has been written.
func (pdf *Writer) Get(ref Reference) (Object, bool) {
	obj, ok := pdf.objects[ref]
	return obj, ok
}

// GetVersion returns the PDF version of the file being written.
// This implements the [Putter] interface.
func (pdf *Writer) GetVersion() Version {
	return pdf.Version
}

// References returns the references of all objects stored so far,
// in increasing order.
func (pdf *Writer) References() []Reference {
	refs := make([]Reference, 0, len(pdf.objects))
	for ref := range pdf.objects {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Number() < refs[j].Number()
	})
	return refs
}

// Write serializes the object graph as a complete PDF file, using catalog
// as the document catalog.  References which were allocated but never
// filled are written as free entries in the cross-reference table.
func (pdf *Writer) Write(w io.Writer, catalog Reference) error {
	if _, ok := pdf.objects[catalog]; !ok {
		return errors.New("missing /Catalog")
	}
	versionString, err := pdf.Version.ToString()
	if err != nil {
		return err
	}

	out := &posWriter{w: w}
	_, err = fmt.Fprintf(out, "%%PDF-%s\n%%\x80\x80\x80\x80\n", versionString)
	if err != nil {
		return err
	}

	pos := make(map[uint32]int64, len(pdf.objects))
	for _, ref := range pdf.References() {
		pos[ref.Number()] = out.pos
		_, err = fmt.Fprintf(out, "%d %d obj\n", ref.Number(), ref.Generation())
		if err != nil {
			return err
		}
		err = writeObject(out, pdf.objects[ref])
		if err != nil {
			return err
		}
		_, err = out.Write([]byte("\nendobj\n"))
		if err != nil {
			return err
		}
	}

	xRefPos := out.pos
	_, err = fmt.Fprintf(out, "xref\n0 %d\n0000000000 65535 f\r\n", pdf.nextRef)
	if err != nil {
		return err
	}
	for i := uint32(1); i < pdf.nextRef; i++ {
		if p, ok := pos[i]; ok {
			_, err = fmt.Fprintf(out, "%010d 00000 n\r\n", p)
		} else {
			_, err = fmt.Fprintf(out, "%010d 00000 f\r\n", 0)
		}
		if err != nil {
			return err
		}
	}

	trailer := Dict{
		"Size": Integer(pdf.nextRef),
		"Root": catalog,
	}
	_, err = out.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	err = trailer.PDF(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	return err
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
