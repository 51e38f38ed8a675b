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
)

// Embedder represents a PDF resource (a font, a font program, etc.) which
// has not yet been associated with a specific PDF file.
//
// In addition to implementing the Embedder interface, the type must be
// comparable, so that it can be used as a key in a map.  Pointer types
// are de-duplicated by identity.
type Embedder[T any] interface {
	// Embed converts the Go representation of the object into a PDF object
	// and writes any indirect objects it needs to rm.Out.
	//
	// The first return value is the PDF representation of the object,
	// often a reference.  The second return value is a Go representation
	// of the embedded object.  If this is not needed, T can be set to
	// [Unused].
	Embed(rm *ResourceManager) (Object, T, error)
}

// Unused is a placeholder type for the second return value of
// [Embedder.Embed], for when no Go representation of the embedded object
// is required.
type Unused struct{}

// ResourceManager avoids duplicate resources in a PDF file.  Each object
// passed to [ResourceManagerEmbed] is embedded only once; later calls with
// the same object return the existing PDF representation.
//
// A ResourceManager belongs to exactly one output document.
type ResourceManager struct {
	Out      Putter
	embedded map[any]embRes
	isClosed bool
}

type embRes struct {
	Val Object
	Emb any
}

// NewResourceManager creates a new ResourceManager writing to w.
func NewResourceManager(w Putter) *ResourceManager {
	return &ResourceManager{
		Out:      w,
		embedded: make(map[any]embRes),
	}
}

// ResourceManagerEmbed embeds a resource in the PDF file.
//
// If the resource is already present in the file, the existing resource is
// returned and r.Embed is not called again.
//
// Once Go supports methods with type parameters, this function can be turned
// into a method on [ResourceManager].
func ResourceManagerEmbed[T any](rm *ResourceManager, r Embedder[T]) (Object, T, error) {
	var zero T

	if existing, ok := rm.embedded[r]; ok {
		return existing.Val, existing.Emb.(T), nil
	}
	if rm.isClosed {
		return nil, zero, errors.New("resource manager is already closed")
	}

	val, emb, err := r.Embed(rm)
	if err != nil {
		return nil, zero, fmt.Errorf("failed to embed resource: %w", err)
	}
	rm.embedded[r] = embRes{Val: val, Emb: emb}

	return val, emb, nil
}

// IsEmbedded reports whether r has already been embedded by rm.
func (rm *ResourceManager) IsEmbedded(r any) bool {
	_, ok := rm.embedded[r]
	return ok
}

// Close marks the resource manager as finished.  After Close has been
// called, no new resources can be embedded.
func (rm *ResourceManager) Close() error {
	rm.isClosed = true
	return nil
}
