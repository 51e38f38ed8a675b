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

import "sync"

// Cache holds the decoders for the font files used by a document.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	decoders map[string]*Decoder
	open     func(path string) (*Decoder, error)
}

// NewCache returns an empty decoder cache.
func NewCache() *Cache {
	return &Cache{
		decoders: make(map[string]*Decoder),
		open:     Open,
	}
}

var defaultCache = NewCache()

// Get returns the decoder for the font file at path from a process-wide
// cache.  See [Cache.Get].
func Get(path string) (*Decoder, error) {
	return defaultCache.Get(path)
}

// Get returns the decoder for the font file at path, opening the file on
// first use.  All calls with the same path return the same decoder.
// Failures are not cached, so a later call will try again.
func (c *Cache) Get(path string) (*Decoder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.decoders[path]; ok {
		return d, nil
	}
	d, err := c.open(path)
	if err != nil {
		return nil, err
	}
	c.decoders[path] = d
	tracer().Debugf("font cache: loaded %q", path)
	return d, nil
}

// Len returns the number of decoders in the cache.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.decoders)
}
