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

package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/typeset/pdf"
)

// FontMapConfig is the YAML representation of a font map:
//
//	fonts:
//	  - abbrev: rm
//	    file: GoRegular.ttf
//	    resource: F1
//	  - abbrev: tt
//	    standard: Courier
//	    resource: F2
type FontMapConfig struct {
	Fonts []FontConfig `yaml:"fonts"`
}

// FontConfig describes a single font in a [FontMapConfig].  Exactly one of
// File and Standard must be set.
type FontConfig struct {
	Abbrev   string `yaml:"abbrev"`
	File     string `yaml:"file,omitempty"`
	Standard string `yaml:"standard,omitempty"`
	Resource string `yaml:"resource"`
}

// Validate checks that the font description is complete.
func (c *FontConfig) Validate() error {
	if c.Abbrev == "" {
		return &ConfigError{Field: "abbrev", Message: "required field is missing"}
	}
	if c.Resource == "" {
		return &ConfigError{Field: c.Abbrev + ".resource", Message: "required field is missing"}
	}
	if (c.File == "") == (c.Standard == "") {
		return &ConfigError{
			Field:   c.Abbrev,
			Message: "exactly one of 'file' and 'standard' must be given",
		}
	}
	return nil
}

// Entry converts the font description into a registry entry.
func (c *FontConfig) Entry() Entry {
	e := Entry{
		Abbrev:   c.Abbrev,
		Resource: pdf.Name(c.Resource),
	}
	if c.Standard != "" {
		e.Source = c.Standard
		e.Standard = true
	} else {
		e.Source = c.File
	}
	return e
}

// LoadYAML reads a YAML font map from fd and adds all fonts to the
// registry.  Unknown fields are rejected.
func (r *Registry) LoadYAML(fd io.Reader) error {
	dec := yaml.NewDecoder(fd)
	dec.KnownFields(true)

	var cfg FontMapConfig
	err := dec.Decode(&cfg)
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return &ConfigError{Message: "cannot parse font map", Err: err}
	}

	for i := range cfg.Fonts {
		fc := &cfg.Fonts[i]
		err := fc.Validate()
		if err != nil {
			return fmt.Errorf("font %d: %w", i+1, err)
		}
		err = r.Add(fc.Entry())
		if err != nil {
			return err
		}
	}
	return nil
}
