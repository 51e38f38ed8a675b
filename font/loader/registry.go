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
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"

	"seehuhn.de/go/typeset/pdf"
)

// Entry describes the font registered under an abbreviation.
type Entry struct {
	Abbrev string

	// Source is the path of the font file.  For the standard fonts this is
	// the PostScript name of the font instead.
	Source string

	// Resource is the name used for the font in content stream resource
	// dictionaries.
	Resource pdf.Name

	// Standard is true if Source names one of the 14 standard PDF fonts.
	Standard bool
}

// UnknownAbbrevError is returned when a font abbreviation has not been
// registered.
type UnknownAbbrevError struct {
	Abbrev string
}

func (err *UnknownAbbrevError) Error() string {
	return fmt.Sprintf("unknown font abbreviation %q", err.Abbrev)
}

// ConfigError indicates a problem with a font map or with an entry added
// to a [Registry].
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (err *ConfigError) Error() string {
	msg := "font config: " + err.Message
	if err.Field != "" {
		msg = "font config error in '" + err.Field + "': " + err.Message
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

// Registry maps font abbreviations to font sources.  Abbreviations can only
// be registered once; entries cannot be changed after registration.
//
// It is safe to use a Registry concurrently from multiple goroutines.
type Registry struct {
	sync.RWMutex
	entries map[string]*Entry

	// find locates font files which are given without a directory.
	find func(name string) (string, error)
}

// NewRegistry creates an empty registry.  Bare font file names are resolved
// using the system font directories.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		find:    findfont.Find,
	}
}

// Add registers a font.  If the entry refers to a font file which is given
// without a directory and does not exist in the current directory, the
// file is searched in the system font directories.
func (r *Registry) Add(e Entry) error {
	if e.Abbrev == "" {
		return &ConfigError{Field: "abbrev", Message: "missing font abbreviation"}
	}
	if e.Source == "" {
		return &ConfigError{Field: e.Abbrev, Message: "missing font source"}
	}
	if e.Resource == "" {
		return &ConfigError{Field: e.Abbrev, Message: "missing resource name"}
	}
	if e.Standard {
		if !IsStandard(e.Source) {
			return &ConfigError{
				Field:   e.Abbrev,
				Message: fmt.Sprintf("%q is not a standard font", e.Source),
			}
		}
	} else {
		path, err := r.resolve(e.Source)
		if err != nil {
			return &ConfigError{
				Field:   e.Abbrev,
				Message: "cannot locate font file",
				Err:     err,
			}
		}
		e.Source = path
	}

	r.Lock()
	defer r.Unlock()
	if _, exists := r.entries[e.Abbrev]; exists {
		return &ConfigError{Field: e.Abbrev, Message: "font abbreviation registered twice"}
	}
	r.entries[e.Abbrev] = &e
	tracer().Debugf("registered font %q -> %s", e.Abbrev, e.Source)
	return nil
}

func (r *Registry) resolve(source string) (string, error) {
	if filepath.Base(source) != source {
		return source, nil
	}
	if _, err := os.Stat(source); err == nil {
		return source, nil
	}
	path, err := r.find(source)
	if err != nil {
		return "", err
	}
	tracer().Debugf("%s is a system font at %s", source, path)
	return path, nil
}

// Lookup returns the entry for the given abbreviation.
func (r *Registry) Lookup(abbrev string) (*Entry, error) {
	r.RLock()
	e, ok := r.entries[abbrev]
	r.RUnlock()
	if !ok {
		return nil, &UnknownAbbrevError{Abbrev: abbrev}
	}
	res := *e
	return &res, nil
}

// Abbrevs returns all registered abbreviations in sorted order.
func (r *Registry) Abbrevs() []string {
	r.RLock()
	defer r.RUnlock()
	res := make([]string, 0, len(r.entries))
	for abbrev := range r.entries {
		res = append(res, abbrev)
	}
	sort.Strings(res)
	return res
}

// AddFontMap reads a font map from fd and adds the fonts to the registry.
// A font map consists of lines of the form
//
//	<abbrev> <kind> <source> <resource>
//
// where <kind> is either "sfnt" (source is a font file) or "standard"
// (source is the name of one of the 14 standard PDF fonts).  Fields are
// separated by white space, so font file paths must not contain spaces.
// Empty lines and lines starting with '#' or '%' are ignored.
func (r *Registry) AddFontMap(fd io.Reader) error {
	lines := bufio.NewScanner(fd)
	lineNo := 0
	for lines.Scan() {
		lineNo++
		line := strings.TrimSpace(lines.Text())
		if len(line) == 0 || line[0] == '#' || line[0] == '%' {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 4 {
			return &ConfigError{
				Field:   fmt.Sprintf("line %d", lineNo),
				Message: fmt.Sprintf("invalid font map line %q", line),
			}
		}
		e := Entry{
			Abbrev:   parts[0],
			Source:   parts[2],
			Resource: pdf.Name(parts[3]),
		}
		switch parts[1] {
		case "sfnt":
			// pass
		case "standard":
			e.Standard = true
		default:
			return &ConfigError{
				Field:   fmt.Sprintf("line %d", lineNo),
				Message: fmt.Sprintf("invalid font kind %q", parts[1]),
			}
		}

		err := r.Add(e)
		if err != nil {
			return err
		}
	}
	return lines.Err()
}

// IsStandard reports whether name is the PostScript name of one of the 14
// standard PDF fonts.
func IsStandard(name string) bool {
	return standardFonts[name]
}

var standardFonts = map[string]bool{
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-BoldOblique":   true,
	"Courier-Oblique":       true,
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"Helvetica-BoldOblique": true,
	"Helvetica-Oblique":     true,
	"Times-Roman":           true,
	"Times-Bold":            true,
	"Times-BoldItalic":      true,
	"Times-Italic":          true,
	"Symbol":                true,
	"ZapfDingbats":          true,
}
