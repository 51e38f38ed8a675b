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

package font

import (
	"errors"
	"strconv"
)

// InvalidFontError indicates a problem with font data.
type InvalidFontError struct {
	SubSystem string
	Reason    string
	Err       error
}

func (err *InvalidFontError) Error() string {
	msg := err.SubSystem + ": " + err.Reason
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *InvalidFontError) Unwrap() error {
	return err.Err
}

// IsInvalidFont returns true if err is or wraps an [InvalidFontError].
func IsInvalidFont(err error) bool {
	var target *InvalidFontError
	return errors.As(err, &target)
}

// NotSupportedError indicates that a font file seems valid but uses a
// feature which is not supported by this library.
type NotSupportedError struct {
	SubSystem string
	Feature   string
}

func (err *NotSupportedError) Error() string {
	return err.SubSystem + ": " + err.Feature + " not supported"
}

// IsUnsupported returns true if the error is a NotSupportedError.
func IsUnsupported(err error) bool {
	var target *NotSupportedError
	return errors.As(err, &target)
}

// WidthClassError is returned when the OS/2 width class of a font does not
// correspond to one of the nine named PDF font stretches.
type WidthClassError struct {
	Value uint16
}

func (err *WidthClassError) Error() string {
	return "invalid OS/2 width class " + strconv.Itoa(int(err.Value))
}
