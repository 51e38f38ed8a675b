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
	"io"
	"os"
	"strconv"
)

// MaxFileSize is the largest font file ReadFile accepts.
const MaxFileSize = 256 << 20

// SizeError is returned by [ReadFile] when a font file is too large, or
// when fewer bytes than the reported file size could be read.
type SizeError struct {
	Path string
	Size int64 // reported size of the file
	Read int64 // number of bytes read, or -1 if reading was not attempted
}

func (err *SizeError) Error() string {
	if err.Read < 0 {
		return err.Path + ": font file too large (" +
			strconv.FormatInt(err.Size, 10) + " bytes)"
	}
	return err.Path + ": font file truncated (read " +
		strconv.FormatInt(err.Read, 10) + " of " +
		strconv.FormatInt(err.Size, 10) + " bytes)"
}

// SystemError is returned by [ReadFile] when the operating system fails to
// open, inspect or read a font file.
type SystemError struct {
	Path string
	Err  error
}

func (err *SystemError) Error() string {
	return err.Path + ": " + err.Err.Error()
}

func (err *SystemError) Unwrap() error {
	return err.Err
}

// ReadFile reads the complete font file at path into memory.
func ReadFile(path string) ([]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, &SystemError{Path: path, Err: err}
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, &SystemError{Path: path, Err: err}
	}
	size := fi.Size()
	if size > MaxFileSize {
		return nil, &SizeError{Path: path, Size: size, Read: -1}
	}

	data := make([]byte, size)
	n, err := io.ReadFull(fd, data)
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return nil, &SizeError{Path: path, Size: size, Read: int64(n)}
	} else if err != nil {
		return nil, &SystemError{Path: path, Err: err}
	}

	tracer().Debugf("read %d bytes from %s", size, path)
	return data, nil
}
