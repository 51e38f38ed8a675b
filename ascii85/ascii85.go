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

// Package ascii85 implements the ASCII85Decode filter used for embedded
// font streams.
//
// Encoded data consists of 5-character groups (with "z" for four zero
// bytes), broken into lines of at most 80 characters and terminated by the
// end-of-data marker "~>".
package ascii85

import (
	"bytes"
	"errors"
	"io"
)

// FilterName is the PDF name of the filter, for use in /Filter entries.
const FilterName = "ASCII85Decode"

// lineLength is the maximal number of characters per output line,
// not counting the newline.
const lineLength = 80

// Encode returns a writer which ASCII85-encodes everything written to it
// and passes the result on to w.  The returned writer must be closed to
// write the final group and the end-of-data marker.  Closing the returned
// writer also closes w.
func Encode(w io.WriteCloser) io.WriteCloser {
	return &writer{
		w:   w,
		buf: make([]byte, 0, lineLength+8),
	}
}

// EncodeBytes returns the ASCII85 encoding of data, including the
// end-of-data marker.
func EncodeBytes(data []byte) []byte {
	buf := &bytes.Buffer{}
	buf.Grow(len(data)*5/4 + len(data)/(lineLength*4/5) + 4)
	w := Encode(nopCloser{buf})
	w.Write(data) // writes to a bytes.Buffer never fail
	w.Close()
	return buf.Bytes()
}

// Decode returns a reader which decodes the ASCII85 data read from r.
// Reading stops at the end-of-data marker "~>".
func Decode(r io.Reader) io.Reader {
	return &reader{r: r}
}

type reader struct {
	r              io.Reader
	immediateError error
	delayedError   error
	buf            [512]byte
	outbuf         [4]byte
	leftover       []byte
	pos, nbuf      int
	v              uint32
	k              int
	isEnd          bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.immediateError != nil {
		return 0, r.immediateError
	}

	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
	}

	for n < len(p) {
		for r.pos == r.nbuf && r.delayedError == nil {
			r.nbuf, r.delayedError = r.r.Read(r.buf[:])
			r.pos = 0

			if r.delayedError == io.EOF {
				r.delayedError = io.ErrUnexpectedEOF
			}
		}
		if r.pos == r.nbuf {
			r.immediateError = r.delayedError
			return n, r.immediateError
		}
		c := r.buf[r.pos]
		r.pos++

		// "~" can only start the end marker "~>"
		if r.isEnd {
			if c == '>' {
				r.immediateError = io.EOF
			} else {
				r.immediateError = errInvalidEnd
			}
			return n, r.immediateError
		}

		if isSpace(c) {
			continue
		}

		switch {
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case r.k == 0 && c == 'z':
			r.v = 0
			r.k = 5
		case c == '~':
			if r.k == 1 {
				r.immediateError = errShortGroup
				return n, r.immediateError
			}
			if r.k > 1 {
				for i := r.k; i < 5; i++ {
					r.v = r.v*85 + 84
				}
				r.putWord()
				l := copy(p[n:], r.outbuf[:r.k-1])
				n += l
				if l < r.k-1 {
					r.leftover = r.outbuf[l : r.k-1]
				}
			}
			r.isEnd = true
			continue
		default:
			r.immediateError = errInvalidChar
			return n, r.immediateError
		}

		if r.k == 5 {
			r.putWord()
			r.k = 0
			r.v = 0

			l := copy(p[n:], r.outbuf[:])
			n += l
			if l < 4 {
				r.leftover = r.outbuf[l:]
			}
		}
	}
	return n, r.immediateError
}

func (r *reader) putWord() {
	r.outbuf[0] = byte(r.v >> 24)
	r.outbuf[1] = byte(r.v >> 16)
	r.outbuf[2] = byte(r.v >> 8)
	r.outbuf[3] = byte(r.v)
}

type writer struct {
	w   io.WriteCloser
	buf []byte
	v   uint32
	k   int
}

func (w *writer) Write(p []byte) (n int, err error) {
	for n, b := range p {
		w.v = w.v<<8 | uint32(b)
		w.k++
		if w.k < 4 {
			continue
		}

		if len(w.buf)+5 > lineLength {
			err = w.flush()
			if err != nil {
				return n, err
			}
		}

		v := w.v
		if v == 0 {
			w.buf = append(w.buf, 'z')
		} else {
			var c [5]byte
			for i := 4; i >= 0; i-- {
				c[i] = byte(v%85) + '!'
				v /= 85
			}
			w.buf = append(w.buf, c[:]...)
		}
		w.v = 0
		w.k = 0
	}
	return len(p), nil
}

func (w *writer) Close() error {
	if w.k != 0 {
		v := w.v << ((4 - w.k) * 8)
		var c [5]byte
		for i := 4; i >= 0; i-- {
			c[i] = byte(v%85) + '!'
			v /= 85
		}
		if len(w.buf)+w.k+1 > lineLength {
			err := w.flush()
			if err != nil {
				return err
			}
		}
		w.buf = append(w.buf, c[:w.k+1]...)
		w.v = 0
		w.k = 0
	}
	if len(w.buf)+2 > lineLength {
		err := w.flush()
		if err != nil {
			return err
		}
	}
	w.buf = append(w.buf, '~', '>')
	err := w.flush()
	if err != nil {
		return err
	}
	return w.w.Close()
}

func (w *writer) flush() error {
	w.buf = append(w.buf, '\n')
	_, err := w.w.Write(w.buf)
	if err != nil {
		return err
	}
	w.buf = w.buf[:0]
	return nil
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

var (
	errInvalidEnd  = errors.New("invalid end marker in ASCII85 stream")
	errShortGroup  = errors.New("unexpected end marker in ASCII85 stream")
	errInvalidChar = errors.New("invalid character in ASCII85 stream")
)
