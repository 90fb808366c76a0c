// Copyright (c) 2025 The gforemost authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package carve

import (
	"bytes"
	"errors"
)

// Carver identifies the start of an embedded file by its header signature
// and determines the file's total length by parsing the format's internal
// structure.
type Carver interface {
	// Ext returns the extension used to name recovered files, e.g. "jpg".
	Ext() string

	// Description returns a short human-readable description of the format.
	Description() string

	// HeaderMagic returns the canonical signature bytes. Carvers accepting
	// more than one signature return the common prefix and override
	// MatchesHeader. The first byte feeds the engine's fast-reject filter.
	HeaderMagic() []byte

	// MatchesHeader reports whether data holds a valid header at off.
	MatchesHeader(data []byte, off int) bool

	// Carve returns the total byte length of the file starting at off,
	// given that MatchesHeader holds there. An error means no end boundary
	// could be determined; this is an expected outcome for the many false
	// positives a raw scan produces. Carve never reads outside data and the
	// returned length never extends past the end of data.
	Carve(data []byte, off int) (uint64, error)
}

// ErrHeaderMismatch is returned by Carve when the data at the given offset
// does not begin with a valid header for the format.
var ErrHeaderMismatch = errors.New("carve: header mismatch")

func matchMagic(data []byte, off int, magic []byte) bool {
	return off+len(magic) <= len(data) && bytes.Equal(data[off:off+len(magic)], magic)
}

// magic carries the static descriptor of a format and provides the default
// header matching behavior.
type magic struct {
	ext  string
	desc string
	sig  []byte
}

func (m magic) Ext() string         { return m.ext }
func (m magic) Description() string { return m.desc }
func (m magic) HeaderMagic() []byte { return m.sig }

func (m magic) MatchesHeader(data []byte, off int) bool {
	return matchMagic(data, off, m.sig)
}
