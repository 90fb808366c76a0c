package carve

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var (
	pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	iendType     = []byte("IEND")
)

// ErrNoIEND is returned when a PNG chunk sequence ends, or would run past
// the buffer, before an IEND chunk is seen.
var ErrNoIEND = errors.New("png: no IEND chunk")

// PNG carves PNG images by hopping over the chunk sequence until IEND.
type PNG struct{ magic }

func NewPNG() PNG {
	return PNG{magic{
		ext:  "png",
		desc: "Portable Network Graphics image",
		sig:  pngSignature,
	}}
}

// Carve reads chunk headers after the 8-byte signature. Each chunk occupies
// 12+L bytes: 4 length, 4 type, L data, 4 CRC. A chunk that would extend
// past the buffer yields no result, even when its type is IEND.
func (p PNG) Carve(data []byte, off int) (uint64, error) {
	if !p.MatchesHeader(data, off) {
		return 0, ErrHeaderMismatch
	}

	pos := off + len(pngSignature)
	for pos+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[pos : pos+4]))
		typ := data[pos+4 : pos+8]

		pos += 12 + length
		if pos > len(data) {
			return 0, ErrNoIEND
		}
		if bytes.Equal(typ, iendType) {
			return uint64(pos - off), nil
		}
	}
	return 0, ErrNoIEND
}
