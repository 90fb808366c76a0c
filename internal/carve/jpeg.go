package carve

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	temMarker  = 0x01 // TEMporary, standalone.
	rst0Marker = 0xd0 // ReSTart (0), standalone.
	rst7Marker = 0xd7 // ReSTart (7), standalone.
	soiMarker  = 0xd8 // Start Of Image.
	eoiMarker  = 0xd9 // End Of Image.
	sosMarker  = 0xda // Start Of Scan.
)

// ErrNoEOI is returned when a JPEG stream runs out of data before an End Of
// Image marker is found.
var ErrNoEOI = errors.New("jpeg: no EOI marker")

var eoiSeq = []byte{0xff, eoiMarker}

// JPEG carves JPEG/JFIF images delimited by SOI and EOI markers.
type JPEG struct{ magic }

func NewJPEG() JPEG {
	return JPEG{magic{
		ext:  "jpg",
		desc: "JPEG image",
		sig:  []byte{0xff, soiMarker},
	}}
}

// Carve walks the marker segments following the SOI marker. Metadata
// segments carry a big-endian length and are skipped whole; once the Start
// Of Scan segment is reached, the entropy-coded bitstream follows and the
// only way to find the end is a linear search for the EOI byte pair.
func (j JPEG) Carve(data []byte, off int) (uint64, error) {
	if !j.MatchesHeader(data, off) {
		return 0, ErrHeaderMismatch
	}

	pos := off + 2
	for pos+1 < len(data) {
		if data[pos] != 0xff {
			return 0, fmt.Errorf("jpeg: unexpected byte 0x%02x in marker stream", data[pos])
		}

		switch marker := data[pos+1]; {
		case marker == eoiMarker:
			return uint64(pos + 2 - off), nil

		case marker == sosMarker:
			if pos+4 > len(data) {
				return 0, ErrNoEOI
			}
			segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))

			scanStart := pos + 2 + segLen
			if scanStart >= len(data) {
				return 0, ErrNoEOI
			}
			idx := bytes.Index(data[scanStart:], eoiSeq)
			if idx < 0 {
				return 0, ErrNoEOI
			}
			return uint64(scanStart + idx + 2 - off), nil

		case marker == temMarker, marker >= rst0Marker && marker <= rst7Marker:
			// Standalone markers carry no length field.
			pos += 2

		default:
			if pos+4 > len(data) {
				return 0, ErrNoEOI
			}
			segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
			pos += 2 + segLen
		}
	}
	return 0, ErrNoEOI
}
