package carve

import (
	"bytes"
	"errors"
)

const gifTrailer = 0x3b

var (
	gif87Signature = []byte("GIF87a")
	gif89Signature = []byte("GIF89a")
)

// ErrNoTrailer is returned when no GIF trailer byte occurs before the end
// of the buffer.
var ErrNoTrailer = errors.New("gif: no trailer byte")

// GIF carves GIF images. Both the 87a and 89a signatures are accepted, so
// HeaderMagic reports only the fixed "GIF8" prefix and MatchesHeader is
// overridden with a full 6-byte check.
type GIF struct{ magic }

func NewGIF() GIF {
	return GIF{magic{
		ext:  "gif",
		desc: "Graphics Interchange Format image",
		sig:  []byte("GIF8"),
	}}
}

func (g GIF) MatchesHeader(data []byte, off int) bool {
	return matchMagic(data, off, gif87Signature) || matchMagic(data, off, gif89Signature)
}

// Carve scans forward for the first trailer byte. No block or extension
// parsing is performed.
func (g GIF) Carve(data []byte, off int) (uint64, error) {
	if !g.MatchesHeader(data, off) {
		return 0, ErrHeaderMismatch
	}

	idx := bytes.IndexByte(data[off:], gifTrailer)
	if idx < 0 {
		return 0, ErrNoTrailer
	}
	return uint64(idx + 1), nil
}
