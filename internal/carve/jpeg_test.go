package carve_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/internal/carve"
)

// buildJPEG assembles SOI, one APP0 segment, an SOS segment, the given
// bitstream bytes and EOI.
func buildJPEG(bitstream []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})                   // SOI
	buf.Write([]byte{0xff, 0xe0, 0x00, 0x04, 1, 2}) // APP0, length 4
	buf.Write([]byte{0xff, 0xda, 0x00, 0x02})       // SOS, length 2
	buf.Write(bitstream)
	buf.Write([]byte{0xff, 0xd9}) // EOI
	return buf.Bytes()
}

func TestJPEGCarve(t *testing.T) {
	j := carve.NewJPEG()

	t.Run("full roundtrip", func(t *testing.T) {
		img := buildJPEG([]byte{0x11, 0x22, 0x33, 0x44, 0x55})

		size, err := j.Carve(img, 0)
		require.NoError(t, err)
		require.Equal(t, uint64(len(img)), size)
	})

	t.Run("at offset with trailing data", func(t *testing.T) {
		img := buildJPEG([]byte{0x11, 0x22})
		buf := append(make([]byte, 100), img...)
		buf = append(buf, 0xde, 0xad)

		size, err := j.Carve(buf, 100)
		require.NoError(t, err)
		require.Equal(t, uint64(len(img)), size)
	})

	t.Run("eoi before sos", func(t *testing.T) {
		// SOI, a standalone TEM marker, then EOI.
		buf := []byte{0xff, 0xd8, 0xff, 0x01, 0xff, 0xd9}

		size, err := j.Carve(buf, 0)
		require.NoError(t, err)
		require.Equal(t, uint64(6), size)
	})

	t.Run("restart markers are standalone", func(t *testing.T) {
		buf := []byte{0xff, 0xd8, 0xff, 0xd0, 0xff, 0xd7, 0xff, 0xd9}

		size, err := j.Carve(buf, 0)
		require.NoError(t, err)
		require.Equal(t, uint64(8), size)
	})

	t.Run("malformed marker stream", func(t *testing.T) {
		buf := []byte{0xff, 0xd8, 0x00, 0x00, 0xff, 0xd9}

		_, err := j.Carve(buf, 0)
		require.Error(t, err)
	})

	t.Run("no eoi in bitstream", func(t *testing.T) {
		img := buildJPEG(nil)
		truncated := img[:len(img)-2]

		_, err := j.Carve(truncated, 0)
		require.ErrorIs(t, err, carve.ErrNoEOI)
	})

	t.Run("truncated segment length", func(t *testing.T) {
		// APP0 marker with only one byte of its length field present.
		buf := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}

		_, err := j.Carve(buf, 0)
		require.ErrorIs(t, err, carve.ErrNoEOI)
	})

	t.Run("segment length past buffer end", func(t *testing.T) {
		buf := []byte{0xff, 0xd8, 0xff, 0xe0, 0xff, 0xff}

		_, err := j.Carve(buf, 0)
		require.ErrorIs(t, err, carve.ErrNoEOI)
	})
}
