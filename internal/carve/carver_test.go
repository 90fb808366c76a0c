package carve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/internal/carve"
)

var pngSig = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestMatchesHeader(t *testing.T) {
	cases := []struct {
		name string
		c    carve.Carver
		sigs [][]byte
	}{
		{"jpeg", carve.NewJPEG(), [][]byte{{0xff, 0xd8}}},
		{"png", carve.NewPNG(), [][]byte{pngSig}},
		{"gif", carve.NewGIF(), [][]byte{[]byte("GIF87a"), []byte("GIF89a")}},
		{"pdf", carve.NewPDF(), [][]byte{[]byte("%PDF")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, sig := range tc.sigs {
				buf := append(append([]byte{}, sig...), 0x00, 0x00, 0x00, 0x00)
				require.True(t, tc.c.MatchesHeader(buf, 0))

				// A match anywhere else in the buffer must not be reported.
				require.False(t, tc.c.MatchesHeader(buf, 1))

				// Any single-byte mutation of the signature must be rejected.
				for i := range sig {
					mutated := append([]byte{}, buf...)
					mutated[i] ^= 0x01
					require.False(t, tc.c.MatchesHeader(mutated, 0), "mutation at byte %d", i)
				}

				// Truncated buffers must be rejected, not read out of bounds.
				for n := range sig {
					require.False(t, tc.c.MatchesHeader(sig[:n], 0), "truncated to %d bytes", n)
				}
			}
		})
	}
}

func TestCarveRejectsHeaderMismatch(t *testing.T) {
	buf := make([]byte, 64)

	for _, c := range carve.DefaultCarvers() {
		_, err := c.Carve(buf, 0)
		require.ErrorIs(t, err, carve.ErrHeaderMismatch)
	}
}
