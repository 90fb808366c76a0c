package carve_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/internal/carve"
)

func TestFirstByteFilter(t *testing.T) {
	f := carve.NewFirstByteFilter(carve.DefaultCarvers())

	for _, b := range []byte{0xff, 0x89, 'G', '%'} {
		require.True(t, f.Test(b), "byte 0x%02x", b)
	}

	marked := 0
	for b := 0; b < 256; b++ {
		if f.Test(byte(b)) {
			marked++
		}
	}
	require.Equal(t, 4, marked)
}
