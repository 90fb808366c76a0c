package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/pkg/util/format"
)

func TestFormatBytes(t *testing.T) {
	require.Equal(t, "0B", format.FormatBytes(0))
	require.Equal(t, "512B", format.FormatBytes(512))
	require.Equal(t, "1KB", format.FormatBytes(1024))
	require.Equal(t, "1.50KB", format.FormatBytes(1536))
	require.Equal(t, "4MB", format.FormatBytes(4*format.MB))
	require.Equal(t, "2.25GB", format.FormatBytes(2*format.GB+format.GB/4))
	require.Equal(t, "1TB", format.FormatBytes(format.TB))
}

func TestParseBytes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want uint64
	}{
		{"512", 512},
		{"512B", 512},
		{"4KB", 4 * format.KB},
		{"4kb", 4 * format.KB},
		{"1MB", format.MB},
		{" 2 GB ", 2 * format.GB},
		{"1TB", format.TB},
	} {
		got, err := format.ParseBytes(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseBytesErrors(t *testing.T) {
	for _, in := range []string{"", "MB", "x4KB", "4.5MB", "-1KB"} {
		_, err := format.ParseBytes(in)
		require.Error(t, err, in)
	}
}
