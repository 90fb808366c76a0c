package carve_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/internal/carve"
)

func TestFileName(t *testing.T) {
	require.Equal(t, "file_00000000.jpg", carve.FileName(0, "jpg"))
	require.Equal(t, "file_00004096.png", carve.FileName(4096, "png"))
	require.Equal(t, "file_123456789.pdf", carve.FileName(123456789, "pdf"))
}

func TestDirSinkWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	sink, err := carve.NewDirSink(dir)
	require.NoError(t, err)
	require.Equal(t, dir, sink.Dir())

	data := []byte("xxxxhello worldxxxx")
	finfo := carve.FileInfo{
		Name:   carve.FileName(4, "txt"),
		Ext:    "txt",
		Offset: 4,
		Size:   11,
	}
	require.NoError(t, sink.Write(finfo, data))

	content, err := os.ReadFile(filepath.Join(dir, "file_00000004.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("hello world"), content)
}

func TestDirSinkWriteOutOfBounds(t *testing.T) {
	sink, err := carve.NewDirSink(t.TempDir())
	require.NoError(t, err)

	finfo := carve.FileInfo{Name: "file_00000000.bin", Offset: 0, Size: 100}
	require.Error(t, sink.Write(finfo, make([]byte, 10)))
}
