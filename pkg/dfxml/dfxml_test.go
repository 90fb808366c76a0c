package dfxml_test

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/pkg/dfxml"
)

func TestWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	w := dfxml.NewWriter(&buf)
	err := w.WriteHeader(dfxml.Header{
		XMLOutput: dfxml.XMLOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              "gforemost",
			Version:              "0.0.1",
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: "/tmp/disk.img",
			ImageSize:     1 << 20,
		},
	})
	require.NoError(t, err)

	objects := []dfxml.FileObject{
		{
			Filename: "file_00000100.gif",
			FileSize: 9,
			ByteRuns: dfxml.ByteRuns{
				Runs: []dfxml.ByteRun{{Offset: 100, ImgOffset: 100, Length: 9}},
			},
		},
		{
			Filename: "file_00002000.png",
			FileSize: 45,
			ByteRuns: dfxml.ByteRuns{
				Runs: []dfxml.ByteRun{{Offset: 2000, ImgOffset: 2000, Length: 45}},
			},
		},
	}
	for _, obj := range objects {
		require.NoError(t, w.WriteFileObject(obj))
	}
	require.NoError(t, w.Close())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, `<dfxml xmloutputversion="1.0">`)
	require.Contains(t, out, "<image_filename>/tmp/disk.img</image_filename>")
	require.Contains(t, out, "<image_size>1048576</image_size>")
	require.Equal(t, 1, strings.Count(out, "</dfxml>"))

	got, err := dfxml.ReadFileObjects(strings.NewReader(out))
	require.NoError(t, err)

	for i := range objects {
		objects[i].XMLName.Local = "fileobject"
	}
	require.Equal(t, objects, got)
}

func TestReadFileObjectsEmptyDocument(t *testing.T) {
	got, err := dfxml.ReadFileObjects(strings.NewReader(`<dfxml></dfxml>`))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadFileObjectsMalformed(t *testing.T) {
	_, err := dfxml.ReadFileObjects(strings.NewReader(`<dfxml><fileobject>`))
	require.Error(t, err)
}

func TestGetExecEnv(t *testing.T) {
	env := dfxml.GetExecEnv()
	require.Equal(t, runtime.GOOS, env.OS)
	require.Equal(t, runtime.GOARCH, env.Arch)
	require.NotEmpty(t, env.Host)
	require.NotEmpty(t, env.Start)
}
