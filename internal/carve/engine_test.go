package carve_test

import (
	"bytes"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VKKKV/gforemost/internal/carve"
)

// stubCarver matches a fixed signature and reports a fixed size, counting
// every header check it receives.
type stubCarver struct {
	ext   string
	sig   []byte
	size  uint64
	calls atomic.Int64
}

func (c *stubCarver) Ext() string         { return c.ext }
func (c *stubCarver) Description() string { return "stub format" }
func (c *stubCarver) HeaderMagic() []byte { return c.sig }

func (c *stubCarver) MatchesHeader(data []byte, off int) bool {
	c.calls.Add(1)
	return off+len(c.sig) <= len(data) && bytes.Equal(data[off:off+len(c.sig)], c.sig)
}

func (c *stubCarver) Carve(data []byte, off int) (uint64, error) {
	if uint64(off)+c.size > uint64(len(data)) {
		return 0, errors.New("stub: out of bounds")
	}
	return c.size, nil
}

func collect(t *testing.T, e *carve.Engine, data []byte) []carve.FileInfo {
	t.Helper()

	var got []carve.FileInfo
	for finfo := range e.Scan(data) {
		got = append(got, finfo)
	}
	sort.Slice(got, func(i, j int) bool {
		if got[i].Offset != got[j].Offset {
			return got[i].Offset < got[j].Offset
		}
		return got[i].Ext < got[j].Ext
	})
	return got
}

func TestEngineValidation(t *testing.T) {
	_, err := carve.NewEngine(nil)
	require.Error(t, err)

	_, err = carve.NewEngine([]carve.Carver{carve.NewGIF(), carve.NewGIF()})
	require.Error(t, err)
}

func TestEngineFastReject(t *testing.T) {
	c := &stubCarver{ext: "stub", sig: []byte{0xaa, 0xbb}, size: 2}

	eng, err := carve.NewEngine([]carve.Carver{c}, carve.WithChunkSize(64))
	require.NoError(t, err)

	// No byte of the buffer matches the signature's first byte, so the
	// filter must reject every offset before the carver is consulted.
	data := bytes.Repeat([]byte{0x7f}, 1024)
	require.Empty(t, collect(t, eng, data))
	require.Zero(t, c.calls.Load())

	data[512] = 0xaa
	data[513] = 0xbb
	got := collect(t, eng, data)
	require.Len(t, got, 1)
	require.Equal(t, uint64(512), got[0].Offset)
	require.Equal(t, int64(1), c.calls.Load())
}

func TestEngineAllMatchesEmitted(t *testing.T) {
	// Two formats sharing a first byte: both must be emitted at the same
	// offset, with no first-match short-circuit.
	a := &stubCarver{ext: "aaa", sig: []byte{0xcc, 0x01}, size: 4}
	b := &stubCarver{ext: "bbb", sig: []byte{0xcc}, size: 8}

	eng, err := carve.NewEngine([]carve.Carver{a, b})
	require.NoError(t, err)

	data := make([]byte, 256)
	data[32] = 0xcc
	data[33] = 0x01

	got := collect(t, eng, data)
	require.Len(t, got, 2)
	require.Equal(t, "aaa", got[0].Ext)
	require.Equal(t, uint64(4), got[0].Size)
	require.Equal(t, "bbb", got[1].Ext)
	require.Equal(t, uint64(8), got[1].Size)

	for _, finfo := range got {
		require.Equal(t, uint64(32), finfo.Offset)
		require.Equal(t, carve.FileName(32, finfo.Ext), finfo.Name)
	}
}

func buildImage(t *testing.T) []byte {
	t.Helper()

	data := make([]byte, 16*1024)

	gif := append([]byte("GIF89a"), 0x01, 0x02, 0x03, 0x3b)
	copy(data[100:], gif)

	jpeg := buildJPEG([]byte{0x10, 0x20, 0x30})
	copy(data[5000:], jpeg)

	png := append([]byte{}, pngSig...)
	png = append(png, pngChunk("IHDR", make([]byte, 13))...)
	png = append(png, pngChunk("IEND", nil)...)
	copy(data[9000:], png)

	return data
}

func TestEngineDeterministicAcrossWorkers(t *testing.T) {
	data := buildImage(t)

	var results [][]carve.FileInfo
	for _, workers := range []int{1, 4, 16} {
		eng, err := carve.NewEngine(carve.DefaultCarvers(),
			carve.WithWorkers(workers),
			carve.WithChunkSize(512),
		)
		require.NoError(t, err)

		results = append(results, collect(t, eng, data))
	}

	require.NotEmpty(t, results[0])
	for _, got := range results[1:] {
		require.Equal(t, results[0], got)
	}
}

func TestEngineMatchSpansChunkBoundary(t *testing.T) {
	// The gif starts in one chunk and its trailer lies several chunks
	// later; the carver reads the shared buffer, not a chunk-local slice.
	data := make([]byte, 1024)
	copy(data[60:], "GIF89a")
	data[300] = 0x3b

	eng, err := carve.NewEngine([]carve.Carver{carve.NewGIF()}, carve.WithChunkSize(64))
	require.NoError(t, err)

	got := collect(t, eng, data)
	require.Len(t, got, 1)
	require.Equal(t, uint64(60), got[0].Offset)
	require.Equal(t, uint64(300-60+1), got[0].Size)
}

func TestEngineProgress(t *testing.T) {
	data := make([]byte, 4096)

	var max atomic.Uint64
	eng, err := carve.NewEngine(carve.DefaultCarvers(),
		carve.WithChunkSize(1024),
		carve.WithProgress(func(processed uint64) {
			for {
				cur := max.Load()
				if processed <= cur || max.CompareAndSwap(cur, processed) {
					return
				}
			}
		}),
	)
	require.NoError(t, err)

	collect(t, eng, data)
	require.Equal(t, uint64(len(data)), max.Load())
}

func TestEngineEarlyStop(t *testing.T) {
	data := buildImage(t)

	eng, err := carve.NewEngine(carve.DefaultCarvers(), carve.WithChunkSize(512))
	require.NoError(t, err)

	// Breaking out of the iteration must not leak or deadlock workers.
	n := 0
	for range eng.Scan(data) {
		n++
		break
	}
	require.Equal(t, 1, n)
}
