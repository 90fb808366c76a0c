package carve

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// DefaultChunkSize is the scheduling granularity of a scan. Chunk
// boundaries only partition the offsets each worker enumerates; a match
// found near the end of a chunk may extend arbitrarily far past it, since
// carvers operate on the full shared buffer.
const DefaultChunkSize = 1 << 20

// FileInfo describes a carved file as a contiguous sub-range of the input
// buffer.
type FileInfo struct {
	Name   string // Deterministic output name, derived from offset and extension
	Ext    string // File extension, e.g. "jpg"
	Offset uint64 // Offset in the buffer where the file starts
	Size   uint64 // Size of the file in bytes
}

// Engine enumerates every offset of an input buffer, rejects offsets that
// cannot begin any registered format via a first-byte filter, and runs the
// carver set over the survivors.
type Engine struct {
	carvers   []Carver
	filter    FirstByteFilter
	chunkSize int
	workers   int

	onProgress func(processedBytes uint64)
}

type Option func(*Engine)

// WithChunkSize overrides the scan chunk size.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithWorkers sets the size of the worker pool. Values below one fall back
// to the available parallelism.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithProgress registers a callback invoked after each completed chunk with
// the cumulative number of bytes processed. It may be called from multiple
// goroutines.
func WithProgress(fn func(processedBytes uint64)) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

func NewEngine(carvers []Carver, opts ...Option) (*Engine, error) {
	if len(carvers) == 0 {
		return nil, fmt.Errorf("no carvers registered")
	}

	seen := make(map[string]bool, len(carvers))
	for _, c := range carvers {
		if seen[c.Ext()] {
			return nil, fmt.Errorf("duplicate carver for extension %q", c.Ext())
		}
		seen[c.Ext()] = true
	}

	e := &Engine{
		carvers:   carvers,
		filter:    NewFirstByteFilter(carvers),
		chunkSize: DefaultChunkSize,
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Scan walks the whole buffer and yields a FileInfo for every carver match.
// Chunks are processed concurrently by a fixed worker pool; the buffer is
// shared read-only across workers. The yield order is unspecified, but the
// set of results is independent of the worker count.
//
// All matches at an offset are yielded independently, with no first-match
// short-circuit and no suppression of overlapping ranges: a trailer byte
// sitting inside another file's data can still produce a spurious match.
func (e *Engine) Scan(data []byte) func(yield func(FileInfo) bool) {
	return func(yield func(FileInfo) bool) {
		numChunks := (len(data) + e.chunkSize - 1) / e.chunkSize

		chunks := make(chan int)
		results := make(chan FileInfo, e.workers)
		done := make(chan struct{})

		var processed atomic.Uint64

		var wg sync.WaitGroup
		wg.Add(e.workers)
		for i := 0; i < e.workers; i++ {
			go func() {
				defer wg.Done()

				for chunk := range chunks {
					start := chunk * e.chunkSize
					end := min(start+e.chunkSize, len(data))

					if !e.scanChunk(data, start, end, results, done) {
						return
					}
					if e.onProgress != nil {
						e.onProgress(processed.Add(uint64(end - start)))
					}
				}
			}()
		}

		go func() {
			defer close(chunks)
			for chunk := 0; chunk < numChunks; chunk++ {
				select {
				case chunks <- chunk:
				case <-done:
					return
				}
			}
		}()

		go func() {
			wg.Wait()
			close(results)
		}()

		for finfo := range results {
			if !yield(finfo) {
				close(done)

				for range results {
				}
				return
			}
		}
	}
}

// scanChunk enumerates the offsets of [start, end) in increasing order and
// sends every match on results. It returns false if the scan was stopped.
func (e *Engine) scanChunk(data []byte, start, end int, results chan<- FileInfo, done <-chan struct{}) bool {
	for off := start; off < end; off++ {
		if !e.filter.Test(data[off]) {
			continue
		}

		for _, c := range e.carvers {
			if !c.MatchesHeader(data, off) {
				continue
			}

			size, err := c.Carve(data, off)
			if err != nil {
				// Expected: most filter survivors are false positives.
				continue
			}

			finfo := FileInfo{
				Name:   FileName(uint64(off), c.Ext()),
				Ext:    c.Ext(),
				Offset: uint64(off),
				Size:   size,
			}
			select {
			case results <- finfo:
			case <-done:
				return false
			}
		}
	}
	return true
}
