// Copyright (c) 2025 The gforemost authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package pbar

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/VKKKV/gforemost/pkg/util/format"
)

const minRefreshRate = time.Millisecond * 500

// Bar renders a single-line scan progress bar. It is safe to drive from
// multiple goroutines: scan workers report processed bytes while the result
// loop reports files found.
type Bar struct {
	mu sync.Mutex

	totalBytes     int64
	processedBytes int64
	filesFound     int

	startTime          time.Time
	lastUpdateTime     time.Time
	lastProcessedBytes int64
}

func New(totalBytes int64) *Bar {
	return &Bar{
		totalBytes: totalBytes,
		startTime:  time.Now(),
	}
}

// SetProcessed updates the processed byte count and refreshes the bar,
// rate-limited to one redraw per refresh interval.
func (b *Bar) SetProcessed(n int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.processedBytes = n
	b.render(false)
}

// IncFiles bumps the found-file counter.
func (b *Bar) IncFiles() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.filesFound++
}

// Finish forces a final redraw and terminates the bar line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.render(true)
	fmt.Println()
}

func (b *Bar) render(force bool) {
	if !force && time.Since(b.lastUpdateTime) < minRefreshRate {
		return
	}

	percentage := float64(b.processedBytes) / float64(b.totalBytes) * 100

	const barLength = 20
	filledLen := int(barLength * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	currentSpeed := float64(b.processedBytes-b.lastProcessedBytes) / time.Since(b.lastUpdateTime).Seconds()

	var etaStr string
	if b.processedBytes > 0 && currentSpeed > 0 {
		etaSeconds := float64(b.totalBytes-b.processedBytes) / currentSpeed
		etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	} else {
		etaStr = "calculating..."
	}

	b.lastUpdateTime = time.Now()
	b.lastProcessedBytes = b.processedBytes

	// \r rewinds to the start of the line; trailing spaces clear leftovers
	// from a previously longer render.
	fmt.Fprintf(os.Stdout, "\r[INFO] Progress: [%s] %3.0f%% (%s/%s) | Files Found: %d | @ %.2fMB/s [%s]    ",
		bar,
		percentage,
		format.FormatBytes(b.processedBytes),
		format.FormatBytes(b.totalBytes),
		b.filesFound,
		currentSpeed/(1024*1024),
		etaStr)

	os.Stdout.Sync()
}
