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
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/VKKKV/gforemost/internal/carve"
	"github.com/VKKKV/gforemost/internal/env"
	"github.com/VKKKV/gforemost/internal/mmap"
	"github.com/VKKKV/gforemost/pkg/dfxml"
	"github.com/VKKKV/gforemost/pkg/pbar"
	fmtutil "github.com/VKKKV/gforemost/pkg/util/format"
)

type Options struct {
	OutputDir   string   // Directory receiving carved files
	ReportFile  string   // DFXML report path; empty picks report_<session>.xml
	Workers     int      // Worker pool size; 0 means available parallelism
	ChunkSize   uint64   // Scan chunk size; 0 means carve.DefaultChunkSize
	MaxScanSize uint64   // Upper bound on bytes to scan; 0 means the whole image
	FileExt     []string // Restrict carving to these extensions
	NoProgress  bool     // Suppress the progress bar
}

// Scan maps the image at imagePath, carves every recognized file into the
// output directory and writes a DFXML report describing the results.
//
// Opening or mapping the image and creating the output directory are fatal.
// A file that cannot be persisted is logged and skipped; the scan continues.
func Scan(imagePath string, opts Options) error {
	carvers, err := carve.Carvers(opts.FileExt...)
	if err != nil {
		return err
	}

	m, err := mmap.Open(imagePath)
	if err != nil {
		return err
	}
	defer m.Close()

	data := m.Data
	if opts.MaxScanSize > 0 && opts.MaxScanSize < uint64(len(data)) {
		data = data[:opts.MaxScanSize]
	}

	sink, err := carve.NewDirSink(opts.OutputDir)
	if err != nil {
		return err
	}

	reportName := opts.ReportFile
	if reportName == "" {
		reportName = fmt.Sprintf("report_%s.xml", GenSessionID())
	}

	reportFile, err := os.Create(reportName)
	if err != nil {
		return err
	}
	defer reportFile.Close()

	report := dfxml.NewWriter(reportFile)
	defer report.Close()

	err = report.WriteHeader(dfxml.Header{
		XMLOutput: dfxml.XMLOutputVersion,
		Metadata:  dfxml.DefaultMetadata,
		Creator: dfxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: dfxml.GetExecEnv(),
		},
		Source: dfxml.Source{
			ImageFilename: absPath(imagePath),
			ImageSize:     uint64(m.FileSize()),
		},
	})
	if err != nil {
		return err
	}

	exts := make([]string, len(carvers))
	for i, c := range carvers {
		exts[i] = c.Ext()
	}

	fmt.Println("[INFO] Starting scanning operation...")
	fmt.Printf("[INFO] Source: \t%s\n", absPath(imagePath))
	fmt.Printf("[INFO] File Types: \t%s\n", strings.Join(exts, ","))
	fmt.Printf("[INFO] Destination: \t%s\n", absPath(opts.OutputDir))
	fmt.Printf("[INFO] Scanning %d bytes...\n", len(data))

	var engineOpts []carve.Option
	engineOpts = append(engineOpts,
		carve.WithWorkers(opts.Workers),
		carve.WithChunkSize(int(opts.ChunkSize)),
	)

	var bar *pbar.Bar
	if !opts.NoProgress {
		bar = pbar.New(int64(len(data)))
		engineOpts = append(engineOpts, carve.WithProgress(func(processed uint64) {
			bar.SetProcessed(int64(processed))
		}))
	}

	eng, err := carve.NewEngine(carvers, engineOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	filesFound := 0
	var totalDataSize uint64

	eng.Scan(data)(func(finfo carve.FileInfo) bool {
		filesFound++
		totalDataSize += finfo.Size
		if bar != nil {
			bar.IncFiles()
		}

		if err := sink.Write(finfo, data); err != nil {
			log.Error().
				Err(err).
				Str("file", finfo.Name).
				Uint64("offset", finfo.Offset).
				Msg("unable to save carved file")
		}

		err := report.WriteFileObject(dfxml.FileObject{
			Filename: finfo.Name,
			FileSize: finfo.Size,
			ByteRuns: dfxml.ByteRuns{
				Runs: []dfxml.ByteRun{{
					Offset:    finfo.Offset,
					ImgOffset: finfo.Offset,
					Length:    finfo.Size,
				}},
			},
		})
		if err != nil {
			log.Error().Err(err).Str("file", finfo.Name).Msg("unable to write report entry")
		}
		return true
	})

	if bar != nil {
		bar.Finish()
	}

	fmt.Printf("[INFO] Scan completed!\n")
	fmt.Printf("[INFO] Files found: \t%d\n", filesFound)
	fmt.Printf("[INFO] Data carved: \t%s\n", fmtutil.FormatBytes(int64(totalDataSize)))
	fmt.Printf("[INFO] Duration: \t%s\n", FormatDurationHMS(time.Since(start)))
	fmt.Printf("[INFO] Report saved to: \t%s\n", absPath(reportName))
	fmt.Printf("[INFO] Recovered files are in %s\n", absPath(opts.OutputDir))
	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// GenSessionID creates a unique name for a scan session, formatted as
// "scan_YYYYMMDD_HHMMSS".
func GenSessionID() string {
	return "scan_" + time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats a duration as HH:MM:SS, or fractional seconds
// for sub-second runs.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	return fmt.Sprintf("%02d:%02d:%02d",
		totalSeconds/3600,
		(totalSeconds%3600)/60,
		totalSeconds%60)
}
