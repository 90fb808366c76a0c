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
package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/VKKKV/gforemost/internal/carve"
	"github.com/VKKKV/gforemost/pkg/dfxml"
	osutils "github.com/VKKKV/gforemost/pkg/util/os"
)

func DefineRecoverCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <image> <report>",
		Short: "Re-extract files from an image using a scan report",
		Long: `The 'recover' command extracts files from a disk image based on the byte
runs recorded in a DFXML scan report, without re-scanning the image.
Recovered files are written to the output directory.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunRecover,
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory where recovered data will be placed")
	cmd.Flags().IntP("workers", "j", 0, "number of concurrent file dumps")

	return cmd
}

func RunRecover(cmd *cobra.Command, args []string) error {
	img, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer img.Close()

	reportFile, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer reportFile.Close()

	objects, err := dfxml.ReadFileObjects(bufio.NewReader(reportFile))
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("output-dir")
	if outDir == "" {
		base := filepath.Base(reportFile.Name())
		outDir = strings.TrimSuffix(base, filepath.Ext(base)) + "-dump"
	}

	if _, err := osutils.EnsureDir(outDir, false); err != nil {
		return err
	}

	finfos, err := fileObjectsToFileInfo(objects)
	if err != nil {
		return err
	}

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)

	for _, finfo := range finfos {
		finfo := finfo
		g.Go(func() error {
			log.Info().Str("file", filepath.Join(outDir, finfo.Name)).Msg("recovering file")

			if err := dumpEntry(img, outDir, finfo); err != nil {
				return fmt.Errorf("unable to dump file %s: %w", finfo.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func dumpEntry(r io.ReaderAt, dir string, finfo carve.FileInfo) error {
	f, err := os.Create(filepath.Join(dir, finfo.Name))
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", finfo.Name, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024) // 1MB buffer

	src := io.NewSectionReader(r, int64(finfo.Offset), int64(finfo.Size))
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Flush()
}

func fileObjectsToFileInfo(objs []dfxml.FileObject) ([]carve.FileInfo, error) {
	finfos := make([]carve.FileInfo, len(objs))
	for i, o := range objs {
		runs := o.ByteRuns.Runs
		if len(runs) < 1 {
			return nil, fmt.Errorf("invalid report file")
		}

		finfos[i] = carve.FileInfo{
			Name:   o.Filename,
			Offset: runs[0].Offset,
			Size:   runs[0].Length,
		}
	}
	return finfos, nil
}
