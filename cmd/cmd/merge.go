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
	mrand "math/rand"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	osutils "github.com/VKKKV/gforemost/pkg/util/os"
)

func DefineMergeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <file1> <file2> ...",
		Short: "Merge multiple files into a single disk image",
		Long: `The 'merge' command combines multiple files into a single flat disk image.
This is useful for producing known, reproducible inputs when testing the
scanner. Files are concatenated in the order given, separated by zero-filled
gaps of random block-aligned size.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunMerge,
	}

	cmd.Flags().StringP("output", "o", "", "path of the output disk image file (required)")
	cmd.Flags().Int("min-gap", 4*1024, "minimum gap size in bytes between files")
	cmd.Flags().Int("max-gap", 512*1024, "maximum gap size in bytes between files")
	cmd.Flags().Int("block-size", 512, "block size in bytes")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func RunMerge(cmd *cobra.Command, args []string) error {
	filePaths := make([]string, 0, len(args))
	for _, arg := range args {
		paths, err := osutils.ListFiles(arg)
		if err != nil {
			return err
		}
		filePaths = append(filePaths, paths...)
	}

	out, _ := cmd.Flags().GetString("output")

	minGap, _ := cmd.Flags().GetInt("min-gap")
	maxGap, _ := cmd.Flags().GetInt("max-gap")

	if minGap <= 0 {
		return fmt.Errorf("min-gap must be greater than 0")
	}
	if minGap > maxGap {
		return fmt.Errorf("min-gap (%d) cannot be greater than max-gap (%d)", minGap, maxGap)
	}

	blockSize, _ := cmd.Flags().GetInt("block-size")
	if blockSize <= 0 {
		return fmt.Errorf("block size must be greater than 0")
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	log.Info().Int("files", len(filePaths)).Str("output", out).Msg("merging files")

	w := bufio.NewWriter(f)

	bytesWritten := int64(0)
	padding := int64(0)
	for _, path := range filePaths {
		// Gaps are zero filled so they never contain format signatures;
		// the leading padding re-aligns the next file to a block boundary.
		gapSize := int64(randGap(minGap, maxGap, blockSize)) + padding
		if _, err := w.Write(make([]byte, gapSize)); err != nil {
			return err
		}
		bytesWritten += gapSize

		nCopied, err := osutils.CopyFile(w, path)
		if err != nil {
			return err
		}
		bytesWritten += nCopied

		padding = (int64(blockSize) - nCopied%int64(blockSize)) % int64(blockSize)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}

	log.Info().Int64("bytes", bytesWritten).Msg("merge completed")
	return nil
}

// randGap picks a gap size in [minGap, maxGap] rounded down to a block
// multiple, with a minimum of one block.
func randGap(minGap, maxGap, blockSize int) int {
	gap := minGap + mrand.Intn(maxGap-minGap+1)
	gap = (gap / blockSize) * blockSize
	if gap == 0 {
		gap = blockSize
	}
	return gap
}
