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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VKKKV/gforemost/internal/fuse"
	"github.com/VKKKV/gforemost/pkg/dfxml"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount <image> <report>",
		Short: "Mount a scan report as a read-only filesystem",
		Long: `The 'mount' command exposes the files listed in a DFXML scan report as a
read-only FUSE filesystem backed by the disk image. File contents are
served directly from the image, so nothing is copied out.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	cmd.Flags().StringP("mountpoint", "m", "", "directory where the filesystem will be mounted (derived from the report name by default)")

	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
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

	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	if mountpoint == "" {
		mountpoint = getMountpoint(reportFile.Name())
	}

	objects, err := dfxml.ReadFileObjects(bufio.NewReader(reportFile))
	if err != nil {
		return err
	}

	finfos, err := fileObjectsToFileInfo(objects)
	if err != nil {
		return err
	}
	return fuse.Mount(mountpoint, img, finfos)
}

// getMountpoint derives a mountpoint name from the report file name by
// stripping its extension.
func getMountpoint(reportFileName string) string {
	base := filepath.Base(reportFileName)
	ext := filepath.Ext(base)

	mountpoint := strings.TrimSuffix(base, ext)
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}
