//go:build !linux
// +build !linux

package fuse

import (
	"fmt"
	"io"

	"github.com/VKKKV/gforemost/internal/carve"
)

func Mount(mountpoint string, r io.ReaderAt, finfos []carve.FileInfo) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
