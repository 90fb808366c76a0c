//go:build linux
// +build linux

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
package fuse

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/rs/zerolog/log"

	"github.com/VKKKV/gforemost/internal/carve"
	osutils "github.com/VKKKV/gforemost/pkg/util/os"
)

// Mount serves the carved files at mountpoint until the process receives an
// interrupt and the filesystem can be unmounted.
func Mount(mountpoint string, r io.ReaderAt, finfos []carve.FileInfo) error {
	created, err := osutils.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint)
	if err != nil {
		return err
	}
	defer c.Close()

	entries := make(map[string]entry, len(finfos))
	for _, fi := range finfos {
		entries[fi.Name] = entry{
			name:   fi.Name,
			offset: fi.Offset,
			size:   fi.Size,
		}
	}

	go func() {
		srv := fusefs.New(c, nil)
		if err := srv.Serve(&carveFS{r: r, entries: entries}); err != nil {
			log.Fatal().Err(err).Msg("fuse serve error")
		}
	}()
	return waitForUmount(mountpoint)
}

func waitForUmount(mountpoint string) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	log.Info().Str("mountpoint", mountpoint).Msg("mounted, waiting for termination signal")

	const maxUnmountRetries = 3

	attempts := 0
	for sig := range sigc {
		log.Info().Str("signal", sig.String()).Msg("signal received, unmounting")

		if err := fuse.Unmount(mountpoint); err == nil {
			return nil
		} else {
			attempts++
			if attempts >= maxUnmountRetries {
				log.Fatal().
					Int("attempts", attempts).
					Str("mountpoint", mountpoint).
					Msg("unable to unmount, exiting")
			}
			log.Warn().Err(err).Int("remaining", maxUnmountRetries-attempts).
				Msg("unmount failed, waiting for another signal")
		}
	}
	return nil
}
