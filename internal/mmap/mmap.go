package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory mapping of a regular file or disk image. The
// mapping is shared by every scan worker without locking; nothing ever
// writes through it.
type File struct {
	Data []byte // The memory-mapped byte slice
	file *os.File
	size int64
}

// FileSize returns the total size of the underlying file.
func (m *File) FileSize() int64 { return m.size }

// Open maps the whole file at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("file %q is empty, cannot mmap", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to mmap file %q: %w", path, err)
	}

	return &File{
		Data: data,
		file: f,
		size: size,
	}, nil
}

// Close unmaps the region and closes the underlying file.
func (m *File) Close() error {
	var err error
	if m.Data != nil {
		err = unix.Munmap(m.Data)
		m.Data = nil
	}

	if m.file != nil {
		closeErr := m.file.Close()
		m.file = nil

		if closeErr != nil {
			if err != nil {
				return fmt.Errorf("failed to munmap (%w) and close file (%v)", err, closeErr)
			}
			return fmt.Errorf("failed to close file: %w", closeErr)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to munmap: %w", err)
	}
	return nil
}
