package carve

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// FileName returns the deterministic output name for a carved file. The
// offset disambiguates matches, so concurrent writers never collide.
func FileName(offset uint64, ext string) string {
	return fmt.Sprintf("file_%08d.%s", offset, ext)
}

// Sink persists carved byte ranges.
type Sink interface {
	Write(finfo FileInfo, data []byte) error
}

// DirSink writes each carved file into a single output directory.
type DirSink struct {
	dir string
}

// NewDirSink creates the output directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Dir() string { return s.dir }

// Write stores the byte range described by finfo under its deterministic
// name, truncating any previous file.
func (s *DirSink) Write(finfo FileInfo, data []byte) error {
	if finfo.Offset+finfo.Size > uint64(len(data)) {
		return fmt.Errorf("file %q exceeds buffer bounds", finfo.Name)
	}

	f, err := os.Create(filepath.Join(s.dir, finfo.Name))
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", finfo.Name, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1024*1024) // 1MB buffer

	if _, err := w.Write(data[finfo.Offset : finfo.Offset+finfo.Size]); err != nil {
		return err
	}
	return w.Flush()
}
