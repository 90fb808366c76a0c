//go:build linux
// +build linux

package fuse

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
)

// carveFS exposes the files listed in a carve report as a flat, read-only
// filesystem. File contents are served straight from the image; nothing is
// copied out.
type carveFS struct {
	r io.ReaderAt

	entries map[string]entry
}

type entry struct {
	name   string
	offset uint64
	size   uint64
}

func (c *carveFS) Root() (fs.Node, error) {
	return &rootDir{fs: c}, nil
}

// rootDir implements fs.Node and fs.HandleReadDirAller.
type rootDir struct {
	fs *carveFS
}

func (*rootDir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *rootDir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	e, ok := d.fs.entries[name]
	if !ok {
		return nil, fuse.ENOENT
	}
	return carvedFile{
		r:    io.NewSectionReader(d.fs.r, int64(e.offset), int64(e.size)),
		size: e.size,
	}, nil
}

func (d *rootDir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	dirEntries := make([]fuse.Dirent, 0, len(d.fs.entries))
	for _, e := range d.fs.entries {
		dirEntries = append(dirEntries, fuse.Dirent{
			Name: e.name,
			Type: fuse.DT_File,
		})
	}
	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name < dirEntries[j].Name
	})
	for i := range dirEntries {
		dirEntries[i].Inode = uint64(i)
	}
	return dirEntries, nil
}

// carvedFile implements fs.Node and fs.HandleReader.
type carvedFile struct {
	r    io.ReaderAt
	size uint64
}

func (f carvedFile) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = f.size
	a.Mtime = time.Now()
	return nil
}

func (f carvedFile) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	size := int(req.Size)
	offset := req.Offset

	if offset >= int64(f.size) {
		resp.Data = []byte{}
		return nil
	}
	if offset+int64(size) > int64(f.size) {
		size = int(int64(f.size) - offset)
	}

	buf := make([]byte, size)
	n, err := f.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}

	resp.Data = buf[:n]
	return nil
}
