package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
)

// FS reads files from an fs.FS, usually a directory.
type FS struct {
	fsys fs.FS
	dir  string
}

// NewDir returns a source rooted at dir.
func NewDir(dir string) *FS {
	return &FS{fsys: os.DirFS(dir), dir: dir}
}

// NewFS wraps an arbitrary file system, such as an embedded one.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

func (s *FS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("invalid path %q", name)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

// Dir is the local directory, or empty for sources built with NewFS.
func (s *FS) Dir() string { return s.dir }

func (s *FS) String() string {
	if s.dir == "" {
		return "fs"
	}
	return "dir:" + s.dir
}
