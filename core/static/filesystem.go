package static

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// File is an open file that can be read at arbitrary offsets.
type File interface {
	io.Reader
	io.ReaderAt
	io.Closer
}

// FileSystem is what FileServer reads from. Names are slash-separated paths
// relative to the public root, as they appear in the request URI.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	ReadFile(name string) ([]byte, error)
}

// Dir serves files from a directory on disk.
type Dir string

func (d Dir) resolve(name string) string {
	// Rooting the name before cleaning drops any leading "..".
	return filepath.Join(string(d), filepath.FromSlash(path.Clean("/"+name)))
}

// Stat implements FileSystem.
func (d Dir) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(d.resolve(name))
}

// Open implements FileSystem.
func (d Dir) Open(name string) (File, error) {
	return os.Open(d.resolve(name))
}

// ReadFile implements FileSystem.
func (d Dir) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(d.resolve(name))
}

// FromFS adapts an fs.FS, for example an embed.FS, to FileSystem.
// Range requests need files that implement io.ReaderAt; files of embed.FS
// and os.DirFS do.
func FromFS(fsys fs.FS) FileSystem {
	return fsAdapter{fsys: fsys}
}

type fsAdapter struct {
	fsys fs.FS
}

func fsName(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" {
		return "."
	}
	return name
}

func (a fsAdapter) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(a.fsys, fsName(name))
}

func (a fsAdapter) Open(name string) (File, error) {
	f, err := a.fsys.Open(fsName(name))
	if err != nil {
		return nil, err
	}
	rf, ok := f.(File)
	if !ok {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotSeekable, name)
	}
	return rf, nil
}

func (a fsAdapter) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(a.fsys, fsName(name))
}
