package static

import (
	"io/fs"
	"log/slog"

	"github.com/dmitrymomot/webserver/core/httpcontext"
)

// HandlerFunc is the request handler shape shared with the server package.
type HandlerFunc = func(ctx *httpcontext.Context) error

// Option configures a FileServer.
type Option func(*FileServer)

// WithPublicDir sets the directory files are served from. Relative paths
// are resolved against the working directory. Default "public".
func WithPublicDir(dir string) Option {
	return func(s *FileServer) {
		s.publicDir = dir
	}
}

// WithIndexFile sets the document served for paths that match no file.
// Default "index.html".
func WithIndexFile(name string) Option {
	return func(s *FileServer) {
		if name != "" {
			s.indexFile = name
		}
	}
}

// WithIndexRewrite transforms the index document before it is sent, for
// example to inject runtime configuration.
func WithIndexRewrite(fn func(content string) string) Option {
	return func(s *FileServer) {
		s.rewrite = fn
	}
}

// WithListener runs fn before file serving. Files are only served when fn
// did not write a response. An error from fn is returned as is.
func WithListener(fn HandlerFunc) Option {
	return func(s *FileServer) {
		s.listener = fn
	}
}

// WithFileSystem replaces the disk-backed file system. WithPublicDir is
// ignored when it is set.
func WithFileSystem(fsys FileSystem) Option {
	return func(s *FileServer) {
		s.fsys = fsys
	}
}

// WithFS serves files from an fs.FS such as embed.FS.
func WithFS(fsys fs.FS) Option {
	return WithFileSystem(FromFS(fsys))
}

// WithLogger sets the logger for blocked requests and stream failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileServer) {
		if l != nil {
			s.logger = l
		}
	}
}
