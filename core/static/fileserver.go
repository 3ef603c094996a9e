package static

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dmitrymomot/webserver/core/httpcontext"
	"github.com/dmitrymomot/webserver/core/logger"
)

const (
	msgFileNotFound = "File not found"
	msgInvalidRange = "Invalid Range"
)

// FileServer serves a public directory with range support and an index
// document fallback for client-side routing.
type FileServer struct {
	publicDir string
	indexFile string
	rewrite   func(string) string
	listener  HandlerFunc
	fsys      FileSystem
	logger    *slog.Logger
}

// New creates a FileServer. The public directory is not required to exist.
func New(opts ...Option) (*FileServer, error) {
	s := &FileServer{
		publicDir: "public",
		indexFile: "index.html",
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fsys == nil {
		dir := s.publicDir
		if !filepath.IsAbs(dir) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("static: resolve public dir: %w", err)
			}
			dir = filepath.Join(wd, dir)
		}
		s.publicDir = dir
		s.fsys = Dir(dir)
	}

	return s, nil
}

// PublicDir returns the resolved public directory.
func (s *FileServer) PublicDir() string {
	return s.publicDir
}

// Handle serves ctx. It can be passed directly as the server handler.
//
// Paths with a hidden basename or a ".." sequence get 403 without touching
// the file system. A request carrying a Range header is streamed; any other
// GET is answered with the whole file or, when the file is missing, the
// index document. Other methods, HEAD without Range included, fall through
// without a response.
func (s *FileServer) Handle(c *httpcontext.Context) error {
	if s.listener != nil {
		if err := s.listener(c); err != nil {
			return err
		}
		if c.Responded() {
			return nil
		}
	}

	uri := c.URI()
	if isForbidden(uri) {
		s.logger.WarnContext(c, "blocked access to protected path",
			logger.ClientIP(c.IP()),
			logger.Path(uri),
			logger.RequestID(c.ID()),
		)
		return c.Response(httpcontext.ResponseOptions{
			StatusCode: http.StatusForbidden,
			Content:    []byte(forbiddenMessage(c.IP())),
		})
	}

	switch {
	case c.HasHeader("Range"):
		return s.serveRange(c, uri)
	case c.Method() == http.MethodGet:
		return s.serveResource(c, uri)
	}
	return nil
}

func isForbidden(uri string) bool {
	return strings.HasPrefix(path.Base(uri), ".") || strings.Contains(uri, "..")
}

func forbiddenMessage(ip string) string {
	return "WARNING: Your IP address " + ip + " has been logged. Requests for hidden files or paths outside the public folder are not allowed."
}

func (s *FileServer) serveRange(c *httpcontext.Context, name string) error {
	info, err := s.fsys.Stat(name)
	if err != nil || info.IsDir() {
		return notFound(c)
	}
	size := info.Size()

	header := strings.TrimSpace(c.Header("Range"))
	if header == "" {
		return s.stream(c, name, http.StatusOK, RangeSpec{Start: 0, End: size - 1}, http.Header{
			"Content-Length": {strconv.FormatInt(size, 10)},
		})
	}

	rng, err := ParseRange(header, size)
	switch {
	case errors.Is(err, ErrRangeNotSatisfiable):
		return c.Response(httpcontext.ResponseOptions{
			StatusCode: http.StatusRequestedRangeNotSatisfiable,
			Headers:    http.Header{"Content-Range": {"bytes */" + strconv.FormatInt(size, 10)}},
		})
	case err != nil:
		return c.Response(httpcontext.ResponseOptions{
			StatusCode: http.StatusRequestedRangeNotSatisfiable,
			Content:    []byte(msgInvalidRange),
		})
	}

	return s.stream(c, name, http.StatusPartialContent, rng, http.Header{
		"Content-Range":  {rng.ContentRange(size)},
		"Accept-Ranges":  {"bytes"},
		"Content-Length": {strconv.FormatInt(rng.Length(), 10)},
	})
}

// stream copies the window rng of name to the client without buffering it.
// Failures to read the file are returned as ErrStreamRead; a client that
// goes away mid-stream is only logged.
func (s *FileServer) stream(c *httpcontext.Context, name string, status int, rng RangeSpec, headers http.Header) error {
	f, err := s.fsys.Open(name)
	if err != nil {
		return notFound(c)
	}
	defer f.Close()

	src := &readRecorder{r: io.NewSectionReader(f, rng.Start, rng.Length())}
	n, err := c.ResponseStream(httpcontext.ResponseOptions{
		StatusCode:  status,
		ContentType: ContentTypeFromPath(name),
		Headers:     headers,
	}, src)
	if err == nil {
		return nil
	}

	if src.err != nil {
		s.logger.ErrorContext(c, "error reading file stream",
			logger.File(name),
			logger.BytesOut(n),
			logger.Error(src.err),
		)
		return fmt.Errorf("%w: %s: %w", ErrStreamRead, name, src.err)
	}

	s.logger.DebugContext(c, "client closed file stream",
		logger.File(name),
		logger.BytesOut(n),
		logger.Error(err),
	)
	return nil
}

func (s *FileServer) serveResource(c *httpcontext.Context, name string) error {
	if data, err := s.fsys.ReadFile(name); err == nil {
		return c.Response(httpcontext.ResponseOptions{
			ContentType: ContentTypeFromPath(name),
			Content:     data,
		})
	}

	index, err := s.fsys.ReadFile(s.indexFile)
	if err != nil {
		return c.Response(httpcontext.ResponseOptions{StatusCode: http.StatusNotFound})
	}

	content := string(index)
	if s.rewrite != nil {
		content = s.rewrite(content)
	}
	return c.Response(httpcontext.ResponseOptions{
		ContentType: "text/html",
		Content:     []byte(content),
	})
}

func notFound(c *httpcontext.Context) error {
	return c.Response(httpcontext.ResponseOptions{
		StatusCode: http.StatusNotFound,
		Content:    []byte(msgFileNotFound),
	})
}

// readRecorder remembers the first read error so it can be told apart from
// write errors of the same copy.
type readRecorder struct {
	r   io.Reader
	err error
}

func (rr *readRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && err != io.EOF && rr.err == nil {
		rr.err = err
	}
	return n, err
}
