package httpcontext

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const streamBufferSize = 32 << 10

// ResponseOptions describes a response written by Response or ResponseStream.
type ResponseOptions struct {
	// Headers are copied onto the response before the status line is written.
	Headers http.Header

	// StatusCode defaults to 200.
	StatusCode int

	// ContentType sets the Content-Type header. When empty and the body is
	// non-empty, text/plain is used unless Headers already carries a type.
	ContentType string

	// Encoding is appended to ContentType as a charset parameter.
	Encoding string

	// Content is the response body.
	Content []byte
}

// Response writes a complete response. Only the first response of a context
// is written; later calls return nil without touching the connection.
// Content-Length is derived from Content unless Headers sets it.
func (c *Context) Response(opts ResponseOptions) error {
	if !c.responded.CompareAndSwap(false, true) {
		return nil
	}

	h := c.prepareHeaders(opts, len(opts.Content) > 0)
	if h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.Itoa(len(opts.Content)))
	}

	c.writeStatus(opts.StatusCode)
	if len(opts.Content) == 0 {
		return nil
	}
	if _, err := c.w.Write(opts.Content); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseWrite, err)
	}
	return nil
}

// ResponseStream writes the status and headers, then copies src to the
// connection through a fixed-size buffer so a slow client never causes the
// whole body to be held in memory. Content-Length is only sent if Headers sets
// it. It returns the number of body bytes written.
func (c *Context) ResponseStream(opts ResponseOptions, src io.Reader) (int64, error) {
	if !c.responded.CompareAndSwap(false, true) {
		return 0, nil
	}

	c.prepareHeaders(opts, true)
	c.writeStatus(opts.StatusCode)

	// Hide io.ReaderFrom so the copy always goes through buf.
	buf := make([]byte, streamBufferSize)
	return io.CopyBuffer(struct{ io.Writer }{c.w}, src, buf)
}

// ResponseError writes a 500 response carrying message as plain text.
// It shares the single-response guard with Response.
func (c *Context) ResponseError(message string) error {
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}
	return c.Response(ResponseOptions{
		StatusCode:  http.StatusInternalServerError,
		ContentType: "text/plain",
		Encoding:    "utf-8",
		Content:     []byte(message),
	})
}

func (c *Context) prepareHeaders(opts ResponseOptions, hasBody bool) http.Header {
	h := c.w.Header()
	for k, vs := range opts.Headers {
		h[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	switch {
	case opts.ContentType != "":
		ct := opts.ContentType
		if opts.Encoding != "" && !strings.Contains(ct, "charset=") {
			ct += "; charset=" + opts.Encoding
		}
		h.Set("Content-Type", ct)
	case hasBody && h.Get("Content-Type") == "":
		h.Set("Content-Type", "text/plain; charset=utf-8")
	}

	if h.Get(HeaderRequestID) == "" {
		h.Set(HeaderRequestID, c.id)
	}
	return h
}

func (c *Context) writeStatus(code int) {
	if code == 0 {
		code = http.StatusOK
	}
	c.status.Store(int32(code))
	c.w.WriteHeader(code)
}
