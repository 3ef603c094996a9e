package httpcontext

import (
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/webserver/pkg/clientip"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

// Context wraps a single HTTP exchange.
// Derived request facts are computed lazily; the response can be written at most once.
type Context struct {
	w  http.ResponseWriter
	r  *http.Request
	id string
	ip string

	cookieOnce sync.Once
	cookies    map[string]string

	queryOnce sync.Once
	query     map[string]string

	params  map[string]string
	matched bool

	bodyMu   sync.Mutex
	bodyRead bool
	body     string
	bodyErr  error

	responded atomic.Bool
	status    atomic.Int32
}

// Option configures a Context.
type Option func(*Context)

// WithRequestID overrides the generated request identifier.
func WithRequestID(id string) Option {
	return func(c *Context) {
		c.id = id
	}
}

// New wraps w and r. The request ID is taken from X-Request-ID when present,
// otherwise a UUID is generated.
func New(w http.ResponseWriter, r *http.Request, opts ...Option) *Context {
	c := &Context{
		w:  w,
		r:  r,
		id: r.Header.Get(HeaderRequestID),
		ip: clientip.GetIP(r),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	return c
}

// Deadline delegates to the request context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request context. It is closed when the client goes away.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value delegates to the request context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the underlying request.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the underlying writer.
// Writing through it bypasses the single-response guard.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// ID returns the request identifier.
func (c *Context) ID() string {
	return c.id
}

// URI returns the decoded request path without the query string.
func (c *Context) URI() string {
	return c.r.URL.Path
}

// RawURI returns the request target as sent, including the query string.
func (c *Context) RawURI() string {
	return c.r.URL.RequestURI()
}

// Method returns the request method.
func (c *Context) Method() string {
	return c.r.Method
}

// Headers returns the request headers.
func (c *Context) Headers() http.Header {
	return c.r.Header
}

// Header returns the first value of the named request header.
func (c *Context) Header(name string) string {
	return c.r.Header.Get(name)
}

// HasHeader reports whether the request carries the named header, even if empty.
func (c *Context) HasHeader(name string) bool {
	_, ok := c.r.Header[http.CanonicalHeaderKey(name)]
	return ok
}

// IP returns the client address: the first X-Forwarded-For entry, else the peer address.
func (c *Context) IP() string {
	return c.ip
}

// AcceptEncoding returns the raw Accept-Encoding header.
func (c *Context) AcceptEncoding() string {
	return c.r.Header.Get("Accept-Encoding")
}

// AcceptsEncoding reports whether the client listed the given content coding.
func (c *Context) AcceptsEncoding(coding string) bool {
	for part := range strings.SplitSeq(c.AcceptEncoding(), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(name, coding) || name == "*" {
			return true
		}
	}
	return false
}

// Cookie returns request cookies by name. Parsed on first call.
// When a name repeats, the first occurrence wins.
func (c *Context) Cookie() map[string]string {
	c.cookieOnce.Do(func() {
		cookies := c.r.Cookies()
		c.cookies = make(map[string]string, len(cookies))
		for _, ck := range cookies {
			if _, exists := c.cookies[ck.Name]; !exists {
				c.cookies[ck.Name] = ck.Value
			}
		}
	})
	return c.cookies
}

// CookieValue returns a single cookie value or "".
func (c *Context) CookieValue(name string) string {
	return c.Cookie()[name]
}

// Query returns the first value of every query parameter. Parsed on first call.
func (c *Context) Query() map[string]string {
	c.queryOnce.Do(func() {
		values := c.r.URL.Query()
		c.query = make(map[string]string, len(values))
		for k, v := range values {
			if len(v) > 0 {
				c.query[k] = v[0]
			}
		}
	})
	return c.query
}

// QueryValue returns a single query parameter or "".
func (c *Context) QueryValue(name string) string {
	return c.Query()[name]
}

// Params returns the parameters captured by the matched route, or nil before a match.
func (c *Context) Params() map[string]string {
	return c.params
}

// Param returns a captured route parameter or "".
func (c *Context) Param(name string) string {
	return c.params[name]
}

// Responded reports whether a response has been written through this context.
func (c *Context) Responded() bool {
	return c.responded.Load()
}

// Status returns the status code written, or 0 if nothing was written yet.
func (c *Context) Status() int {
	return int(c.status.Load())
}
