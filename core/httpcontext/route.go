package httpcontext

import "strings"

// Match compares a route pattern against a method and path.
//
// Patterns are slash-separated segments. A segment starting with ':' captures
// one non-empty path segment under that name; a final '*' captures the rest of
// the path (possibly empty) under "*". A pattern may be prefixed with a method
// and a space ("GET /users/:id"); without one any method matches. Trailing
// slashes are ignored on both sides.
func Match(pattern, method, path string) (map[string]string, bool) {
	if m, rest, ok := strings.Cut(pattern, " "); ok {
		if !strings.EqualFold(m, method) {
			return nil, false
		}
		pattern = strings.TrimSpace(rest)
	}
	if !strings.HasPrefix(pattern, "/") {
		return nil, false
	}

	patternSegs := splitPath(pattern)
	pathSegs := splitPath(path)
	params := make(map[string]string)

	for i, seg := range patternSegs {
		if seg == "*" && i == len(patternSegs)-1 {
			params["*"] = strings.Join(pathSegs[min(i, len(pathSegs)):], "/")
			return params, true
		}
		if i >= len(pathSegs) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			if pathSegs[i] == "" {
				return nil, false
			}
			params[seg[1:]] = pathSegs[i]
		case seg != pathSegs[i]:
			return nil, false
		}
	}

	if len(patternSegs) != len(pathSegs) {
		return nil, false
	}
	return params, true
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// Route runs handler when pattern matches the current request.
// Only the first matching Route call of a request runs; after a match, or
// after a response was written, later calls are no-ops. A chain of Route calls
// therefore behaves as an ordered dispatch table.
func (c *Context) Route(pattern string, handler func(params map[string]string) error) error {
	if c.matched || c.Responded() {
		return nil
	}

	params, ok := Match(pattern, c.r.Method, c.URI())
	if !ok {
		return nil
	}

	c.matched = true
	c.params = params
	return handler(params)
}

// Matched reports whether a Route call has matched this request.
func (c *Context) Matched() bool {
	return c.matched
}

// IsMethod reports whether the request method equals m, ignoring case.
func (c *Context) IsMethod(m string) bool {
	return strings.EqualFold(c.r.Method, m)
}

