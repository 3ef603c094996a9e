package httpcontext

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReadBody reads the full request body once and caches it.
// Later calls return the cached result, including a cached error.
func (c *Context) ReadBody() (string, error) {
	c.bodyMu.Lock()
	defer c.bodyMu.Unlock()

	if c.bodyRead {
		return c.body, c.bodyErr
	}
	c.bodyRead = true

	if c.r.Body == nil {
		return "", nil
	}

	data, err := io.ReadAll(c.r.Body)
	if err != nil {
		c.bodyErr = fmt.Errorf("%w: %w", ErrBodyRead, err)
		return "", c.bodyErr
	}
	c.body = string(data)
	return c.body, nil
}

// ReadData decodes the body as JSON. If the body is not valid JSON the raw text is returned.
func (c *Context) ReadData() (any, error) {
	body, err := c.ReadBody()
	if err != nil {
		return nil, err
	}

	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return body, nil
	}
	return data, nil
}
