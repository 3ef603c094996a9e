package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one connected socket.
// Send methods are safe for concurrent use; Receive must be called from a
// single goroutine.
type Client struct {
	id           string
	conn         *websocket.Conn
	req          *http.Request
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
	onClose   func(*Client)
}

func newClient(conn *websocket.Conn, r *http.Request, writeTimeout time.Duration, onClose func(*Client)) *Client {
	return &Client{
		id:           uuid.NewString(),
		conn:         conn,
		req:          r,
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
		onClose:      onClose,
	}
}

// ID identifies the client for its lifetime.
func (c *Client) ID() string {
	return c.id
}

// Request returns the upgrade request.
func (c *Client) Request() *http.Request {
	return c.req
}

// Subprotocol returns the negotiated subprotocol, if any.
func (c *Client) Subprotocol() string {
	return c.conn.Subprotocol()
}

// Done is closed when the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Send writes a text message.
func (c *Client) Send(data []byte) error {
	return c.write(func() error {
		return c.conn.WriteMessage(websocket.TextMessage, data)
	})
}

// SendBinary writes a binary message.
func (c *Client) SendBinary(data []byte) error {
	return c.write(func() error {
		return c.conn.WriteMessage(websocket.BinaryMessage, data)
	})
}

// SendJSON writes v as a JSON text message.
func (c *Client) SendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeMessage, err)
	}
	return c.Send(data)
}

func (c *Client) sendPrepared(pm *websocket.PreparedMessage) error {
	return c.write(func() error {
		return c.conn.WritePreparedMessage(pm)
	})
}

func (c *Client) write(fn func() error) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return fn()
}

// Receive blocks until the next message arrives. It returns the message type
// (websocket.TextMessage or websocket.BinaryMessage) and payload.
func (c *Client) Receive() (int, []byte, error) {
	return c.conn.ReadMessage()
}

// ReceiveJSON reads the next message and decodes it into v.
func (c *Client) ReceiveJSON(v any) error {
	return c.conn.ReadJSON(v)
}

// Close sends a normal closure frame and closes the connection.
func (c *Client) Close() error {
	return c.closeWith(websocket.CloseNormalClosure, "")
}

func (c *Client) closeWith(code int, reason string) error {
	var err error
	c.closeOnce.Do(func() {
		// WriteControl may run concurrently with other writes.
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(code, reason),
			time.Now().Add(time.Second),
		)

		close(c.done)
		err = c.conn.Close()
		if c.onClose != nil {
			c.onClose(c)
		}
	})
	return err
}

// IsCloseError reports whether err is a close frame with one of codes, or any
// close frame when no codes are given.
func IsCloseError(err error, codes ...int) bool {
	if len(codes) == 0 {
		var ce *websocket.CloseError
		return errors.As(err, &ce)
	}
	return websocket.IsCloseError(err, codes...)
}
