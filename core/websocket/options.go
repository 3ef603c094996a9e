package websocket

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Server.
type Option func(*Server)

// WithReadBuffer sets the size of the connection read buffer.
func WithReadBuffer(size int) Option {
	return func(s *Server) {
		s.upgrader.ReadBufferSize = size
	}
}

// WithWriteBuffer sets the size of the connection write buffer.
func WithWriteBuffer(size int) Option {
	return func(s *Server) {
		s.upgrader.WriteBufferSize = size
	}
}

// WithHandshakeTimeout bounds the upgrade handshake.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.upgrader.HandshakeTimeout = timeout
	}
}

// WithOriginCheck decides which Origin headers are accepted.
// The default rejects cross-origin requests.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}

// WithAllowAnyOrigin accepts upgrades from any origin.
func WithAllowAnyOrigin() Option {
	return WithOriginCheck(func(*http.Request) bool { return true })
}

// WithSubprotocols lists the supported subprotocols in order of preference.
func WithSubprotocols(protocols ...string) Option {
	return func(s *Server) {
		s.upgrader.Subprotocols = protocols
	}
}

// WithWriteTimeout bounds every write to a client. Default 10s.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// WithReadLimit caps the size of an incoming message. Default 1 MB.
func WithReadLimit(n int64) Option {
	return func(s *Server) {
		s.readLimit = n
	}
}

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}
