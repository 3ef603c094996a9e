package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/webserver/core/logger"
	"github.com/dmitrymomot/webserver/core/server"
	"github.com/dmitrymomot/webserver/pkg/clientip"
)

const (
	defaultWriteTimeout = 10 * time.Second
	defaultReadLimit    = 1 << 20
)

// Server accepts WebSocket connections on the listener of a server.Server.
type Server struct {
	srv          *server.Server
	handler      func(*Client)
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	readLimit    int64
	logger       *slog.Logger

	launched   chan struct{}
	launchOnce sync.Once
	stop       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// New attaches to srv. If srv is already listening the upgrade hook is
// installed immediately; otherwise it is installed once srv signals Started.
//
// handler runs in its own goroutine per connection and owns the client: the
// connection is closed when handler returns.
func New(srv *server.Server, handler func(*Client), opts ...Option) *Server {
	s := &Server{
		srv:     srv,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		writeTimeout: defaultWriteTimeout,
		readLimit:    defaultReadLimit,
		logger:       logger.Discard(),
		launched:     make(chan struct{}),
		stop:         make(chan struct{}),
		clients:      make(map[*Client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if srv.Listening() {
		s.launch()
		return s
	}

	go func() {
		select {
		case <-srv.Started():
			s.launch()
		case <-s.stop:
		}
	}()
	return s
}

func (s *Server) launch() {
	s.launchOnce.Do(func() {
		s.srv.HandleUpgrade(s)
		s.srv.OnShutdown(s.closeAll)
		close(s.launched)

		var addr string
		if a := s.srv.Addr(); a != nil {
			addr = a.String()
		}
		s.logger.Info("websocket server running", logger.Addr(addr))
	})
}

// Launched is closed once the upgrade hook is installed.
func (s *Server) Launched() <-chan struct{} {
	return s.launched
}

// ServeHTTP upgrades the connection and runs the handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered with an HTTP error.
		s.logger.WarnContext(r.Context(), "websocket upgrade failed",
			logger.ClientIP(clientip.GetIP(r)),
			logger.Error(err),
		)
		return
	}
	if s.readLimit > 0 {
		conn.SetReadLimit(s.readLimit)
	}

	client := newClient(conn, r, s.writeTimeout, s.remove)
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	s.logger.DebugContext(r.Context(), "websocket client connected",
		slog.String("client_id", client.ID()),
		logger.ClientIP(clientip.GetIP(r)),
	)

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("websocket handler panicked", slog.Any("panic", rec))
		}
		_ = client.Close()
	}()
	s.handler(client)
}

func (s *Server) remove(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	s.logger.Debug("websocket client disconnected", slog.String("client_id", c.ID()))
}

// Clients returns a snapshot of the connected clients.
func (s *Server) Clients() []*Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		out = append(out, c)
	}
	return out
}

// Len returns the number of connected clients.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends a text message to every connected client. The frame is
// encoded once. Errors of individual clients are joined.
func (s *Server) Broadcast(data []byte) error {
	pm, err := websocket.NewPreparedMessage(websocket.TextMessage, data)
	if err != nil {
		return err
	}

	var errs []error
	for _, c := range s.Clients() {
		if err := c.sendPrepared(pm); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BroadcastJSON encodes v once and sends it to every connected client.
func (s *Server) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeMessage, err)
	}
	return s.Broadcast(data)
}

// Close detaches from the server and disconnects every client.
func (s *Server) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	select {
	case <-s.launched:
		s.srv.HandleUpgrade(nil)
	default:
	}
	s.closeAll()
	return nil
}

func (s *Server) closeAll() {
	for _, c := range s.Clients() {
		_ = c.closeWith(websocket.CloseGoingAway, "server shutting down")
	}
}
