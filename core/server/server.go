package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/webserver/core/httpcontext"
	"github.com/dmitrymomot/webserver/core/logger"
	"github.com/dmitrymomot/webserver/core/metrics"
	"github.com/dmitrymomot/webserver/pkg/async"
)

// HandlerFunc handles one request. A returned error is logged and, when
// nothing was written yet, answered with 500 Internal Server Error.
type HandlerFunc func(ctx *httpcontext.Context) error

// Options describes the listeners of a Server. It is copied by New.
type Options struct {
	// Port of the primary listener. Zero binds a free port; see Addr.
	Port int

	// TLS maps domain names to key pairs. An empty map serves plain HTTP.
	TLS map[string]CertificateEntry

	// RedirectPort, when non-zero, opens a plain HTTP listener that
	// redirects every request to the HTTPS listener. Requires TLS.
	RedirectPort int

	// AutoRenew runs the Renewer at start and on every reload. Requires TLS.
	AutoRenew bool
}

// Server owns the listeners, the certificate cache and its maintenance jobs,
// and dispatches every request to a HandlerFunc.
// Safe for concurrent use.
type Server struct {
	opts    Options
	handler HandlerFunc
	logger  *slog.Logger
	metrics *metrics.Collector

	host           string
	tlsBase        *tls.Config
	certs          *CertCache
	loader         Loader
	defaultDomain  string
	renewer        Renewer
	watch          bool
	watchDebounce  time.Duration
	reloadInterval time.Duration

	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	maxHeaderBytes  int

	upgrade   atomic.Pointer[http.Handler]
	started   chan struct{}
	startOnce sync.Once
	listening atomic.Bool
	renewing  atomic.Bool
	renewal   atomic.Pointer[async.ExecFuture]

	mu         sync.Mutex
	running    bool
	listener   net.Listener
	httpServer *http.Server
	redirect   *http.Server
	scheduler  *cron.Cron
	watcher    *certWatcher
	cancel     context.CancelFunc
	serveErr   chan error
	onShutdown []func()
}

// New creates a Server. Nothing is bound until Start.
func New(opts Options, handler HandlerFunc, options ...Option) *Server {
	opts.TLS = maps.Clone(opts.TLS)

	s := &Server{
		opts:            opts,
		handler:         handler,
		logger:          logger.Discard(),
		renewer:         DefaultRenewer(),
		watchDebounce:   DefaultWatchDebounce,
		reloadInterval:  DefaultReloadInterval,
		readTimeout:     DefaultReadTimeout,
		writeTimeout:    DefaultWriteTimeout,
		idleTimeout:     DefaultIdleTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		maxHeaderBytes:  DefaultMaxHeaderBytes,
		started:         make(chan struct{}),
	}

	for _, opt := range options {
		opt(s)
	}

	if s.handler == nil {
		s.handler = func(*httpcontext.Context) error { return nil }
	}

	if len(s.opts.TLS) > 0 {
		s.certs = NewCertCache(s.opts.TLS,
			WithLoader(s.loader),
			WithCacheLogger(s.logger),
			WithCacheMetrics(s.metrics),
			WithFallbackDomain(s.defaultDomain),
		)
	}

	return s
}

// Run creates a Server and runs it until ctx is canceled.
func Run(ctx context.Context, opts Options, handler HandlerFunc, options ...Option) error {
	return New(opts, handler, options...).Run(ctx)()
}

// Start binds the primary listener and serves in the background.
//
// With TLS, every certificate is loaded before binding. Once bound, Started
// is closed, the optional redirect listener is opened, renewal is triggered
// if AutoRenew is set, and the periodic reload is scheduled. A bind failure
// is logged and returned; it is not retried. Failures of the redirect
// listener are only logged.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrServerAlreadyRunning
	}

	if s.certs != nil {
		if err := s.certs.Reload(ctx); err != nil {
			s.logger.WarnContext(ctx, "some certificates could not be loaded", logger.Error(err))
		}
	}

	ln, err := s.listen(s.opts.Port)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to start web server", logger.Port(s.opts.Port), logger.Error(err))
		return err
	}
	if s.certs != nil {
		ln = tls.NewListener(ln, s.tlsConfig())
	}

	life, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s.cancel = cancel
	s.listener = ln
	s.httpServer = s.newHTTPServer(s, life)
	s.serveErr = make(chan error, 1)
	s.running = true
	s.listening.Store(true)

	go s.serve(s.httpServer, ln, s.serveErr)

	s.logger.InfoContext(ctx, "web server running",
		logger.Addr(ln.Addr().String()),
		slog.Bool("tls", s.certs != nil),
	)
	s.startOnce.Do(func() { close(s.started) })

	if s.certs != nil {
		s.startMaintenance(life)
	}
	return nil
}

// Started is closed once, the first time the primary listener is bound.
func (s *Server) Started() <-chan struct{} {
	return s.started
}

// Listening reports whether the primary listener is accepting connections.
func (s *Server) Listening() bool {
	return s.listening.Load()
}

// Listener returns the primary listener, or nil before Start.
func (s *Server) Listener() net.Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener
}

// Addr returns the bound address of the primary listener, or nil before Start.
func (s *Server) Addr() net.Addr {
	if ln := s.Listener(); ln != nil {
		return ln.Addr()
	}
	return nil
}

// Certificates returns the certificate cache, or nil when TLS is not configured.
func (s *Server) Certificates() *CertCache {
	return s.certs
}

// HandleUpgrade routes WebSocket upgrade requests to h instead of the
// HandlerFunc. Passing nil removes the hook.
func (s *Server) HandleUpgrade(h http.Handler) {
	if h == nil {
		s.upgrade.Store(nil)
		return
	}
	s.upgrade.Store(&h)
}

// OnShutdown registers fn to run when Shutdown is called.
// Hijacked connections are not tracked by the HTTP server, so layers that
// hijack (WebSocket) close their connections here.
func (s *Server) OnShutdown(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onShutdown = append(s.onShutdown, fn)
}

// Reload reloads every certificate from disk. It is a no-op without TLS.
func (s *Server) Reload(ctx context.Context) error {
	if s.certs == nil {
		return nil
	}
	return s.certs.Reload(ctx)
}

// Shutdown stops the maintenance jobs and gracefully closes every listener.
// Returns nil if the server is not running.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.listening.Store(false)

	watcher, scheduler, redirect, httpServer, cancel := s.watcher, s.scheduler, s.redirect, s.httpServer, s.cancel
	hooks := slices.Clone(s.onShutdown)
	s.watcher, s.scheduler, s.redirect = nil, nil, nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shutting down web server")

	var errs []error
	if watcher != nil {
		if err := watcher.close(); err != nil {
			errs = append(errs, err)
		}
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-ctx.Done():
		}
	}
	if redirect != nil {
		if err := redirect.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrRedirectShutdown, err))
		}
	}
	for _, fn := range hooks {
		fn()
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrHTTPShutdown, err))
	}
	s.awaitRenewal(ctx)
	cancel()

	if err := errors.Join(errs...); err != nil {
		s.logger.ErrorContext(ctx, "web server shutdown error", logger.Error(err))
		return err
	}
	s.logger.InfoContext(ctx, "web server shutdown complete")
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function starts the server, blocks until ctx is canceled or
// the listener fails, and shuts down gracefully on cancellation.
func (s *Server) Run(ctx context.Context) func() error {
	return func() error {
		if err := s.Start(ctx); err != nil {
			return err
		}

		s.mu.Lock()
		serveErr := s.serveErr
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		case err := <-serveErr:
			return err
		}
	}
}

// ServeHTTP is the top-level dispatcher shared by every request.
//
// OPTIONS is answered with permissive CORS headers before any handler runs.
// WebSocket upgrades go to the hook registered with HandleUpgrade. Everything
// else gets a Context and the HandlerFunc; errors and panics become a 500
// response unless a response was already written.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if up := s.upgrade.Load(); up != nil && websocket.IsWebSocketUpgrade(r) {
		(*up).ServeHTTP(w, r)
		return
	}

	c := httpcontext.New(w, r)
	defer func() {
		s.metrics.ObserveRequest(r.Method, c.Status(), time.Since(start))
	}()

	if r.Method == http.MethodOptions {
		_ = c.Response(httpcontext.ResponseOptions{
			Headers: http.Header{
				"Access-Control-Allow-Methods": {allowMethods},
				"Access-Control-Allow-Origin":  {allowOrigin},
			},
		})
		return
	}

	s.dispatch(c)
}

func (s *Server) dispatch(c *httpcontext.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.fail(c, fmt.Errorf("%w: %v", ErrHandlerPanic, rec))
		}
	}()

	if err := s.handler(c); err != nil {
		s.fail(c, err)
		return
	}
	if !c.Responded() {
		_ = c.Response(httpcontext.ResponseOptions{
			StatusCode: http.StatusNotFound,
			Content:    []byte(http.StatusText(http.StatusNotFound)),
		})
	}
}

func (s *Server) fail(c *httpcontext.Context, err error) {
	s.logger.ErrorContext(c, "request handler failed",
		logger.RequestID(c.ID()),
		logger.Method(c.Method()),
		logger.Path(c.URI()),
		logger.ClientIP(c.IP()),
		slog.Bool("responded", c.Responded()),
		logger.Error(err),
	)
	if c.Responded() {
		return
	}
	if werr := c.ResponseError(http.StatusText(http.StatusInternalServerError)); werr != nil {
		s.logger.ErrorContext(c, "failed to write error response", logger.Error(werr))
	}
}

func (s *Server) serve(srv *http.Server, ln net.Listener, errCh chan<- error) {
	err := srv.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		errCh <- nil
		return
	}
	s.listening.Store(false)
	s.logger.Error("web server stopped", logger.Error(err))
	errCh <- fmt.Errorf("%w: %w", ErrHTTPServer, err)
}

func (s *Server) listen(port int) (net.Listener, error) {
	addr := net.JoinHostPort(s.host, strconv.Itoa(port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrBind, addr, err)
	}
	return ln, nil
}

func (s *Server) newHTTPServer(h http.Handler, base context.Context) *http.Server {
	return &http.Server{
		Handler:        h,
		ReadTimeout:    s.readTimeout,
		WriteTimeout:   s.writeTimeout,
		IdleTimeout:    s.idleTimeout,
		MaxHeaderBytes: s.maxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
		BaseContext:    func(net.Listener) context.Context { return base },

		// OPTIONS * must reach the dispatcher to get the CORS headers.
		DisableGeneralOptionsHandler: true,
	}
}

// tlsConfig clones the base configuration and routes certificate selection
// through the cache. Static certificates are dropped so an unknown server
// name cannot fall back to them.
func (s *Server) tlsConfig() *tls.Config {
	base := s.tlsBase
	if base == nil {
		base = DefaultTLSConfig()
	}
	cfg := base.Clone()
	cfg.Certificates = nil
	cfg.GetCertificate = s.certs.GetCertificate
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{"http/1.1"}
	}
	return cfg
}

// startMaintenance opens the redirect listener, triggers the first renewal
// and schedules periodic reloads. Called with s.mu held.
func (s *Server) startMaintenance(ctx context.Context) {
	if s.opts.RedirectPort > 0 {
		s.startRedirect(ctx)
	}
	if s.opts.AutoRenew {
		s.renew(ctx)
	}

	s.scheduler = cron.New()
	spec := "@every " + s.reloadInterval.String()
	if _, err := s.scheduler.AddFunc(spec, func() { s.periodic(ctx) }); err != nil {
		s.logger.ErrorContext(ctx, "failed to schedule certificate reload",
			logger.Error(fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)),
		)
	} else {
		s.scheduler.Start()
	}

	if s.watch {
		w, err := newCertWatcher(s.certs.files(), s.watchDebounce, s.logger, func() {
			s.reload(ctx, "watch")
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to watch certificate files", logger.Error(err))
			return
		}
		s.watcher = w
	}
}

func (s *Server) startRedirect(ctx context.Context) {
	ln, err := s.listen(s.opts.RedirectPort)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to start redirect server",
			logger.Port(s.opts.RedirectPort),
			logger.Error(err),
		)
		return
	}

	httpsPort := s.opts.Port
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		httpsPort = addr.Port
	}

	srv := s.newHTTPServer(RedirectHandler(httpsPort), ctx)
	s.redirect = srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("redirect server stopped", logger.Error(err))
		}
	}()

	s.logger.InfoContext(ctx, "redirect server running",
		logger.Addr(ln.Addr().String()),
		logger.Port(httpsPort),
	)
}

func (s *Server) periodic(ctx context.Context) {
	s.reload(ctx, "schedule")
	if s.opts.AutoRenew {
		s.renew(ctx)
	}
}

func (s *Server) reload(ctx context.Context, trigger string) {
	s.logger.DebugContext(ctx, "reloading certificates", logger.Event(trigger))
	// Per-domain failures are logged by the cache.
	_ = s.certs.Reload(ctx)
}

// renew runs the Renewer in the background. Overlapping runs are skipped.
// A successful renewal reloads the cache right away.
func (s *Server) renew(ctx context.Context) {
	if !s.renewing.CompareAndSwap(false, true) {
		s.logger.WarnContext(ctx, "certificate renewal still running, skipping")
		return
	}

	s.logger.InfoContext(ctx, "certificate renewal started")
	start := time.Now()

	future := async.Exec(ctx, s.renewer, func(ctx context.Context, r Renewer) error {
		return r.Renew(ctx)
	})
	s.renewal.Store(future)
	future.OnComplete(func(err error) {
		defer s.renewing.Store(false)

		if err != nil {
			s.logger.ErrorContext(ctx, "certificate renewal failed", logger.Elapsed(start), logger.Error(err))
			return
		}
		s.logger.InfoContext(ctx, "certificate renewal finished", logger.Elapsed(start))
		s.reload(ctx, "renew")
	})
}

// awaitRenewal gives an in-flight renewal until the shutdown deadline to
// finish. Whatever is still running after that is canceled with the
// server context.
func (s *Server) awaitRenewal(ctx context.Context) {
	future := s.renewal.Load()
	if future == nil || future.IsComplete() {
		return
	}

	wait := s.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		wait = time.Until(deadline)
	}

	s.logger.InfoContext(ctx, "waiting for certificate renewal to finish")
	if err := future.AwaitWithTimeout(wait); errors.Is(err, async.ErrTimeout) {
		s.logger.WarnContext(ctx, "certificate renewal canceled by shutdown")
	}
}
