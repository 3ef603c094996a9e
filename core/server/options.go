package server

import (
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/dmitrymomot/webserver/core/metrics"
)

// Option configures server behavior.
type Option func(*Server)

// WithLogger sets a custom logger for server operations.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records per-request and certificate reload metrics.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithTLSConfig sets the base TLS configuration of the HTTPS listener.
// GetCertificate is always overridden by the certificate cache.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.tlsBase = cfg
		}
	}
}

// WithRenewer replaces the certbot renewer used when AutoRenew is set.
func WithRenewer(r Renewer) Option {
	return func(s *Server) {
		if r != nil {
			s.renewer = r
		}
	}
}

// WithCertificateLoader replaces how key pairs are read from disk.
func WithCertificateLoader(fn Loader) Option {
	return func(s *Server) {
		s.loader = fn
	}
}

// WithCertWatch reloads the certificate cache shortly after a configured
// key or certificate file changes, in addition to the periodic reload.
func WithCertWatch() Option {
	return func(s *Server) {
		s.watch = true
	}
}

// WithWatchDebounce sets how long file events are collected before a reload.
func WithWatchDebounce(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.watchDebounce = d
		}
	}
}

// WithDefaultDomain serves the certificate of domain to clients whose server
// name is empty or unknown. Without it those handshakes fail.
func WithDefaultDomain(domain string) Option {
	return func(s *Server) {
		s.defaultDomain = domain
	}
}

// WithReloadInterval sets how often certificates are reloaded and renewed.
func WithReloadInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.reloadInterval = d
		}
	}
}

// WithHost binds listeners to a specific interface instead of all of them.
func WithHost(host string) Option {
	return func(s *Server) {
		s.host = host
	}
}

// WithReadTimeout sets the maximum duration for reading the entire request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.readTimeout = d
	}
}

// WithWriteTimeout sets the maximum duration before timing out writes of the response.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

// WithIdleTimeout sets the keep-alive timeout.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.idleTimeout = d
	}
}

// WithShutdownTimeout sets the maximum time Run waits for graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// WithMaxHeaderBytes limits the size of request headers.
func WithMaxHeaderBytes(n int) Option {
	return func(s *Server) {
		s.maxHeaderBytes = n
	}
}
