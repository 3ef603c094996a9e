package server

import "time"

const (
	// DefaultReadTimeout is the default timeout for reading the request.
	DefaultReadTimeout = 15 * time.Second

	// DefaultWriteTimeout bounds writing a response. Zero disables it so
	// long range streams are not cut off; slow clients are limited by
	// IdleTimeout and the TCP stack instead.
	DefaultWriteTimeout = time.Duration(0)

	// DefaultIdleTimeout is the default keep-alive timeout.
	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout is used by Run when the parent context is canceled.
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultMaxHeaderBytes is the default maximum size of request headers.
	DefaultMaxHeaderBytes = 1 << 20 // 1 MB

	// DefaultReloadInterval is how often certificates are reloaded from disk
	// and, with auto-renew enabled, renewal is attempted.
	DefaultReloadInterval = 24 * time.Hour

	// DefaultWatchDebounce collapses bursts of file events into one reload.
	DefaultWatchDebounce = 500 * time.Millisecond

	// DefaultLoadConcurrency caps parallel certificate file reads.
	DefaultLoadConcurrency = 8

	// HTTPSPort is omitted from redirect locations.
	HTTPSPort = 443
)

// Access control headers sent in reply to OPTIONS requests.
const (
	allowMethods = "GET, PUT, POST, DELETE, OPTIONS"
	allowOrigin  = "*"
)
