package server

import (
	"fmt"
	"path/filepath"
	"time"
)

// Certbot file names inside a per-domain live directory.
const (
	CertbotKeyFile  = "privkey.pem"
	CertbotCertFile = "fullchain.pem"
)

// Config holds server configuration with environment variable support.
type Config struct {
	Host         string `env:"WEBSERVER_HOST" envDefault:""`
	Port         int    `env:"WEBSERVER_PORT" envDefault:"8080"`
	RedirectPort int    `env:"WEBSERVER_REDIRECT_PORT" envDefault:"0"`

	// TLS: one certbot live directory per domain under CertDir.
	CertDir        string        `env:"WEBSERVER_TLS_CERT_DIR" envDefault:"/etc/letsencrypt/live"`
	Domains        []string      `env:"WEBSERVER_TLS_DOMAINS" envSeparator:","`
	DefaultDomain  string        `env:"WEBSERVER_TLS_DEFAULT_DOMAIN" envDefault:""`
	WatchCerts     bool          `env:"WEBSERVER_TLS_WATCH" envDefault:"false"`
	ReloadInterval time.Duration `env:"WEBSERVER_TLS_RELOAD_INTERVAL" envDefault:"24h"`
	AutoRenew      bool          `env:"WEBSERVER_TLS_AUTO_RENEW" envDefault:"false"`
	RenewCommand   []string      `env:"WEBSERVER_TLS_RENEW_COMMAND" envSeparator:" " envDefault:"certbot renew"`

	// Timeouts
	ReadTimeout     time.Duration `env:"WEBSERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WEBSERVER_WRITE_TIMEOUT" envDefault:"0s"`
	IdleTimeout     time.Duration `env:"WEBSERVER_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"WEBSERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	MaxHeaderBytes int `env:"WEBSERVER_MAX_HEADER_BYTES" envDefault:"1048576"` // 1MB
}

// DefaultConfig returns a Config with the same values as the env defaults.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		CertDir:         "/etc/letsencrypt/live",
		ReloadInterval:  DefaultReloadInterval,
		RenewCommand:    []string{"certbot", "renew"},
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		MaxHeaderBytes:  DefaultMaxHeaderBytes,
	}
}

// Options converts the listener part of the config.
func (c Config) Options() Options {
	opts := Options{
		Port:         c.Port,
		RedirectPort: c.RedirectPort,
		AutoRenew:    c.AutoRenew,
	}
	if len(c.Domains) > 0 {
		opts.TLS = CertificatesFromDir(c.CertDir, c.Domains...)
	}
	return opts
}

// NewFromConfig creates a Server from configuration.
// Additional options can override config values.
func NewFromConfig(cfg Config, handler HandlerFunc, opts ...Option) (*Server, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Port)
	}
	if cfg.RedirectPort < 0 || cfg.RedirectPort > 65535 {
		return nil, fmt.Errorf("%w: redirect %d", ErrInvalidPort, cfg.RedirectPort)
	}

	configOpts := []Option{
		WithHost(cfg.Host),
		WithDefaultDomain(cfg.DefaultDomain),
		WithReloadInterval(cfg.ReloadInterval),
		WithReadTimeout(cfg.ReadTimeout),
		WithWriteTimeout(cfg.WriteTimeout),
		WithIdleTimeout(cfg.IdleTimeout),
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	if cfg.MaxHeaderBytes > 0 {
		configOpts = append(configOpts, WithMaxHeaderBytes(cfg.MaxHeaderBytes))
	}
	if cfg.WatchCerts {
		configOpts = append(configOpts, WithCertWatch())
	}
	if len(cfg.RenewCommand) > 0 {
		configOpts = append(configOpts, WithRenewer(CommandRenewer{
			Name: cfg.RenewCommand[0],
			Args: cfg.RenewCommand[1:],
		}))
	}

	configOpts = append(configOpts, opts...)

	return New(cfg.Options(), handler, configOpts...), nil
}

// CertificatesFromDir builds entries for the certbot layout
// <dir>/<domain>/privkey.pem and <dir>/<domain>/fullchain.pem.
func CertificatesFromDir(dir string, domains ...string) map[string]CertificateEntry {
	entries := make(map[string]CertificateEntry, len(domains))
	for _, d := range domains {
		d = normalizeServerName(d)
		if d == "" {
			continue
		}
		entries[d] = CertificateEntry{
			KeyFile:  filepath.Join(dir, d, CertbotKeyFile),
			CertFile: filepath.Join(dir, d, CertbotCertFile),
		}
	}
	return entries
}
