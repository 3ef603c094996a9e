package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/webserver/core/logger"
	"github.com/dmitrymomot/webserver/core/metrics"
)

// CertificateEntry locates the PEM encoded key pair of one domain.
type CertificateEntry struct {
	KeyFile  string
	CertFile string
}

// Loader turns an entry into a parsed certificate.
type Loader func(entry CertificateEntry) (*tls.Certificate, error)

// LoadKeyPair is the default Loader. It reads both files from disk.
func LoadKeyPair(entry CertificateEntry) (*tls.Certificate, error) {
	if entry.KeyFile == "" || entry.CertFile == "" {
		return nil, ErrEmptyCertPath
	}
	cert, err := tls.LoadX509KeyPair(entry.CertFile, entry.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedLoadCert, err)
	}
	return &cert, nil
}

// CertCache maps server names to certificates.
//
// Readers (TLS handshakes) never lock: they load an immutable snapshot.
// Reload builds a complete new map and publishes it with a single store, so a
// handshake sees either the old set or the new set, never a partial one.
type CertCache struct {
	entries       map[string]CertificateEntry
	loader        Loader
	logger        *slog.Logger
	metrics       *metrics.Collector
	defaultDomain string
	concurrency   int

	reloadMu sync.Mutex
	snapshot atomic.Pointer[map[string]*tls.Certificate]
}

// CacheOption configures a CertCache.
type CacheOption func(*CertCache)

// WithLoader replaces the key pair loader.
func WithLoader(fn Loader) CacheOption {
	return func(c *CertCache) {
		if fn != nil {
			c.loader = fn
		}
	}
}

// WithCacheLogger sets the logger used for reload results.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(c *CertCache) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCacheMetrics records reload outcomes.
func WithCacheMetrics(m *metrics.Collector) CacheOption {
	return func(c *CertCache) {
		c.metrics = m
	}
}

// WithFallbackDomain serves the certificate of domain when the client sends
// an unknown or empty server name. Without it such handshakes fail.
func WithFallbackDomain(domain string) CacheOption {
	return func(c *CertCache) {
		c.defaultDomain = normalizeServerName(domain)
	}
}

// WithLoadConcurrency caps the number of certificates loaded in parallel.
func WithLoadConcurrency(n int) CacheOption {
	return func(c *CertCache) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewCertCache creates an empty cache for entries. Call Reload to populate it.
func NewCertCache(entries map[string]CertificateEntry, opts ...CacheOption) *CertCache {
	c := &CertCache{
		entries:     make(map[string]CertificateEntry, len(entries)),
		loader:      LoadKeyPair,
		logger:      logger.Discard(),
		concurrency: DefaultLoadConcurrency,
	}
	for domain, entry := range entries {
		c.entries[normalizeServerName(domain)] = entry
	}
	for _, opt := range opts {
		opt(c)
	}

	empty := make(map[string]*tls.Certificate)
	c.snapshot.Store(&empty)
	return c
}

// Reload reads every configured entry and swaps in the result.
// A domain that fails to load keeps the certificate it had before, if any;
// failures never stop other domains from loading. The returned error joins
// every per-domain failure.
func (c *CertCache) Reload(ctx context.Context) error {
	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	prev := *c.snapshot.Load()
	next := make(map[string]*tls.Certificate, len(c.entries))

	var (
		mu     sync.Mutex
		errs   []error
		failed int
	)

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for domain, entry := range c.entries {
		g.Go(func() error {
			cert, err := c.load(ctx, entry)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed++
				errs = append(errs, fmt.Errorf("%s: %w", domain, err))
				if old, ok := prev[domain]; ok {
					next[domain] = old
				}
				c.logger.ErrorContext(ctx, "certificate load failed",
					logger.Domain(domain),
					logger.File(entry.CertFile),
					logger.Error(err),
				)
				return nil
			}
			next[domain] = cert
			return nil
		})
	}
	_ = g.Wait()

	c.snapshot.Store(&next)

	loaded := len(c.entries) - failed
	c.metrics.ObserveCertificateReload(loaded, failed, len(next))
	c.logger.InfoContext(ctx, "certificates reloaded",
		logger.Count("loaded", loaded),
		logger.Count("failed", failed),
		logger.Count("cached", len(next)),
	)

	return errors.Join(errs...)
}

func (c *CertCache) load(ctx context.Context, entry CertificateEntry) (*tls.Certificate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.loader(entry)
}

// GetCertificate selects a certificate by SNI. It has the signature of
// tls.Config.GetCertificate.
func (c *CertCache) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	name := normalizeServerName(hello.ServerName)
	snap := *c.snapshot.Load()

	if cert, ok := snap[name]; ok && name != "" {
		return cert, nil
	}
	if c.defaultDomain != "" {
		if cert, ok := snap[c.defaultDomain]; ok {
			return cert, nil
		}
	}
	if name == "" {
		return nil, ErrNoServerName
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownServerName, name)
}

// Get returns the cached certificate of domain.
func (c *CertCache) Get(domain string) (*tls.Certificate, bool) {
	cert, ok := (*c.snapshot.Load())[normalizeServerName(domain)]
	return cert, ok
}

// Domains lists the domains that currently have a certificate, sorted.
func (c *CertCache) Domains() []string {
	snap := *c.snapshot.Load()
	domains := make([]string, 0, len(snap))
	for d := range snap {
		domains = append(domains, d)
	}
	slices.Sort(domains)
	return domains
}

// Len reports the number of cached certificates.
func (c *CertCache) Len() int {
	return len(*c.snapshot.Load())
}

// files lists every configured key and certificate path.
func (c *CertCache) files() []string {
	files := make([]string, 0, len(c.entries)*2)
	for _, e := range c.entries {
		files = append(files, filepath.Clean(e.CertFile), filepath.Clean(e.KeyFile))
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func normalizeServerName(name string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".")
}
