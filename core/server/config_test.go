package server_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserver/core/config"
	"github.com/dmitrymomot/webserver/core/httpcontext"
	"github.com/dmitrymomot/webserver/core/server"
)

func TestCertificatesFromDir(t *testing.T) {
	t.Parallel()

	entries := server.CertificatesFromDir("/etc/letsencrypt/live", "Example.com", "", "api.example.com")

	require.Len(t, entries, 2)
	assert.Equal(t, server.CertificateEntry{
		KeyFile:  filepath.Join("/etc/letsencrypt/live", "example.com", "privkey.pem"),
		CertFile: filepath.Join("/etc/letsencrypt/live", "example.com", "fullchain.pem"),
	}, entries["example.com"])
	assert.Contains(t, entries, "api.example.com")
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	cfg := server.DefaultConfig()
	assert.Empty(t, cfg.Options().TLS, "no domains means plain HTTP")

	cfg.Domains = []string{"a.test"}
	cfg.RedirectPort = 80
	cfg.AutoRenew = true
	opts := cfg.Options()
	assert.Equal(t, 8080, opts.Port)
	assert.Equal(t, 80, opts.RedirectPort)
	assert.True(t, opts.AutoRenew)
	assert.Contains(t, opts.TLS, "a.test")
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	noop := func(*httpcontext.Context) error { return nil }

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		s, err := server.NewFromConfig(server.DefaultConfig(), noop)
		require.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("nil handler", func(t *testing.T) {
		t.Parallel()
		_, err := server.NewFromConfig(server.DefaultConfig(), nil)
		assert.ErrorIs(t, err, server.ErrNilHandler)
	})

	t.Run("invalid ports", func(t *testing.T) {
		t.Parallel()
		cfg := server.DefaultConfig()
		cfg.Port = 70000
		_, err := server.NewFromConfig(cfg, noop)
		assert.ErrorIs(t, err, server.ErrInvalidPort)

		cfg = server.DefaultConfig()
		cfg.RedirectPort = -1
		_, err = server.NewFromConfig(cfg, noop)
		assert.ErrorIs(t, err, server.ErrInvalidPort)
	})
}

func TestConfig_FromEnv(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	t.Setenv("WEBSERVER_PORT", "8443")
	t.Setenv("WEBSERVER_REDIRECT_PORT", "8080")
	t.Setenv("WEBSERVER_TLS_DOMAINS", "a.test,b.test")
	t.Setenv("WEBSERVER_TLS_RELOAD_INTERVAL", "6h")
	t.Setenv("WEBSERVER_TLS_RENEW_COMMAND", "certbot renew --quiet")

	var cfg server.Config
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 8443, cfg.Port)
	assert.Equal(t, 8080, cfg.RedirectPort)
	assert.Equal(t, []string{"a.test", "b.test"}, cfg.Domains)
	assert.Equal(t, 6*time.Hour, cfg.ReloadInterval)
	assert.Equal(t, []string{"certbot", "renew", "--quiet"}, cfg.RenewCommand)
	assert.Equal(t, "/etc/letsencrypt/live", cfg.CertDir)
	assert.Equal(t, server.DefaultReadTimeout, cfg.ReadTimeout)
}

func TestTLSPresets(t *testing.T) {
	t.Parallel()

	assert.EqualValues(t, 0x0303, server.DefaultTLSConfig().MinVersion)
	assert.EqualValues(t, 0x0304, server.ModernTLSConfig().MinVersion)
	assert.Len(t, server.IntermediateTLSConfig().CurvePreferences, 3)
	assert.Len(t, server.DefaultTLSConfig().CurvePreferences, 2, "presets must not share slices")
	assert.True(t, server.StrictTLSConfig().SessionTicketsDisabled)
}
