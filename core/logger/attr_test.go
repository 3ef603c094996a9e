package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserver/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "id", g[0].Key)
	assert.Equal(t, "n", g[1].Key)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "0", g[0].Key)
	assert.Equal(t, "2", g[1].Key)
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil, nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDuration(t *testing.T) {
	t.Parallel()
	attr := logger.Duration(5 * time.Second)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, 5*time.Second, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	attr := logger.Elapsed(time.Now().Add(-time.Second))
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), time.Second)
}

func TestEmptyIdentifiers(t *testing.T) {
	t.Parallel()
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.Domain("").Equal(slog.Attr{}))
	assert.True(t, logger.ClientIP("").Equal(slog.Attr{}))
}

func TestHTTPAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"method", logger.Method("GET"), "method", "GET"},
		{"path", logger.Path("/a"), "path", "/a"},
		{"status", logger.StatusCode(206), "status_code", int64(206)},
		{"client_ip", logger.ClientIP("10.0.0.1"), "client_ip", "10.0.0.1"},
		{"bytes_out", logger.BytesOut(42), "bytes_out", int64(42)},
		{"request_id", logger.RequestID("abc"), "request_id", "abc"},
		{"domain", logger.Domain("example.com"), "domain", "example.com"},
		{"addr", logger.Addr(":443"), "addr", ":443"},
		{"component", logger.Component("server"), "component", "server"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}
