package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webserver/core/logger"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("production writes json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithProduction("app"), logger.WithOutput(&buf))
		log.Info("hello", logger.Component("server"))

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "hello", rec["msg"])
		assert.Equal(t, "app", rec["app"])
		assert.Equal(t, "server", rec["component"])
	})

	t.Run("development logs debug as text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("app"), logger.WithOutput(&buf))
		log.Debug("details")
		assert.Contains(t, buf.String(), "msg=details")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("level filters records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))
		log.Info("dropped")
		assert.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := logger.Discard()
	require.NotNil(t, log)
	log.Error("nothing happens")
}
