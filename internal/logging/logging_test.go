package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", zap.String("brand", "Zara"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), `"brand":"Zara"`)
}

func TestNewBadLevelDefaultsToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNamedUsesGlobal(t *testing.T) {
	prev := Logger
	defer Set(prev)

	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	Named("resolver").Debug("tier miss")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "resolver", logs.All()[0].LoggerName)
}
