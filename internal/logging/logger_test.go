package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/ForecastGo/config"
)

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "forecastgo.log")
	logger, closer, err := New(&config.Config{LogFile: path, LogLevel: "info"})
	require.NoError(t, err)

	logger.WithField("ticker", "AAPL").Info("forecast requested")
	logger.Debug("hidden at info")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "forecast requested")
	assert.Contains(t, string(data), "ticker=AAPL")
	assert.NotContains(t, string(data), "hidden at info")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, Level(&config.Config{Debug: true, LogLevel: "error"}))
	assert.Equal(t, logrus.WarnLevel, Level(&config.Config{LogLevel: "warn"}))
	assert.Equal(t, logrus.InfoLevel, Level(&config.Config{LogLevel: "bogus"}))
	assert.Equal(t, logrus.InfoLevel, Level(&config.Config{}))
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, closer, err := New(&config.Config{})
	require.NoError(t, err)
	defer closer.Close()
	logger.Info("nowhere")
}
