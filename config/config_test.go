package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigWithRoot(t *testing.T) {
	for _, key := range []string{"FORECAST_URL", "BACKEND_URL", "FORECAST_TIMEOUT", "RESULTS_DIR", "DATA_DIR", "FORECASTGO_LOG_FILE"} {
		t.Setenv(key, "")
	}
	root := t.TempDir()
	cfg := DefaultConfigWithRoot(root)

	assert.Equal(t, root, cfg.ProjectDir)
	assert.Equal(t, filepath.Join(root, "results"), cfg.ResultsDir)
	assert.Equal(t, filepath.Join(root, "data", "forecastgo.log"), cfg.LogFile)
	assert.Equal(t, DefaultForecastURL, cfg.ForecastURL)
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://legacy:8000/forecast")
	t.Setenv("FORECAST_URL", "https://forecast.example.com/forecast")
	t.Setenv("FORECAST_TIMEOUT", "30s")
	t.Setenv("FORECASTGO_DEBUG", "true")
	t.Setenv("FORECASTGO_LOG_LEVEL", "warn")

	cfg := DefaultConfigWithRoot(t.TempDir())
	assert.Equal(t, "https://forecast.example.com/forecast", cfg.ForecastURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestApplyEnvBackendAlias(t *testing.T) {
	t.Setenv("FORECAST_URL", "")
	t.Setenv("BACKEND_URL", "http://legacy:8000/forecast")

	cfg := DefaultConfigWithRoot(t.TempDir())
	assert.Equal(t, "http://legacy:8000/forecast", cfg.ForecastURL)
}

func TestApplyEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("FORECAST_TIMEOUT", "soon")
	t.Setenv("FORECASTGO_DEBUG", "maybe")

	cfg := DefaultConfigWithRoot(t.TempDir())
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout)
	assert.False(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"https", func(c *Config) { c.ForecastURL = "https://host/forecast" }, true},
		{"bad scheme", func(c *Config) { c.ForecastURL = "ftp://host/forecast" }, false},
		{"no host", func(c *Config) { c.ForecastURL = "http:///forecast" }, false},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{ForecastURL: DefaultForecastURL, RequestTimeout: time.Second, LogLevel: "info"}
			tc.mutate(cfg)
			if tc.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		ProjectDir: root,
		ResultsDir: filepath.Join(root, "out", "results"),
		DataDir:    filepath.Join(root, "data"),
		LogFile:    filepath.Join(root, "logs", "app.log"),
	}
	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.ResultsDir)
	assert.DirExists(t, cfg.DataDir)
	assert.DirExists(t, filepath.Join(root, "logs"))
}

func TestSet(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())

	require.NoError(t, cfg.Set("forecast_url", " https://forecast.example.com/forecast "))
	require.NoError(t, cfg.Set("Request_Timeout", "90s"))
	require.NoError(t, cfg.Set("debug", "1"))
	require.NoError(t, cfg.Set("results_dir", "/srv/forecasts"))

	assert.Equal(t, "https://forecast.example.com/forecast", cfg.ForecastURL)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/srv/forecasts", cfg.ResultsDir)

	assert.Error(t, cfg.Set("request_timeout", "soon"))
	assert.Error(t, cfg.Set("debug", "maybe"))
	assert.ErrorContains(t, cfg.Set("api_key", "x"), "forecast_url")
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
}
