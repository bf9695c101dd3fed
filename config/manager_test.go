package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)

	path := filepath.Join(dir, "config.yaml")
	_, err = os.Stat(path)
	require.NoError(t, err, "config file not created")

	cfg := mgr.Get()
	cfg.ForecastURL = "http://forecast.internal:9000/forecast"

	require.NoError(t, cfg.Set("request_timeout", "45s"))
	require.NoError(t, mgr.Update(cfg))

	updated := mgr.Get()
	assert.Equal(t, cfg.ForecastURL, updated.ForecastURL)
	assert.Equal(t, 45*time.Second, updated.RequestTimeout)

	reopened, err := NewManager(WithConfigDir(dir))
	require.NoError(t, err)
	assert.Equal(t, updated, reopened.Get())
}

func TestManagerRejectsInvalidUpdate(t *testing.T) {
	mgr, err := NewManager(WithConfigDir(t.TempDir()))
	require.NoError(t, err)

	cfg := mgr.Get()
	cfg.ForecastURL = "ftp://example.com"
	assert.Error(t, mgr.Update(cfg))
	assert.NotEqual(t, "ftp://example.com", mgr.Get().ForecastURL)
}

func TestManagerUsesInitialConfig(t *testing.T) {
	initial := DefaultConfigWithRoot(t.TempDir())
	initial.ForecastURL = "https://forecast.example.com/forecast"

	mgr, err := NewManager(WithConfigDir(t.TempDir()), WithInitialConfig(initial))
	require.NoError(t, err)
	assert.Equal(t, initial.ForecastURL, mgr.Get().ForecastURL)
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithConfigDir(dir), WithDebounce(50*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Config, 1)
	require.NoError(t, mgr.Watch(ctx, func(cfg Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	}))

	cfg := mgr.Get()
	cfg.ForecastURL = "http://10.0.0.5:8000/forecast"
	require.NoError(t, writeConfigFile(mgr.Path(), cfg))

	select {
	case got := <-reloaded:
		assert.Equal(t, cfg.ForecastURL, got.ForecastURL)
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on config change")
	}
}

func TestManagerUpdateNotifiesWatcher(t *testing.T) {
	mgr, err := NewManager(WithConfigDir(t.TempDir()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []Config
	require.NoError(t, mgr.Watch(ctx, func(cfg Config) { got = append(got, cfg) }))

	cfg := mgr.Get()
	require.NoError(t, mgr.Update(cfg))
	assert.Empty(t, got, "unchanged config must not notify")

	cfg.UserAgent = "desk-7/2.0"
	require.NoError(t, mgr.Update(cfg))
	require.Len(t, got, 1)
	assert.Equal(t, "desk-7/2.0", got[0].UserAgent)
}

func TestLoadDoesNotCreateFile(t *testing.T) {
	t.Setenv("RESULTS_DIR", "")
	t.Setenv("FORECAST_URL", "")
	t.Setenv("BACKEND_URL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "results"), cfg.ResultsDir)
	assert.NoFileExists(t, path)

	mgr, err := NewManager(WithConfigPath(path))
	require.NoError(t, err)
	stored := mgr.Get()
	require.NoError(t, stored.Set("forecast_url", "https://forecast.example.com/forecast"))
	require.NoError(t, mgr.Update(stored))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://forecast.example.com/forecast", cfg.ForecastURL)
}
