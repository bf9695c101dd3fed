package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngPayload(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6, 4))))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func forecastServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func okBody(t *testing.T) string {
	img := pngPayload(t)
	return fmt.Sprintf(`{
  "previous_day_info": {"previous_close": 185.64, "previous_open": 184.22, "previous_high": 186.4, "volume": 48087700.0},
  "charts": {"mav": %q, "forecast": %q, "trend": %q, "trend_forecast": %q}
}`, img, img, img, img)
}

// execute runs the root command with an isolated config file.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), args...)
}

func executeWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"FORECAST_URL", "BACKEND_URL", "FORECAST_TIMEOUT", "FORECASTGO_LOG_FILE", "RESULTS_DIR", "DATA_DIR", "PROJECT_DIR"} {
		t.Setenv(key, "")
	}

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", configPath))
	err := root.Execute()
	return out.String(), err
}

func TestForecastCommandSuccess(t *testing.T) {
	srv := forecastServer(t, http.StatusOK, okBody(t))
	exportDir := filepath.Join(t.TempDir(), "export")

	out, err := execute(t, "forecast",
		"--endpoint", srv.URL+"/forecast",
		"--ticker", "aapl",
		"--start", "2024-01-01",
		"--end", "2024-03-01",
		"--chart", "trendForecast",
		"--data-uri",
		"--export", exportDir,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Loading forecast (request #1)")
	assert.Contains(t, out, "Forecast ready")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "48,087,700")
	assert.Contains(t, out, "Historical Trend + Forecast")
	assert.Contains(t, out, "data:image/png;base64,"+pngPayload(t))
	assert.FileExists(t, filepath.Join(exportDir, "AAPL_trend_forecast.png"))
	assert.FileExists(t, filepath.Join(exportDir, "AAPL_forecast.md"))
}

func TestForecastCommandValidation(t *testing.T) {
	srv := forecastServer(t, http.StatusOK, okBody(t))

	out, err := execute(t, "forecast", "--endpoint", srv.URL, "--ticker", "AAPL", "--start", "2024-01-01")
	require.EqualError(t, err, "Start Date and End Date are required.")
	assert.Contains(t, out, "Start Date and End Date are required.")
	assert.NotContains(t, out, "Loading forecast")

	_, err = execute(t, "forecast", "--endpoint", srv.URL, "--ticker", "AAPL", "--start", "2024-03-01", "--end", "2024-03-01")
	require.EqualError(t, err, "End Date must be greater than Start Date.")
}

func TestForecastCommandServiceFailure(t *testing.T) {
	srv := forecastServer(t, http.StatusInternalServerError, `{"detail":"Stock data not found"}`)

	out, err := execute(t, "forecast", "--endpoint", srv.URL, "--ticker", "ZZZZ", "--start", "2024-01-01", "--end", "2024-03-01")
	require.EqualError(t, err, "Failed to fetch data. Please try again.")
	assert.Contains(t, out, "Loading forecast")
	assert.NotContains(t, out, "Stock data not found")
}

func TestForecastCommandRejectsBadFlags(t *testing.T) {
	_, err := execute(t, "forecast", "--start", "01/02/2024", "--end", "2024-03-01")
	assert.Error(t, err)

	_, err = execute(t, "forecast", "--start", "2024-01-01", "--end", "2024-03-01", "--chart", "candles")
	assert.Error(t, err)
}

func TestForecastCommandRejectsBadEndpoint(t *testing.T) {
	_, err := execute(t, "forecast", "--endpoint", "ftp://nowhere", "--start", "2024-01-01", "--end", "2024-03-01")
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ForecastGo "+Version)
}

func TestConfigShowUsesEndpointOverride(t *testing.T) {
	out, err := execute(t, "config", "show", "--endpoint", "https://forecast.example.com/forecast")
	require.NoError(t, err)
	assert.Contains(t, out, "https://forecast.example.com/forecast")
	assert.Contains(t, out, "config.yaml")
}

func TestConfigShowTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	out, err := executeWithConfig(t, configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)
	assert.Contains(t, out, filepath.Join(dir, "results"))

	assert.NoFileExists(t, configPath)
	assert.NoDirExists(t, filepath.Join(dir, "results"))
	assert.NoDirExists(t, filepath.Join(dir, "data"))
}

func TestConfigSetPersists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	out, err := executeWithConfig(t, configPath, "config", "set", "forecast_url", "https://forecast.example.com/forecast")
	require.NoError(t, err)
	assert.Contains(t, out, "Set forecast_url = https://forecast.example.com/forecast")

	_, err = executeWithConfig(t, configPath, "config", "set", "request_timeout", "90s")
	require.NoError(t, err)

	out, err = executeWithConfig(t, configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "https://forecast.example.com/forecast")
	assert.Contains(t, out, "1m30s")
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	_, err := executeWithConfig(t, configPath, "config", "set", "forecast_url", "ftp://nowhere")
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = executeWithConfig(t, configPath, "config", "set", "api_key", "secret")
	assert.ErrorContains(t, err, "unknown config key")

	_, err = executeWithConfig(t, configPath, "config", "set", "request_timeout")
	assert.Error(t, err)

	out, err := executeWithConfig(t, configPath, "config", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "ftp://nowhere")
}

func TestConfigValidate(t *testing.T) {
	out, err := execute(t, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration validation completed successfully")
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	path := filepath.Clean(string(bytes.TrimSpace([]byte(out))))
	assert.Equal(t, "config.yaml", filepath.Base(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "config path must not create the file")
}
