package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultForecastURL    = "http://127.0.0.1:8000/forecast"
	DefaultRequestTimeout = 2 * time.Minute
)

type Config struct {
	ProjectDir string `json:"project_dir" yaml:"project_dir"`
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	LogFile    string `json:"log_file" yaml:"log_file"`

	// Forecast service
	ForecastURL    string        `json:"forecast_url" yaml:"forecast_url"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	UserAgent      string        `json:"user_agent" yaml:"user_agent"`

	Debug    bool   `json:"debug" yaml:"debug"`
	LogLevel string `json:"log_level" yaml:"log_level"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	return DefaultConfigWithRoot(currentDir)
}

// DefaultConfigWithRoot roots the working directories at root, then applies
// .env and environment overrides.
func DefaultConfigWithRoot(root string) *Config {
	cfg := &Config{
		ProjectDir: root,
		ResultsDir: filepath.Join(root, "results"),
		DataDir:    filepath.Join(root, "data"),
		LogFile:    filepath.Join(root, "data", "forecastgo.log"),

		ForecastURL:    DefaultForecastURL,
		RequestTimeout: DefaultRequestTimeout,
		UserAgent:      "ForecastGo/1.0",

		Debug:    false,
		LogLevel: "info",
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.ApplyEnv()

	return cfg
}

// ApplyEnv overrides fields from environment variables that are set.
func (c *Config) ApplyEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("FORECASTGO_LOG_FILE"); val != "" {
		c.LogFile = val
	}

	// BACKEND_URL is kept as an alias
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.ForecastURL = val
	}
	if val := os.Getenv("FORECAST_URL"); val != "" {
		c.ForecastURL = val
	}
	if val := os.Getenv("FORECAST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RequestTimeout = d
		}
	}
	if val := os.Getenv("FORECASTGO_USER_AGENT"); val != "" {
		c.UserAgent = val
	}

	if val := os.Getenv("FORECASTGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("FORECASTGO_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.ForecastURL))
	if err != nil {
		return fmt.Errorf("forecast_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("forecast_url must be http or https, got %q", c.ForecastURL)
	}
	if u.Host == "" {
		return fmt.Errorf("forecast_url has no host: %q", c.ForecastURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir}
	if c.LogFile != "" {
		dirs = append(dirs, filepath.Dir(c.LogFile))
	}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

// SettableKeys lists the keys accepted by Set, in display order.
var SettableKeys = []string{
	"forecast_url", "request_timeout", "user_agent",
	"debug", "log_level", "log_file",
	"project_dir", "results_dir", "data_dir",
}

// Set assigns one field by its YAML key. Durations use Go syntax such as
// "90s" and booleans accept anything strconv.ParseBool does.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "forecast_url":
		c.ForecastURL = value
	case "request_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		c.RequestTimeout = d
	case "user_agent":
		c.UserAgent = value
	case "debug":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		c.Debug = enabled
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "project_dir":
		c.ProjectDir = value
	case "results_dir":
		c.ResultsDir = value
	case "data_dir":
		c.DataDir = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(SettableKeys, ", "))
	}
	return nil
}
