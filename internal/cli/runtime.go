package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/dataflows"
	"github.com/dyike/ForecastGo/internal/logging"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	debug      bool
	configPath string
	endpoint   string
}

// runtime is what a command needs once config has been resolved.
type runtime struct {
	cfg     *config.Config
	manager *config.Manager
	log     *logrus.Logger
	closer  io.Closer
	client  *dataflows.ForecastClient

	// endpointPinned is set when --endpoint was given; config reloads then
	// leave the endpoint alone.
	endpointPinned bool
}

// loadRuntime resolves config in order file, environment, flags, then opens
// the log file and builds the forecast client.
func loadRuntime(cmd *cobra.Command, flags *globalFlags) (*runtime, error) {
	manager, err := config.NewManager(
		config.WithConfigPath(flags.configPath),
		config.WithLogger(logging.Discard()),
	)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := manager.Get()
	cfg.ApplyEnv()
	applyFlagOverrides(cmd, &cfg, flags)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	log, closer, err := logging.New(&cfg)
	if err != nil {
		return nil, err
	}
	manager.SetLogger(log)
	log.WithFields(logrus.Fields{
		"config":   manager.Path(),
		"endpoint": cfg.ForecastURL,
		"timeout":  cfg.RequestTimeout,
	}).Debug("configuration loaded")

	return &runtime{
		cfg:     &cfg,
		manager: manager,
		log:     log,
		closer:  closer,
		client:  dataflows.NewForecastClient(&cfg, log),

		endpointPinned: strings.TrimSpace(flags.endpoint) != "",
	}, nil
}

// loadConfig resolves config the same way as loadRuntime but touches nothing
// on disk.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, string, error) {
	path, err := resolveConfigPath(flags)
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, "", err
	}
	cfg.ApplyEnv()
	applyFlagOverrides(cmd, &cfg, flags)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, path, nil
}

func resolveConfigPath(flags *globalFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	return config.DefaultConfigPath()
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config, flags *globalFlags) {
	if cmd.Flags().Changed("debug") {
		cfg.Debug = flags.debug
	}
	if endpoint := strings.TrimSpace(flags.endpoint); endpoint != "" {
		cfg.ForecastURL = endpoint
	}
}

func (rt *runtime) Close() error {
	if rt == nil || rt.closer == nil {
		return nil
	}
	return rt.closer.Close()
}
