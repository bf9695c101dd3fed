package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/logging"
)

// Version is set at build time with -ldflags.
var Version = "v1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "forecastgo",
		Short: "ForecastGo - stock price forecasts in your terminal",
		Long: `ForecastGo requests a price forecast for a ticker over a date range from a
forecasting service and shows the previous trading day summary plus the
moving average, forecast and trend charts it returns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start interactive mode
			rt, err := loadRuntime(cmd, flags)
			if err != nil {
				return err
			}
			defer rt.Close()
			return runInteractiveMode(cmd.Context(), rt)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newForecastCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(flags))

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.endpoint, "endpoint", "", "Forecast service URL (overrides config and FORECAST_URL)")

	return rootCmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ForecastGo %s\n", Version)
			fmt.Fprintln(out, "Terminal client for the stock forecast service")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(flags *globalFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect, change and validate ForecastGo configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			showConfig(cmd.OutOrStdout(), path, &cfg)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one value in the configuration file",
		Long: fmt.Sprintf(`Change one value in the configuration file. A running interactive session
picks the change up without restarting.
Keys: %s
Example: forecastgo config set request_timeout 90s`, strings.Join(config.SettableKeys, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.OutOrStdout(), flags, args[0], args[1])
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, flags)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return configCmd
}

// showConfig displays the effective configuration
func showConfig(out io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(out, "📋 Current ForecastGo Configuration:")
	fmt.Fprintln(out, "═══════════════════════════════════════")
	fmt.Fprintf(out, "Config File:          %s\n", path)
	fmt.Fprintf(out, "Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Fprintf(out, "Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Fprintf(out, "Data Directory:       %s\n", cfg.DataDir)
	fmt.Fprintf(out, "Log File:             %s\n", cfg.LogFile)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Forecast URL:         %s\n", cfg.ForecastURL)
	fmt.Fprintf(out, "Request Timeout:      %s\n", cfg.RequestTimeout)
	fmt.Fprintf(out, "User Agent:           %s\n", cfg.UserAgent)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Debug Mode:           %t\n", cfg.Debug)
	fmt.Fprintf(out, "Log Level:            %s\n", cfg.LogLevel)
}

// setConfigValue writes one key to the config file. Environment and flag
// overrides are not persisted.
func setConfigValue(out io.Writer, flags *globalFlags, key, value string) error {
	manager, err := config.NewManager(
		config.WithConfigPath(flags.configPath),
		config.WithLogger(logging.Discard()),
	)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cfg := manager.Get()
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := manager.Update(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	DisplaySuccess(out, fmt.Sprintf("Set %s = %s in %s", strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value), manager.Path()))
	return nil
}

// validateConfig loads and checks the configuration step by step
func validateConfig(cmd *cobra.Command, flags *globalFlags) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Validating ForecastGo Configuration...")
	fmt.Fprintln(out, "═══════════════════════════════════════")

	fmt.Fprint(out, "⚙️  Checking configuration values... ")
	rt, err := loadRuntime(cmd, flags)
	if err != nil {
		fmt.Fprintln(out, "❌")
		return err
	}
	defer rt.Close()
	fmt.Fprintln(out, "✅")

	fmt.Fprint(out, "📁 Checking directories... ")
	if err := rt.cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(out, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(out, "✅")

	fmt.Fprintln(out)
	fmt.Fprintln(out, "✅ Configuration validation completed successfully!")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "💡 Tips:")
	fmt.Fprintln(out, "  • Set FORECAST_URL to point at your forecast service")
	fmt.Fprintln(out, "  • Use 'forecastgo forecast --ticker AAPL --start 2024-01-01 --end 2024-03-01' for a one-shot run")
	return nil
}
