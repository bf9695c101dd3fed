package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dyike/ForecastGo/internal/charts"
	"github.com/dyike/ForecastGo/internal/display"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/models"
)

type forecastFlags struct {
	ticker    string
	start     string
	end       string
	chart     string
	exportDir string
	dataURI   bool
}

// newForecastCmd creates the one-shot forecast command
func newForecastCmd(global *globalFlags) *cobra.Command {
	flags := &forecastFlags{}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Request a forecast once and print the result",
		Long: `Request a price forecast for a ticker over a date range and print the
previous day summary and chart list.
Example: forecastgo forecast --ticker AAPL --start 2024-01-01 --end 2024-03-01 --chart trend`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, chart, err := flags.parse()
			if err != nil {
				return err
			}
			rt, err := loadRuntime(cmd, global)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runForecastCommand(ctx, cmd.OutOrStdout(), rt, in, chart, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ticker, "ticker", "t", "", "Ticker symbol, e.g. AAPL")
	cmd.Flags().StringVar(&flags.start, "start", "", "Start date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&flags.end, "end", "", "End date in YYYY-MM-DD format")
	cmd.Flags().StringVar(&flags.chart, "chart", "", "Chart to open: mav, forecast, trend or trend_forecast")
	cmd.Flags().StringVar(&flags.exportDir, "export", "", "Write the charts and a markdown summary to this directory")
	cmd.Flags().BoolVar(&flags.dataURI, "data-uri", false, "Print the data URI of the opened chart")

	return cmd
}

func (f *forecastFlags) parse() (models.RequestInput, models.ChartID, error) {
	start, err := models.ParseDate(f.start)
	if err != nil {
		return models.RequestInput{}, "", err
	}
	end, err := models.ParseDate(f.end)
	if err != nil {
		return models.RequestInput{}, "", err
	}
	var chart models.ChartID
	if f.chart != "" {
		if chart, err = models.ParseChartID(f.chart); err != nil {
			return models.RequestInput{}, "", err
		}
	}
	in := models.RequestInput{Ticker: normalizeTicker(f.ticker), StartDate: start, EndDate: end}
	return in, chart, nil
}

// runForecastCommand drives a controller through one submit, printing each
// status transition, then renders the final snapshot.
func runForecastCommand(ctx context.Context, out io.Writer, rt *runtime, in models.RequestInput, chart models.ChartID, flags *forecastFlags) error {
	view := display.NewResultsDisplay(80)
	ctrl := forecast.NewController(rt.client,
		forecast.WithLogger(rt.log),
		forecast.WithNotifier(newToastNotifier(out, view)),
	)
	defer ctrl.Close()

	last := ctrl.Snapshot().State.Status()
	unsubscribe := ctrl.Subscribe(func(snap forecast.Snapshot) {
		status := snap.State.Status()
		if status == last {
			return
		}
		last = status
		fmt.Fprintln(out, view.StatusBanner(snap.State))
	})
	defer unsubscribe()

	ctrl.SetInput(in)
	pending, err := ctrl.Submit()
	if err != nil {
		return err
	}
	if err := pending.Wait(ctx); err != nil {
		return err
	}

	snap := ctrl.Snapshot()
	if failed, ok := snap.State.(forecast.Failed); ok {
		return errors.New(failed.Message)
	}

	if chart != "" {
		if err := ctrl.SelectChart(chart); err != nil {
			return err
		}
		snap = ctrl.Snapshot()
	}
	fmt.Fprintln(out, view.Render(snap))

	result, _ := snap.Result()
	if _, err := charts.InspectAll(result); err != nil {
		rt.log.WithError(err).Warn("forecast returned unreadable charts")
	}
	if flags.dataURI && snap.HasSelection() {
		fmt.Fprintln(out, charts.DataURI(result.Charts.Get(snap.Selection)))
	}
	if flags.exportDir != "" {
		exported, err := charts.Export(flags.exportDir, snap.Input, result)
		if err != nil {
			return fmt.Errorf("export charts: %w", err)
		}
		DisplaySuccess(out, fmt.Sprintf("Exported %d charts to %s", len(exported.Images), exported.Dir))
	}
	return nil
}
