package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/dyike/ForecastGo/internal/display"
	"github.com/dyike/ForecastGo/internal/models"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]+$`)

// PromptForTicker prompts for a ticker symbol. Empty input is accepted; the
// forecast service decides what to do with it.
func PromptForTicker(current string) (string, error) {
	var ticker string
	prompt := &survey.Input{
		Message: "Ticker symbol (e.g., AAPL, MSFT, GOOGL):",
		Help:    "Letters, numbers, dots and hyphens. Enter keeps the current value, '-' clears it.",
		Default: current,
	}

	err := survey.AskOne(prompt, &ticker, survey.WithValidator(func(val interface{}) error {
		str := normalizeTicker(val.(string))
		if str == "" {
			return nil
		}
		if len(str) > 12 {
			return fmt.Errorf("ticker symbol too long (max 12 characters)")
		}
		if !tickerPattern.MatchString(str) {
			return fmt.Errorf("invalid ticker format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return normalizeTicker(ticker), nil
}

// PromptForDate prompts for a YYYY-MM-DD date. '-' clears the date.
func PromptForDate(label string, current time.Time) (time.Time, error) {
	var dateStr string
	prompt := &survey.Input{
		Message: fmt.Sprintf("%s (YYYY-MM-DD):", label),
		Help:    "Format: YYYY-MM-DD (e.g., 2024-01-15). Enter keeps the current value, '-' clears it.",
		Default: models.FormatDate(current),
	}

	err := survey.AskOne(prompt, &dateStr, survey.WithValidator(func(val interface{}) error {
		_, err := models.ParseDate(clearMarker(val.(string)))
		return err
	}))
	if err != nil {
		return time.Time{}, err
	}
	return models.ParseDate(clearMarker(dateStr))
}

// PromptForInput asks for all three fields, starting from the current values.
func PromptForInput(current models.RequestInput) (models.RequestInput, error) {
	ticker, err := PromptForTicker(current.Ticker)
	if err != nil {
		return current, err
	}
	start, err := PromptForDate("Start Date", current.StartDate)
	if err != nil {
		return current, err
	}
	end, err := PromptForDate("End Date", current.EndDate)
	if err != nil {
		return current, err
	}
	return models.RequestInput{Ticker: ticker, StartDate: start, EndDate: end}, nil
}

// PromptForAction shows the action menu.
func PromptForAction(actions []display.Action) (display.Action, error) {
	var selected string
	prompt := &survey.Select{
		Message: "What next?",
		Options: display.ActionLabels(actions),
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	return display.Action(selected), nil
}

// PromptForChart lets the user pick one of the four charts.
func PromptForChart(current models.ChartID) (models.ChartID, error) {
	options := make([]string, len(models.AllCharts))
	for i, id := range models.AllCharts {
		options[i] = chartOption(id)
	}
	prompt := &survey.Select{
		Message: "Select a chart to enlarge:",
		Options: options,
	}
	if current != "" {
		prompt.Default = chartOption(current)
	}

	var selected string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}
	for _, id := range models.AllCharts {
		if chartOption(id) == selected {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown chart %q", selected)
}

// PromptForExportDir asks where chart files should be written.
func PromptForExportDir(defaultDir string) (string, error) {
	var dir string
	prompt := &survey.Input{
		Message: "Export directory:",
		Default: defaultDir,
	}
	if err := survey.AskOne(prompt, &dir, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(dir), nil
}

func chartOption(id models.ChartID) string {
	return fmt.Sprintf("%s - %s", id, id.GetDisplayName())
}

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(clearMarker(s)))
}

// clearMarker maps the "-" answer to an empty value.
func clearMarker(s string) string {
	if strings.TrimSpace(s) == "-" {
		return ""
	}
	return s
}
