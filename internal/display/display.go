package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dyike/ForecastGo/internal/charts"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/models"
)

const (
	defaultWidth   = 80
	dataURIPreview = 40
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#10B981")).
			Padding(1, 2)

	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	selectedMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render("▶")
)

// ResultsDisplay renders controller snapshots. Every method is a pure
// function of its arguments.
type ResultsDisplay struct {
	width int
}

// NewResultsDisplay creates a renderer for the given terminal width.
func NewResultsDisplay(width int) *ResultsDisplay {
	if width <= 0 {
		width = defaultWidth
	}
	return &ResultsDisplay{width: width}
}

// Render draws the whole screen for one snapshot.
func (d *ResultsDisplay) Render(snap forecast.Snapshot) string {
	sections := []string{
		titleStyle.Render("📈 ForecastGo"),
		d.InputPanel(snap.Input),
		d.StatusBanner(snap.State),
	}
	if result, ok := snap.Result(); ok {
		sections = append(sections,
			d.Metrics(result.PreviousDayInfo),
			d.ChartList(snap.Selection),
		)
		if snap.HasSelection() {
			sections = append(sections, d.ChartModal(snap.Selection, result.Charts.Get(snap.Selection)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// InputPanel shows what the user has entered so far.
func (d *ResultsDisplay) InputPanel(in models.RequestInput) string {
	rows := []string{
		d.row("Ticker", orPlaceholder(in.Ticker)),
		d.row("Start Date", orPlaceholder(models.FormatDate(in.StartDate))),
		d.row("End Date", orPlaceholder(models.FormatDate(in.EndDate))),
	}
	return panelStyle.Width(d.width - 2).Render(strings.Join(rows, "\n"))
}

// StatusBanner renders the request state. Failed keeps its message inline
// until the next submit.
func (d *ResultsDisplay) StatusBanner(state forecast.RequestState) string {
	switch s := state.(type) {
	case forecast.Loading:
		return loadingStyle.Render(fmt.Sprintf("⏳ Loading forecast (request #%d)...", s.Seq))
	case forecast.Success:
		return successStyle.Render("✅ Forecast ready")
	case forecast.Failed:
		return errorStyle.Render("❌ " + s.Message)
	default:
		return idleStyle.Render("Enter a ticker and date range, then choose Get Forecast.")
	}
}

// Metrics shows the previous trading day summary.
func (d *ResultsDisplay) Metrics(info models.PreviousDayInfo) string {
	rows := []string{
		valueStyle.Render("📊 Previous Day"),
		d.row("Close", info.PreviousClose.StringFixed(2)),
		d.row("Open", info.PreviousOpen.StringFixed(2)),
		d.row("High", info.PreviousHigh.StringFixed(2)),
		d.row("Volume", humanize.Comma(info.Volume)),
	}
	return panelStyle.Width(d.width - 2).Render(strings.Join(rows, "\n"))
}

// ChartList lists the available charts and marks the open one.
func (d *ResultsDisplay) ChartList(selected models.ChartID) string {
	lines := []string{valueStyle.Render("🖼  Charts")}
	for _, id := range models.AllCharts {
		mark := " "
		if id == selected {
			mark = selectedMark
		}
		lines = append(lines, fmt.Sprintf("%s %-15s %s", mark, id, labelStyle.Render(id.GetDisplayName())))
	}
	return panelStyle.Width(d.width - 2).Render(strings.Join(lines, "\n"))
}

// ChartModal is the enlarged view of one chart.
func (d *ResultsDisplay) ChartModal(id models.ChartID, encoded string) string {
	lines := []string{valueStyle.Render(id.GetDisplayName())}
	if info, err := charts.Inspect(id, encoded); err == nil {
		lines = append(lines, d.row("Size", fmt.Sprintf("%dx%d px, %s", info.Width, info.Height, humanize.Bytes(uint64(info.Bytes)))))
	} else {
		lines = append(lines, d.row("Size", "(unreadable image)"))
	}
	lines = append(lines,
		d.row("Source", truncate(charts.DataURI(encoded), dataURIPreview)),
		"",
		labelStyle.Render("Choose Close chart to dismiss."),
	)
	return modalStyle.Width(d.width - 2).Render(strings.Join(lines, "\n"))
}

// Toast renders a transient notification.
func (d *ResultsDisplay) Toast(n forecast.Notification) string {
	icon := "⚠️ "
	if n.Kind == forecast.KindService {
		icon = "❌"
	}
	return errorStyle.Render(fmt.Sprintf("%s %s", icon, n.Message))
}

func (d *ResultsDisplay) row(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-11s", label+":")), value)
}

func orPlaceholder(s string) string {
	if s == "" {
		return labelStyle.Render("(empty)")
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
