package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/ForecastGo/internal/display"
	"github.com/dyike/ForecastGo/internal/forecast"
)

var (
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true).
			Align(lipgloss.Center).
			Width(80)

	taglineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Italic(true).
			Align(lipgloss.Center).
			Width(80).
			MarginBottom(1)

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner(out io.Writer) {
	fmt.Fprintln(out, welcomeStyle.Render("📈 F O R E C A S T G O 📈"))
	fmt.Fprintln(out, taglineStyle.Render("Price forecasts, moving averages and trends for any ticker"))
}

// ClearScreen clears the terminal screen
func ClearScreen(out io.Writer) {
	fmt.Fprint(out, "\033[2J\033[H")
}

// DisplayError shows an error message
func DisplayError(out io.Writer, err error) {
	fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Error: %s", err.Error())))
}

// DisplayInfo shows an info message
func DisplayInfo(out io.Writer, message string) {
	fmt.Fprintln(out, infoStyle.Render(fmt.Sprintf("ℹ️  %s", message)))
}

// DisplaySuccess shows a success message
func DisplaySuccess(out io.Writer, message string) {
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s", message)))
}

// toastNotifier prints controller notifications as they arrive and keeps
// the most recent one so it survives the next screen redraw.
type toastNotifier struct {
	out  io.Writer
	view *display.ResultsDisplay

	mu   sync.Mutex
	last *forecast.Notification
}

func newToastNotifier(out io.Writer, view *display.ResultsDisplay) *toastNotifier {
	return &toastNotifier{out: out, view: view}
}

func (t *toastNotifier) Notify(n forecast.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = &n
	fmt.Fprintln(t.out, t.view.Toast(n))
}

// Take returns and clears the pending toast.
func (t *toastNotifier) Take() (forecast.Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return forecast.Notification{}, false
	}
	n := *t.last
	t.last = nil
	return n, true
}
