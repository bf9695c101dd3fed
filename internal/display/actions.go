package display

import "github.com/dyike/ForecastGo/internal/forecast"

// Action is one entry of the interactive menu.
type Action string

const (
	ActionSubmit     Action = "🚀 Get Forecast"
	ActionViewChart  Action = "🖼  View chart"
	ActionCloseChart Action = "✖  Close chart"
	ActionEditInput  Action = "✏️  Edit input"
	ActionExport     Action = "💾 Export charts"
	ActionQuit       Action = "🚪 Quit"
)

// Actions lists the menu entries valid for a snapshot. Chart controls only
// appear once a result exists, and submit is hidden while a request is in
// flight.
func Actions(snap forecast.Snapshot) []Action {
	actions := make([]Action, 0, 6)
	if snap.State.Status() != forecast.StatusLoading {
		actions = append(actions, ActionSubmit)
	}
	if _, ok := snap.Result(); ok {
		if snap.HasSelection() {
			actions = append(actions, ActionCloseChart)
		}
		actions = append(actions, ActionViewChart, ActionExport)
	}
	return append(actions, ActionEditInput, ActionQuit)
}

// ActionLabels converts actions to prompt options.
func ActionLabels(actions []Action) []string {
	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = string(a)
	}
	return labels
}
