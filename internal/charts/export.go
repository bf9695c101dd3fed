package charts

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/dyike/ForecastGo/internal/models"
	"github.com/dyike/ForecastGo/internal/utils"
)

// Exported lists what Export wrote.
type Exported struct {
	Dir     string
	Images  []string
	Summary string
}

// Export writes the four charts as <ticker>_<chart>.png plus a markdown
// summary <ticker>_forecast.md into dir.
func Export(dir string, in models.RequestInput, result *models.ForecastResult) (*Exported, error) {
	if result == nil {
		return nil, errors.New("nothing to export")
	}
	prefix := FilePrefix(in.Ticker)
	out := &Exported{Dir: dir}

	infos := make([]Info, 0, len(models.AllCharts))
	for _, id := range models.AllCharts {
		encoded := result.Charts.Get(id)
		raw, err := Decode(encoded)
		if err != nil {
			return out, errors.Wrapf(err, "export %s", id)
		}
		path, err := utils.WriteFile(dir, fmt.Sprintf("%s_%s.png", prefix, id), raw)
		if err != nil {
			return out, err
		}
		out.Images = append(out.Images, path)

		info, err := Inspect(id, encoded)
		if err != nil {
			info = Info{ID: id, Bytes: len(raw)}
		}
		infos = append(infos, info)
	}

	path, err := utils.WriteMarkdown(dir, prefix+"_forecast.md", summaryMarkdown(prefix, in, result, infos, time.Now()))
	if err != nil {
		return out, err
	}
	out.Summary = path
	return out, nil
}

// FilePrefix turns a ticker into a safe file name prefix.
func FilePrefix(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "FORECAST"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, ticker)
}

func summaryMarkdown(prefix string, in models.RequestInput, result *models.ForecastResult, infos []Info, at time.Time) string {
	info := result.PreviousDayInfo

	var b strings.Builder
	fmt.Fprintf(&b, "# %s forecast\n\n", prefix)
	fmt.Fprintf(&b, "- Window: %s to %s\n", models.FormatDate(in.StartDate), models.FormatDate(in.EndDate))
	fmt.Fprintf(&b, "- Exported: %s\n\n", at.Format(time.RFC3339))

	b.WriteString("## Previous day\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Close | %s |\n", info.PreviousClose.StringFixed(2))
	fmt.Fprintf(&b, "| Open | %s |\n", info.PreviousOpen.StringFixed(2))
	fmt.Fprintf(&b, "| High | %s |\n", info.PreviousHigh.StringFixed(2))
	fmt.Fprintf(&b, "| Volume | %s |\n\n", humanize.Comma(info.Volume))

	b.WriteString("## Charts\n\n")
	for _, ci := range infos {
		size := humanize.Bytes(uint64(ci.Bytes))
		if ci.Width > 0 {
			size = fmt.Sprintf("%dx%d, %s", ci.Width, ci.Height, size)
		}
		fmt.Fprintf(&b, "### %s\n\n![%s](%s_%s.png)\n\n_%s_\n\n", ci.ID.GetDisplayName(), ci.ID, prefix, ci.ID, size)
	}
	return b.String()
}
