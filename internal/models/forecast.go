package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used on the wire and in prompts.
const DateLayout = "2006-01-02"

// ChartID identifies one of the pre-rendered charts in a forecast result.
// The zero value means no chart.
type ChartID string

const (
	ChartMAV           ChartID = "mav"
	ChartForecast      ChartID = "forecast"
	ChartTrend         ChartID = "trend"
	ChartTrendForecast ChartID = "trend_forecast"
)

// AllCharts lists the chart ids in display order.
var AllCharts = []ChartID{ChartMAV, ChartForecast, ChartTrend, ChartTrendForecast}

// ParseChartID accepts the wire names plus the camel-case alias trendForecast.
func ParseChartID(s string) (ChartID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mav":
		return ChartMAV, nil
	case "forecast":
		return ChartForecast, nil
	case "trend":
		return ChartTrend, nil
	case "trend_forecast", "trendforecast", "trend-forecast":
		return ChartTrendForecast, nil
	}
	return "", fmt.Errorf("unknown chart %q", s)
}

// Valid reports whether id is one of the four known charts.
func (id ChartID) Valid() bool {
	for _, c := range AllCharts {
		if c == id {
			return true
		}
	}
	return false
}

// GetDisplayName returns a user-friendly chart title
func (id ChartID) GetDisplayName() string {
	switch id {
	case ChartMAV:
		return "Moving Averages (10/50-day)"
	case ChartForecast:
		return "Forecast with Confidence Interval"
	case ChartTrend:
		return "Price Trend"
	case ChartTrendForecast:
		return "Historical Trend + Forecast"
	default:
		return string(id)
	}
}

// RequestInput is what the user has typed so far. Zero dates are empty.
type RequestInput struct {
	Ticker    string    `json:"ticker"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// PreviousDayInfo summarizes the last trading day before the forecast window.
type PreviousDayInfo struct {
	PreviousClose decimal.Decimal `json:"previous_close"`
	PreviousOpen  decimal.Decimal `json:"previous_open"`
	PreviousHigh  decimal.Decimal `json:"previous_high"`
	Volume        int64           `json:"volume"`
}

// Charts holds base64 encoded PNG images.
type Charts struct {
	MAV           string `json:"mav"`
	Forecast      string `json:"forecast"`
	Trend         string `json:"trend"`
	TrendForecast string `json:"trend_forecast"`
}

// Get returns the encoded image for id, or "" for an unknown id.
func (c Charts) Get(id ChartID) string {
	switch id {
	case ChartMAV:
		return c.MAV
	case ChartForecast:
		return c.Forecast
	case ChartTrend:
		return c.Trend
	case ChartTrendForecast:
		return c.TrendForecast
	}
	return ""
}

// ForecastResult is a successful response. It is never partially updated.
type ForecastResult struct {
	PreviousDayInfo PreviousDayInfo `json:"previous_day_info"`
	Charts          Charts          `json:"charts"`
}

// ForecastRequest is the outbound payload.
type ForecastRequest struct {
	Ticker    string `json:"ticker"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewForecastRequest formats dates as calendar days without a time part.
func NewForecastRequest(ticker string, start, end time.Time) ForecastRequest {
	return ForecastRequest{
		Ticker:    ticker,
		StartDate: start.Format(DateLayout),
		EndDate:   end.Format(DateLayout),
	}
}

// ParseDate parses YYYY-MM-DD. Blank input yields the zero time and no error.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate renders a date for display, "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// CalendarDay drops the time of day and location so dates compare by day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
