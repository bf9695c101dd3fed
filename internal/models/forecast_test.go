package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChartID(t *testing.T) {
	cases := map[string]ChartID{
		"mav":            ChartMAV,
		" Forecast ":     ChartForecast,
		"trend":          ChartTrend,
		"trend_forecast": ChartTrendForecast,
		"trendForecast":  ChartTrendForecast,
	}
	for in, want := range cases {
		got, err := ParseChartID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseChartID("candles")
	assert.Error(t, err)
}

func TestChartIDValid(t *testing.T) {
	for _, id := range AllCharts {
		assert.True(t, id.Valid())
		assert.NotEqual(t, string(id), id.GetDisplayName())
	}
	assert.False(t, ChartID("").Valid())
	assert.False(t, ChartID("trendForecast").Valid())
}

func TestChartsGet(t *testing.T) {
	c := Charts{MAV: "a", Forecast: "b", Trend: "c", TrendForecast: "d"}
	assert.Equal(t, "d", c.Get(ChartTrendForecast))
	assert.Equal(t, "", c.Get("volume"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())
	assert.Equal(t, "", FormatDate(d))

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
}

func TestNewForecastRequestDropsTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	data, err := json.Marshal(NewForecastRequest("AAPL", start, end))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ticker":"AAPL","start_date":"2024-01-01","end_date":"2024-03-01"}`, string(data))
}

func TestCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	a := CalendarDay(time.Date(2024, 5, 1, 1, 0, 0, 0, loc))
	b := CalendarDay(time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC))
	assert.True(t, a.Equal(b))
}
