package dataflows

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/logging"
	"github.com/dyike/ForecastGo/internal/models"
)

const requestIDHeader = "X-Request-ID"

// ForecastClient talks to the remote forecasting service over HTTP.
type ForecastClient struct {
	client *resty.Client
	log    logrus.FieldLogger

	mu       sync.RWMutex
	endpoint string
	timeout  time.Duration
}

// NewForecastClient creates a client for cfg.ForecastURL
func NewForecastClient(cfg *config.Config, log logrus.FieldLogger) *ForecastClient {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	if log == nil {
		log = logging.Discard()
	}

	return &ForecastClient{
		client:   client,
		log:      log.WithField("component", "forecast_client"),
		endpoint: cfg.ForecastURL,
		timeout:  cfg.RequestTimeout,
	}
}

// Endpoint returns the URL requests are posted to.
func (fc *ForecastClient) Endpoint() string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.endpoint
}

// SetEndpoint retargets the client, used when the config file is edited.
func (fc *ForecastClient) SetEndpoint(endpoint string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.endpoint != endpoint {
		fc.log.WithFields(logrus.Fields{"from": fc.endpoint, "to": endpoint}).Info("forecast endpoint changed")
	}
	fc.endpoint = endpoint
}

// Timeout returns the deadline applied to each request.
func (fc *ForecastClient) Timeout() time.Duration {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return fc.timeout
}

// SetTimeout changes the per-request timeout. Requests already in flight
// keep the deadline they started with.
func (fc *ForecastClient) SetTimeout(d time.Duration) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.timeout != d {
		fc.log.WithFields(logrus.Fields{"from": fc.timeout, "to": d}).Info("forecast timeout changed")
	}
	fc.timeout = d
}

// RequestForecast posts one request. Failures are *forecast.NetworkError,
// *forecast.ServerError or *forecast.DecodeError.
func (fc *ForecastClient) RequestForecast(ctx context.Context, ticker string, start, end time.Time) (*models.ForecastResult, error) {
	requestID := uuid.NewString()
	endpoint := fc.Endpoint()
	log := fc.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"ticker":     ticker,
		"endpoint":   endpoint,
	})

	if timeout := fc.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	began := time.Now()
	resp, err := fc.client.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		SetBody(models.NewForecastRequest(ticker, start, end)).
		Post(endpoint)
	if err != nil {
		log.WithError(err).Debug("forecast request did not complete")
		return nil, &forecast.NetworkError{Err: errors.Wrapf(err, "post %s", endpoint)}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode(),
		"duration": time.Since(began).Round(time.Millisecond),
		"bytes":    len(resp.Body()),
	})
	log.Debug("forecast response received")

	if !resp.IsSuccess() {
		return nil, &forecast.ServerError{
			StatusCode: resp.StatusCode(),
			Detail:     errorDetail(resp.Body()),
		}
	}

	result, err := decodeForecast(resp.Body())
	if err != nil {
		return nil, &forecast.DecodeError{Err: err}
	}
	return result, nil
}

var maxVolume = decimal.NewFromInt(math.MaxInt64)

type previousDayWire struct {
	PreviousClose *decimal.Decimal `json:"previous_close"`
	PreviousOpen  *decimal.Decimal `json:"previous_open"`
	PreviousHigh  *decimal.Decimal `json:"previous_high"`
	Volume        *decimal.Decimal `json:"volume"`
}

type chartsWire struct {
	MAV           *string `json:"mav"`
	Forecast      *string `json:"forecast"`
	Trend         *string `json:"trend"`
	TrendForecast *string `json:"trend_forecast"`
}

type forecastWire struct {
	PreviousDayInfo *previousDayWire `json:"previous_day_info"`
	Charts          *chartsWire      `json:"charts"`
}

// decodeForecast enforces the response schema. Every field must be present
// and every chart must be valid base64. Volume may arrive as a float.
func decodeForecast(body []byte) (*models.ForecastResult, error) {
	var wire forecastWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, errors.Wrap(err, "parse forecast response")
	}

	info := wire.PreviousDayInfo
	if info == nil {
		return nil, errors.New("missing previous_day_info")
	}
	for _, field := range []struct {
		name string
		v    *decimal.Decimal
	}{
		{"previous_close", info.PreviousClose},
		{"previous_open", info.PreviousOpen},
		{"previous_high", info.PreviousHigh},
		{"volume", info.Volume},
	} {
		if field.v == nil {
			return nil, errors.Errorf("missing previous_day_info.%s", field.name)
		}
	}

	if info.Volume.IsNegative() || info.Volume.GreaterThan(maxVolume) {
		return nil, errors.Errorf("previous_day_info.volume out of range: %s", info.Volume)
	}

	if wire.Charts == nil {
		return nil, errors.New("missing charts")
	}
	charts := models.Charts{}
	for _, c := range []struct {
		id  models.ChartID
		src *string
		dst *string
	}{
		{models.ChartMAV, wire.Charts.MAV, &charts.MAV},
		{models.ChartForecast, wire.Charts.Forecast, &charts.Forecast},
		{models.ChartTrend, wire.Charts.Trend, &charts.Trend},
		{models.ChartTrendForecast, wire.Charts.TrendForecast, &charts.TrendForecast},
	} {
		if c.src == nil || *c.src == "" {
			return nil, errors.Errorf("missing charts.%s", c.id)
		}
		if _, err := base64.StdEncoding.DecodeString(*c.src); err != nil {
			return nil, errors.Wrapf(err, "charts.%s is not base64", c.id)
		}
		*c.dst = *c.src
	}

	return &models.ForecastResult{
		PreviousDayInfo: models.PreviousDayInfo{
			PreviousClose: *info.PreviousClose,
			PreviousOpen:  *info.PreviousOpen,
			PreviousHigh:  *info.PreviousHigh,
			Volume:        info.Volume.IntPart(),
		},
		Charts: charts,
	}, nil
}

// errorDetail pulls "detail" out of an error body, falling back to the raw text.
func errorDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return s
		}
		return string(payload.Detail)
	}
	text := []rune(strings.TrimSpace(string(body)))
	if len(text) > 200 {
		return string(text[:197]) + "..."
	}
	return string(text)
}
