package forecast

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dyike/ForecastGo/internal/models"
)

// Service performs one forecast request. Single attempt, no retry.
type Service interface {
	RequestForecast(ctx context.Context, ticker string, start, end time.Time) (*models.ForecastResult, error)
}

// ErrorKind classifies service failures for diagnostics.
type ErrorKind string

const (
	ErrorNetwork ErrorKind = "network"
	ErrorServer  ErrorKind = "server"
	ErrorDecode  ErrorKind = "decode"
	ErrorUnknown ErrorKind = "unknown"
)

// NetworkError means the service was unreachable or the call timed out.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError means the service answered with a non-success status.
type ServerError struct {
	StatusCode int
	Detail     string
}

func (e *ServerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("server error: status %d: %s", e.StatusCode, e.Detail)
}

// DecodeError means the response body did not match the expected schema.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode error: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// KindOf reports which class of service failure err belongs to.
func KindOf(err error) ErrorKind {
	var (
		netErr    *NetworkError
		serverErr *ServerError
		decodeErr *DecodeError
	)
	switch {
	case errors.As(err, &netErr):
		return ErrorNetwork
	case errors.As(err, &serverErr):
		return ErrorServer
	case errors.As(err, &decodeErr):
		return ErrorDecode
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorNetwork
	default:
		return ErrorUnknown
	}
}
