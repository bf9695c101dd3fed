package forecast

import (
	"errors"

	"github.com/dyike/ForecastGo/internal/models"
)

const (
	MsgDatesRequired  = "Start Date and End Date are required."
	MsgEndBeforeStart = "End Date must be greater than Start Date."
	MsgFetchFailed    = "Failed to fetch data. Please try again."
)

var (
	// ErrNoResult is returned by SelectChart when there is no successful result.
	ErrNoResult = errors.New("no forecast result to select a chart from")
	// ErrUnknownChart is returned by SelectChart for ids outside the four charts.
	ErrUnknownChart = errors.New("unknown chart")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("controller closed")
)

// ValidationError is a user input problem detected before any request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks a RequestInput. The ticker is not checked; an empty ticker
// is forwarded and the remote service decides.
func Validate(in models.RequestInput) error {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return &ValidationError{Message: MsgDatesRequired}
	}
	if !models.CalendarDay(in.EndDate).After(models.CalendarDay(in.StartDate)) {
		return &ValidationError{Message: MsgEndBeforeStart}
	}
	return nil
}
