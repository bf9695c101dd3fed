package forecast

import "github.com/dyike/ForecastGo/internal/models"

// Status names the active RequestState variant
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// RequestState is a closed set of variants: Idle, Loading, Success, Failed.
type RequestState interface {
	Status() Status
	isRequestState()
}

// Idle is the initial state.
type Idle struct{}

// Loading means a request is in flight. Seq is the sequence id it was issued with.
type Loading struct {
	Seq uint64
}

// Success carries the result of the latest completed request.
type Success struct {
	Result *models.ForecastResult
}

// Failed carries the user-facing message only; the cause goes to the log.
type Failed struct {
	Message string
}

func (Idle) Status() Status    { return StatusIdle }
func (Loading) Status() Status { return StatusLoading }
func (Success) Status() Status { return StatusSuccess }
func (Failed) Status() Status  { return StatusFailed }

func (Idle) isRequestState()    {}
func (Loading) isRequestState() {}
func (Success) isRequestState() {}
func (Failed) isRequestState()  {}

// Snapshot is a read-only copy of controller state handed to views.
type Snapshot struct {
	Input     models.RequestInput
	State     RequestState
	Selection models.ChartID
	Seq       uint64
	Version   uint64
}

// Result returns the forecast when the state is Success.
func (s Snapshot) Result() (*models.ForecastResult, bool) {
	if ok, is := s.State.(Success); is {
		return ok.Result, true
	}
	return nil, false
}

// HasSelection reports whether a chart is open.
func (s Snapshot) HasSelection() bool {
	return s.Selection != ""
}
