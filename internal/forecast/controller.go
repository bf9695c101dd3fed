// Package forecast owns the request lifecycle of a forecast session: the
// user's input, the Idle/Loading/Success/Failed state and the selected chart.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dyike/ForecastGo/internal/logging"
	"github.com/dyike/ForecastGo/internal/models"
)

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the operational log sink. Service failure causes go here.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithNotifier sets the receiver of transient user notifications.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// Controller is the single owner of session state. Views read Snapshots and
// dispatch operations; they never mutate state directly.
//
// Overlapping submits are allowed. Every submit gets a new sequence id and
// only the completion carrying the latest id is applied, so the last submit
// wins regardless of which response arrives first.
type Controller struct {
	svc      Service
	log      logrus.FieldLogger
	notifier Notifier

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	input     models.RequestInput
	state     RequestState
	selection models.ChartID
	seq       uint64
	version   uint64
	inflight  context.CancelFunc
	closed    bool

	listenersMu  sync.RWMutex
	listeners    []listener
	nextListener int

	// emitMu serializes delivery; delivered is the newest version handed out.
	emitMu    sync.Mutex
	delivered uint64
}

type listener struct {
	id int
	fn func(Snapshot)
}

// NewController creates a controller in the Idle state.
func NewController(svc Service, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		svc:      svc,
		log:      logging.Discard(),
		notifier: nopNotifier{},
		ctx:      ctx,
		cancel:   cancel,
		state:    Idle{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close cancels any in-flight request. Late completions are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Input:     c.input,
		State:     c.state,
		Selection: c.selection,
		Seq:       c.seq,
		Version:   c.version,
	}
}

// Subscribe registers fn to be called after every state change. Listeners
// may read Snapshot but must not call mutating methods synchronously.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.listenersMu.Lock()
	c.nextListener++
	id := c.nextListener
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// UpdateTicker overwrites the ticker. No validation happens here.
func (c *Controller) UpdateTicker(text string) {
	c.mutate(func() { c.input.Ticker = text })
}

// UpdateStartDate overwrites the start date. The zero time clears it.
func (c *Controller) UpdateStartDate(date time.Time) {
	c.mutate(func() { c.input.StartDate = date })
}

// UpdateEndDate overwrites the end date. The zero time clears it.
func (c *Controller) UpdateEndDate(date time.Time) {
	c.mutate(func() { c.input.EndDate = date })
}

// SetInput replaces the whole input at once.
func (c *Controller) SetInput(in models.RequestInput) {
	c.mutate(func() { c.input = in })
}

// Submit validates the input and, if it passes, moves to Loading and issues
// the request in the background. Validation errors are returned as
// *ValidationError, reported to the notifier and leave the state unchanged.
func (c *Controller) Submit() (*Pending, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if err := Validate(c.input); err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Debug("submit rejected by validation")
		c.notify(KindValidation, err.Error())
		return nil, err
	}

	if c.inflight != nil {
		c.inflight()
	}
	c.seq++
	seq := c.seq
	in := c.input
	ctx, cancel := context.WithCancel(c.ctx)
	c.inflight = cancel
	c.state = Loading{Seq: seq}
	c.selection = ""
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)

	log := c.log.WithFields(logrus.Fields{
		"seq":    seq,
		"ticker": in.Ticker,
		"start":  models.FormatDate(in.StartDate),
		"end":    models.FormatDate(in.EndDate),
	})
	if strings.TrimSpace(in.Ticker) == "" {
		log.Warn("submitting forecast request with an empty ticker")
	}
	log.Info("forecast request issued")

	p := &Pending{seq: seq, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		defer cancel()
		result, err := c.svc.RequestForecast(ctx, in.Ticker, in.StartDate, in.EndDate)
		p.err = err
		p.applied = c.complete(seq, result, err, log)
	}()
	return p, nil
}

func (c *Controller) complete(seq uint64, result *models.ForecastResult, err error, log logrus.FieldLogger) bool {
	if err == nil && result == nil {
		err = &DecodeError{Err: errors.New("empty forecast result")}
	}

	c.mu.Lock()
	if c.closed || seq != c.seq {
		latest := c.seq
		c.mu.Unlock()
		log.WithField("latest_seq", latest).Debug("discarding superseded forecast response")
		return false
	}
	c.inflight = nil
	if err != nil {
		c.state = Failed{Message: MsgFetchFailed}
	} else {
		c.state = Success{Result: result}
	}
	c.selection = ""
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if err != nil {
		log.WithError(err).WithField("kind", KindOf(err)).Error("forecast request failed")
		log.Debugf("forecast failure detail: %+v", err)
		c.notify(KindService, MsgFetchFailed)
	} else {
		log.Info("forecast request succeeded")
	}
	c.emit(snap)
	return true
}

// SelectChart opens one chart of the current result.
func (c *Controller) SelectChart(id models.ChartID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	c.mu.Lock()
	if _, ok := c.state.(Success); !ok {
		c.mu.Unlock()
		return ErrNoResult
	}
	if c.selection == id {
		c.mu.Unlock()
		return nil
	}
	c.selection = id
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
	return nil
}

// DismissChart closes the open chart. Calling it with nothing open is a no-op.
func (c *Controller) DismissChart() {
	c.mu.Lock()
	if c.selection == "" {
		c.mu.Unlock()
		return
	}
	c.selection = ""
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func (c *Controller) mutate(fn func()) {
	c.mu.Lock()
	fn()
	c.version++
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.emit(snap)
}

// emit delivers snap unless a newer version has already been delivered, so
// listeners never observe state going backwards.
func (c *Controller) emit(snap Snapshot) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if snap.Version <= c.delivered {
		return
	}
	c.delivered = snap.Version

	c.listenersMu.RLock()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for _, l := range c.listeners {
		fns = append(fns, l.fn)
	}
	c.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (c *Controller) notify(kind NotificationKind, msg string) {
	c.notifier.Notify(Notification{Kind: kind, Message: msg, At: time.Now()})
}

// Pending tracks one issued request.
type Pending struct {
	seq     uint64
	done    chan struct{}
	err     error
	applied bool
}

// Seq is the sequence id the request was issued with.
func (p *Pending) Seq() uint64 { return p.seq }

// Done is closed once the request has settled and its effect, if any, applied.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the request settles or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err is the raw service error. Only valid after Done.
func (p *Pending) Err() error { return p.err }

// Applied reports whether the completion changed state, false when it was
// superseded by a newer submit. Only valid after Done.
func (p *Pending) Applied() bool { return p.applied }
