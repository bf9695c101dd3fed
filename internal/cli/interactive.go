package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/sirupsen/logrus"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/charts"
	"github.com/dyike/ForecastGo/internal/display"
	"github.com/dyike/ForecastGo/internal/forecast"
)

// InteractiveSession drives one controller from survey prompts. The screen
// is redrawn from a controller snapshot after every action.
type InteractiveSession struct {
	rt     *runtime
	out    io.Writer
	view   *display.ResultsDisplay
	toasts *toastNotifier
	ctrl   *forecast.Controller

	// notice is set by config reloads and shown on the next redraw.
	noticeMu sync.Mutex
	notice   string
}

// NewInteractiveSession creates a session with a fresh controller.
func NewInteractiveSession(rt *runtime, out io.Writer) *InteractiveSession {
	view := display.NewResultsDisplay(80)
	toasts := newToastNotifier(out, view)
	return &InteractiveSession{
		rt:     rt,
		out:    out,
		view:   view,
		toasts: toasts,
		ctrl: forecast.NewController(rt.client,
			forecast.WithLogger(rt.log),
			forecast.WithNotifier(toasts),
		),
	}
}

func runInteractiveMode(ctx context.Context, rt *runtime) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s := NewInteractiveSession(rt, os.Stdout)
	defer s.Close()
	return s.Start(ctx)
}

// Close releases the controller, cancelling any in-flight request.
func (s *InteractiveSession) Close() {
	s.ctrl.Close()
}

// Start shows the welcome screen, asks for the first input and runs the
// action loop until the user quits.
func (s *InteractiveSession) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.watchConfig(ctx)

	ClearScreen(s.out)
	DisplayWelcomeBanner(s.out)

	in, err := PromptForInput(s.ctrl.Snapshot().Input)
	if err != nil {
		return quietInterrupt(err)
	}
	s.ctrl.SetInput(in)

	for {
		s.redraw()
		action, err := PromptForAction(display.Actions(s.ctrl.Snapshot()))
		if err != nil {
			return quietInterrupt(err)
		}
		if action == display.ActionQuit {
			fmt.Fprintln(s.out, "👋 Thank you for using ForecastGo!")
			return nil
		}
		if err := s.handle(ctx, action); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				continue
			}
			return err
		}
	}
}

func (s *InteractiveSession) handle(ctx context.Context, action display.Action) error {
	switch action {
	case display.ActionSubmit:
		return s.submit(ctx)

	case display.ActionEditInput:
		in, err := PromptForInput(s.ctrl.Snapshot().Input)
		if err != nil {
			return err
		}
		s.ctrl.UpdateTicker(in.Ticker)
		s.ctrl.UpdateStartDate(in.StartDate)
		s.ctrl.UpdateEndDate(in.EndDate)

	case display.ActionViewChart:
		id, err := PromptForChart(s.ctrl.Snapshot().Selection)
		if err != nil {
			return err
		}
		if err := s.ctrl.SelectChart(id); err != nil {
			DisplayError(s.out, err)
		}

	case display.ActionCloseChart:
		s.ctrl.DismissChart()

	case display.ActionExport:
		snap := s.ctrl.Snapshot()
		result, ok := snap.Result()
		if !ok {
			DisplayError(s.out, forecast.ErrNoResult)
			return nil
		}
		dir, err := PromptForExportDir(filepath.Join(s.rt.cfg.ResultsDir, charts.FilePrefix(snap.Input.Ticker)))
		if err != nil {
			return err
		}
		exported, err := charts.Export(dir, snap.Input, result)
		if err != nil {
			s.rt.log.WithError(err).Error("chart export failed")
			DisplayError(s.out, err)
			return nil
		}
		s.rt.log.WithFields(logrus.Fields{"dir": exported.Dir, "files": len(exported.Images) + 1}).Info("charts exported")
		DisplaySuccess(s.out, fmt.Sprintf("Exported %d charts and %s", len(exported.Images), exported.Summary))
		waitForEnter(s.out)
	}
	return nil
}

// submit issues the request and blocks until it settles so the next menu
// reflects the outcome. Validation failures surface as toasts.
func (s *InteractiveSession) submit(ctx context.Context) error {
	pending, err := s.ctrl.Submit()
	if err != nil {
		var verr *forecast.ValidationError
		if errors.As(err, &verr) {
			return nil
		}
		return err
	}
	s.redraw()
	return pending.Wait(ctx)
}

func (s *InteractiveSession) redraw() {
	ClearScreen(s.out)
	fmt.Fprintln(s.out, s.view.Render(s.ctrl.Snapshot()))
	if n, ok := s.toasts.Take(); ok {
		fmt.Fprintln(s.out, s.view.Toast(n))
	}
	if notice, ok := s.takeNotice(); ok {
		DisplayInfo(s.out, notice)
	}
	fmt.Fprintln(s.out)
}

func (s *InteractiveSession) setNotice(msg string) {
	s.noticeMu.Lock()
	s.notice = msg
	s.noticeMu.Unlock()
}

func (s *InteractiveSession) takeNotice() (string, bool) {
	s.noticeMu.Lock()
	defer s.noticeMu.Unlock()
	msg := s.notice
	s.notice = ""
	return msg, msg != ""
}

// watchConfig retargets the client when the config file changes on disk.
// An endpoint given with --endpoint is kept.
func (s *InteractiveSession) watchConfig(ctx context.Context) {
	err := s.rt.manager.Watch(ctx, func(cfg config.Config) {
		cfg.ApplyEnv()
		client := s.rt.client
		if !s.rt.endpointPinned && cfg.ForecastURL != client.Endpoint() {
			s.setNotice(fmt.Sprintf("Config reloaded: forecast endpoint is now %s", cfg.ForecastURL))
			client.SetEndpoint(cfg.ForecastURL)
		}
		if cfg.RequestTimeout != client.Timeout() {
			client.SetTimeout(cfg.RequestTimeout)
		}
	})
	if err != nil {
		s.rt.log.WithError(err).Warn("config hot reload disabled")
	}
}

func waitForEnter(out io.Writer) {
	fmt.Fprint(out, "Press Enter to continue...")
	var discard string
	_, _ = fmt.Scanln(&discard)
}

func quietInterrupt(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return nil
	}
	return err
}
