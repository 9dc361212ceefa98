// Package calibrate runs the capture, threshold and display loop.
package calibrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/teslashibe/go-hsvtune/internal/log"
	"github.com/teslashibe/go-hsvtune/pkg/camera"
	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"github.com/teslashibe/go-hsvtune/pkg/tracking/detection"
	"github.com/teslashibe/go-hsvtune/pkg/ui"
	"gocv.io/x/gocv"
)

var (
	// ErrCaptureUnavailable is returned by Init when the device can't be opened.
	ErrCaptureUnavailable = errors.New("capture unavailable")

	// ErrCaptureLost is returned by Step after too many failed reads in a row.
	ErrCaptureLost = errors.New("capture lost")

	errNotRunning = errors.New("calibration not running")
)

// State is the loop lifecycle.
type State int32

const (
	StateInitializing State = iota
	StateRunning
	StateTerminating
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// FrameSource yields raw BGR frames. *camera.Source satisfies it.
type FrameSource interface {
	Read(dst *gocv.Mat) error
	Close() error
}

// Display is the tuning GUI. *ui.Panel satisfies it.
type Display interface {
	Params() tracking.Params
	SetRange(r hsv.Range)
	SetBlur(pos int)
	OnClick(fn ui.ClickFunc)
	Show(raw, mask gocv.Mat) error
	WaitKey(ms int) int
	Close() error
}

// FrameSink receives JPEG encoded frames for the dashboard.
type FrameSink interface {
	UpdateFrames(raw, mask []byte)
}

var (
	_ FrameSource = (*camera.Source)(nil)
	_ Display     = (*ui.Panel)(nil)
)

// App is one calibration session.
type App struct {
	config Config
	id     string
	logger *slog.Logger
	state  atomic.Int32

	openSource func(camera.Config) (FrameSource, error)
	newDisplay func(tracking.Params) (Display, error)

	source   FrameSource
	display  Display
	detector *detection.HSVDetector
	tracker  *tracking.Tracker
	store    *tracking.Store
	sink     FrameSink

	frame gocv.Mat // Raw frame of the current iteration
	mask  gocv.Mat

	failures  int
	processed uint64
	inverted  bool // Sliders currently have Min > Max on some channel
}

// New creates a session writing centroid changes to out.
func New(cfg Config, out io.Writer) *App {
	if cfg.MaxReadFailures < 1 {
		cfg.MaxReadFailures = DefaultConfig().MaxReadFailures
	}

	id := uuid.NewString()
	a := &App{
		config:   cfg,
		id:       id,
		logger:   log.With("session", id),
		detector: detection.NewHSV(cfg.Detection),
		tracker:  tracking.NewTracker(out),
		store:    tracking.NewStore(cfg.Tracking.InitialParams()),
		frame:    gocv.NewMat(),
		mask:     gocv.NewMat(),
		openSource: func(c camera.Config) (FrameSource, error) {
			return camera.Open(c)
		},
		newDisplay: func(p tracking.Params) (Display, error) {
			return ui.NewPanel(p)
		},
	}
	a.setState(StateInitializing)
	return a
}

// ID returns the session id.
func (a *App) ID() string {
	return a.id
}

// State returns the current lifecycle state. Safe from any goroutine.
func (a *App) State() State {
	return State(a.state.Load())
}

// Status returns the state name for the dashboard.
func (a *App) Status() string {
	return a.State().String()
}

func (a *App) setState(s State) {
	if prev := State(a.state.Swap(int32(s))); prev != s {
		a.logger.Debug("state changed", "from", prev.String(), "to", s.String())
	}
}

// Store returns the shared tuning state.
func (a *App) Store() *tracking.Store {
	return a.store
}

// Tracker returns the position tracker.
func (a *App) Tracker() *tracking.Tracker {
	return a.tracker
}

// SetStateUpdater forwards centroid changes to u.
func (a *App) SetStateUpdater(u tracking.StateUpdater) {
	a.tracker.SetStateUpdater(u)
}

// SetFrameSink enables JPEG streaming to sink.
func (a *App) SetFrameSink(sink FrameSink) {
	a.sink = sink
}

// Init opens the capture device and the GUI.
func (a *App) Init() error {
	src, err := a.openSource(a.config.Camera)
	if err != nil {
		a.setState(StateTerminating)
		return fmt.Errorf("%w: %w", ErrCaptureUnavailable, err)
	}
	a.source = src

	display, err := a.newDisplay(a.config.Tracking.InitialParams())
	if err != nil {
		a.setState(StateTerminating)
		return fmt.Errorf("open display: %w", err)
	}
	a.display = display
	a.display.OnClick(a.handleClick)

	a.setState(StateRunning)
	a.logger.Info("calibration started",
		"device", a.config.Camera.Device,
		"step", a.config.Tracking.SampleStep,
		"range", a.config.Tracking.InitialRange.String())
	return nil
}

// Run steps the loop until Escape, an error or ctx cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.State() != StateRunning {
		return errNotRunning
	}

	for a.State() == StateRunning {
		select {
		case <-ctx.Done():
			a.logger.Info("interrupted", "reason", context.Cause(ctx))
			a.setState(StateTerminating)
			return nil
		default:
		}

		if err := a.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs one iteration of the loop.
func (a *App) Step() error {
	if a.State() != StateRunning {
		return errNotRunning
	}

	a.applyRequests()

	if err := a.source.Read(&a.frame); err != nil {
		a.failures++
		a.logger.Warn("frame read failed", "consecutive", a.failures, "error", err)
		if a.failures >= a.config.MaxReadFailures {
			a.setState(StateTerminating)
			return fmt.Errorf("%w: %d consecutive read failures", ErrCaptureLost, a.failures)
		}
		a.pollKeys()
		return nil
	}
	a.failures = 0

	params := a.display.Params()
	params.Blur = tracking.SanitizeBlur(params.Blur)
	a.display.SetBlur(params.Blur)
	a.noteInverted(params.Range)

	pos, err := a.detector.Detect(a.frame, params, &a.mask)
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	a.processed++
	a.store.Publish(params, pos)
	if _, err := a.tracker.Observe(pos); err != nil {
		return err
	}

	if err := a.display.Show(a.frame, a.mask); err != nil {
		a.logger.Warn("display failed", "error", err)
	}
	a.stream()
	a.pollKeys()
	return nil
}

// noteInverted logs once each time the sliders cross into an inverted range.
func (a *App) noteInverted(r hsv.Range) {
	empty := r.Empty()
	if empty && !a.inverted {
		a.logger.Debug("range inverted, mask will stay empty", "range", r.String())
	}
	a.inverted = empty
}

// applyRequests applies dashboard requests queued since the last frame.
func (a *App) applyRequests() {
	for _, req := range a.store.Drain() {
		switch {
		case req.Params != nil:
			a.display.SetRange(hsv.ClampRange(req.Params.Range))
			a.display.SetBlur(tracking.SanitizeBlur(req.Params.Blur))
			a.logger.Debug("remote range applied", "range", req.Params.Range.String())
		case req.Click != nil:
			a.handleClick(req.Click.X, req.Click.Y)
		}
	}
}

func (a *App) pollKeys() {
	switch key := a.display.WaitKey(a.config.Tracking.PollMillis()); key {
	case ui.KeyEscape:
		a.logger.Info("escape pressed")
		a.setState(StateTerminating)
	case 'p':
		p := a.store.GetParams()
		a.logger.Info("current range", "range", p.Range.String(), "blur", p.Blur)
	case 's':
		a.savePreset()
	}
}

func (a *App) savePreset() {
	if a.config.PresetPath == "" {
		a.logger.Warn("no preset file configured, use -range")
		return
	}

	p := a.store.GetParams()
	if err := hsv.SavePreset(a.config.PresetPath, hsv.NewPreset(p.Range, p.Blur)); err != nil {
		a.logger.Error("save preset failed", "path", a.config.PresetPath, "error", err)
		return
	}
	a.logger.Info("preset saved", "path", a.config.PresetPath, "range", p.Range.String())
}

// stream encodes the current frame pair for the dashboard.
func (a *App) stream() {
	if a.sink == nil || a.config.StreamEvery <= 0 || a.processed%uint64(a.config.StreamEvery) != 0 {
		return
	}

	raw, err := camera.EncodeJPEG(a.frame, a.config.Camera.Quality)
	if err != nil {
		a.logger.Debug("encode raw frame", "error", err)
		return
	}
	mask, err := camera.EncodeJPEG(a.mask, a.config.Camera.Quality)
	if err != nil {
		a.logger.Debug("encode mask", "error", err)
		return
	}
	a.sink.UpdateFrames(raw, mask)
}

// Shutdown releases the GUI, the buffers and the capture device.
func (a *App) Shutdown() error {
	a.setState(StateTerminating)

	var errs []error
	if a.display != nil {
		errs = append(errs, a.display.Close())
		a.display = nil
	}
	if a.source != nil {
		errs = append(errs, a.source.Close())
		a.source = nil
	}
	errs = append(errs, a.detector.Close(), a.frame.Close(), a.mask.Close())

	a.logger.Info("calibration stopped", "frames", a.processed, "reported", a.tracker.Reported())
	return errors.Join(errs...)
}
