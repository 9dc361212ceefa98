// hsvtune - interactive HSV color-range calibration
// Thresholds live video against slider-controlled HSV bounds and prints the
// centroid of the matching region whenever it moves.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/teslashibe/go-hsvtune/internal/config"
	"github.com/teslashibe/go-hsvtune/internal/log"
	"github.com/teslashibe/go-hsvtune/pkg/calibrate"
	"github.com/teslashibe/go-hsvtune/pkg/camera"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"github.com/teslashibe/go-hsvtune/pkg/tracking/detection"
	"github.com/teslashibe/go-hsvtune/pkg/web"
)

// Exit codes
const (
	exitOK      = 0
	exitCapture = 1
	exitUsage   = 2
)

// options is everything parsed from flags and the environment
type options struct {
	calibrate calibrate.Config
	webPort   string
	logLevel  string
}

func init() {
	// highgui must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "hsvtune: %v\n", err)
		return exitUsage
	}

	log.Init(opts.logLevel)

	if err := opts.calibrate.LoadPreset(); err != nil {
		log.Error("preset unusable", "path", opts.calibrate.PresetPath, "error", err)
		return exitUsage
	}

	app := calibrate.New(opts.calibrate, stdout)
	if err := app.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		app.Shutdown()
		return exitCapture
	}
	defer app.Shutdown()

	if opts.webPort != "" {
		dashboard := web.NewServer(opts.webPort, app.Store(), app)
		app.SetStateUpdater(dashboard)
		app.SetFrameSink(dashboard)
		dashboard.StartAsync()
		defer dashboard.Shutdown()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("calibration failed", "error", err, "capture_lost", errors.Is(err, calibrate.ErrCaptureLost))
		return exitCapture
	}
	return exitOK
}

// parseFlags layers flags over environment over defaults.
func parseFlags(args []string, output io.Writer) (options, error) {
	cfg := calibrate.DefaultConfig()

	fs := flag.NewFlagSet("hsvtune", flag.ContinueOnError)
	fs.SetOutput(output)

	device := fs.String("device", config.Device(cfg.Camera.Device), "Camera index or video file path (HSVTUNE_DEVICE)")
	width := fs.Int("width", 0, "Requested frame width (0 = driver default)")
	height := fs.Int("height", 0, "Requested frame height (0 = driver default)")
	fps := fs.Int("fps", 0, "Requested frame rate (0 = driver default)")
	presetRes := fs.String("preset-res", "", fmt.Sprintf("Capture resolution preset %v", camera.PresetNames()))
	sample := fs.String("sample", "default", "Click window: default, fine or coarse")
	step := fs.Int("step", cfg.Tracking.SampleStep, "± applied to each channel around a clicked pixel (overrides -sample)")
	fullHue := fs.Bool("full-hue", false, "Use the 0-255 hue scale instead of OpenCV's 0-179")
	webPort := fs.String("web", config.WebPort(), "Dashboard port, empty disables it (HSVTUNE_WEB_PORT)")
	rangeFile := fs.String("range", config.RangeFile(), "YAML range preset to load and save with 's' (HSVTUNE_RANGE_FILE)")
	logLevel := fs.String("log-level", config.LogLevel(), "Log level: debug, info, warn, error (LOG_LEVEL)")
	debug := fs.Bool("debug", false, "Shorthand for -log-level debug")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	stepSet := false
	fs.Visit(func(f *flag.Flag) { stepSet = stepSet || f.Name == "step" })

	cfg.Camera.Device = *device
	if *presetRes != "" {
		preset, ok := camera.Apply(cfg.Camera, *presetRes)
		if !ok {
			return options{}, fmt.Errorf("unknown resolution preset %q, want one of %v", *presetRes, camera.PresetNames())
		}
		cfg.Camera = preset
	}
	if *width > 0 || *height > 0 {
		cfg.Camera.Width, cfg.Camera.Height = *width, *height
	}
	if *fps > 0 {
		cfg.Camera.Framerate = *fps
	}
	if errs := cfg.Camera.Validate(); len(errs) > 0 {
		return options{}, fmt.Errorf("%w: %v", camera.ErrInvalidConfig, errs)
	}

	switch *sample {
	case "default":
	case "fine":
		cfg.Tracking = tracking.FineConfig()
	case "coarse":
		cfg.Tracking = tracking.CoarseConfig()
	default:
		return options{}, fmt.Errorf("unknown sample mode %q, want default, fine or coarse", *sample)
	}
	if stepSet {
		if *step < 0 || *step > 255 {
			return options{}, fmt.Errorf("step must be between 0 and 255, got %d", *step)
		}
		cfg.Tracking.SampleStep = *step
	}
	if *fullHue {
		cfg.Detection = detection.FullHueConfig()
	}
	cfg.PresetPath = *rangeFile

	level := *logLevel
	if *debug {
		level = "debug"
	}

	return options{
		calibrate: cfg,
		webPort:   *webPort,
		logLevel:  level,
	}, nil
}
