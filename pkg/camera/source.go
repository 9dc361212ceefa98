package camera

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teslashibe/go-hsvtune/internal/log"
	"gocv.io/x/gocv"
)

var (
	// ErrInvalidConfig is returned by Open when Validate reports problems.
	ErrInvalidConfig = errors.New("invalid camera config")

	// ErrOpenFailed is returned when the device or file cannot be opened.
	ErrOpenFailed = errors.New("capture device unavailable")

	// ErrReadFailed is returned when no frame could be grabbed.
	ErrReadFailed = errors.New("frame read failed")
)

// Source is an open capture device.
type Source struct {
	capture *gocv.VideoCapture
	config  Config
}

// Open opens the configured device and applies its capture settings.
func Open(cfg Config) (*Source, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	capture, err := gocv.OpenVideoCapture(cfg.Target())
	if err != nil {
		// gocv allocates the handle before trying to open it
		if capture != nil {
			capture.Close()
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenFailed, cfg.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: %s", ErrOpenFailed, cfg.Device)
	}

	s := &Source{capture: capture, config: cfg}
	s.apply()

	w, h := s.Size()
	log.Info("capture opened", "device", cfg.Device, "width", w, "height", h)
	return s, nil
}

// apply pushes non-zero settings to the driver. Drivers are free to ignore
// them, so the actual size is read back with Size.
func (s *Source) apply() {
	if s.config.IsFile() {
		return
	}
	if s.config.Width > 0 && s.config.Height > 0 {
		s.capture.Set(gocv.VideoCaptureFrameWidth, float64(s.config.Width))
		s.capture.Set(gocv.VideoCaptureFrameHeight, float64(s.config.Height))
	}
	if s.config.Framerate > 0 {
		s.capture.Set(gocv.VideoCaptureFPS, float64(s.config.Framerate))
	}
	if s.config.Exposure > 0 {
		s.capture.Set(gocv.VideoCaptureExposure, s.config.Exposure)
	}
}

// Read grabs the next frame into dst.
func (s *Source) Read(dst *gocv.Mat) error {
	if ok := s.capture.Read(dst); !ok || dst.Empty() {
		return ErrReadFailed
	}
	return nil
}

// Size returns the frame size reported by the driver.
func (s *Source) Size() (width, height int) {
	return int(s.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(s.capture.Get(gocv.VideoCaptureFrameHeight))
}

// Close releases the device.
func (s *Source) Close() error {
	return s.capture.Close()
}

// EncodeJPEG encodes img as JPEG at the given quality (1-100).
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	if img.Empty() {
		return nil, errors.New("encode jpeg: empty image")
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, keep a Go copy
	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
