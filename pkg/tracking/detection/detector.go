// Package detection thresholds camera frames against an HSV range using OpenCV
package detection

import (
	"errors"

	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"gocv.io/x/gocv"
)

var (
	// ErrEmptyFrame is returned when no frame has been captured yet.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrFrameFormat is returned for frames that aren't 8-bit BGR.
	ErrFrameFormat = errors.New("frame is not 8-bit BGR")

	// ErrOutOfFrame is returned when a sample point lies outside the frame.
	ErrOutOfFrame = errors.New("point outside frame")
)

// Detector is the interface for color-range detection backends
type Detector interface {
	// Detect thresholds frame into mask and returns the mask's centroid
	Detect(frame gocv.Mat, params tracking.Params, mask *gocv.Mat) (tracking.Position, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	// Conversion is the BGR to HSV code. ColorBGRToHSV keeps hue in
	// 0-179; ColorBGRToHSVFull spreads it over 0-255 to match the sliders.
	Conversion gocv.ColorConversionCode
}

// DefaultConfig returns the OpenCV default HSV conversion
func DefaultConfig() Config {
	return Config{
		Conversion: gocv.ColorBGRToHSV,
	}
}

// FullHueConfig returns a config using the 0-255 hue conversion
func FullHueConfig() Config {
	return Config{
		Conversion: gocv.ColorBGRToHSVFull,
	}
}
