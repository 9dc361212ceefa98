// Package camera opens the video source the calibration loop reads from.
package camera

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds capture settings. Zero values leave the driver defaults alone.
type Config struct {
	// Device is a camera index ("0") or a video file path.
	Device string `json:"device"`

	// === Resolution ===
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS

	// Exposure is a manual exposure value passed to the driver.
	// Set to 0 for auto exposure.
	Exposure float64 `json:"exposure"`

	// Quality is the JPEG quality used for dashboard snapshots (1-100).
	Quality int `json:"quality"`
}

// Capture limits
const (
	MaxWidth     = 7680
	MaxHeight    = 4320
	MaxFramerate = 240
)

// DefaultConfig returns the system camera with driver defaults.
func DefaultConfig() Config {
	return Config{
		Device:  "0",
		Quality: 80,
	}
}

// Target returns the value gocv should open: an index for numeric devices,
// the path otherwise.
func (c Config) Target() interface{} {
	if id, err := strconv.Atoi(strings.TrimSpace(c.Device)); err == nil {
		return id
	}
	return c.Device
}

// IsFile reports whether Device names a video file rather than a camera.
func (c Config) IsFile() bool {
	_, ok := c.Target().(string)
	return ok
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if strings.TrimSpace(c.Device) == "" {
		errors = append(errors, "device must not be empty")
	}
	if id, ok := c.Target().(int); ok && id < 0 {
		errors = append(errors, "device index must not be negative")
	}

	// Resolution: both or neither
	if c.Width < 0 || c.Width > MaxWidth {
		errors = append(errors, fmt.Sprintf("width must be between 0 and %d", MaxWidth))
	}
	if c.Height < 0 || c.Height > MaxHeight {
		errors = append(errors, fmt.Sprintf("height must be between 0 and %d", MaxHeight))
	}
	if (c.Width == 0) != (c.Height == 0) {
		errors = append(errors, "width and height must be set together")
	}
	if c.Framerate < 0 || c.Framerate > MaxFramerate {
		errors = append(errors, fmt.Sprintf("framerate must be between 0 and %d", MaxFramerate))
	}

	if c.Exposure < 0 {
		errors = append(errors, "exposure must be 0 (auto) or positive")
	}

	if c.Quality < 1 || c.Quality > 100 {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
