package calibrate

import (
	"errors"
	"fmt"
	"os"

	"github.com/teslashibe/go-hsvtune/pkg/camera"
	"github.com/teslashibe/go-hsvtune/pkg/hsv"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"github.com/teslashibe/go-hsvtune/pkg/tracking/detection"
)

// Config holds everything the calibration loop needs
type Config struct {
	Camera    camera.Config
	Tracking  tracking.Config
	Detection detection.Config

	// MaxReadFailures is how many consecutive failed reads end the loop
	MaxReadFailures int

	// StreamEvery sends JPEG frames to the dashboard every N processed
	// frames. 0 disables streaming.
	StreamEvery int

	// PresetPath is the YAML file the `s` key saves to. Empty disables saving.
	PresetPath string
}

// DefaultConfig returns the configuration used with no flags
func DefaultConfig() Config {
	return Config{
		Camera:          camera.DefaultConfig(),
		Tracking:        tracking.DefaultConfig(),
		Detection:       detection.DefaultConfig(),
		MaxReadFailures: 30,
		StreamEvery:     5,
	}
}

// LoadPreset replaces the initial slider positions with the ones saved at
// PresetPath. A missing file is not an error: it is created on first save.
func (c *Config) LoadPreset() error {
	if c.PresetPath == "" {
		return nil
	}

	p, err := hsv.LoadPreset(c.PresetPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load preset: %w", err)
	}

	c.Tracking.InitialRange = p.Range()
	c.Tracking.InitialBlur = p.Blur
	return nil
}
