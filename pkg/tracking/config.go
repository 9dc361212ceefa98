package tracking

import (
	"time"

	"github.com/teslashibe/go-hsvtune/pkg/hsv"
)

// Config holds the tunable parameters of the calibration loop
type Config struct {
	// Click sampling
	SampleStep int // ± applied to each channel around a clicked pixel

	// Timing
	PollInterval time.Duration // Key poll timeout per frame

	// Initial slider positions
	InitialRange hsv.Range
	InitialBlur  int // Raw blur slider position
}

// DefaultConfig returns the configuration the tool starts with
func DefaultConfig() Config {
	return Config{
		SampleStep:   15,
		PollInterval: 30 * time.Millisecond,
		InitialRange: hsv.DefaultRange(),
		InitialBlur:  1,
	}
}

// FineConfig narrows the click window for colors close to the background
func FineConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleStep = 8
	return cfg
}

// CoarseConfig widens the click window for unevenly lit targets
func CoarseConfig() Config {
	cfg := DefaultConfig()
	cfg.SampleStep = 30
	return cfg
}

// InitialParams returns the slider state described by the config
func (c Config) InitialParams() Params {
	return Params{Range: c.InitialRange, Blur: c.InitialBlur}
}

// PollMillis returns PollInterval in the millisecond units highgui expects.
// Anything under 1ms is raised to 1 so the poll never blocks forever.
func (c Config) PollMillis() int {
	ms := int(c.PollInterval / time.Millisecond)
	if ms < 1 {
		return 1
	}
	return ms
}

// Params is the live slider state read at the top of every frame.
type Params struct {
	Range hsv.Range `json:"range"`
	Blur  int       `json:"blur"` // Raw slider position, see SanitizeBlur
}

// DefaultParams returns the full range with blur disabled.
func DefaultParams() Params {
	return DefaultConfig().InitialParams()
}

// BlurRadius returns the sanitized median blur aperture for p.
func (p Params) BlurRadius() int {
	return SanitizeBlur(p.Blur)
}
