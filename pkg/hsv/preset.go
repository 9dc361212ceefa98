package hsv

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrPresetFormat is returned when a preset file cannot be decoded.
var ErrPresetFormat = errors.New("invalid range preset")

// Preset is a saved calibration: the tuned range plus the blur slider
// position it was tuned with.
type Preset struct {
	Min  Color `yaml:"min"`
	Max  Color `yaml:"max"`
	Blur int   `yaml:"blur"`
}

// Range returns the preset's thresholds.
func (p Preset) Range() Range {
	return Range{Min: p.Min, Max: p.Max}
}

// NewPreset builds a preset from a range and blur position.
func NewPreset(r Range, blur int) Preset {
	return Preset{Min: r.Min, Max: r.Max, Blur: blur}
}

// LoadPreset reads a YAML preset from path. Unknown keys are rejected so a
// typo doesn't silently fall back to zero thresholds.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("read preset: %w", err)
	}

	p := Preset{Min: DefaultRange().Min, Max: DefaultRange().Max, Blur: 1}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Preset{}, fmt.Errorf("%w: %s: %v", ErrPresetFormat, path, err)
	}

	return p, nil
}

// SavePreset writes p to path as YAML, replacing any existing file.
func SavePreset(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write preset: %w", err)
	}
	return nil
}
