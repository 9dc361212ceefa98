package camera

import "sort"

// Preset names for common capture resolutions
const (
	PresetDefault = "default"
	PresetVGA     = "vga"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
	PresetNight   = "night"
)

// Presets returns all available preset configurations.
func Presets() map[string]Config {
	return map[string]Config{
		PresetDefault: DefaultConfig(),
		PresetVGA:     VGAConfig(),
		Preset720p:    HD720Config(),
		Preset1080p:   HD1080Config(),
		PresetNight:   NightModeConfig(),
	}
}

// PresetNames returns the sorted list of available preset names.
func PresetNames() []string {
	names := make([]string, 0, len(Presets()))
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a preset config by name, or nil if not found.
func GetPreset(name string) *Config {
	presets := Presets()
	if cfg, ok := presets[name]; ok {
		return &cfg
	}
	return nil
}

// Apply copies the preset's capture settings onto cfg, keeping its device.
func Apply(cfg Config, name string) (Config, bool) {
	preset := GetPreset(name)
	if preset == nil {
		return cfg, false
	}
	preset.Device = cfg.Device
	return *preset, true
}

// VGAConfig returns 640x480, the size most webcams default to.
// Keeps the per-pixel centroid scan cheap.
func VGAConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 640
	cfg.Height = 480
	cfg.Framerate = 30
	return cfg
}

// HD720Config returns 720p HD configuration.
func HD720Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1280
	cfg.Height = 720
	cfg.Framerate = 30
	return cfg
}

// HD1080Config returns 1080p Full HD configuration.
// Higher CPU usage per frame.
func HD1080Config() Config {
	cfg := DefaultConfig()
	cfg.Width = 1920
	cfg.Height = 1080
	cfg.Framerate = 30
	return cfg
}

// NightModeConfig returns a VGA configuration with a long manual exposure.
func NightModeConfig() Config {
	cfg := VGAConfig()
	cfg.Framerate = 15
	cfg.Exposure = 200
	return cfg
}
