// Package config provides environment helpers for hsvtune commands.
package config

import (
	"os"
	"strings"
)

// Default configuration.
const (
	DefaultDevice   = "0"
	DefaultLogLevel = "info"
)

// Environment variable names.
const (
	EnvDevice    = "HSVTUNE_DEVICE"
	EnvWebPort   = "HSVTUNE_WEB_PORT"
	EnvRangeFile = "HSVTUNE_RANGE_FILE"
	EnvLogLevel  = "LOG_LEVEL"
)

// Device returns the capture source from HSVTUNE_DEVICE.
// Falls back to the provided default if not set.
func Device(defaultDevice string) string {
	return lookup(EnvDevice, defaultDevice)
}

// WebPort returns the dashboard port from HSVTUNE_WEB_PORT.
// Empty means the dashboard is disabled.
func WebPort() string {
	return lookup(EnvWebPort, "")
}

// RangeFile returns the HSV range preset path from HSVTUNE_RANGE_FILE.
func RangeFile() string {
	return lookup(EnvRangeFile, "")
}

// LogLevel returns the log level from LOG_LEVEL or the default.
func LogLevel() string {
	return lookup(EnvLogLevel, DefaultLogLevel)
}

func lookup(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
