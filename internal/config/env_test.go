package config

import "testing"

func TestDevice(t *testing.T) {
	t.Setenv(EnvDevice, "")
	if got := Device(DefaultDevice); got != "0" {
		t.Errorf("Device() = %q, want default %q", got, "0")
	}

	t.Setenv(EnvDevice, " /tmp/clip.mp4 ")
	if got := Device(DefaultDevice); got != "/tmp/clip.mp4" {
		t.Errorf("Device() = %q, want trimmed env value", got)
	}
}

func TestWebPort_DisabledByDefault(t *testing.T) {
	t.Setenv(EnvWebPort, "")
	if got := WebPort(); got != "" {
		t.Errorf("WebPort() = %q, want empty", got)
	}

	t.Setenv(EnvWebPort, "8090")
	if got := WebPort(); got != "8090" {
		t.Errorf("WebPort() = %q, want 8090", got)
	}
}

func TestLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if got := LogLevel(); got != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", got, DefaultLogLevel)
	}

	t.Setenv(EnvLogLevel, "debug")
	if got := LogLevel(); got != "debug" {
		t.Errorf("LogLevel() = %q, want debug", got)
	}
}

func TestRangeFile(t *testing.T) {
	t.Setenv(EnvRangeFile, "ball.yaml")
	if got := RangeFile(); got != "ball.yaml" {
		t.Errorf("RangeFile() = %q, want ball.yaml", got)
	}
}
