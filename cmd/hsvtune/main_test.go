package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/teslashibe/go-hsvtune/pkg/calibrate"
	"github.com/teslashibe/go-hsvtune/pkg/camera"
	"github.com/teslashibe/go-hsvtune/pkg/tracking"
	"github.com/teslashibe/go-hsvtune/pkg/tracking/detection"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HSVTUNE_DEVICE", "HSVTUNE_WEB_PORT", "HSVTUNE_RANGE_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	got, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	want := options{calibrate: calibrate.DefaultConfig(), logLevel: "info"}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(options{})); diff != "" {
		t.Errorf("parseFlags() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFlags_EnvAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HSVTUNE_DEVICE", "clip.mp4")
	t.Setenv("HSVTUNE_WEB_PORT", "8090")
	t.Setenv("HSVTUNE_RANGE_FILE", "blue.yaml")
	t.Setenv("LOG_LEVEL", "warn")

	got, err := parseFlags(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if got.calibrate.Camera.Device != "clip.mp4" || got.webPort != "8090" ||
		got.calibrate.PresetPath != "blue.yaml" || got.logLevel != "warn" {
		t.Errorf("env not applied: %+v", got)
	}

	got, err = parseFlags([]string{"-device", "1", "-web", "", "-debug"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if got.calibrate.Camera.Device != "1" {
		t.Errorf("Device = %q, want flag value", got.calibrate.Camera.Device)
	}
	if got.webPort != "" {
		t.Errorf("webPort = %q, want disabled", got.webPort)
	}
	if got.logLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", got.logLevel)
	}
}

func TestParseFlags_Capture(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		want camera.Config
	}{
		{
			name: "resolution preset",
			args: []string{"-preset-res", "720p"},
			want: camera.HD720Config(),
		},
		{
			name: "explicit size overrides preset",
			args: []string{"-preset-res", "720p", "-width", "320", "-height", "240", "-fps", "15"},
			want: func() camera.Config {
				c := camera.HD720Config()
				c.Width, c.Height, c.Framerate = 320, 240, 15
				return c
			}(),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseFlags(tc.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if diff := cmp.Diff(tc.want, got.calibrate.Camera); diff != "" {
				t.Errorf("camera mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFlags_Tuning(t *testing.T) {
	clearEnv(t)

	got, err := parseFlags([]string{"-step", "8", "-full-hue"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if got.calibrate.Tracking.SampleStep != 8 {
		t.Errorf("SampleStep = %d, want 8", got.calibrate.Tracking.SampleStep)
	}
	if got.calibrate.Detection != detection.FullHueConfig() {
		t.Errorf("Detection = %+v, want full hue", got.calibrate.Detection)
	}
}

func TestParseFlags_SampleMode(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"default", nil, 15},
		{"fine", []string{"-sample", "fine"}, tracking.FineConfig().SampleStep},
		{"coarse", []string{"-sample", "coarse"}, tracking.CoarseConfig().SampleStep},
		{"step overrides mode", []string{"-sample", "coarse", "-step", "12"}, 12},
		{"explicit default step keeps it", []string{"-sample", "fine", "-step", "15"}, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseFlags(tc.args, io.Discard)
			if err != nil {
				t.Fatalf("parseFlags: %v", err)
			}
			if got.calibrate.Tracking.SampleStep != tc.want {
				t.Errorf("SampleStep = %d, want %d", got.calibrate.Tracking.SampleStep, tc.want)
			}
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"unknown preset", []string{"-preset-res", "8k"}},
		{"width without height", []string{"-width", "640"}},
		{"step too large", []string{"-step", "300"}},
		{"negative step", []string{"-step", "-1"}},
		{"unknown sample mode", []string{"-sample", "medium"}},
		{"positional argument", []string{"extra"}},
		{"bad fps", []string{"-fps", "fast"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseFlags(tc.args, io.Discard); err == nil {
				t.Errorf("parseFlags(%v) succeeded, want error", tc.args)
			}
		})
	}
}

func TestParseFlags_InvalidCameraWraps(t *testing.T) {
	clearEnv(t)

	_, err := parseFlags([]string{"-height", "480"}, io.Discard)
	if !errors.Is(err, camera.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestRun_ExitCodes(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, exitOK},
		{"bad flag", []string{"-nope"}, exitUsage},
		{"bad preset file", []string{"-range", "testdata/bad.yaml"}, exitUsage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.args, io.Discard, io.Discard); got != tc.want {
				t.Errorf("run(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}

	// flag.ErrHelp is how -h surfaces from the flag set
	if _, err := parseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("parseFlags(-h) err = %v, want flag.ErrHelp", err)
	}
}
