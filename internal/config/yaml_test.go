// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Display.DisplaySamples != DefaultDisplaySamples {
		t.Errorf("DisplaySamples = %d, want %d", cfg.Display.DisplaySamples, DefaultDisplaySamples)
	}
	if cfg.Playback.Interval != DefaultInterval {
		t.Errorf("Interval = %s, want %s", cfg.Playback.Interval, DefaultInterval)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
display:
  display_samples: 2000
  window_size_ms: 1500
playback:
  interval: 100ms
  step_ms: 100
  speed: 1.5
spectrum:
  fft_size: 4096
  window: hann
transport:
  websocket_enabled: true
  websocket_address: "127.0.0.1:9000"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Display.DisplaySamples != 2000 || cfg.Display.WindowSizeMs != 1500 {
		t.Errorf("Display = %+v", cfg.Display)
	}
	// Unset fields keep their defaults.
	if cfg.Display.TriggerFraction != DefaultTriggerFraction {
		t.Errorf("TriggerFraction = %g, want default", cfg.Display.TriggerFraction)
	}
	if cfg.Playback.Interval != 100*time.Millisecond || cfg.Playback.StepMs != 100 || cfg.Playback.Speed != 1.5 {
		t.Errorf("Playback = %+v", cfg.Playback)
	}
	if cfg.Spectrum.FFTSize != 4096 || cfg.Spectrum.Window != "hann" {
		t.Errorf("Spectrum = %+v", cfg.Spectrum)
	}
	if cfg.Spectrum.SmoothingWindow != DefaultSmoothingWindow {
		t.Errorf("SmoothingWindow = %d, want default", cfg.Spectrum.SmoothingWindow)
	}
	if !cfg.Transport.WebSocketEnabled || cfg.Transport.WebSocketAddress != "127.0.0.1:9000" {
		t.Errorf("Transport = %+v", cfg.Transport)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SCOPE_DEBUG", "true")
	t.Setenv("SCOPE_LOG_LEVEL", "warn")
	t.Setenv("SCOPE_SPEED", "0.75")
	t.Setenv("SCOPE_INTERVAL", "20ms")
	t.Setenv("SCOPE_WS_ENABLED", "1")
	t.Setenv("SCOPE_WS_ADDRESS", ":9999")

	path := writeTempConfig(t, "playback:\n  speed: 1.5\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug not overridden")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.Playback.Speed != 0.75 {
		t.Errorf("Speed = %g, env should win over file", cfg.Playback.Speed)
	}
	if cfg.Playback.Interval != 20*time.Millisecond {
		t.Errorf("Interval = %s", cfg.Playback.Interval)
	}
	if !cfg.Transport.WebSocketEnabled || cfg.Transport.WebSocketAddress != ":9999" {
		t.Errorf("Transport = %+v", cfg.Transport)
	}
}

func TestLoadConfig_BadEnvIgnored(t *testing.T) {
	t.Setenv("SCOPE_SPEED", "fast")

	cfg, err := LoadConfig(writeTempConfig(t, "debug: false\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Playback.Speed != DefaultSpeed {
		t.Errorf("Speed = %g, want default", cfg.Playback.Speed)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"device below default", func(c *Config) { c.Audio.OutputDevice = -2 }, "output_device"},
		{"buffer too large", func(c *Config) { c.Audio.FramesPerBuffer = MaxBufferFrame + 1 }, "frames_per_buffer"},
		{"no display samples", func(c *Config) { c.Display.DisplaySamples = 0 }, "display_samples"},
		{"zero window", func(c *Config) { c.Display.WindowSizeMs = 0 }, "window_size_ms"},
		{"trigger out of range", func(c *Config) { c.Display.TriggerFraction = 1.5 }, "trigger_fraction"},
		{"negative width", func(c *Config) { c.Display.Width = -1 }, "dimensions"},
		{"zero interval", func(c *Config) { c.Playback.Interval = 0 }, "interval"},
		{"zero step", func(c *Config) { c.Playback.StepMs = 0 }, "step_ms"},
		{"speed too slow", func(c *Config) { c.Playback.Speed = 0.25 }, "playback.speed"},
		{"speed too fast", func(c *Config) { c.Playback.Speed = 2.5 }, "playback.speed"},
		{"fft not pow2", func(c *Config) { c.Spectrum.FFTSize = 1000 }, "fft_size"},
		{"even sg window", func(c *Config) { c.Spectrum.SmoothingWindow = 50 }, "smoothing_window"},
		{"sg window <= order", func(c *Config) { c.Spectrum.SmoothingWindow = 3; c.Spectrum.SmoothingOrder = 3 }, "smoothing_window"},
		{"ws without address", func(c *Config) {
			c.Transport.WebSocketEnabled = true
			c.Transport.WebSocketAddress = ""
		}, "websocket_address"},
		{"udp without address", func(c *Config) {
			c.Transport.UDPEnabled = true
			c.Transport.UDPAddress = ""
		}, "udp_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestClampSpeed(t *testing.T) {
	t.Parallel()
	for in, want := range map[float64]float64{0.1: MinSpeed, 0.5: 0.5, 1.3: 1.3, 2.0: 2.0, 9: MaxSpeed} {
		if got := ClampSpeed(in); got != want {
			t.Errorf("ClampSpeed(%g) = %g, want %g", in, got, want)
		}
	}
}
