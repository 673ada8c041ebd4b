// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"scope/internal/log"
	"scope/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from the YAML file at path. An empty path
// searches the default locations; when nothing is found the built-in
// defaults are used. Environment overrides are applied after the file and
// the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		for _, candidate := range []string{"scope.yaml", "config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		log.Debugf("configuration: loaded %s", path)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field that the display, playback and spectrum
// components depend on.
func (c *Config) Validate() error {
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}
	if c.Audio.OutputDevice < MinDeviceID {
		return fmt.Errorf("audio.output_device must be >= %d, got %d", MinDeviceID, c.Audio.OutputDevice)
	}
	if c.Audio.FramesPerBuffer <= 0 || c.Audio.FramesPerBuffer > MaxBufferFrame {
		return fmt.Errorf("audio.frames_per_buffer must be in (0, %d], got %d", MaxBufferFrame, c.Audio.FramesPerBuffer)
	}

	if c.Display.DisplaySamples <= 0 {
		return fmt.Errorf("display.display_samples must be positive, got %d", c.Display.DisplaySamples)
	}
	if c.Display.WindowSizeMs <= 0 {
		return fmt.Errorf("display.window_size_ms must be positive, got %g", c.Display.WindowSizeMs)
	}
	if c.Display.TriggerFraction < 0 || c.Display.TriggerFraction > 1 {
		return fmt.Errorf("display.trigger_fraction must be in [0, 1], got %g", c.Display.TriggerFraction)
	}
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return fmt.Errorf("display dimensions must not be negative (%dx%d)", c.Display.Width, c.Display.Height)
	}

	if c.Playback.Interval <= 0 {
		return fmt.Errorf("playback.interval must be positive, got %s", c.Playback.Interval)
	}
	if c.Playback.StepMs <= 0 {
		return fmt.Errorf("playback.step_ms must be positive, got %g", c.Playback.StepMs)
	}
	if c.Playback.Speed < MinSpeed || c.Playback.Speed > MaxSpeed {
		return fmt.Errorf("playback.speed must be in [%g, %g], got %g", MinSpeed, MaxSpeed, c.Playback.Speed)
	}
	if c.Playback.SpeedStep <= 0 {
		return fmt.Errorf("playback.speed_step must be positive, got %g", c.Playback.SpeedStep)
	}

	if !bitint.IsPowerOfTwo(c.Spectrum.FFTSize) {
		return fmt.Errorf("spectrum.fft_size must be a power of 2, got %d", c.Spectrum.FFTSize)
	}
	if c.Spectrum.SmoothingWindow%2 == 0 || c.Spectrum.SmoothingWindow <= c.Spectrum.SmoothingOrder {
		return fmt.Errorf("spectrum.smoothing_window must be odd and greater than smoothing_order (%d, %d)",
			c.Spectrum.SmoothingWindow, c.Spectrum.SmoothingOrder)
	}
	if c.Spectrum.SmoothingOrder < 0 {
		return fmt.Errorf("spectrum.smoothing_order must not be negative, got %d", c.Spectrum.SmoothingOrder)
	}

	if c.Transport.WebSocketEnabled && c.Transport.WebSocketAddress == "" {
		return fmt.Errorf("transport.websocket_address must be set when the websocket transport is enabled")
	}
	if c.Transport.UDPEnabled && c.Transport.UDPAddress == "" {
		return fmt.Errorf("transport.udp_address must be set when the UDP transport is enabled")
	}

	return nil
}

// applyEnvOverrides applies SCOPE_* environment variables on top of the
// file values. Unparseable values are ignored with a warning.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("SCOPE_DEBUG"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Debug = b
			log.Debugf("configuration: overriding debug from env: %v", b)
		} else {
			log.Warnf("configuration: ignoring SCOPE_DEBUG=%q: %v", val, err)
		}
	}

	if val, ok := os.LookupEnv("SCOPE_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}

	if val, ok := os.LookupEnv("SCOPE_SPEED"); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			c.Playback.Speed = f
			log.Debugf("configuration: overriding playback.speed from env: %g", f)
		} else {
			log.Warnf("configuration: ignoring SCOPE_SPEED=%q: %v", val, err)
		}
	}

	if val, ok := os.LookupEnv("SCOPE_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Playback.Interval = d
			log.Debugf("configuration: overriding playback.interval from env: %s", d)
		} else {
			log.Warnf("configuration: ignoring SCOPE_INTERVAL=%q: %v", val, err)
		}
	}

	if val, ok := os.LookupEnv("SCOPE_WS_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.WebSocketEnabled = b
			log.Debugf("configuration: overriding transport.websocket_enabled from env: %v", b)
		} else {
			log.Warnf("configuration: ignoring SCOPE_WS_ENABLED=%q: %v", val, err)
		}
	}

	if val, ok := os.LookupEnv("SCOPE_WS_ADDRESS"); ok {
		c.Transport.WebSocketAddress = val
		log.Debugf("configuration: overriding transport.websocket_address from env: %s", val)
	}
}
