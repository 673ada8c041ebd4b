// SPDX-License-Identifier: MIT
package config

import "time"

// Defaults and limits for the oscilloscope. The display and playback values
// follow the original analyzer: 4000 display points, a 2 s scrolling window
// and a 50 ms logical step per 50 ms tick.
const (
	DefaultLogLevel = "info"

	DefaultOutputDevice    = MinDeviceID
	DefaultFramesPerBuffer = 1024
	DefaultLowLatency      = false

	DefaultDisplaySamples  = 4000
	DefaultWindowSizeMs    = 2000.0
	DefaultTriggerFraction = 0.3
	DefaultWidth           = 0 // 0 = size to the terminal
	DefaultHeight          = 0

	DefaultInterval  = 50 * time.Millisecond
	DefaultStepMs    = 50.0
	DefaultSpeed     = 1.0
	DefaultSpeedStep = 0.1

	DefaultFFTSize         = 16384
	DefaultSmoothingWindow = 51
	DefaultSmoothingOrder  = 3
	DefaultFFTWindow       = "none"

	DefaultWebSocketEnabled = false
	DefaultWebSocketAddress = ":8080"
	DefaultUDPEnabled       = false
	DefaultUDPAddress       = "127.0.0.1:9090"

	MinDeviceID    = -1 // -1 represents the system default device
	MinSpeed       = 0.5
	MaxSpeed       = 2.0
	MaxBufferFrame = 8192
)

// Config holds all runtime configuration. It is loaded from YAML, then
// environment overrides, then command line flags.
type Config struct {
	Debug     bool            `yaml:"debug"`
	LogLevel  string          `yaml:"log_level"`
	LogFile   string          `yaml:"log_file"` // TUI log destination; empty discards logs while the screen is active.
	Audio     AudioConfig     `yaml:"audio"`
	Display   DisplayConfig   `yaml:"display"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Spectrum  SpectrumConfig  `yaml:"spectrum"`
	Transport TransportConfig `yaml:"transport"`
}

// AudioConfig holds PortAudio output settings.
type AudioConfig struct {
	OutputDevice    int  `yaml:"output_device"`     // PortAudio device index (-1 for default).
	FramesPerBuffer int  `yaml:"frames_per_buffer"` // Rounded up to a power of two.
	LowLatency      bool `yaml:"low_latency"`
}

// DisplayConfig controls the waveform animator.
type DisplayConfig struct {
	DisplaySamples  int     `yaml:"display_samples"`  // Downsampling budget for the sample cache.
	WindowSizeMs    float64 `yaml:"window_size_ms"`   // Audio time visible in the scrolling window.
	TriggerFraction float64 `yaml:"trigger_fraction"` // Trigger marker position as a fraction of the window.
	Width           int     `yaml:"width"`            // Terminal columns per channel; 0 sizes to the terminal.
	Height          int     `yaml:"height"`           // Terminal rows per channel.
}

// PlaybackConfig controls the playback clock.
type PlaybackConfig struct {
	Interval  time.Duration `yaml:"interval"`   // Tick period.
	StepMs    float64       `yaml:"step_ms"`    // Logical position advance per tick.
	Speed     float64       `yaml:"speed"`      // Initial playback speed.
	SpeedStep float64       `yaml:"speed_step"` // Increment used by the speed keys.
}

// SpectrumConfig controls CH2.
type SpectrumConfig struct {
	FFTSize         int    `yaml:"fft_size"`
	SmoothingWindow int    `yaml:"smoothing_window"` // Savitzky-Golay window length (odd).
	SmoothingOrder  int    `yaml:"smoothing_order"`  // Savitzky-Golay polynomial order.
	Window          string `yaml:"window"`           // none, hann, hamming, blackman, ...
}

// TransportConfig controls frame broadcasting.
type TransportConfig struct {
	WebSocketEnabled bool   `yaml:"websocket_enabled"`
	WebSocketAddress string `yaml:"websocket_address"`
	UDPEnabled       bool   `yaml:"udp_enabled"`
	UDPAddress       string `yaml:"udp_address"`
}

// NewConfig returns a Config populated with the built-in defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Audio: AudioConfig{
			OutputDevice:    DefaultOutputDevice,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
		},
		Display: DisplayConfig{
			DisplaySamples:  DefaultDisplaySamples,
			WindowSizeMs:    DefaultWindowSizeMs,
			TriggerFraction: DefaultTriggerFraction,
			Width:           DefaultWidth,
			Height:          DefaultHeight,
		},
		Playback: PlaybackConfig{
			Interval:  DefaultInterval,
			StepMs:    DefaultStepMs,
			Speed:     DefaultSpeed,
			SpeedStep: DefaultSpeedStep,
		},
		Spectrum: SpectrumConfig{
			FFTSize:         DefaultFFTSize,
			SmoothingWindow: DefaultSmoothingWindow,
			SmoothingOrder:  DefaultSmoothingOrder,
			Window:          DefaultFFTWindow,
		},
		Transport: TransportConfig{
			WebSocketEnabled: DefaultWebSocketEnabled,
			WebSocketAddress: DefaultWebSocketAddress,
			UDPEnabled:       DefaultUDPEnabled,
			UDPAddress:       DefaultUDPAddress,
		},
	}
}

// ClampSpeed limits speed to the supported range.
func ClampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}
