// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"sync/atomic"
	"time"

	"scope/internal/config"
	"scope/internal/log"
	"scope/pkg/bitint"

	"github.com/gordonklaus/portaudio"
)

// Player plays one loaded clip through a PortAudio output stream.
//
// Thread safety: the stream callback reads samples and advances the cursor;
// Load, Play and Stop are only called while the stream is closed. busy and
// paused are the only state shared with a running callback.
type Player struct {
	cfg config.AudioConfig

	outputDevice  *portaudio.DeviceInfo
	outputLatency time.Duration
	outputStream  *portaudio.Stream

	samples    []float32 // interleaved, [-1, 1]
	channels   int
	sampleRate float64

	cursor atomic.Int64
	busy   atomic.Bool
	paused atomic.Bool
}

// NewPlayer resolves the configured output device. PortAudio must already
// be initialized.
func NewPlayer(cfg config.AudioConfig) (*Player, error) {
	device, err := OutputDevice(cfg.OutputDevice)
	if err != nil {
		return nil, err
	}

	p := &Player{cfg: cfg, outputDevice: device}
	if cfg.LowLatency {
		p.outputLatency = device.DefaultLowOutputLatency
	} else {
		p.outputLatency = device.DefaultHighOutputLatency
	}

	log.Debugf("player: output device %q, latency %s", device.Name, p.outputLatency)
	return p, nil
}

// Load decodes the file at path and makes it the current clip. Any running
// stream is stopped first.
func (p *Player) Load(path string) error {
	if err := p.Stop(); err != nil {
		return err
	}

	clip, err := Load(path)
	if err != nil {
		return err
	}

	p.samples = clip.Float32()
	p.channels = clip.Channels()
	p.sampleRate = float64(clip.SampleRate())
	p.cursor.Store(0)
	return nil
}

// Play starts the loaded clip from the beginning.
func (p *Player) Play() error {
	if p.samples == nil {
		return fmt.Errorf("player: nothing loaded")
	}
	if err := p.Stop(); err != nil {
		return err
	}

	channels := p.channels
	if max := p.outputDevice.MaxOutputChannels; max > 0 && channels > max {
		return fmt.Errorf("player: clip has %d channels, device supports %d", channels, max)
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: 0, // No input device
			Device:   nil,
		},
		Output: portaudio.StreamDeviceParameters{
			Channels: channels,
			Device:   p.outputDevice,
			Latency:  p.outputLatency,
		},
		FramesPerBuffer: bitint.NextPowerOfTwo(p.cfg.FramesPerBuffer),
		SampleRate:      p.sampleRate,
	}

	stream, err := portaudio.OpenStream(params, p.processOutputStream)
	if err != nil {
		return fmt.Errorf("player: open stream: %w", err)
	}

	p.cursor.Store(0)
	p.paused.Store(false)
	p.busy.Store(true)
	p.outputStream = stream

	if err := stream.Start(); err != nil {
		p.busy.Store(false)
		stream.Close()
		p.outputStream = nil
		return fmt.Errorf("player: start stream: %w", err)
	}
	return nil
}

// Pause silences output and freezes the cursor.
func (p *Player) Pause() { p.paused.Store(true) }

// Resume continues from the frozen cursor.
func (p *Player) Resume() { p.paused.Store(false) }

// Stop halts playback and closes the stream.
func (p *Player) Stop() error {
	p.busy.Store(false)
	p.paused.Store(false)

	if p.outputStream == nil {
		return nil
	}
	stream := p.outputStream
	p.outputStream = nil

	if err := stream.Stop(); err != nil {
		stream.Close()
		return fmt.Errorf("player: stop stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("player: close stream: %w", err)
	}
	return nil
}

// Busy reports whether the clip is still playing or paused mid-clip.
func (p *Player) Busy() bool { return p.busy.Load() }

// Close stops playback and releases the loaded clip.
func (p *Player) Close() error {
	err := p.Stop()
	p.samples = nil
	return err
}

// processOutputStream is the PortAudio callback.
func (p *Player) processOutputStream(out []float32) {
	p.fill(out)
}

// fill copies the next block into out, writing silence while paused or
// after the end. It does not allocate.
func (p *Player) fill(out []float32) {
	if p.paused.Load() || !p.busy.Load() {
		clear(out)
		return
	}

	pos := int(p.cursor.Load())
	if pos >= len(p.samples) {
		clear(out)
		p.busy.Store(false)
		return
	}

	n := copy(out, p.samples[pos:])
	clear(out[n:])
	pos += n
	p.cursor.Store(int64(pos))

	if pos >= len(p.samples) {
		p.busy.Store(false)
	}
}
