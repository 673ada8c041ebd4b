// SPDX-License-Identifier: MIT
/*
Package audio loads, transforms and plays audio clips.

A Clip is immutable once built: Reverse and ChangeSpeed return new clips and
the UI replaces its clip wholesale. The Player runs a PortAudio output stream
whose callback only touches atomics and the sample cursor.
*/
package audio

import (
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
)

// Clip is decoded PCM audio held as interleaved integer samples.
type Clip struct {
	Buffer   *audio.IntBuffer
	BitDepth int
	Path     string
	Format   string // upper-case container name, e.g. "WAV"
}

// Metadata describes a clip for display.
type Metadata struct {
	FileName    string
	DurationSec float64
	SampleRate  int
	Channels    int
	BitDepth    int
	BitrateKbps float64
	Format      string
}

// NewClip wraps interleaved samples in a Clip.
func NewClip(data []int, sampleRate, channels, bitDepth int) *Clip {
	return &Clip{
		Buffer: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			Data:           data,
			SourceBitDepth: bitDepth,
		},
		BitDepth: bitDepth,
	}
}

func (c *Clip) SampleRate() int { return c.Buffer.Format.SampleRate }
func (c *Clip) Channels() int   { return c.Buffer.Format.NumChannels }

// Frames returns the number of sample frames (samples per channel).
func (c *Clip) Frames() int {
	ch := c.Channels()
	if ch <= 0 {
		return 0
	}
	return len(c.Buffer.Data) / ch
}

// DurationMs returns the clip length in milliseconds.
func (c *Clip) DurationMs() float64 {
	sr := c.SampleRate()
	if sr <= 0 {
		return 0
	}
	return float64(c.Frames()) * 1000 / float64(sr)
}

// Metadata returns the display metadata. Bitrate is the raw PCM rate.
func (c *Clip) Metadata() Metadata {
	return Metadata{
		FileName:    filepath.Base(c.Path),
		DurationSec: c.DurationMs() / 1000,
		SampleRate:  c.SampleRate(),
		Channels:    c.Channels(),
		BitDepth:    c.BitDepth,
		BitrateKbps: float64(c.SampleRate()*c.Channels()*c.BitDepth) / 1000,
		Format:      c.Format,
	}
}

// Float32 returns the interleaved samples scaled to [-1, 1].
func (c *Clip) Float32() []float32 {
	scale := fullScale(c.BitDepth)
	out := make([]float32, len(c.Buffer.Data))
	for i, v := range c.Buffer.Data {
		out[i] = float32(float64(v) / scale)
	}
	return out
}

// Channel returns one de-interleaved channel as float64 in [-1, 1].
func (c *Clip) Channel(index int) []float64 {
	ch := c.Channels()
	if index < 0 || index >= ch {
		return nil
	}
	scale := fullScale(c.BitDepth)
	out := make([]float64, 0, c.Frames())
	for i := index; i < len(c.Buffer.Data); i += ch {
		out = append(out, float64(c.Buffer.Data[i])/scale)
	}
	return out
}

// derive returns a clip sharing c's format with new data.
func (c *Clip) derive(data []int) *Clip {
	out := NewClip(data, c.SampleRate(), c.Channels(), c.BitDepth)
	out.Path = c.Path
	out.Format = c.Format
	return out
}

func fullScale(bitDepth int) float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return float64(int64(1) << (bitDepth - 1))
}

func formatName(path string) string {
	return strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
}
