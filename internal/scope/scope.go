// SPDX-License-Identifier: MIT
/*
Package scope renders the two oscilloscope channels: CH1, a scrolling
time-domain waveform, and CH2, a smoothed frequency spectrum.

Everything here runs on a single goroutine, the one that owns the
surfaces. Signals are replaced wholesale; the animator's cached background
is invalidated on every replacement and rebuilt on the next frame.
*/
package scope

import (
	"scope/internal/analysis"
	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/log"
)

// Signal is everything the display derives from one clip.
type Signal struct {
	Samples    Samples
	DurationMs float64
	SampleRate float64
	Spectrum   analysis.Spectrum
}

// Empty reports whether there is no audio to show.
func (s Signal) Empty() bool { return len(s.Samples) == 0 }

// SignalFromClip prepares display samples and the spectrum of clip's first
// channel. A nil clip yields the empty signal.
func SignalFromClip(clip *audio.Clip, budget int, an *analysis.Analyzer) Signal {
	if clip == nil {
		return Signal{}
	}
	sig := Signal{
		Samples:    PrepareSamples(clip.Buffer.Data, clip.Channels(), budget),
		DurationMs: clip.DurationMs(),
		SampleRate: float64(clip.SampleRate()),
	}
	if an != nil {
		sig.Spectrum = an.Compute(clip.Channel(0), sig.SampleRate)
	}
	return sig
}

// Frame is one animation tick as published to frame sinks.
type Frame struct {
	Type       string    `json:"type"`
	PositionMs float64   `json:"position_ms"`
	DurationMs float64   `json:"duration_ms"`
	Start      int       `json:"start"`
	End        int       `json:"end"`
	Time       []float64 `json:"time"`
	Samples    []float64 `json:"samples"`
}

// FrameSink receives frames after they are drawn.
type FrameSink interface {
	Send(data any) error
}

// Scope owns the current signal and both channels.
type Scope struct {
	wave  Surface
	theme Theme

	animator *Animator
	panel    *SpectrumPanel
	signal   Signal
	sink     FrameSink
}

// New builds a Scope drawing CH1 on wave and CH2 on spec, and draws the
// NO SIGNAL state on both.
func New(wave, spec Surface, theme Theme, cfg config.DisplayConfig) *Scope {
	s := &Scope{
		wave:     wave,
		theme:    theme,
		animator: NewAnimator(wave, theme, cfg.WindowSizeMs, cfg.TriggerFraction),
		panel:    NewSpectrumPanel(spec, theme),
	}
	s.Redraw()
	return s
}

// SetSink sets where frames are published. nil disables publishing.
func (s *Scope) SetSink(sink FrameSink) { s.sink = sink }

// Signal returns the current signal.
func (s *Scope) Signal() Signal { return s.signal }

// SetSignal replaces the current signal, invalidates the animation cache
// and redraws the static views.
func (s *Scope) SetSignal(sig Signal) {
	s.signal = sig
	s.Redraw()
}

// Redraw invalidates the animation cache and redraws both channels from
// the current signal, e.g. after the surfaces were resized.
func (s *Scope) Redraw() {
	s.animator.Invalidate()
	s.ShowStatic(0, false)
	s.panel.Draw(s.signal.Spectrum, s.signal.SampleRate)
}

// Animate draws one scrolling frame, preparing the background first if
// needed, and publishes it. It returns false for an empty signal.
func (s *Scope) Animate(positionMs, durationMs float64) bool {
	if !s.animator.Prepared() && !s.animator.Prepare(s.signal.Samples) {
		return false
	}
	if !s.animator.Update(positionMs, durationMs) {
		return false
	}

	if s.sink != nil {
		w := s.animator.Window()
		frame := Frame{
			Type:       "frame",
			PositionMs: positionMs,
			DurationMs: durationMs,
			Start:      w.Start,
			End:        w.End,
			Time:       w.Time,
			Samples:    w.Samples,
		}
		if err := s.sink.Send(frame); err != nil {
			log.Debugf("scope: frame not sent: %v", err)
		}
	}
	return true
}

// ShowStatic draws the full-range waveform, with a position marker while
// playing.
func (s *Scope) ShowStatic(positionMs float64, playing bool) {
	DrawStatic(s.wave, s.theme, s.signal.Samples, s.signal.DurationMs, positionMs, playing)
}
