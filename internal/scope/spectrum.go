// SPDX-License-Identifier: MIT
package scope

import "scope/internal/analysis"

const (
	minFrequency   = 20.0
	frequencyLabel = "FREQUENCY (Hz)"
	magnitudeLabel = "MAGNITUDE (dB)"
	headroom       = 1.05
)

// SpectrumPanel draws CH2: a filled magnitude curve on a log frequency
// axis from 20 Hz to Nyquist.
type SpectrumPanel struct {
	surf  Surface
	theme Theme
}

func NewSpectrumPanel(s Surface, theme Theme) *SpectrumPanel {
	return &SpectrumPanel{surf: s, theme: theme}
}

// Draw renders spec and presents it. An empty spectrum, or a sample rate
// with Nyquist at or below 20 Hz, draws the NO SIGNAL placeholder.
func (p *SpectrumPanel) Draw(spec analysis.Spectrum, sampleRate float64) {
	axes := NewAxes(p.surf, p.theme, frequencyLabel, magnitudeLabel)
	nyquist := sampleRate / 2

	if spec.Empty() || nyquist <= minFrequency {
		axes.SetX(minFrequency, 20000, Log)
		axes.SetY(0, 1)
		axes.DrawFrame()
		axes.Placeholder(noSignal, GreenMedium)
		p.surf.Present()
		return
	}

	var top float64
	for _, v := range spec.DB {
		top = max(top, v)
	}
	if top <= 0 {
		top = 1
	}

	axes.SetX(minFrequency, nyquist, Log)
	axes.SetY(0, top*headroom)
	axes.DrawFrame()
	axes.FillBelow(spec.Freqs, spec.DB, 0, p.theme.Fill)
	axes.Polyline(spec.Freqs, spec.DB, p.theme.Trace)
	p.surf.Present()
}
