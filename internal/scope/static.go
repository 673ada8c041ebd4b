// SPDX-License-Identifier: MIT
package scope

import "fmt"

const noSignal = "NO SIGNAL"

// DrawStatic draws the full-range waveform over 0..durationMs and presents
// it. While playing with a positive position it adds a dashed marker and
// an "NNNms" label. Empty samples draw the NO SIGNAL placeholder.
func DrawStatic(s Surface, theme Theme, samples Samples, durationMs, positionMs float64, playing bool) {
	axes := NewAxes(s, theme, timeLabel, amplitudeLabel)
	axes.SetY(-amplitudeLimit, amplitudeLimit)

	if len(samples) == 0 || durationMs <= 0 {
		axes.DrawFrame()
		axes.Placeholder(noSignal, GreenMedium)
		s.Present()
		return
	}

	axes.SetX(0, durationMs, Linear)
	axes.DrawFrame()
	axes.Polyline(linspace(0, durationMs, len(samples)), samples, theme.Trace)
	axes.HLine(0, theme.ZeroLine, 0)

	if playing && positionMs > 0 {
		axes.VLine(positionMs, theme.Marker, markerDash)
		axes.Label(positionMs, 1.1, fmt.Sprintf("%.0fms", positionMs), theme.Marker)
	}
	s.Present()
}
