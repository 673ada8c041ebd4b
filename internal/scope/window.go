// SPDX-License-Identifier: MIT
package scope

import "math"

// Window is the slice of Samples visible at one playback position.
// Samples aliases the cache and must not be modified.
type Window struct {
	Start   int
	End     int
	Span    int
	Time    []float64 // 0..windowMs, one entry per sample
	Samples []float64
}

// Empty reports whether there is nothing to draw.
func (w Window) Empty() bool { return len(w.Samples) == 0 }

// SelectWindow maps a playback position onto the cache. The window always
// covers windowMs of audio time: span = round(windowMs/durationMs*total)
// points starting at round(positionMs/durationMs*total). A start at or past
// the end wraps to 0, and an empty slice falls back to the first span
// points. The time axis is stretched over the full window width even when
// the final slice is short.
func SelectWindow(samples Samples, positionMs, durationMs, windowMs float64) Window {
	total := len(samples)
	if total == 0 || durationMs <= 0 || windowMs <= 0 {
		return Window{}
	}

	span := int(math.Round(windowMs / durationMs * float64(total)))
	start := int(math.Round(positionMs / durationMs * float64(total)))
	if start >= total || start < 0 {
		start = 0
	}
	end := min(start+span, total)

	if end <= start {
		start, end = 0, min(span, total)
	}

	w := Window{
		Start:   start,
		End:     end,
		Span:    span,
		Samples: samples[start:end],
	}
	w.Time = linspace(0, windowMs, len(w.Samples))
	return w
}

// linspace matches numpy.linspace with endpoint=True.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	switch n {
	case 0:
		return out
	case 1:
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	out[n-1] = hi
	return out
}
