// SPDX-License-Identifier: MIT
package scope

const (
	amplitudeLimit = 1.2
	markerDash     = 3

	timeLabel      = "TIME (ms)"
	amplitudeLabel = "AMPLITUDE (V)"
)

// Animator draws the scrolling waveform. Prepare renders the static
// background (grid, labels, zero line, trigger marker) once and keeps a
// snapshot; each Update restores that snapshot and draws only the trace
// and marker on top.
//
// An Animator is confined to the goroutine that owns its Surface.
type Animator struct {
	surf    Surface
	axes    *Axes
	theme   Theme
	window  float64 // ms of audio visible at once
	trigger float64 // marker position as a fraction of the window

	background Snapshot
	samples    Samples
	prepared   bool
	last       Window
}

// NewAnimator returns an unprepared animator drawing on s.
func NewAnimator(s Surface, theme Theme, windowMs, triggerFraction float64) *Animator {
	return &Animator{
		surf:    s,
		theme:   theme,
		window:  windowMs,
		trigger: triggerFraction,
	}
}

// Prepare caches samples and renders the background. It returns false,
// leaving the animator unprepared, when samples is empty.
func (a *Animator) Prepare(samples Samples) bool {
	if len(samples) == 0 {
		return false
	}
	a.samples = samples

	a.axes = NewAxes(a.surf, a.theme, timeLabel, amplitudeLabel)
	a.axes.SetX(0, a.window, Linear)
	a.axes.SetY(-amplitudeLimit, amplitudeLimit)
	a.axes.DrawFrame()
	a.axes.HLine(0, a.theme.ZeroLine, 0)
	a.drawMarker()

	a.background = a.surf.Snapshot()
	a.prepared = true
	return true
}

// Update composites the window for positionMs onto the background and
// presents it. It does nothing until Prepare has succeeded.
func (a *Animator) Update(positionMs, durationMs float64) bool {
	if !a.prepared {
		return false
	}

	a.last = SelectWindow(a.samples, positionMs, durationMs, a.window)

	a.surf.Restore(a.background)
	a.axes.Polyline(a.last.Time, a.last.Samples, a.theme.Trace)
	a.drawMarker()
	a.surf.Present()
	return true
}

// Invalidate drops the background and sample cache. It must be called
// whenever the source audio changes.
func (a *Animator) Invalidate() {
	a.background = nil
	a.samples = nil
	a.prepared = false
	a.last = Window{}
}

// Prepared reports whether Update will draw.
func (a *Animator) Prepared() bool { return a.prepared }

// Window returns the window drawn by the last Update.
func (a *Animator) Window() Window { return a.last }

func (a *Animator) drawMarker() {
	a.axes.VLine(a.window*a.trigger, a.theme.Marker, markerDash)
}
