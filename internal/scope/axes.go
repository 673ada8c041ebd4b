// SPDX-License-Identifier: MIT
package scope

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"unicode/utf8"
)

// Scale selects how data values map onto an axis.
type Scale int

const (
	Linear Scale = iota
	Log
)

const (
	majorTicksX     = 6
	majorTicksY     = 5
	minorPerMajor   = 5
	// minMinorSpacing is the closest minor grid lines may be, in characters.
	minMinorSpacing = 2
)

// Axes maps data coordinates onto a plot area inside a Surface and draws
// the grid, tick labels, axis labels and border.
type Axes struct {
	surf  Surface
	theme Theme

	plot   image.Rectangle
	xLabel string
	yLabel string

	xMin, xMax float64
	yMin, yMax float64
	xScale     Scale
}

// NewAxes lays out a plot area with room for tick labels on the left and
// below, the y label above and the x label at the bottom.
func NewAxes(s Surface, theme Theme, xLabel, yLabel string) *Axes {
	a := &Axes{surf: s, theme: theme, xLabel: xLabel, yLabel: yLabel, xMax: 1, yMax: 1}
	a.layout()
	return a
}

func (a *Axes) layout() {
	b := a.surf.Bounds()
	cw, ch := a.surf.CharSize()
	a.plot = image.Rect(b.Min.X+6*cw, b.Min.Y+ch, b.Max.X-2*cw, b.Max.Y-2*ch)
	if a.plot.Dx() < 4 || a.plot.Dy() < 4 {
		a.plot = b
	}
}

// Plot returns the plot area in pixels.
func (a *Axes) Plot() image.Rectangle { return a.plot }

// SetX sets the x range and scale. Log ranges must be positive.
func (a *Axes) SetX(lo, hi float64, scale Scale) {
	a.xMin, a.xMax, a.xScale = lo, hi, scale
}

// SetY sets the y range.
func (a *Axes) SetY(lo, hi float64) {
	a.yMin, a.yMax = lo, hi
}

func (a *Axes) xFrac(v float64) float64 {
	if a.xScale == Log {
		if v <= 0 || a.xMin <= 0 {
			return math.NaN()
		}
		return (math.Log10(v) - math.Log10(a.xMin)) / (math.Log10(a.xMax) - math.Log10(a.xMin))
	}
	return (v - a.xMin) / (a.xMax - a.xMin)
}

// PX maps a data x value to a pixel column.
func (a *Axes) PX(v float64) int {
	f := a.xFrac(v)
	return a.plot.Min.X + int(math.Round(f*float64(a.plot.Dx()-1)))
}

// PY maps a data y value to a pixel row.
func (a *Axes) PY(v float64) int {
	f := (v - a.yMin) / (a.yMax - a.yMin)
	return a.plot.Max.Y - 1 - int(math.Round(f*float64(a.plot.Dy()-1)))
}

func (a *Axes) inX(v float64) bool {
	f := a.xFrac(v)
	return f >= 0 && f <= 1
}

// DrawFrame clears the surface and draws grid, labels and border.
func (a *Axes) DrawFrame() {
	a.surf.Clear(a.theme.Background)
	cw, ch := a.surf.CharSize()
	p := a.plot

	xMajor, xMinor := a.xTicks()
	yMajor, yMinor := linearTicks(a.yMin, a.yMax, majorTicksY)

	if spaced(a, xMinor, true, minMinorSpacing*cw) {
		for _, v := range xMinor {
			a.VLine(v, a.theme.MinorGrid, 1)
		}
	}
	if spaced(a, yMinor, false, minMinorSpacing*ch) {
		for _, v := range yMinor {
			a.HLine(v, a.theme.MinorGrid, 1)
		}
	}
	for _, v := range xMajor {
		a.VLine(v, a.theme.Grid, 0)
	}
	for _, v := range yMajor {
		a.HLine(v, a.theme.Grid, 0)
	}

	// Border.
	a.surf.Line(p.Min.X, p.Min.Y, p.Max.X-1, p.Min.Y, a.theme.Border, 0)
	a.surf.Line(p.Min.X, p.Max.Y-1, p.Max.X-1, p.Max.Y-1, a.theme.Border, 0)
	a.surf.Line(p.Min.X, p.Min.Y, p.Min.X, p.Max.Y-1, a.theme.Border, 0)
	a.surf.Line(p.Max.X-1, p.Min.Y, p.Max.X-1, p.Max.Y-1, a.theme.Border, 0)

	// Tick labels.
	lastEnd := math.MinInt
	for _, v := range xMajor {
		label := a.formatX(v)
		w := utf8.RuneCountInString(label) * cw
		x := a.PX(v) - w/2
		if x < lastEnd+cw {
			continue
		}
		a.surf.Text(x, p.Max.Y, label, a.theme.Label)
		lastEnd = x + w
	}
	for _, v := range yMajor {
		label := formatTick(v)
		w := utf8.RuneCountInString(label) * cw
		a.surf.Text(p.Min.X-w-cw/2, a.PY(v)-ch/2, label, a.theme.Label)
	}

	// Axis labels.
	b := a.surf.Bounds()
	xw := utf8.RuneCountInString(a.xLabel) * cw
	a.surf.Text(p.Min.X+(p.Dx()-xw)/2, b.Max.Y-ch, a.xLabel, a.theme.Label)
	a.surf.Text(b.Min.X, b.Min.Y, a.yLabel, a.theme.Label)
}

// VLine draws a vertical line across the plot at data x.
func (a *Axes) VLine(x float64, c color.RGBA, dash int) {
	if !a.inX(x) {
		return
	}
	px := a.PX(x)
	a.surf.Line(px, a.plot.Min.Y, px, a.plot.Max.Y-1, c, dash)
}

// HLine draws a horizontal line across the plot at data y.
func (a *Axes) HLine(y float64, c color.RGBA, dash int) {
	if y < a.yMin || y > a.yMax {
		return
	}
	py := a.PY(y)
	a.surf.Line(a.plot.Min.X, py, a.plot.Max.X-1, py, c, dash)
}

// Polyline connects consecutive points. Points outside a log axis are
// skipped.
func (a *Axes) Polyline(xs, ys []float64, c color.RGBA) {
	n := min(len(xs), len(ys))
	havePrev := false
	var px0, py0 int
	for i := range n {
		if !a.inX(xs[i]) {
			havePrev = false
			continue
		}
		px, py := a.PX(xs[i]), a.clampPY(ys[i])
		if havePrev {
			a.surf.Line(px0, py0, px, py, c, 0)
		} else if n == 1 {
			a.surf.Line(px, py, px, py, c, 0)
		}
		px0, py0, havePrev = px, py, true
	}
}

// FillBelow fills the area between the curve and base, column by column.
func (a *Axes) FillBelow(xs, ys []float64, base float64, c color.RGBA) {
	n := min(len(xs), len(ys))
	by := a.clampPY(base)
	prevX, prevY := 0, 0.0
	havePrev := false
	for i := range n {
		if !a.inX(xs[i]) {
			havePrev = false
			continue
		}
		px := a.PX(xs[i])
		if havePrev && px > prevX {
			for x := prevX; x <= px; x++ {
				t := float64(x-prevX) / float64(px-prevX)
				y := prevY + (ys[i]-prevY)*t
				a.surf.Line(x, a.clampPY(y), x, by, c, 0)
			}
		} else if !havePrev {
			a.surf.Line(px, a.clampPY(ys[i]), px, by, c, 0)
		}
		prevX, prevY, havePrev = px, ys[i], true
	}
}

// Label draws text centred horizontally on data x with its top at data y.
func (a *Axes) Label(x, y float64, text string, c color.RGBA) {
	cw, _ := a.surf.CharSize()
	w := utf8.RuneCountInString(text) * cw
	a.surf.Text(a.PX(x)-w/2, a.PY(y), text, c)
}

// Placeholder draws text in the centre of the plot.
func (a *Axes) Placeholder(text string, c color.RGBA) {
	cw, ch := a.surf.CharSize()
	w := utf8.RuneCountInString(text) * cw
	a.surf.Text(a.plot.Min.X+(a.plot.Dx()-w)/2, a.plot.Min.Y+(a.plot.Dy()-ch)/2, text, c)
}

func (a *Axes) clampPY(v float64) int {
	return a.PY(math.Max(a.yMin, math.Min(a.yMax, v)))
}

func (a *Axes) xTicks() (major, minor []float64) {
	if a.xScale == Log {
		return logTicks(a.xMin, a.xMax)
	}
	return linearTicks(a.xMin, a.xMax, majorTicksX)
}

func (a *Axes) formatX(v float64) string {
	if a.xScale == Log {
		return formatFreq(v)
	}
	return formatTick(v)
}

// spaced reports whether consecutive ticks are at least gap pixels apart.
func spaced(a *Axes, ticks []float64, horizontal bool, gap int) bool {
	for i := 1; i < len(ticks); i++ {
		var d int
		if horizontal {
			d = abs(a.PX(ticks[i]) - a.PX(ticks[i-1]))
		} else {
			d = abs(a.PY(ticks[i]) - a.PY(ticks[i-1]))
		}
		if d < gap {
			return false
		}
	}
	return true
}

// linearTicks returns major ticks at a 1-2-5 step and minor ticks at a
// fifth of that step, both within [lo, hi].
func linearTicks(lo, hi float64, target int) (major, minor []float64) {
	if !(hi > lo) || target < 1 {
		return nil, nil
	}
	step := niceStep((hi - lo) / float64(target))
	minorStep := step / minorPerMajor

	for i := math.Ceil(lo / minorStep); ; i++ {
		v := i * minorStep
		if v > hi+minorStep*1e-9 {
			break
		}
		if math.Abs(math.Remainder(v, step)) < minorStep*1e-6 {
			major = append(major, cleanZero(v))
		} else {
			minor = append(minor, v)
		}
	}
	return major, minor
}

// logTicks returns decades as major ticks and 2..9 multiples as minor.
func logTicks(lo, hi float64) (major, minor []float64) {
	if lo <= 0 || !(hi > lo) {
		return nil, nil
	}
	for d := math.Floor(math.Log10(lo)); d <= math.Ceil(math.Log10(hi)); d++ {
		base := math.Pow(10, d)
		if base >= lo && base <= hi {
			major = append(major, base)
		}
		for m := 2.0; m < 10; m++ {
			if v := m * base; v >= lo && v <= hi {
				minor = append(minor, v)
			}
		}
	}
	return major, minor
}

func niceStep(raw float64) float64 {
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	switch f := raw / base; {
	case f <= 1:
		return base
	case f <= 2:
		return 2 * base
	case f <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

func cleanZero(v float64) float64 {
	if math.Abs(v) < 1e-12 {
		return 0
	}
	return v
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFreq(v float64) string {
	if v >= 1000 {
		return strconv.FormatFloat(v/1000, 'f', -1, 64) + "k"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
