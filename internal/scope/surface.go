// SPDX-License-Identifier: MIT
package scope

import (
	"image"
	"image/color"
)

// Snapshot is an opaque copy of a Surface's pixels. It is only meaningful
// to the Surface that produced it.
type Snapshot any

// Surface is a pixel canvas with a copy/restore primitive for compositing
// a moving overlay onto a cached background. Implementations are not safe
// for concurrent use.
type Surface interface {
	// Bounds is the drawable area in pixels.
	Bounds() image.Rectangle
	// CharSize is the pixel size of one text character.
	CharSize() (w, h int)
	Clear(bg color.RGBA)
	// Line draws from (x0,y0) to (x1,y1) inclusive. dash > 0 alternates
	// dash pixels on and dash pixels off.
	Line(x0, y0, x1, y1 int, c color.RGBA, dash int)
	// Text draws s with its top-left corner at (x, y).
	Text(x, y int, s string, c color.RGBA)
	Snapshot() Snapshot
	// Restore copies a snapshot back. Snapshots from another surface or
	// from before a resize are ignored.
	Restore(Snapshot)
	// Present publishes the current pixels as a finished frame.
	Present()
}

// rasterLine walks a Bresenham line and calls set for every lit pixel.
func rasterLine(x0, y0, x1, y1, dash int, set func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for step := 0; ; step++ {
		if dash <= 0 || (step/dash)%2 == 0 {
			set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
