// SPDX-License-Identifier: MIT
package scope

import (
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each terminal cell holds a 2x4 braille dot matrix.
const (
	brailleBase = 0x2800
	dotsX       = 2
	dotsY       = 4
)

var brailleBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	dots      uint8
	dotColor  color.RGBA
	text      rune
	textColor color.RGBA
}

type cellSnapshot struct {
	cols, rows int
	cells      []cell
}

// CellSurface draws into terminal cells using braille dots. One cell is
// two pixels wide and four tall; the last color drawn in a cell wins.
type CellSurface struct {
	cols, rows int
	cells      []cell
	bg         color.RGBA

	frame    string
	presents int
	styles   map[[2]color.RGBA]lipgloss.Style
}

// NewCellSurface returns a surface of cols x rows terminal cells.
func NewCellSurface(cols, rows int) *CellSurface {
	s := &CellSurface{bg: Black, styles: make(map[[2]color.RGBA]lipgloss.Style)}
	s.Resize(cols, rows)
	return s
}

// Resize reallocates the grid. Earlier snapshots become invalid.
func (s *CellSurface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]cell, s.cols*s.rows)
}

// Size returns the grid size in cells.
func (s *CellSurface) Size() (cols, rows int) { return s.cols, s.rows }

func (s *CellSurface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.cols*dotsX, s.rows*dotsY)
}

func (s *CellSurface) CharSize() (int, int) { return dotsX, dotsY }

func (s *CellSurface) Clear(bg color.RGBA) {
	s.bg = bg
	clear(s.cells)
}

func (s *CellSurface) Line(x0, y0, x1, y1 int, c color.RGBA, dash int) {
	rasterLine(x0, y0, x1, y1, dash, func(x, y int) { s.dot(x, y, c) })
}

func (s *CellSurface) dot(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.cols*dotsX || y >= s.rows*dotsY {
		return
	}
	cl := &s.cells[(y/dotsY)*s.cols+x/dotsX]
	cl.dots |= brailleBits[y%dotsY][x%dotsX]
	cl.dotColor = c
}

func (s *CellSurface) Text(x, y int, str string, c color.RGBA) {
	row := y / dotsY
	if y < 0 || row >= s.rows {
		return
	}
	col := x / dotsX
	if x < 0 {
		col = (x - dotsX + 1) / dotsX
	}
	for _, r := range str {
		if col >= s.cols {
			return
		}
		if col >= 0 {
			cl := &s.cells[row*s.cols+col]
			cl.text = r
			cl.textColor = c
		}
		col++
	}
}

func (s *CellSurface) Snapshot() Snapshot {
	return cellSnapshot{cols: s.cols, rows: s.rows, cells: slices.Clone(s.cells)}
}

func (s *CellSurface) Restore(snap Snapshot) {
	cs, ok := snap.(cellSnapshot)
	if !ok || cs.cols != s.cols || cs.rows != s.rows {
		return
	}
	copy(s.cells, cs.cells)
}

func (s *CellSurface) Present() {
	s.frame = s.render()
	s.presents++
}

// View returns the last presented frame with colors.
func (s *CellSurface) View() string { return s.frame }

// Presents counts Present calls.
func (s *CellSurface) Presents() int { return s.presents }

// String renders the current cells without styling.
func (s *CellSurface) String() string {
	var b strings.Builder
	for row := range s.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, cl := range s.cells[row*s.cols : (row+1)*s.cols] {
			r, _ := cl.glyph()
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (cl cell) glyph() (rune, bool) {
	switch {
	case cl.text != 0:
		return cl.text, true
	case cl.dots != 0:
		return rune(brailleBase + int(cl.dots)), true
	default:
		return ' ', false
	}
}

// render groups runs of equal color into one styled segment per run.
func (s *CellSurface) render() string {
	var (
		b   strings.Builder
		run strings.Builder
	)
	for row := range s.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		var runColor color.RGBA
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(s.style(runColor).Render(run.String()))
				run.Reset()
			}
		}
		for _, cl := range s.cells[row*s.cols : (row+1)*s.cols] {
			r, lit := cl.glyph()
			fg := s.bg
			if lit {
				fg = cl.dotColor
				if cl.text != 0 {
					fg = cl.textColor
				}
			}
			if fg != runColor {
				flush()
				runColor = fg
			}
			run.WriteRune(r)
		}
		flush()
	}
	return b.String()
}

func (s *CellSurface) style(fg color.RGBA) lipgloss.Style {
	key := [2]color.RGBA{fg, s.bg}
	st, ok := s.styles[key]
	if !ok {
		st = lipgloss.NewStyle().
			Foreground(lipgloss.Color(Hex(fg))).
			Background(lipgloss.Color(Hex(s.bg)))
		s.styles[key] = st
	}
	return st
}

var _ Surface = (*CellSurface)(nil)
