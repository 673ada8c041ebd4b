// SPDX-License-Identifier: MIT
package scope

import (
	"fmt"
	"image/color"
)

// Oscilloscope palette.
var (
	Black       = color.RGBA{0x00, 0x00, 0x00, 0xff}
	DarkGray    = color.RGBA{0x0a, 0x0a, 0x0a, 0xff}
	GreenBright = color.RGBA{0x00, 0xff, 0x41, 0xff}
	GreenMedium = color.RGBA{0x00, 0xaa, 0x00, 0xff}
	GreenDark   = color.RGBA{0x00, 0x33, 0x00, 0xff}
	GreenBorder = color.RGBA{0x00, 0x1a, 0x00, 0xff}
	Yellow      = color.RGBA{0xff, 0xff, 0x00, 0xff}
	Red         = color.RGBA{0xff, 0x00, 0x00, 0xff}

	// GreenFill is GreenBright at 20% over black.
	GreenFill = color.RGBA{0x00, 0x33, 0x0d, 0xff}
)

// Theme assigns palette colors to plot elements.
type Theme struct {
	Background color.RGBA
	Grid       color.RGBA
	MinorGrid  color.RGBA
	Border     color.RGBA
	Label      color.RGBA
	Trace      color.RGBA
	Fill       color.RGBA
	Marker     color.RGBA
	ZeroLine   color.RGBA
}

// DefaultTheme is the image palette: grid and border in the dark border
// green on black.
func DefaultTheme() Theme {
	return Theme{
		Background: Black,
		Grid:       GreenBorder,
		MinorGrid:  GreenBorder,
		Border:     GreenBorder,
		Label:      GreenMedium,
		Trace:      GreenBright,
		Fill:       GreenFill,
		Marker:     Yellow,
		ZeroLine:   GreenBorder,
	}
}

// TerminalTheme lifts the grid colors one step, since a single braille dot
// in #001a00 is invisible on most terminals.
func TerminalTheme() Theme {
	t := DefaultTheme()
	t.Grid = GreenDark
	t.MinorGrid = GreenDark
	t.Border = GreenDark
	t.ZeroLine = GreenDark
	t.Fill = GreenDark
	return t
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
