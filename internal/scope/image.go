// SPDX-License-Identifier: MIT
package scope

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"slices"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type imageSnapshot struct {
	rect image.Rectangle
	pix  []uint8
}

// ImageSurface draws into an RGBA image, for PNG export and headless use.
type ImageSurface struct {
	img      *image.RGBA
	face     font.Face
	presents int

	// OnPresent, when set, receives the image after every Present.
	OnPresent func(*image.RGBA)
}

// NewImageSurface returns a w x h pixel surface using the 7x13 bitmap font.
func NewImageSurface(w, h int) *ImageSurface {
	return &ImageSurface{
		img:  image.NewRGBA(image.Rect(0, 0, w, h)),
		face: basicfont.Face7x13,
	}
}

func (s *ImageSurface) Bounds() image.Rectangle { return s.img.Bounds() }

func (s *ImageSurface) CharSize() (int, int) {
	adv, _ := s.face.GlyphAdvance('0')
	return adv.Ceil(), s.face.Metrics().Height.Ceil()
}

func (s *ImageSurface) Clear(bg color.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

func (s *ImageSurface) Line(x0, y0, x1, y1 int, c color.RGBA, dash int) {
	rasterLine(x0, y0, x1, y1, dash, func(x, y int) { s.img.SetRGBA(x, y, c) })
}

func (s *ImageSurface) Text(x, y int, str string, c color.RGBA) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: s.face,
		Dot:  fixed.P(x, y+s.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(str)
}

func (s *ImageSurface) Snapshot() Snapshot {
	return imageSnapshot{rect: s.img.Rect, pix: slices.Clone(s.img.Pix)}
}

func (s *ImageSurface) Restore(snap Snapshot) {
	is, ok := snap.(imageSnapshot)
	if !ok || is.rect != s.img.Rect {
		return
	}
	copy(s.img.Pix, is.pix)
}

func (s *ImageSurface) Present() {
	s.presents++
	if s.OnPresent != nil {
		s.OnPresent(s.img)
	}
}

// Image returns the backing image.
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Presents counts Present calls.
func (s *ImageSurface) Presents() int { return s.presents }

// WritePNG encodes the current pixels.
func (s *ImageSurface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// SavePNG writes the current pixels to path.
func (s *ImageSurface) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

var _ Surface = (*ImageSurface)(nil)
