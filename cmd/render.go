// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"scope/internal/analysis"
	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/scope"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
)

type renderOptions struct {
	output   string
	width    int
	height   int
	atMs     float64
	original bool
}

func newRenderCommand(opts *options) *cobra.Command {
	ro := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render both oscilloscope channels of a file to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clip, err := audio.Load(args[0])
			if err != nil {
				return err
			}
			if !ro.original {
				clip = clip.Reverse()
			}

			img, err := renderChannels(clip, opts.cfg, ro)
			if err != nil {
				return err
			}
			if err := savePNG(ro.output, img); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ro.output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ro.output, "output", "o", "scope.png", "Output PNG file")
	f.IntVar(&ro.width, "width", 1000, "Image width in pixels")
	f.IntVar(&ro.height, "height", 300, "Height of each channel in pixels")
	f.Float64Var(&ro.atMs, "at", -1, "Draw the scrolling window at this position (ms) instead of the full waveform")
	f.BoolVar(&ro.original, "original", false, "Render the file as loaded instead of reversed")
	return cmd
}

// renderChannels draws CH1 above CH2 on one image.
func renderChannels(clip *audio.Clip, cfg *config.Config, ro *renderOptions) (*image.RGBA, error) {
	if ro.width <= 0 || ro.height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", ro.width, ro.height)
	}

	analyzer, err := analysis.NewAnalyzer(cfg.Spectrum)
	if err != nil {
		return nil, err
	}

	wave := scope.NewImageSurface(ro.width, ro.height)
	spec := scope.NewImageSurface(ro.width, ro.height)
	sc := scope.New(wave, spec, scope.DefaultTheme(), cfg.Display)
	sig := scope.SignalFromClip(clip, cfg.Display.DisplaySamples, analyzer)
	sc.SetSignal(sig)

	if ro.atMs >= 0 {
		sc.Animate(ro.atMs, sig.DurationMs)
	}

	out := image.NewRGBA(image.Rect(0, 0, ro.width, 2*ro.height))
	draw.Draw(out, wave.Bounds(), wave.Image(), image.Point{}, draw.Src)
	draw.Draw(out, wave.Bounds().Add(image.Pt(0, ro.height)), spec.Image(), image.Point{}, draw.Src)
	return out, nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
