// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"

	"scope/internal/analysis"
	"scope/internal/audio"
	"scope/internal/config"

	"github.com/spf13/cobra"
)

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print the parameters and spectral peak of an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clip, err := audio.Load(args[0])
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), clip, opts.cfg.Spectrum)
		},
	}
}

func printInfo(w io.Writer, clip *audio.Clip, cfg config.SpectrumConfig) error {
	md := clip.Metadata()
	fmt.Fprintf(w, "File:        %s\n", md.FileName)
	fmt.Fprintf(w, "Format:      %s\n", md.Format)
	fmt.Fprintf(w, "Sample rate: %.1f kHz\n", float64(md.SampleRate)/1000)
	fmt.Fprintf(w, "Channels:    %d\n", md.Channels)
	fmt.Fprintf(w, "Bit depth:   %d\n", md.BitDepth)
	fmt.Fprintf(w, "Bitrate:     %.0f kbps\n", md.BitrateKbps)
	fmt.Fprintf(w, "Duration:    %.2f s\n", md.DurationSec)

	spec, err := analysis.ComputeSpectrum(clip.Channel(0), float64(md.SampleRate), cfg)
	if err != nil {
		return err
	}
	if spec.Empty() {
		fmt.Fprintln(w, "Peak:        --")
		return nil
	}
	freq, db := spec.Peak()
	fmt.Fprintf(w, "Peak:        %.1f Hz (%.1f dB)\n", freq, db)
	return nil
}
