// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"scope/internal/audio"
	"scope/internal/log"

	"github.com/spf13/cobra"
)

func newReverseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <input> <output.wav>",
		Short: "Write the reversed audio, at the selected speed, to a WAV file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[1]
			if !strings.EqualFold(filepath.Ext(out), ".wav") {
				return fmt.Errorf("output must be a .wav file: %s", out)
			}

			clip, err := audio.Load(args[0])
			if err != nil {
				return err
			}

			reversed := <-audio.ReverseAsync(cmd.Context(), clip)
			if reversed.Err != nil {
				return reversed.Err
			}

			result := reversed.Clip
			if speed := opts.cfg.Playback.Speed; speed != 1 {
				if result, err = result.ChangeSpeed(speed); err != nil {
					return err
				}
			}
			if err := result.Export(out); err != nil {
				return err
			}

			log.Infof("reverse: wrote %s (%.2f s at %.2fx)", out, result.DurationMs()/1000, opts.cfg.Playback.Speed)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
