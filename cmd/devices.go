// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"

	"scope/internal/audio"
	"scope/internal/tui"

	"github.com/spf13/cobra"
)

func newDevicesCommand(*options) *cobra.Command {
	var pick bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List available audio output devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !pick {
				return withPortAudio(func() error {
					return audio.ListDevices(cmd.OutOrStdout())
				})
			}

			id, ok, err := tui.PickDevice()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&pick, "pick", "p", false,
		"Choose a device interactively and print its ID for use with --device")
	return cmd
}
