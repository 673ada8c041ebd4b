// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"fmt"

	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/log"
	"scope/internal/tui"
	"scope/pkg/build"

	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
	speed      float64
	device     int

	cfg *config.Config
}

// NewRootCommand builds the command tree. Without a subcommand it runs the
// terminal oscilloscope.
func NewRootCommand() *cobra.Command {
	buildInfo := build.GetBuildFlags()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [file]",
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(cmd.Context(), opts.cfg, path)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML configuration file (default: ./scope.yaml or ./config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show verbose output")
	flags.Float64VarP(&opts.speed, "speed", "s", config.DefaultSpeed,
		fmt.Sprintf("Playback speed (%.1f-%.1f)", config.MinSpeed, config.MaxSpeed))
	flags.IntVarP(&opts.device, "device", "d", config.DefaultOutputDevice,
		"Output device ID. Use the 'devices' command to see available devices.")

	rootCmd.AddCommand(
		newInfoCommand(opts),
		newReverseCommand(opts),
		newRenderCommand(opts),
		newPlayCommand(opts),
		newDevicesCommand(opts),
	)
	return rootCmd
}

// Execute runs the command line with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// load reads the configuration and applies flags given on the command line
// on top of it.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("speed") {
		cfg.Playback.Speed = o.speed
	}
	if flags.Changed("device") {
		cfg.Audio.OutputDevice = o.device
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = log.LevelDebug
	}
	log.SetLevel(level)

	o.cfg = cfg
	return nil
}

// withPortAudio runs fn between PortAudio initialization and termination.
func withPortAudio(fn func() error) error {
	if err := audio.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := audio.Terminate(); err != nil {
			log.Warnf("portaudio: %v", err)
		}
	}()
	return fn()
}

func runTUI(ctx context.Context, cfg *config.Config, path string) error {
	return withPortAudio(func() error {
		player, err := audio.NewPlayer(cfg.Audio)
		if err != nil {
			return err
		}
		defer player.Close()

		sink, err := openTransports(cfg)
		if err != nil {
			return err
		}
		defer sink.Close()

		return tui.Run(ctx, tui.Options{
			Config: cfg,
			Output: player,
			Sink:   sink,
			Path:   path,
		})
	})
}
