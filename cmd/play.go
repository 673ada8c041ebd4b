// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"scope/internal/analysis"
	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/log"
	"scope/internal/playback"
	"scope/internal/scope"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

func newPlayCommand(opts *options) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Reverse and play a file without the interactive interface",
		Long: "Reverse and play a file, drawing the scrolling waveform to the terminal\n" +
			"and publishing frames to the configured transports until playback ends.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var screen io.Writer
			if !quiet && term.IsTerminal(int(os.Stdout.Fd())) {
				screen = cmd.OutOrStdout()
			}
			return withPortAudio(func() error {
				return runHeadless(cmd.Context(), opts.cfg, args[0], screen)
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not draw the waveform")
	return cmd
}

// terminalSize returns the terminal size, or a fallback when stdout is not
// a terminal.
func terminalSize() (cols, rows int) {
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}

// runHeadless plays the reversed file once. The clock goroutine owns the
// scope and the controller; frames are drawn to screen when it is not nil.
func runHeadless(ctx context.Context, cfg *config.Config, path string, screen io.Writer) error {
	clip, err := audio.Load(path)
	if err != nil {
		return err
	}
	reversed := <-audio.ReverseAsync(ctx, clip)
	if reversed.Err != nil {
		return reversed.Err
	}

	analyzer, err := analysis.NewAnalyzer(cfg.Spectrum)
	if err != nil {
		return err
	}

	cols, rows := terminalSize()
	if cfg.Display.Width > 0 {
		cols = cfg.Display.Width
	}
	if cfg.Display.Height > 0 {
		rows = cfg.Display.Height
	} else {
		rows -= 2
	}
	wave := scope.NewCellSurface(cols, rows)
	// Only CH1 is drawn; the spectrum surface is kept off screen.
	sc := scope.New(wave, scope.NewCellSurface(cols, rows), scope.TerminalTheme(), cfg.Display)

	sink, err := openTransports(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()
	sc.SetSink(sink)

	session := &playback.Session{}
	session.SetOriginal(clip)
	session.SetReversed(reversed.Clip)
	sc.SetSignal(scope.SignalFromClip(reversed.Clip, cfg.Display.DisplaySamples, analyzer))

	player, err := audio.NewPlayer(cfg.Audio)
	if err != nil {
		return err
	}
	defer player.Close()

	ctrl := playback.NewController(player, sc, session, cfg.Playback)
	clock := playback.NewClock(ctrl, cfg.Playback.Interval)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clock.OnEvent = func(ev playback.Event) {
		switch ev {
		case playback.EventTick:
			if screen != nil {
				fmt.Fprintf(screen, "\033[H%s\n%05.2f / %05.2f  %.2fx ",
					wave.View(), ctrl.PositionMs()/1000, ctrl.DurationMs()/1000, ctrl.Speed())
			}
		case playback.EventStopped:
			log.Infof("play: finished")
			cancel()
		}
	}

	if screen != nil {
		fmt.Fprint(screen, "\033[2J")
	}

	started := make(chan error, 1)
	go func() {
		err := clock.Do(ctx, (*playback.Controller).Start)
		if err != nil {
			cancel()
		}
		started <- err
	}()

	runErr := clock.Run(ctx)
	if err := <-started; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err := ctrl.Close(); err != nil {
		log.Warnf("play: %v", err)
	}
	if screen != nil {
		fmt.Fprintln(screen)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
