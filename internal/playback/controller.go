// SPDX-License-Identifier: MIT
/*
Package playback implements the transport state machine and the display
clock that drives the scrolling waveform while audio plays.

The position advanced by Tick is a display counter: it moves by a fixed
step per tick and wraps at the clip duration, independently of where the
audio output actually is. Over long playback the two can drift apart.
*/
package playback

import (
	"errors"
	"fmt"

	"scope/internal/audio"
	"scope/internal/config"
	"scope/internal/log"
)

var (
	// ErrNoReversed is returned by Start before any audio was reversed.
	ErrNoReversed = errors.New("no reversed signal")
	// ErrNotPlaying is returned by Pause outside the Playing state.
	ErrNotPlaying = errors.New("not playing")
	// ErrNotPaused is returned by Resume outside the Paused state.
	ErrNotPaused = errors.New("not paused")
)

// State is the transport state.
type State int

const (
	Idle State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Playing:
		return "PLAYING"
	case Paused:
		return "PAUSED"
	default:
		return "UNKNOWN"
	}
}

// Event reports what a Tick did.
type Event int

const (
	// EventNone means the clock is not running.
	EventNone Event = iota
	// EventTick means the position advanced and a frame was drawn.
	EventTick
	// EventStopped means the output finished and the transport returned
	// to Idle.
	EventStopped
)

// Output is the audio playback service.
type Output interface {
	Load(path string) error
	Play() error
	Pause()
	Resume()
	Stop() error
	// Busy reports whether the output is still producing the loaded clip.
	Busy() bool
}

// Display is the render side driven by the clock.
type Display interface {
	Animate(positionMs, durationMs float64) bool
	ShowStatic(positionMs float64, playing bool)
}

// Source provides the audio to play.
type Source interface {
	// Export writes the playable audio at speed to a file the Output can
	// load, or returns ErrNoReversed.
	Export(speed float64) (string, error)
	DurationMs() float64
}

// Controller owns the transport state. It is not safe for concurrent use;
// all calls must come from the goroutine that owns the display.
type Controller struct {
	out  Output
	disp Display
	src  Source

	state      State
	speed      float64
	positionMs float64
	stepMs     float64
	durationMs float64
	tempPath   string

	removeTemp func(string) error
}

// NewController creates an Idle controller.
func NewController(out Output, disp Display, src Source, cfg config.PlaybackConfig) *Controller {
	return &Controller{
		out:        out,
		disp:       disp,
		src:        src,
		speed:      config.ClampSpeed(cfg.Speed),
		stepMs:     cfg.StepMs,
		removeTemp: audio.RemoveTemp,
	}
}

func (c *Controller) State() State        { return c.state }
func (c *Controller) Speed() float64      { return c.speed }
func (c *Controller) PositionMs() float64 { return c.positionMs }
func (c *Controller) DurationMs() float64 { return c.durationMs }

// Active reports whether audio is loaded in the output, playing or paused.
func (c *Controller) Active() bool { return c.state != Idle }

// Start begins playback of the reversed audio at the current speed. From
// Paused it resumes instead; from Playing it restarts at position 0.
func (c *Controller) Start() error {
	switch c.state {
	case Paused:
		return c.Resume()
	case Playing:
		if err := c.Stop(); err != nil {
			return err
		}
	}

	path, err := c.src.Export(c.speed)
	if err != nil {
		return err
	}
	c.discardTemp()
	c.tempPath = path

	if err := c.out.Load(path); err != nil {
		c.discardTemp()
		return fmt.Errorf("load output: %w", err)
	}
	if err := c.out.Play(); err != nil {
		c.discardTemp()
		return fmt.Errorf("play: %w", err)
	}

	c.state = Playing
	c.positionMs = 0
	c.durationMs = c.src.DurationMs()
	log.Infof("playback: playing at %.2fx", c.speed)
	return nil
}

// Pause suspends ticking and the output. The display keeps its last frame.
func (c *Controller) Pause() error {
	if c.state != Playing {
		return ErrNotPlaying
	}
	c.out.Pause()
	c.state = Paused
	return nil
}

// Resume continues ticking and the output from the paused position.
func (c *Controller) Resume() error {
	if c.state != Paused {
		return ErrNotPaused
	}
	c.out.Resume()
	c.state = Playing
	return nil
}

// Toggle pauses while playing, resumes while paused and starts when idle.
func (c *Controller) Toggle() error {
	switch c.state {
	case Playing:
		return c.Pause()
	case Paused:
		return c.Resume()
	default:
		return c.Start()
	}
}

// Stop halts the output, resets the position to 0, deletes the hand-off
// file and redraws the static full-range view. Stopping while Idle only
// redraws.
func (c *Controller) Stop() error {
	err := c.out.Stop()
	if c.state != Idle {
		log.Debugf("playback: stopped at %.0fms", c.positionMs)
	}
	c.state = Idle
	c.positionMs = 0
	c.discardTemp()
	c.disp.ShowStatic(0, false)
	if err != nil {
		return fmt.Errorf("stop output: %w", err)
	}
	return nil
}

// SetSpeed clamps and stores the speed. While Playing this is a Stop
// followed by a Start at the new speed. It returns the applied speed.
func (c *Controller) SetSpeed(speed float64) (float64, error) {
	c.speed = config.ClampSpeed(speed)
	if c.state != Playing {
		return c.speed, nil
	}
	if err := c.Stop(); err != nil {
		return c.speed, err
	}
	return c.speed, c.Start()
}

// Tick advances the display clock by one step. When the output is no
// longer busy the transport stops and EventStopped is returned.
func (c *Controller) Tick() Event {
	if c.state != Playing {
		return EventNone
	}
	if !c.out.Busy() {
		if err := c.Stop(); err != nil {
			log.Warnf("playback: %v", err)
		}
		return EventStopped
	}

	c.positionMs += c.stepMs
	if c.positionMs >= c.durationMs {
		c.positionMs = 0
	}
	c.disp.Animate(c.positionMs, c.durationMs)
	return EventTick
}

// Close stops playback and removes any hand-off file.
func (c *Controller) Close() error {
	return c.Stop()
}

func (c *Controller) discardTemp() {
	if c.tempPath == "" {
		return
	}
	if err := c.removeTemp(c.tempPath); err != nil {
		log.Warnf("playback: remove %s: %v", c.tempPath, err)
	}
	c.tempPath = ""
}
