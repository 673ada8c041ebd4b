// SPDX-License-Identifier: MIT
package playback

import (
	"context"
	"time"

	"scope/internal/log"
)

// Clock runs a Controller on its own goroutine: the ticker and every
// command are handled by Run, so the controller and the display it drives
// never see concurrent calls.
type Clock struct {
	ctrl     *Controller
	interval time.Duration
	cmds     chan func(*Controller)

	// OnEvent, if set, is called from Run after every tick that did
	// something.
	OnEvent func(Event)
}

// NewClock creates a clock ticking ctrl every interval.
func NewClock(ctrl *Controller, interval time.Duration) *Clock {
	return &Clock{
		ctrl:     ctrl,
		interval: interval,
		cmds:     make(chan func(*Controller)),
	}
}

// Run ticks until ctx is done. It must be called once.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	log.Debugf("playback: clock running every %s", c.interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.cmds:
			fn(c.ctrl)
		case <-ticker.C:
			if ev := c.ctrl.Tick(); ev != EventNone && c.OnEvent != nil {
				c.OnEvent(ev)
			}
		}
	}
}

// Do runs fn on the clock goroutine and returns its error.
func (c *Clock) Do(ctx context.Context, fn func(*Controller) error) error {
	result := make(chan error, 1)
	select {
	case c.cmds <- func(ctrl *Controller) { result <- fn(ctrl) }:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
