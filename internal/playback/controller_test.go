// SPDX-License-Identifier: MIT
package playback

import (
	"errors"
	"fmt"
	"testing"

	"scope/internal/config"
)

type fakeOutput struct {
	loaded  []string
	plays   int
	pauses  int
	resumes int
	stops   int
	busy    bool
	playErr error
}

func (o *fakeOutput) Load(path string) error { o.loaded = append(o.loaded, path); return nil }
func (o *fakeOutput) Play() error {
	if o.playErr != nil {
		return o.playErr
	}
	o.plays++
	o.busy = true
	return nil
}
func (o *fakeOutput) Pause()      { o.pauses++ }
func (o *fakeOutput) Resume()     { o.resumes++ }
func (o *fakeOutput) Stop() error { o.stops++; o.busy = false; return nil }
func (o *fakeOutput) Busy() bool  { return o.busy }

type animateCall struct{ pos, dur float64 }

type fakeDisplay struct {
	animated []animateCall
	statics  int
}

func (d *fakeDisplay) Animate(pos, dur float64) bool {
	d.animated = append(d.animated, animateCall{pos, dur})
	return true
}
func (d *fakeDisplay) ShowStatic(float64, bool) { d.statics++ }

type fakeSource struct {
	speeds   []float64
	duration float64
	err      error
}

func (s *fakeSource) Export(speed float64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.speeds = append(s.speeds, speed)
	return fmt.Sprintf("take-%d.wav", len(s.speeds)), nil
}
func (s *fakeSource) DurationMs() float64 { return s.duration }

type fixture struct {
	out     *fakeOutput
	disp    *fakeDisplay
	src     *fakeSource
	ctrl    *Controller
	removed []string
}

func newFixture(duration float64) *fixture {
	f := &fixture{
		out:  &fakeOutput{},
		disp: &fakeDisplay{},
		src:  &fakeSource{duration: duration},
	}
	cfg := config.NewConfig().Playback
	f.ctrl = NewController(f.out, f.disp, f.src, cfg)
	f.ctrl.removeTemp = func(p string) error {
		f.removed = append(f.removed, p)
		return nil
	}
	return f
}

func TestStartWithoutReversed(t *testing.T) {
	f := newFixture(1000)
	f.src.err = ErrNoReversed

	if err := f.ctrl.Start(); !errors.Is(err, ErrNoReversed) {
		t.Fatalf("Start() error = %v, want ErrNoReversed", err)
	}
	if f.ctrl.State() != Idle || f.out.plays != 0 {
		t.Errorf("state = %s, plays = %d; want Idle and no playback", f.ctrl.State(), f.out.plays)
	}
}

func TestStateMachine(t *testing.T) {
	f := newFixture(1000)
	c := f.ctrl

	if ev := c.Tick(); ev != EventNone {
		t.Errorf("Tick() while Idle = %v", ev)
	}
	if err := c.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if c.State() != Playing || len(f.out.loaded) != 1 || f.out.loaded[0] != "take-1.wav" {
		t.Fatalf("state = %s, loaded = %v", c.State(), f.out.loaded)
	}
	if c.DurationMs() != 1000 {
		t.Errorf("DurationMs() = %g", c.DurationMs())
	}

	if ev := c.Tick(); ev != EventTick {
		t.Fatalf("Tick() = %v, want EventTick", ev)
	}
	if len(f.disp.animated) != 1 || f.disp.animated[0] != (animateCall{50, 1000}) {
		t.Errorf("animated = %v", f.disp.animated)
	}

	if err := c.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if err := c.Pause(); !errors.Is(err, ErrNotPlaying) {
		t.Errorf("second Pause() = %v, want ErrNotPlaying", err)
	}
	if ev := c.Tick(); ev != EventNone || c.PositionMs() != 50 {
		t.Errorf("Tick() while paused = %v at %gms; want frozen", ev, c.PositionMs())
	}

	// Start from Paused resumes from the same point.
	if err := c.Start(); err != nil {
		t.Fatalf("Start() from Paused error = %v", err)
	}
	if c.State() != Playing || f.out.resumes != 1 || len(f.src.speeds) != 1 {
		t.Errorf("state = %s, resumes = %d, exports = %d", c.State(), f.out.resumes, len(f.src.speeds))
	}
	if err := c.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Errorf("Resume() while playing = %v, want ErrNotPaused", err)
	}
	c.Tick()
	if c.PositionMs() != 100 {
		t.Errorf("PositionMs() = %g, want 100", c.PositionMs())
	}

	if err := c.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if c.State() != Idle || c.PositionMs() != 0 {
		t.Errorf("after Stop: state = %s, position = %g", c.State(), c.PositionMs())
	}
	if f.disp.statics != 1 {
		t.Errorf("static redraws = %d, want 1", f.disp.statics)
	}
	if len(f.removed) != 1 || f.removed[0] != "take-1.wav" {
		t.Errorf("removed = %v, want the hand-off file", f.removed)
	}
}

func TestTickWraps(t *testing.T) {
	f := newFixture(120)
	if err := f.ctrl.Start(); err != nil {
		t.Fatal(err)
	}

	var got []float64
	for range 4 {
		f.ctrl.Tick()
		got = append(got, f.ctrl.PositionMs())
	}
	want := []float64{50, 100, 0, 50}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("positions = %v, want %v", got, want)
		}
	}
}

func TestNaturalEnd(t *testing.T) {
	f := newFixture(1000)
	if err := f.ctrl.Start(); err != nil {
		t.Fatal(err)
	}
	f.ctrl.Tick()

	f.out.busy = false
	if ev := f.ctrl.Tick(); ev != EventStopped {
		t.Fatalf("Tick() = %v, want EventStopped", ev)
	}
	if f.ctrl.State() != Idle || f.ctrl.PositionMs() != 0 {
		t.Errorf("state = %s, position = %g", f.ctrl.State(), f.ctrl.PositionMs())
	}
	if len(f.disp.animated) != 1 || f.disp.statics != 1 || len(f.removed) != 1 {
		t.Errorf("animated = %d, statics = %d, removed = %v", len(f.disp.animated), f.disp.statics, f.removed)
	}
	if ev := f.ctrl.Tick(); ev != EventNone {
		t.Errorf("Tick() after end = %v", ev)
	}
}

func TestSetSpeedWhilePlaying(t *testing.T) {
	f := newFixture(10000)
	c := f.ctrl
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	for range 5 {
		c.Tick()
	}

	speed, err := c.SetSpeed(1.5)
	if err != nil {
		t.Fatalf("SetSpeed() error = %v", err)
	}
	if speed != 1.5 || c.State() != Playing || c.PositionMs() != 0 {
		t.Errorf("speed = %g, state = %s, position = %g", speed, c.State(), c.PositionMs())
	}
	if len(f.src.speeds) != 2 || f.src.speeds[1] != 1.5 {
		t.Errorf("exports = %v, want a second export at 1.5", f.src.speeds)
	}
	if f.out.stops != 1 || f.out.plays != 2 {
		t.Errorf("stops = %d, plays = %d", f.out.stops, f.out.plays)
	}
	if len(f.removed) != 1 || f.removed[0] != "take-1.wav" {
		t.Errorf("removed = %v", f.removed)
	}
}

func TestSetSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.0, 1.0},
		{0.1, config.MinSpeed},
		{5, config.MaxSpeed},
		{1.25, 1.25},
	}

	for _, tt := range tests {
		f := newFixture(1000)
		got, err := f.ctrl.SetSpeed(tt.in)
		if err != nil || got != tt.want || f.ctrl.Speed() != tt.want {
			t.Errorf("SetSpeed(%g) = %g, %v; want %g", tt.in, got, err, tt.want)
		}
		if len(f.src.speeds) != 0 {
			t.Errorf("SetSpeed(%g) while idle exported audio", tt.in)
		}
	}
}

func TestStartPlayError(t *testing.T) {
	f := newFixture(1000)
	f.out.playErr = errors.New("device busy")

	if err := f.ctrl.Start(); err == nil {
		t.Fatal("Start() should fail when the output cannot play")
	}
	if f.ctrl.State() != Idle {
		t.Errorf("state = %s, want Idle", f.ctrl.State())
	}
	if len(f.removed) != 1 {
		t.Errorf("hand-off file not removed: %v", f.removed)
	}
}

func TestToggle(t *testing.T) {
	f := newFixture(1000)
	want := []State{Playing, Paused, Playing}
	for i, w := range want {
		if err := f.ctrl.Toggle(); err != nil {
			t.Fatalf("Toggle() #%d error = %v", i, err)
		}
		if f.ctrl.State() != w {
			t.Errorf("Toggle() #%d state = %s, want %s", i, f.ctrl.State(), w)
		}
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "IDLE", Playing: "PLAYING", Paused: "PAUSED", State(9): "UNKNOWN"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
