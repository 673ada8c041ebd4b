// SPDX-License-Identifier: MIT
package playback

import (
	"errors"
	"os"
	"testing"

	"scope/internal/audio"
	"scope/pkg/utils"
)

func TestSession(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	var s Session
	if s.Current() != nil || s.DurationMs() != 0 {
		t.Fatal("empty session should have no audio")
	}
	if _, err := s.Export(1); !errors.Is(err, ErrNoReversed) {
		t.Fatalf("Export() without reversed = %v, want ErrNoReversed", err)
	}

	original := audio.NewClip(utils.GenerateSineWave(4410, 2, 44100, 440), 44100, 2, 16)
	s.SetOriginal(original)
	if s.Current() != original || s.DurationMs() != 0 {
		t.Errorf("Current() should be the original before reversal")
	}

	reversed := original.Reverse()
	s.SetReversed(reversed)
	if s.Current() != reversed || s.Reversed() != reversed || s.Original() != original {
		t.Errorf("Current() should prefer the reversed clip")
	}
	if s.DurationMs() != 100 {
		t.Errorf("DurationMs() = %g, want 100", s.DurationMs())
	}

	tests := []struct {
		speed  float64
		frames int
	}{
		{1, 4410},
		{2, 2205},
		{0.5, 8820},
	}
	for _, tt := range tests {
		path, err := s.Export(tt.speed)
		if err != nil {
			t.Fatalf("Export(%g) error = %v", tt.speed, err)
		}
		clip, err := audio.Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", path, err)
		}
		if clip.Frames() != tt.frames || clip.SampleRate() != 44100 {
			t.Errorf("Export(%g): %d frames at %d Hz, want %d at 44100", tt.speed, clip.Frames(), clip.SampleRate(), tt.frames)
		}
		if err := audio.RemoveTemp(path); err != nil {
			t.Error(err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still exists", path)
		}
	}

	s.SetOriginal(original)
	if s.Reversed() != nil {
		t.Error("loading a new clip should drop the reversed copy")
	}
}
