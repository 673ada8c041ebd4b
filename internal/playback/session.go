// SPDX-License-Identifier: MIT
package playback

import (
	"fmt"

	"scope/internal/audio"
)

// Session is the current-audio slot: the loaded clip and, once reversal
// finishes, its reversed copy. Both are replaced wholesale, never mutated.
type Session struct {
	original *audio.Clip
	reversed *audio.Clip
}

// SetOriginal replaces the loaded clip and drops any reversed copy.
func (s *Session) SetOriginal(clip *audio.Clip) {
	s.original = clip
	s.reversed = nil
}

// SetReversed stores the reversed copy of the loaded clip.
func (s *Session) SetReversed(clip *audio.Clip) { s.reversed = clip }

// Original returns the loaded clip, or nil.
func (s *Session) Original() *audio.Clip { return s.original }

// Reversed returns the reversed clip, or nil.
func (s *Session) Reversed() *audio.Clip { return s.reversed }

// Current returns the clip on display: the reversed one when available,
// otherwise the original.
func (s *Session) Current() *audio.Clip {
	if s.reversed != nil {
		return s.reversed
	}
	return s.original
}

// DurationMs returns the reversed clip's duration, the length the display
// clock loops over, or 0 when nothing has been reversed.
func (s *Session) DurationMs() float64 {
	if s.reversed == nil {
		return 0
	}
	return s.reversed.DurationMs()
}

// Export renders the reversed clip at speed to a temporary WAV file for the
// output to load.
func (s *Session) Export(speed float64) (string, error) {
	if s.reversed == nil {
		return "", ErrNoReversed
	}

	clip := s.reversed
	if speed != 1 {
		var err error
		if clip, err = clip.ChangeSpeed(speed); err != nil {
			return "", fmt.Errorf("change speed: %w", err)
		}
	}

	path, err := clip.ExportTemp()
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	return path, nil
}

var _ Source = (*Session)(nil)
