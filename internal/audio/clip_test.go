// SPDX-License-Identifier: MIT
package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func stereoClip() *Clip {
	// frames: (1,-1) (2,-2) (3,-3) (4,-4)
	return NewClip([]int{1, -1, 2, -2, 3, -3, 4, -4}, 8000, 2, 16)
}

func TestClipDimensions(t *testing.T) {
	t.Parallel()
	c := stereoClip()
	if c.Frames() != 4 {
		t.Errorf("Frames() = %d, want 4", c.Frames())
	}
	if got := c.DurationMs(); got != 0.5 {
		t.Errorf("DurationMs() = %g, want 0.5", got)
	}

	c.Path = "/tmp/Track.wav"
	c.Format = "WAV"
	m := c.Metadata()
	if m.FileName != "Track.wav" || m.Channels != 2 || m.BitDepth != 16 {
		t.Errorf("Metadata() = %+v", m)
	}
	if m.BitrateKbps != 256 {
		t.Errorf("BitrateKbps = %g, want 256", m.BitrateKbps)
	}
}

func TestClipChannel(t *testing.T) {
	t.Parallel()
	c := NewClip([]int{16384, 0, -16384, 0}, 8000, 2, 16)
	left := c.Channel(0)
	if !slices.Equal(left, []float64{0.5, -0.5}) {
		t.Errorf("Channel(0) = %v", left)
	}
	if c.Channel(2) != nil {
		t.Error("out of range channel should be nil")
	}
}

func TestReverse(t *testing.T) {
	t.Parallel()
	c := stereoClip()
	r := c.Reverse()

	want := []int{4, -4, 3, -3, 2, -2, 1, -1}
	if !slices.Equal(r.Buffer.Data, want) {
		t.Errorf("Reverse() = %v, want %v", r.Buffer.Data, want)
	}
	if !slices.Equal(c.Buffer.Data, []int{1, -1, 2, -2, 3, -3, 4, -4}) {
		t.Error("Reverse mutated the source clip")
	}
	if !slices.Equal(r.Reverse().Buffer.Data, c.Buffer.Data) {
		t.Error("reversing twice should restore the original")
	}
	if r.SampleRate() != c.SampleRate() || r.Channels() != c.Channels() {
		t.Error("Reverse changed the format")
	}
}

func TestReverseAsync(t *testing.T) {
	t.Parallel()
	res := <-ReverseAsync(context.Background(), stereoClip())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Clip.Buffer.Data[0] != 4 {
		t.Errorf("first sample = %d, want 4", res.Clip.Buffer.Data[0])
	}
}

func TestReverseAsyncCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-ReverseAsync(ctx, stereoClip())
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
}

func TestChangeSpeed(t *testing.T) {
	t.Parallel()
	ramp := make([]int, 100)
	for i := range ramp {
		ramp[i] = i * 10
	}
	c := NewClip(ramp, 1000, 1, 16)

	tests := []struct {
		factor     float64
		wantFrames int
	}{
		{1.0, 100},
		{2.0, 50},
		{0.5, 200},
		{1.5, 67},
	}
	for _, tt := range tests {
		got, err := c.ChangeSpeed(tt.factor)
		if err != nil {
			t.Fatalf("ChangeSpeed(%g): %v", tt.factor, err)
		}
		if got.Frames() != tt.wantFrames {
			t.Errorf("ChangeSpeed(%g) frames = %d, want %d", tt.factor, got.Frames(), tt.wantFrames)
		}
		if got.SampleRate() != 1000 {
			t.Errorf("ChangeSpeed(%g) sample rate = %d", tt.factor, got.SampleRate())
		}
	}

	double, _ := c.ChangeSpeed(2)
	if double.Buffer.Data[10] != 200 {
		t.Errorf("double speed sample 10 = %d, want 200", double.Buffer.Data[10])
	}
	half, _ := c.ChangeSpeed(0.5)
	if half.Buffer.Data[3] != 15 {
		t.Errorf("half speed sample 3 = %d, want 15 (interpolated)", half.Buffer.Data[3])
	}

	if _, err := c.ChangeSpeed(0); err == nil {
		t.Error("expected error for zero factor")
	}
}

func TestExportLoadRoundTrip(t *testing.T) {
	t.Parallel()
	c := stereoClip()
	path := filepath.Join(t.TempDir(), "out.wav")

	if err := c.Export(path); err != nil {
		t.Fatalf("Export: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !slices.Equal(loaded.Buffer.Data, c.Buffer.Data) {
		t.Errorf("round trip data = %v, want %v", loaded.Buffer.Data, c.Buffer.Data)
	}
	if loaded.SampleRate() != 8000 || loaded.Channels() != 2 || loaded.BitDepth != 16 {
		t.Errorf("round trip format = %d Hz, %d ch, %d bit", loaded.SampleRate(), loaded.Channels(), loaded.BitDepth)
	}
	if loaded.Format != "WAV" || loaded.Path != path {
		t.Errorf("Format = %q, Path = %q", loaded.Format, loaded.Path)
	}
}

func TestExportTemp(t *testing.T) {
	t.Parallel()
	path, err := stereoClip().ExportTemp()
	if err != nil {
		t.Fatalf("ExportTemp: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("temp file missing: %v", err)
	}
	if err := RemoveTemp(path); err != nil {
		t.Fatalf("RemoveTemp: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temp file still exists")
	}
	if err := RemoveTemp(path); err != nil {
		t.Errorf("second RemoveTemp should be a no-op, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "nope.wav"), ErrFileNotFound},
		{"m4a", write("song.m4a", "data"), ErrUnsupportedFormat},
		{"no extension", write("song", "data"), ErrUnsupportedFormat},
		{"bad wav", write("bad.wav", "this is not riff data"), ErrDecode},
		{"bad mp3", write("bad.mp3", "x"), ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load(%s) = %v, want %v", tt.name, err, tt.want)
			}
		})
	}
}
