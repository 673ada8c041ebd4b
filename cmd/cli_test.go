// SPDX-License-Identifier: MIT
package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scope/internal/audio"
	"scope/internal/config"
	"scope/pkg/utils"
)

func writeTone(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	clip := audio.NewClip(utils.GenerateSineWave(44100, 2, 44100, 440), 44100, 2, 16)
	if err := clip.Export(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInfo(t *testing.T) {
	out, err := run(t, "info", writeTone(t))
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"tone.wav", "WAV", "44.1 kHz", "Channels:    2", "1411 kbps", "1.00 s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "Peak:        4") {
		t.Errorf("peak should be near 440 Hz:\n%s", out)
	}
}

func TestInfoMissingFile(t *testing.T) {
	if _, err := run(t, "info", filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error")
	}
}

func TestReverse(t *testing.T) {
	in := writeTone(t)
	outPath := filepath.Join(t.TempDir(), "rev.wav")

	if _, err := run(t, "--speed", "2", "reverse", in, outPath); err != nil {
		t.Fatalf("reverse: %v", err)
	}
	clip, err := audio.Load(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if clip.Frames() != 22050 {
		t.Errorf("frames = %d, want 22050 at 2x", clip.Frames())
	}

	if _, err := run(t, "reverse", in, filepath.Join(t.TempDir(), "rev.mp3")); err == nil {
		t.Error("non-wav output should be rejected")
	}
}

func TestRender(t *testing.T) {
	in := writeTone(t)
	for _, extra := range [][]string{nil, {"--at", "500"}} {
		outPath := filepath.Join(t.TempDir(), "scope.png")
		args := append([]string{"render", in, "-o", outPath, "--width", "400", "--height", "150"}, extra...)
		if _, err := run(t, args...); err != nil {
			t.Fatalf("render %v: %v", extra, err)
		}

		f, err := os.Open(outPath)
		if err != nil {
			t.Fatal(err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
			t.Errorf("image = %v, want 400x300", b)
		}
	}
}

func TestRenderBadSize(t *testing.T) {
	if _, err := run(t, "render", writeTone(t), "--width", "0", "-o", filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "scope.yaml")
	if err := os.WriteFile(cfgPath, []byte("playback:\n  speed: 1.5\naudio:\n  output_device: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		speed  float64
		device int
	}{
		{"file", []string{"--config", cfgPath}, 1.5, 3},
		{"flags", []string{"--config", cfgPath, "--speed", "0.75", "--device", "1"}, 0.75, 1},
		{"defaults", nil, config.DefaultSpeed, config.DefaultOutputDevice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			opts := &options{}
			root.ParseFlags(tt.args)
			opts.configPath, _ = root.PersistentFlags().GetString("config")
			opts.speed, _ = root.PersistentFlags().GetFloat64("speed")
			opts.device, _ = root.PersistentFlags().GetInt("device")

			if err := opts.load(root); err != nil {
				t.Fatalf("load: %v", err)
			}
			if opts.cfg.Playback.Speed != tt.speed || opts.cfg.Audio.OutputDevice != tt.device {
				t.Errorf("speed = %g, device = %d; want %g, %d",
					opts.cfg.Playback.Speed, opts.cfg.Audio.OutputDevice, tt.speed, tt.device)
			}
		})
	}
}

func TestInvalidSpeedFlag(t *testing.T) {
	if _, err := run(t, "--speed", "3", "info", writeTone(t)); err == nil || !strings.Contains(err.Error(), "speed") {
		t.Errorf("err = %v, want a speed validation error", err)
	}
}
