// SPDX-License-Identifier: MIT
package utils

import (
	"errors"
	"math"
	"os"
	"testing"
)

const (
	testFrames     = 1024
	testSampleRate = 44100
	testFrequency  = 440.0 // A4 note
)

var testMagnitudes []float64

func TestMain(m *testing.M) {
	testMagnitudes = make([]float64, testFrames)

	// A "hill" with its peak at testFrames/4.
	for i := range testMagnitudes {
		testMagnitudes[i] = math.Exp(-0.01 * math.Pow(float64(i-testFrames/4), 2))
	}

	os.Exit(m.Run())
}

func TestMockTransport(t *testing.T) {
	mt := &MockTransport{}

	if mt.Last() != nil {
		t.Error("Last() on empty transport should be nil")
	}
	for i := range 3 {
		if err := mt.Send(i); err != nil {
			t.Fatalf("Send(%d) error = %v", i, err)
		}
	}
	if got := mt.Sent(); len(got) != 3 || got[2] != 2 {
		t.Errorf("Sent() = %v", got)
	}
	if mt.Last() != 2 {
		t.Errorf("Last() = %v, want 2", mt.Last())
	}

	mt.Err = errors.New("boom")
	if err := mt.Send("x"); err == nil {
		t.Error("expected configured error")
	}
	if len(mt.Sent()) != 4 {
		t.Error("failed send should still be recorded")
	}

	mt.Close()
	if !mt.Closed() {
		t.Error("Closed() = false after Close")
	}
	if err := mt.Send("late"); err == nil {
		t.Error("Send after Close should fail")
	}
}

func TestGenerateSineWave(t *testing.T) {
	buf := GenerateSineWave(testFrames, 2, testSampleRate, testFrequency)
	if len(buf) != testFrames*2 {
		t.Fatalf("len = %d, want %d", len(buf), testFrames*2)
	}
	if buf[0] != 0 {
		t.Errorf("first sample = %d, want 0", buf[0])
	}

	peak := 0
	for i := 0; i < len(buf); i += 2 {
		if buf[i] != buf[i+1] {
			t.Fatalf("frame %d channels differ: %d vs %d", i/2, buf[i], buf[i+1])
		}
		peak = max(peak, buf[i])
	}
	if peak > math.MaxInt16 || peak < int(pcmPeak)-100 {
		t.Errorf("peak = %d, want about %d", peak, int(pcmPeak))
	}
}

func TestGenerateComplexWave(t *testing.T) {
	buf := GenerateComplexWave(testFrames, 1, testSampleRate)
	if len(buf) != testFrames {
		t.Fatalf("len = %d", len(buf))
	}
	for i, v := range buf {
		if v > math.MaxInt16 || v < math.MinInt16 {
			t.Fatalf("sample %d = %d exceeds 16-bit range", i, v)
		}
	}
}

func TestGenerateSine(t *testing.T) {
	s := GenerateSine(100, 400, 100)
	if math.Abs(s[1]-1) > 1e-9 {
		t.Errorf("quarter period = %g, want 1", s[1])
	}
}

func TestFindPeakBin(t *testing.T) {
	tests := []struct {
		name       string
		magnitudes []float64
		startBin   int
		endBin     int
		want       int
	}{
		{"Full Range", testMagnitudes, 0, testFrames - 1, testFrames / 4},
		{"Partial Range With Peak", testMagnitudes, testFrames/8, testFrames/2, testFrames / 4},
		{"Range Without Peak", testMagnitudes, testFrames / 2, testFrames - 1, testFrames / 2},
		{"Negative Start", testMagnitudes, -10, testFrames - 1, testFrames / 4},
		{"End Out Of Range", testMagnitudes, 0, testFrames * 2, testFrames / 4},
		{"Empty", nil, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindPeakBin(tt.magnitudes, tt.startBin, tt.endBin); got != tt.want {
				t.Errorf("FindPeakBin() = %d, want %d", got, tt.want)
			}
		})
	}
}

func BenchmarkGenerateComplexWave(b *testing.B) {
	for b.Loop() {
		GenerateComplexWave(testFrames, 2, testSampleRate)
	}
}

func BenchmarkFindPeakBin(b *testing.B) {
	for b.Loop() {
		FindPeakBin(testMagnitudes, 0, testFrames-1)
	}
}
