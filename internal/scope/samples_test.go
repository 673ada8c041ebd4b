// SPDX-License-Identifier: MIT
package scope

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestPrepareSamplesCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		frames int
		budget int
		want   int
	}{
		{"under budget", 100, 4000, 100},
		{"exactly budget", 4000, 4000, 4000},
		{"stride one", 7999, 4000, 7999},
		{"stride two even", 8000, 4000, 4000},
		{"stride two odd", 8001, 4000, 4001},
		{"ten seconds at 44.1k", 441000, 4000, 4010},
		{"no budget", 50, 0, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]int, tt.frames)
			for i := range raw {
				raw[i] = i%200 - 100
			}
			got := PrepareSamples(raw, 1, tt.budget)
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPrepareSamplesProperties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(1, 2))
	const budget = 500

	for range 50 {
		n := budget + 1 + rng.IntN(20000)
		raw := make([]int, n)
		for i := range raw {
			raw[i] = rng.IntN(65536) - 32768
		}

		got := PrepareSamples(raw, 1, budget)
		stride := n / budget
		if want := (n + stride - 1) / stride; len(got) != want {
			t.Fatalf("N=%d: len = %d, want ceil(N/stride) = %d", n, len(got), want)
		}
		for i, v := range got {
			if v < -1 || v > 1 || math.IsNaN(v) {
				t.Fatalf("N=%d: sample %d = %g outside [-1, 1]", n, i, v)
			}
		}
	}
}

func TestPrepareSamplesSilence(t *testing.T) {
	t.Parallel()
	got := PrepareSamples(make([]int, 10000), 2, 4000)
	if len(got) == 0 {
		t.Fatal("silence should still produce samples")
	}
	for i, v := range got {
		if v != 0 {
			t.Fatalf("sample %d = %g, want 0", i, v)
		}
	}
}

func TestPrepareSamplesFirstChannel(t *testing.T) {
	t.Parallel()
	// Left carries the ramp, right is loud noise that must be ignored.
	raw := []int{0, 30000, 1, -30000, 2, 30000, 4, -30000}
	got := PrepareSamples(raw, 2, 4000)

	want := []float64{0, 0.25, 0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestPrepareSamplesEmpty(t *testing.T) {
	t.Parallel()
	if got := PrepareSamples(nil, 1, 4000); got != nil {
		t.Errorf("nil input = %v, want nil", got)
	}
	if got := PrepareFloat([]float64{}, 4000); got != nil {
		t.Errorf("empty input = %v, want nil", got)
	}
}

func TestPrepareFloat(t *testing.T) {
	t.Parallel()
	in := make([]float64, 9)
	for i := range in {
		in[i] = float64(i) - 4
	}
	got := PrepareFloat(in, 4)
	// stride 2 picks -4, -2, 0, 2, 4.
	if len(got) != 5 || got[0] > -0.999 || got[4] < 0.999 {
		t.Errorf("PrepareFloat = %v", got)
	}
}

func BenchmarkPrepareSamples(b *testing.B) {
	raw := make([]int, 44100*60*2)
	for i := range raw {
		raw[i] = i % 1000
	}
	for b.Loop() {
		PrepareSamples(raw, 2, 4000)
	}
}
