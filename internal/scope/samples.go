// SPDX-License-Identifier: MIT
package scope

import "math"

// normEpsilon keeps normalization finite for silent input.
const normEpsilon = 1e-10

// Samples is a display-ready, downsampled channel in [-1, 1]. It is built
// once per audio source and never mutated.
type Samples []float64

// PrepareSamples takes the first channel of interleaved integer PCM, keeps
// every stride-th sample so that at most about budget points remain, and
// normalizes by the peak. stride is floor(frames/budget), so the result
// has ceil(frames/stride) points. Absent input yields an empty result.
func PrepareSamples(raw []int, channels, budget int) Samples {
	if len(raw) == 0 {
		return nil
	}
	if channels < 1 {
		channels = 1
	}
	frames := len(raw) / channels
	stride := sampleStride(frames, budget)

	out := make(Samples, 0, (frames+stride-1)/stride)
	for i := 0; i < frames; i += stride {
		out = append(out, float64(raw[i*channels]))
	}
	normalize(out)
	return out
}

// PrepareFloat is PrepareSamples for an already de-interleaved channel.
func PrepareFloat(mono []float64, budget int) Samples {
	if len(mono) == 0 {
		return nil
	}
	stride := sampleStride(len(mono), budget)

	out := make(Samples, 0, (len(mono)+stride-1)/stride)
	for i := 0; i < len(mono); i += stride {
		out = append(out, mono[i])
	}
	normalize(out)
	return out
}

func sampleStride(n, budget int) int {
	if budget > 0 && n > budget {
		return n / budget
	}
	return 1
}

func normalize(s Samples) {
	var peak float64
	for _, v := range s {
		peak = max(peak, math.Abs(v))
	}
	scale := peak + normEpsilon
	for i := range s {
		s[i] /= scale
	}
}
