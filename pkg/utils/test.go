// SPDX-License-Identifier: MIT
package utils

import (
	"errors"
	"math"
	"sync"
)

// pcmPeak is the 16-bit amplitude used by the generators, about 90% of
// full scale.
const pcmPeak = 29490

// MockTransport records everything sent to it. It is safe for concurrent
// use so it can stand in for network transports.
type MockTransport struct {
	mu     sync.Mutex
	sent   []any
	closed bool

	// Err, when set, is returned from Send after recording the data.
	Err error
}

// Send stores the data for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("mock transport closed")
	}
	m.sent = append(m.sent, data)
	return m.Err
}

// Close marks the transport closed; later sends fail.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *MockTransport) Sent() []any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]any(nil), m.sent...)
}

// Last returns the most recent payload, or nil.
func (m *MockTransport) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return nil
	}
	return m.sent[len(m.sent)-1]
}

// Closed reports whether Close was called.
func (m *MockTransport) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GenerateComplexWave returns frames of 16-bit PCM, interleaved over
// channels, holding a 440 Hz fundamental with two harmonics.
func GenerateComplexWave(frames, channels int, sampleRate float64) []int {
	return generate(frames, channels, func(tm float64) float64 {
		return math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2
	}, sampleRate)
}

// GenerateSineWave returns frames of 16-bit PCM sine, interleaved over
// channels.
func GenerateSineWave(frames, channels int, sampleRate, frequency float64) []int {
	return generate(frames, channels, func(tm float64) float64 {
		return math.Sin(2 * math.Pi * frequency * tm)
	}, sampleRate)
}

// GenerateSine returns a mono float sine in [-1, 1].
func GenerateSine(size int, sampleRate, frequency float64) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * frequency * float64(i) / sampleRate)
	}
	return out
}

func generate(frames, channels int, wave func(float64) float64, sampleRate float64) []int {
	if channels < 1 {
		channels = 1
	}
	buffer := make([]int, frames*channels)
	for i := range frames {
		v := int(wave(float64(i)/sampleRate) * pcmPeak)
		for ch := range channels {
			buffer[i*channels+ch] = v
		}
	}
	return buffer
}

// FindPeakBin returns the index of the largest value in
// magnitudes[startBin:endBin+1].
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}
