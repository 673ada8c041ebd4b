// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"scope/internal/config"
	"scope/internal/log"
	"scope/pkg/bitint"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc defines the type for selecting an FFT window function.
type WindowFunc int

// Enum for available window functions.
const (
	None WindowFunc = iota
	BartlettHann
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

func (w WindowFunc) String() string {
	switch w {
	case None:
		return "none"
	case BartlettHann:
		return "bartletthann"
	case Blackman:
		return "blackman"
	case BlackmanNuttall:
		return "blackmannuttall"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Lanczos:
		return "lanczos"
	case Nuttall:
		return "nuttall"
	default:
		return fmt.Sprintf("WindowFunc(%d)", int(w))
	}
}

// floorDB keeps log10 finite for empty bins.
const floorDB = 1e-10

// Spectrum is the positive half of a magnitude spectrum. DB is relative to
// the quietest bin, so its minimum is 0 before smoothing.
type Spectrum struct {
	Freqs []float64
	DB    []float64
}

// Empty reports whether there is nothing to plot.
func (s Spectrum) Empty() bool { return len(s.Freqs) == 0 }

// Peak returns the frequency of the loudest bin.
func (s Spectrum) Peak() (freq, db float64) {
	if s.Empty() {
		return 0, 0
	}
	best := 0
	for i, v := range s.DB {
		if v > s.DB[best] {
			best = i
		}
	}
	return s.Freqs[best], s.DB[best]
}

// Analyzer computes smoothed spectra. The gonum FFT plan is cached per
// length, so an Analyzer must not be shared between goroutines.
type Analyzer struct {
	fftSize     int
	window      WindowFunc
	smoothWin   int
	smoothOrder int

	plan    *fourier.FFT
	planLen int
}

// NewAnalyzer validates cfg and returns an Analyzer.
func NewAnalyzer(cfg config.SpectrumConfig) (*Analyzer, error) {
	if !bitint.IsPowerOfTwo(cfg.FFTSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", cfg.FFTSize)
	}
	wf, err := ParseWindowFunc(cfg.Window)
	if err != nil {
		return nil, err
	}
	if cfg.SmoothingWindow%2 == 0 || cfg.SmoothingOrder >= cfg.SmoothingWindow {
		return nil, fmt.Errorf("smoothing window %d must be odd and greater than order %d",
			cfg.SmoothingWindow, cfg.SmoothingOrder)
	}

	log.Debugf("analysis: spectrum analyzer (size %d, window %s, savgol %d/%d)",
		cfg.FFTSize, wf, cfg.SmoothingWindow, cfg.SmoothingOrder)

	return &Analyzer{
		fftSize:     cfg.FFTSize,
		window:      wf,
		smoothWin:   cfg.SmoothingWindow,
		smoothOrder: cfg.SmoothingOrder,
	}, nil
}

// Compute analyzes the first min(fftSize, len(mono)) samples. Spectra with
// more bins than the smoothing window are Savitzky-Golay filtered.
func (a *Analyzer) Compute(mono []float64, sampleRate float64) Spectrum {
	n := min(a.fftSize, len(mono))
	if n < 2 || sampleRate <= 0 {
		return Spectrum{}
	}

	input := make([]float64, n)
	copy(input, mono[:n])
	if a.window != None {
		coeffs := make([]float64, n)
		applyWindow(coeffs, a.window)
		for i := range input {
			input[i] *= coeffs[i]
		}
	}

	if a.plan == nil || a.planLen != n {
		a.plan = fourier.NewFFT(n)
		a.planLen = n
	}
	coeff := a.plan.Coefficients(nil, input)

	bins := n / 2
	spec := Spectrum{
		Freqs: make([]float64, bins),
		DB:    make([]float64, bins),
	}
	lowest := math.Inf(1)
	for k := range bins {
		spec.Freqs[k] = float64(k) * sampleRate / float64(n)
		db := 20 * math.Log10(cmplx.Abs(coeff[k])+floorDB)
		spec.DB[k] = db
		lowest = min(lowest, db)
	}
	for k := range spec.DB {
		spec.DB[k] -= lowest
	}

	if bins > a.smoothWin {
		smoothed, err := SavitzkyGolay(spec.DB, a.smoothWin, a.smoothOrder)
		if err != nil {
			log.Warnf("analysis: smoothing skipped: %v", err)
		} else {
			spec.DB = smoothed
		}
	}
	return spec
}

// ComputeSpectrum is a one-shot Compute with the given configuration.
func ComputeSpectrum(mono []float64, sampleRate float64, cfg config.SpectrumConfig) (Spectrum, error) {
	a, err := NewAnalyzer(cfg)
	if err != nil {
		return Spectrum{}, err
	}
	return a.Compute(mono, sampleRate), nil
}

// ParseWindowFunc converts a string name (case-insensitive) to a WindowFunc.
// An empty name selects None.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "rectangular":
		return None, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return None, fmt.Errorf("unknown FFT window function name: '%s'", name)
	}
}

// applyWindow fills coeffs with the selected window.
func applyWindow(coeffs []float64, windowType WindowFunc) {
	// gonum windows multiply in place, so start from ones.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	switch windowType {
	case BartlettHann:
		window.BartlettHann(coeffs)
	case Blackman:
		window.Blackman(coeffs)
	case BlackmanNuttall:
		window.BlackmanNuttall(coeffs)
	case Hann:
		window.Hann(coeffs)
	case Hamming:
		window.Hamming(coeffs)
	case Lanczos:
		window.Lanczos(coeffs)
	case Nuttall:
		window.Nuttall(coeffs)
	}
}
