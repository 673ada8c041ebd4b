// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SavitzkyGolay smooths x with a least-squares polynomial filter of the
// given odd window length and order. Interior points use the convolution
// coefficients; the first and last half-window are evaluated from a
// polynomial fitted to the first and last window ("interp" edges).
func SavitzkyGolay(x []float64, window, order int) ([]float64, error) {
	if window <= 0 || window%2 == 0 {
		return nil, fmt.Errorf("savgol: window must be a positive odd number, got %d", window)
	}
	if order < 0 || order >= window {
		return nil, fmt.Errorf("savgol: order must be in [0, %d), got %d", window, order)
	}
	if len(x) < window {
		return nil, fmt.Errorf("savgol: input length %d shorter than window %d", len(x), window)
	}

	pinv, err := savgolPinv(window, order)
	if err != nil {
		return nil, err
	}

	half := window / 2
	n := len(x)
	out := make([]float64, n)

	// Row 0 of the pseudo-inverse evaluates the fit at the window centre.
	coeffs := mat.Row(nil, 0, pinv)
	for i := half; i < n-half; i++ {
		var acc float64
		seg := x[i-half : i+half+1]
		for k, c := range coeffs {
			acc += c * seg[k]
		}
		out[i] = acc
	}

	fitEdge(out, x, pinv, 0, 0, half)
	fitEdge(out, x, pinv, n-window, n-half, n)
	return out, nil
}

// savgolPinv returns the (order+1) x window pseudo-inverse of the
// Vandermonde matrix over offsets -half..half.
func savgolPinv(window, order int) (*mat.Dense, error) {
	half := window / 2
	a := mat.NewDense(window, order+1, nil)
	for i := range window {
		t := float64(i - half)
		for j := 0; j <= order; j++ {
			a.Set(i, j, math.Pow(t, float64(j)))
		}
	}

	var ata mat.Dense
	ata.Mul(a.T(), a)

	var pinv mat.Dense
	if err := pinv.Solve(&ata, a.T()); err != nil {
		return nil, fmt.Errorf("savgol: least squares solve: %w", err)
	}
	return &pinv, nil
}

// fitEdge fits the window starting at segStart and writes the polynomial
// values for output indices [from, to).
func fitEdge(out, x []float64, pinv *mat.Dense, segStart, from, to int) {
	_, window := pinv.Dims()
	half := window / 2

	var poly mat.VecDense
	poly.MulVec(pinv, mat.NewVecDense(window, x[segStart:segStart+window]))

	for i := from; i < to; i++ {
		t := float64(i - segStart - half)
		var v, p float64 = 0, 1
		for j := 0; j < poly.Len(); j++ {
			v += poly.AtVec(j) * p
			p *= t
		}
		out[i] = v
	}
}
