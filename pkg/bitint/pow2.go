// SPDX-License-Identifier: MIT
//
// Package bitint provides the power-of-two helpers used for FFT sizing and
// audio buffer sizing. All functions are O(1) and allocation free.
package bitint

import "math/bits"

// NextPowerOfTwo returns the next power of 2 >= size. Powers of two are
// returned unchanged; zero and negative sizes return 1.
//
//	Input  Output
//	4      4
//	5      8
//	0      1
//	-1     1
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	// size-1 keeps exact powers of two from being doubled.
	return 1 << bits.Len(uint(size-1))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// FloorPowerOfTwo returns the largest power of 2 <= n, or 0 when n <= 0.
// The spectrum uses it to pick an analysis chunk that fits a short clip.
func FloorPowerOfTwo(n int) int {
	if n <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(n)) - 1)
}
