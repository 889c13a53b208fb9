// Package window provides taper functions applied to finite signal
// segments before spectral analysis to reduce leakage.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hann returns an n-point symmetric Hann window.
func Hann(n int) []float64 {
	return raisedCosine(n, 0.5, 0.5)
}

// Hamming returns an n-point symmetric Hamming window.
func Hamming(n int) []float64 {
	return raisedCosine(n, 0.54, 0.46)
}

func raisedCosine(n int, a0, a1 float64) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{1}
	}

	out := make([]float64, n)
	step := 2 * math.Pi / float64(n-1)
	for i := range out {
		out[i] = a0 - a1*math.Cos(step*float64(i))
	}

	return out
}

// Apply multiplies buf by coeffs in place. Both slices must have the
// same length.
func Apply(buf, coeffs []float64) {
	vecmath.MulBlockInPlace(buf, coeffs)
}
