// Package spectrum computes power spectra and in-band energies of real
// signals. It is used for spectral quality checks on filtered EEG data.
package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Magnitude returns |X[k]| for each complex spectrum bin.
//
// Uses SIMD-optimized kernels when available (AVX2, SSE2, NEON).
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}

// Power returns |X[k]|^2 for each complex spectrum bin.
//
// Uses SIMD-optimized kernels when available (AVX2, SSE2, NEON).
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)

	return out
}

// PowerSpectrum computes the one-sided power spectrum of a real signal.
// The signal is zero-padded to the next power of two; the returned slice
// holds bins [0..Nyquist], fftSize/2+1 values.
func PowerSpectrum(signal []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("spectrum: empty signal")
	}

	fftSize := nextPow2(len(signal))

	in := make([]complex128, fftSize)
	for i, x := range signal {
		in[i] = complex(x, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	return Power(out[:fftSize/2+1]), nil
}

// BandEnergy sums the one-sided power spectrum bins whose frequencies fall
// within [lowHz, highHz]. The power slice must cover bins [0..Nyquist] as
// returned by PowerSpectrum.
func BandEnergy(power []float64, sampleRate, lowHz, highHz float64) float64 {
	if len(power) < 2 || sampleRate <= 0 || highHz < lowHz {
		return 0
	}

	// fftSize = 2 * (len(power) - 1) for a one-sided spectrum.
	binHz := sampleRate / float64(2*(len(power)-1))

	var sum float64
	for i, p := range power {
		f := float64(i) * binHz
		if f >= lowHz && f <= highHz {
			sum += p
		}
	}

	return sum
}

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
