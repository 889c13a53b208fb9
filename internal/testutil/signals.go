package testutil

import "math"

// Sine returns a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SineMatrix returns a channels-by-time matrix where channel c carries a
// sine at baseHz + c Hz. Useful as in-range EEG-like test data.
func SineMatrix(channels, length int, baseHz, sampleRate, amplitude float64) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		out[c] = Sine(baseHz+float64(c), sampleRate, amplitude, length)
	}
	return out
}

// ConstMatrix returns a channels-by-time matrix filled with value.
func ConstMatrix(channels, length int, value float64) [][]float64 {
	out := make([][]float64, channels)
	for c := range out {
		row := make([]float64, length)
		for i := range row {
			row[i] = value
		}
		out[c] = row
	}
	return out
}

// CloneMatrix deep-copies a channels-by-time matrix.
func CloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for c, row := range m {
		out[c] = make([]float64, len(row))
		copy(out[c], row)
	}
	return out
}
