// Package channel computes per-channel normalization statistics across
// recordings and applies z-score standardization.
package channel

import (
	"errors"
	"fmt"
	"math"
)

// zeroStdEps is the smallest standard deviation accepted for division.
const zeroStdEps = 1e-12

var (
	// ErrInsufficientData reports that no samples were aggregated.
	ErrInsufficientData = errors.New("channel: no samples to aggregate")

	// ErrChannelMismatch reports inconsistent channel counts. This is a
	// hard precondition violation and is never coerced by truncation.
	ErrChannelMismatch = errors.New("channel: channel count mismatch")

	// ErrZeroStd reports a zero or near-zero standard deviation, which
	// would blow up the z-score division.
	ErrZeroStd = errors.New("channel: zero standard deviation")
)

// Stats holds per-channel mean and standard deviation vectors. It is an
// immutable value computed once and passed by value into normalization.
type Stats struct {
	Mean []float64
	Std  []float64
}

// NumChannels returns the channel count the statistics were computed for.
func (s Stats) NumChannels() int { return len(s.Mean) }

// Aggregator accumulates per-channel mean and standard deviation across
// recordings using Welford accumulators. The result equals computing the
// moments over the time-axis concatenation of all added matrices, without
// materializing the concatenation, and is invariant to input order up to
// floating-point rounding.
type Aggregator struct {
	n    int
	mean []float64
	m2   []float64
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one channels-by-time matrix into the running statistics.
// Every added matrix must have the same channel count as the first.
func (a *Aggregator) Add(m [][]float64) error {
	if len(m) == 0 {
		return nil
	}

	if a.mean == nil {
		a.mean = make([]float64, len(m))
		a.m2 = make([]float64, len(m))
	} else if len(m) != len(a.mean) {
		return fmt.Errorf("%w: got %d channels, want %d", ErrChannelMismatch, len(m), len(a.mean))
	}

	for c, row := range m {
		if len(row) != len(m[0]) {
			return fmt.Errorf("%w: ragged matrix at channel %d", ErrChannelMismatch, c)
		}

		mean := a.mean[c]
		m2 := a.m2[c]
		n := a.n

		for _, x := range row {
			n++
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
		}

		a.mean[c] = mean
		a.m2[c] = m2
	}

	a.n += len(m[0])

	return nil
}

// Result computes the per-channel statistics from accumulated data.
// Standard deviations are population values (divide by n), matching
// moments over the plain concatenation.
func (a *Aggregator) Result() (Stats, error) {
	if a.n == 0 || a.mean == nil {
		return Stats{}, ErrInsufficientData
	}

	mean := make([]float64, len(a.mean))
	std := make([]float64, len(a.m2))
	copy(mean, a.mean)

	for c, m2 := range a.m2 {
		std[c] = math.Sqrt(m2 / float64(a.n))
	}

	return Stats{Mean: mean, Std: std}, nil
}

// Normalize returns (m - mean) / std broadcast per channel across the
// time axis. The input is not modified. Channel counts must match and
// every std entry must be non-zero.
func Normalize(m [][]float64, s Stats) ([][]float64, error) {
	if len(m) != len(s.Mean) || len(s.Mean) != len(s.Std) {
		return nil, fmt.Errorf("%w: matrix has %d channels, stats have %d/%d",
			ErrChannelMismatch, len(m), len(s.Mean), len(s.Std))
	}

	for c, sd := range s.Std {
		if math.Abs(sd) <= zeroStdEps {
			return nil, fmt.Errorf("%w: channel %d", ErrZeroStd, c)
		}
	}

	out := make([][]float64, len(m))
	for c, row := range m {
		mean := s.Mean[c]
		inv := 1 / s.Std[c]

		dst := make([]float64, len(row))
		for t, x := range row {
			dst[t] = (x - mean) * inv
		}

		out[c] = dst
	}

	return out, nil
}
