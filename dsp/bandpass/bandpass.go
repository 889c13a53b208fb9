// Package bandpass implements causal IIR bandpass filtering built from
// matched Butterworth lowpass/highpass cascades.
//
// A bandpass filter is the series combination of a highpass cascade at the
// low cutoff and a lowpass cascade at the high cutoff. Coefficients are
// derived deterministically from (low, high, sample rate, order), so
// repeated runs on the same input produce bit-identical output.
package bandpass

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eeg/dsp/biquad"
	"github.com/cwbudde/algo-eeg/dsp/design"
)

// ErrNonFinite reports that filtering produced NaN or Inf output. This
// indicates a filter-design or input-scale defect, not a data gap.
var ErrNonFinite = errors.New("bandpass: non-finite filter output")

const (
	// DefaultLowHz and DefaultHighHz are the broadband cutoffs.
	DefaultLowHz  = 1.0
	DefaultHighHz = 50.0

	defaultOrder = 4
)

// Filter is a Butterworth bandpass filter for single-channel or
// channels-by-time data.
type Filter struct {
	low        float64
	high       float64
	sampleRate float64
	order      int
	lp         *biquad.Chain
	hp         *biquad.Chain
}

type config struct {
	order int
}

// Option configures a Filter.
type Option func(*config)

// WithOrder sets the Butterworth order per LP/HP cascade.
// Must be a positive even integer; defaults to 4.
func WithOrder(n int) Option {
	return func(cfg *config) {
		if n > 0 && n%2 == 0 {
			cfg.order = n
		}
	}
}

// New creates a bandpass filter with cutoffs low and high in Hz.
// Requires 0 < low < high < sampleRate/2.
func New(low, high, sampleRate float64, opts ...Option) (*Filter, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("bandpass: sample rate must be > 0: %g", sampleRate)
	}
	if low <= 0 || high <= low || high >= sampleRate/2 {
		return nil, fmt.Errorf("bandpass: cutoffs must satisfy 0 < low < high < nyquist: low=%g high=%g fs=%g",
			low, high, sampleRate)
	}

	cfg := config{order: defaultOrder}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return &Filter{
		low:        low,
		high:       high,
		sampleRate: sampleRate,
		order:      cfg.order,
		lp:         biquad.NewChain(design.ButterworthLP(high, cfg.order, sampleRate)),
		hp:         biquad.NewChain(design.ButterworthHP(low, cfg.order, sampleRate)),
	}, nil
}

// Broadband creates the default 1-50 Hz filter at the given sample rate.
func Broadband(sampleRate float64, opts ...Option) (*Filter, error) {
	return New(DefaultLowHz, DefaultHighHz, sampleRate, opts...)
}

// Low returns the low cutoff in Hz.
func (f *Filter) Low() float64 { return f.low }

// High returns the high cutoff in Hz.
func (f *Filter) High() float64 { return f.high }

// SampleRate returns the sample rate the filter was designed for.
func (f *Filter) SampleRate() float64 { return f.sampleRate }

// Order returns the Butterworth order per LP/HP cascade.
func (f *Filter) Order() int { return f.order }

// Process filters one channel in-place, carrying filter state across calls.
// Call Reset between independent channels.
func (f *Filter) Process(buf []float64) {
	f.lp.ProcessBlock(buf)
	f.hp.ProcessBlock(buf)
}

// Reset clears the delay lines of both cascades.
func (f *Filter) Reset() {
	f.lp.Reset()
	f.hp.Reset()
}

// ProcessMatrix filters every channel of a channels-by-time matrix in-place,
// each channel starting from zero filter state. The output is verified to be
// finite; any NaN/Inf fails with ErrNonFinite rather than propagating
// corrupted values downstream.
func (f *Filter) ProcessMatrix(m [][]float64) error {
	for c, row := range m {
		f.Reset()
		f.Process(row)

		for i, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				f.Reset()
				return fmt.Errorf("%w: channel %d sample %d", ErrNonFinite, c, i)
			}
		}
	}

	f.Reset()

	return nil
}
