// Package prep turns raw EDF recordings into cleaned, band-limited
// channels-by-time matrices restricted to the canonical montage.
package prep

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-eeg/dsp/bandpass"
	"github.com/cwbudde/algo-eeg/eeg/bands"
	"github.com/cwbudde/algo-eeg/eeg/montage"
	"github.com/cwbudde/algo-eeg/eeg/record"
	"github.com/cwbudde/algo-eeg/eeg/repair"
)

// SampleRate is the fixed sampling rate the pipeline operates at, in Hz.
const SampleRate = 128.0

// Output is the tagged result of loading one recording: either a single
// broadband matrix or one matrix per named frequency band, never both.
type Output struct {
	Single [][]float64
	Bands  map[string][][]float64
}

// Banded reports whether the output is a per-band decomposition.
func (o Output) Banded() bool { return o.Bands != nil }

// Loader reads, cleans, and filters recordings.
type Loader struct {
	sampleRate float64
	low        float64
	high       float64
	order      int
	splitBands bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithBandSplit enables decomposition into the canonical frequency bands.
func WithBandSplit(enabled bool) Option {
	return func(l *Loader) { l.splitBands = enabled }
}

// WithCutoffs overrides the broadband cutoffs in Hz.
func WithCutoffs(low, high float64) Option {
	return func(l *Loader) {
		if low > 0 && high > low {
			l.low = low
			l.high = high
		}
	}
}

// WithOrder overrides the Butterworth order per filter cascade.
// Must be a positive even integer.
func WithOrder(n int) Option {
	return func(l *Loader) {
		if n > 0 && n%2 == 0 {
			l.order = n
		}
	}
}

// WithSampleRate overrides the expected sampling rate in Hz.
func WithSampleRate(fs float64) Option {
	return func(l *Loader) {
		if fs > 0 {
			l.sampleRate = fs
		}
	}
}

// NewLoader creates a Loader with broadband defaults (1-50 Hz at 128 Hz).
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		sampleRate: SampleRate,
		low:        bandpass.DefaultLowHz,
		high:       bandpass.DefaultHighHz,
		order:      4,
	}
	for _, o := range opts {
		if o != nil {
			o(l)
		}
	}

	return l
}

// Skippable reports whether a Load failure is a recoverable per-file
// defect: the caller should log the file and move on rather than abort
// the batch.
func Skippable(err error) bool {
	return errors.Is(err, repair.ErrResidualGaps)
}

// Load reads one recording and produces its cleaned, filtered output.
//
// Steps: read EDF, restrict to the canonical montage, repair out-of-range
// samples, bandpass broadband, and optionally decompose into the named
// bands. Residual-gap failures are Skippable; everything else indicates a
// structural or numeric defect.
func (l *Loader) Load(path string) (Output, error) {
	rec, err := record.ReadFile(path)
	if err != nil {
		return Output{}, err
	}

	if rec.SampleRate != l.sampleRate {
		return Output{}, fmt.Errorf("prep: %s: sample rate %g Hz, want %g Hz",
			path, rec.SampleRate, l.sampleRate)
	}

	m, err := montage.Restrict(rec.Labels, rec.Data)
	if err != nil {
		return Output{}, fmt.Errorf("prep: %s: %w", path, err)
	}

	// Drop the raw recording now; only the retained montage rows stay live.
	rec = nil

	if err := repair.Repair(m); err != nil {
		return Output{}, fmt.Errorf("prep: %s: %w", path, err)
	}

	broadband, err := bandpass.New(l.low, l.high, l.sampleRate, bandpass.WithOrder(l.order))
	if err != nil {
		return Output{}, fmt.Errorf("prep: %s: %w", path, err)
	}

	if err := broadband.ProcessMatrix(m); err != nil {
		return Output{}, fmt.Errorf("prep: %s: %w", path, err)
	}

	if !l.splitBands {
		return Output{Single: m}, nil
	}

	out := make(map[string][][]float64, len(bands.Canonical()))
	for _, b := range bands.Canonical() {
		bp, err := bandpass.New(b.Low, b.High, l.sampleRate, bandpass.WithOrder(l.order))
		if err != nil {
			return Output{}, fmt.Errorf("prep: %s: band %s: %w", path, b.Name, err)
		}

		bm := cloneMatrix(m)
		if err := bp.ProcessMatrix(bm); err != nil {
			return Output{}, fmt.Errorf("prep: %s: band %s: %w", path, b.Name, err)
		}

		out[b.Name] = bm
	}

	return Output{Bands: out}, nil
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}

	return out
}
