package bandpass

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-eeg/internal/testutil"
)

const fs = 128.0

// steadyRMS computes the root-mean-square of the second half of a
// signal, skipping the filter transient.
func steadyRMS(signal []float64) float64 {
	tail := signal[len(signal)/2:]

	var sumSq float64
	for _, x := range tail {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(tail)))
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name      string
		low, high float64
	}{
		{"zero low", 0, 50},
		{"inverted", 30, 10},
		{"above nyquist", 1, 70},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.low, tc.high, fs); err == nil {
				t.Fatalf("New(%v, %v, %v) succeeded, want error", tc.low, tc.high, fs)
			}
		})
	}

	if _, err := New(1, 50, 0); err == nil {
		t.Fatal("zero sample rate accepted")
	}
}

func TestBroadband_PassesInBand(t *testing.T) {
	f, err := Broadband(fs)
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.Sine(10, fs, 1, 1024)
	out := make([]float64, len(in))
	copy(out, in)
	f.Process(out)

	testutil.RequireFinite(t, out)

	ratio := steadyRMS(out) / steadyRMS(in)
	if ratio < 0.8 || ratio > 1.1 {
		t.Fatalf("10 Hz through 1-50 Hz broadband: gain %v, want ~1", ratio)
	}
}

func TestBandpass_AttenuatesOutOfBand(t *testing.T) {
	// Theta band: a 30 Hz tone sits nearly two octaves above the high
	// cutoff and must be strongly rejected by the order-4 cascade.
	f, err := New(4, 8, fs)
	if err != nil {
		t.Fatal(err)
	}

	inBand := testutil.Sine(6, fs, 1, 1024)
	f.Process(inBand)
	f.Reset()

	outBand := testutil.Sine(30, fs, 1, 1024)
	f.Process(outBand)

	if g := steadyRMS(inBand) / (1 / math.Sqrt2); g < 0.7 {
		t.Fatalf("6 Hz through theta band: relative gain %v, want near 1", g)
	}
	if g := steadyRMS(outBand) / (1 / math.Sqrt2); g > 0.05 {
		t.Fatalf("30 Hz through theta band: relative gain %v, want < 0.05", g)
	}
}

func TestProcess_Deterministic(t *testing.T) {
	in := testutil.Sine(13, fs, 5, 512)

	a := make([]float64, len(in))
	b := make([]float64, len(in))
	copy(a, in)
	copy(b, in)

	fa, _ := New(1, 50, fs)
	fb, _ := New(1, 50, fs)
	fa.Process(a)
	fb.Process(b)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs between identical runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestProcessMatrix_FreshStatePerChannel(t *testing.T) {
	f, err := Broadband(fs)
	if err != nil {
		t.Fatal(err)
	}

	row := testutil.Sine(10, fs, 1, 256)
	m := [][]float64{
		append([]float64(nil), row...),
		append([]float64(nil), row...),
	}

	if err := f.ProcessMatrix(m); err != nil {
		t.Fatal(err)
	}

	// Identical inputs must give identical outputs: state does not leak
	// from one channel into the next.
	for i := range m[0] {
		if m[0][i] != m[1][i] {
			t.Fatalf("sample %d: channel outputs diverge: %v vs %v", i, m[0][i], m[1][i])
		}
	}
}

func TestProcessMatrix_NonFinite(t *testing.T) {
	f, err := Broadband(fs)
	if err != nil {
		t.Fatal(err)
	}

	m := [][]float64{{0, 1, math.Inf(1), 1, 0, 0, 0, 0}}

	err = f.ProcessMatrix(m)
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("Inf input: err = %v, want ErrNonFinite", err)
	}
}

func TestAccessors(t *testing.T) {
	f, err := New(4, 8, fs, WithOrder(6))
	if err != nil {
		t.Fatal(err)
	}

	if f.Low() != 4 || f.High() != 8 || f.SampleRate() != fs || f.Order() != 6 {
		t.Fatalf("accessors: got (%v, %v, %v, %d)", f.Low(), f.High(), f.SampleRate(), f.Order())
	}
}
