package repair

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-eeg/internal/testutil"
)

func TestRepair_IdentityWhenInRange(t *testing.T) {
	m := testutil.SineMatrix(4, 64, 5, 128, 50)
	want := testutil.CloneMatrix(m)

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	testutil.RequireMatrixNearlyEqual(t, m, want, 0)
}

func TestRepair_ThresholdIsExclusive(t *testing.T) {
	m := [][]float64{{100, -100, 99.9, -99.9}}
	want := [][]float64{{100, -100, 99.9, -99.9}}

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	testutil.RequireMatrixNearlyEqual(t, m, want, 0)
}

func TestRepair_IsolatedSpike(t *testing.T) {
	// Spike of 500 at index 5 with neighbors 1 and 3 repairs to their
	// average, 2.
	row := []float64{0, 0, 0, 0, 1, 500, 3, 0, 0, 0}
	m := [][]float64{row}

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	if got := m[0][5]; got != 2 {
		t.Fatalf("repaired value = %v, want 2", got)
	}
}

func TestRepair_NaNTreatedAsMissing(t *testing.T) {
	m := [][]float64{{4, math.NaN(), 8, 0}}

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	if got := m[0][1]; got != 6 {
		t.Fatalf("repaired value = %v, want 6", got)
	}
}

func TestRepair_Boundaries(t *testing.T) {
	m := [][]float64{
		{500, 7, 0, 0},
		{0, 0, 9, 500},
	}

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	if got := m[0][0]; got != 7 {
		t.Fatalf("first-sample gap = %v, want clamp to 7", got)
	}
	if got := m[1][3]; got != 9 {
		t.Fatalf("last-sample gap = %v, want clamp to 9", got)
	}
}

func TestRepair_ConsecutiveGapsFail(t *testing.T) {
	m := [][]float64{{0, 1, 500, 500, 3, 0}}

	err := Repair(m)
	if !errors.Is(err, ErrResidualGaps) {
		t.Fatalf("consecutive gaps: err = %v, want ErrResidualGaps", err)
	}
}

func TestRepair_ConsecutiveGapsAcrossChannelsRepairable(t *testing.T) {
	// Gaps at the same time index in different channels are independent.
	m := [][]float64{
		{0, 2, 500, 4, 0},
		{0, 6, 500, 8, 0},
	}

	if err := Repair(m); err != nil {
		t.Fatal(err)
	}

	if m[0][2] != 3 || m[1][2] != 7 {
		t.Fatalf("repaired = %v / %v, want 3 / 7", m[0][2], m[1][2])
	}
}

func TestRepair_SingleSampleChannelFails(t *testing.T) {
	m := [][]float64{{500}}

	if !errors.Is(Repair(m), ErrResidualGaps) {
		t.Fatal("unrepairable single-sample gap must fail")
	}
}
