// Package repair fills isolated out-of-range samples in EEG matrices by
// temporal neighbor averaging.
package repair

import (
	"errors"
	"fmt"
	"math"
)

// Threshold is the absolute physical value above which a sample is
// treated as missing (electrode glitch or dropout).
const Threshold = 100.0

// ErrResidualGaps reports that missing samples survived a repair pass.
// Runs of two or more consecutive missing samples cannot be filled by
// single-pass neighbor averaging.
var ErrResidualGaps = errors.New("repair: residual missing samples after interpolation")

// Repair cleans a channels-by-time matrix in-place. Every sample that is
// NaN or exceeds Threshold in magnitude is marked missing, then each
// missing sample is filled with the average of its temporal neighbors at
// t-1 and t+1 in the same channel. A missing sample at the first or last
// time index clamps to its only neighbor.
//
// Post-condition: no missing samples remain. If any do, Repair fails with
// ErrResidualGaps and the matrix is left partially filled.
func Repair(m [][]float64) error {
	for _, row := range m {
		for t, v := range row {
			if math.IsNaN(v) || math.Abs(v) > Threshold {
				row[t] = math.NaN()
			}
		}
	}

	for _, row := range m {
		for t, v := range row {
			if !math.IsNaN(v) {
				continue
			}

			switch {
			case len(row) < 2:
				// No neighbors; stays missing and fails below.
			case t == 0:
				row[t] = row[t+1]
			case t == len(row)-1:
				row[t] = row[t-1]
			default:
				// A NaN neighbor poisons the average, so consecutive
				// gaps survive the pass and trip the check below.
				row[t] = (row[t-1] + row[t+1]) / 2
			}
		}
	}

	for c, row := range m {
		for t, v := range row {
			if math.IsNaN(v) {
				return fmt.Errorf("%w: channel %d sample %d", ErrResidualGaps, c, t)
			}
		}
	}

	return nil
}
