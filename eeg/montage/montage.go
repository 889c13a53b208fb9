// Package montage defines the canonical 32-channel EEG sensor set and
// restricts recordings to it.
package montage

import "fmt"

// canonical lists the retained sensor positions in their fixed order.
// Every matrix produced by the pipeline has exactly these rows.
var canonical = []string{
	"Cz", "Fz", "Fp1", "F7", "F3", "FC1", "C3", "FC5",
	"FT9", "T7", "CP5", "CP1", "P3", "P7", "PO9", "O1",
	"Pz", "Oz", "O2", "PO10", "P8", "P4", "CP2", "CP6",
	"T8", "FT10", "FC6", "C4", "FC2", "F4", "F8", "Fp2",
}

// NumChannels is the size of the canonical channel set.
const NumChannels = 32

// Channels returns a copy of the canonical channel names in order.
func Channels() []string {
	out := make([]string, len(canonical))
	copy(out, canonical)

	return out
}

// Restrict reorders a labeled channels-by-time matrix to the canonical
// channel set, discarding all other channels. Every canonical channel must
// be present in labels; labels and data must be parallel.
//
// The returned matrix aliases the retained rows of data, so dropped
// channels become collectable as soon as the caller releases data.
func Restrict(labels []string, data [][]float64) ([][]float64, error) {
	if len(labels) != len(data) {
		return nil, fmt.Errorf("montage: %d labels for %d channels", len(labels), len(data))
	}

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := index[l]; !dup {
			index[l] = i
		}
	}

	out := make([][]float64, len(canonical))
	for i, name := range canonical {
		src, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("montage: missing channel %q", name)
		}

		out[i] = data[src]
	}

	return out, nil
}
