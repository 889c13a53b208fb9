// Package record reads raw multi-channel EEG recordings from EDF files
// into channels-by-time sample matrices.
package record

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenPSG/edf"
)

// Recording is a multi-channel EEG time series. Data is laid out
// channels-by-samples; Data[c][t] is the physical value of channel c at
// sample index t.
type Recording struct {
	Labels     []string
	SampleRate float64 // Hz, shared by all channels
	Data       [][]float64
}

// NumChannels returns the channel count.
func (r *Recording) NumChannels() int { return len(r.Data) }

// NumSamples returns the per-channel sample count.
func (r *Recording) NumSamples() int {
	if len(r.Data) == 0 {
		return 0
	}

	return len(r.Data[0])
}

// ReadFile reads a complete EDF recording from disk.
func ReadFile(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	defer f.Close()

	rec, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("record: %s: %w", path, err)
	}

	return rec, nil
}

// Read reads a complete EDF recording. All signals must share one sample
// rate; the pipeline assumes a single fixed rate throughout.
func Read(r io.ReadSeeker) (*Recording, error) {
	layout, err := readLayout(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	er, err := edf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open edf: %w", err)
	}

	data := make([][]float64, len(layout.labels))
	for i := range layout.labels {
		sr, err := er.Signal(i)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}

		total := layout.dataRecords * layout.samplesPerRecord[i]
		buf := make([]float64, total)

		n, err := sr.Read(buf)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		if n != total {
			return nil, fmt.Errorf("signal %d: short read: %d of %d samples", i, n, total)
		}

		data[i] = buf
	}

	return &Recording{
		Labels:     layout.labels,
		SampleRate: layout.sampleRate,
		Data:       data,
	}, nil
}

// layout holds the signal geometry needed to size reads. The EDF reader
// library keeps its parsed header private, so the geometry fields are
// scanned directly from the fixed-width header block.
type layout struct {
	dataRecords      int
	sampleRate       float64
	labels           []string
	samplesPerRecord []int
}

func readLayout(r io.ReadSeeker) (*layout, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind: %w", err)
	}

	fixed := make([]byte, 256)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dataRecords, err := strconv.Atoi(strings.TrimSpace(string(fixed[236:244])))
	if err != nil {
		return nil, fmt.Errorf("parse record count: %w", err)
	}
	if dataRecords < 0 {
		return nil, fmt.Errorf("unknown record count")
	}

	recordSeconds, err := strconv.ParseFloat(strings.TrimSpace(string(fixed[244:252])), 64)
	if err != nil {
		return nil, fmt.Errorf("parse record duration: %w", err)
	}
	if recordSeconds <= 0 {
		return nil, fmt.Errorf("non-positive record duration: %g", recordSeconds)
	}

	ns, err := strconv.Atoi(strings.TrimSpace(string(fixed[252:256])))
	if err != nil {
		return nil, fmt.Errorf("parse signal count: %w", err)
	}
	if ns <= 0 {
		return nil, fmt.Errorf("no signals")
	}

	// Per-signal header fields are stored field-major: ns labels (16 bytes
	// each), then ns transducer/dimension/calibration/prefilter fields,
	// then ns samples-per-record counts (8 bytes each).
	labelBlock := make([]byte, 16*ns)
	if _, err := io.ReadFull(r, labelBlock); err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	labels := make([]string, ns)
	for i := range labels {
		labels[i] = strings.TrimSpace(string(labelBlock[16*i : 16*(i+1)]))
	}

	const skipPerSignal = 80 + 8 + 8 + 8 + 8 + 8 + 80
	if _, err := r.Seek(int64(skipPerSignal*ns), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("seek samples-per-record: %w", err)
	}

	sprBlock := make([]byte, 8*ns)
	if _, err := io.ReadFull(r, sprBlock); err != nil {
		return nil, fmt.Errorf("read samples-per-record: %w", err)
	}

	spr := make([]int, ns)
	rate := 0.0
	for i := range spr {
		spr[i], err = strconv.Atoi(strings.TrimSpace(string(sprBlock[8*i : 8*(i+1)])))
		if err != nil {
			return nil, fmt.Errorf("parse samples-per-record for signal %d: %w", i, err)
		}

		hz := float64(spr[i]) / recordSeconds
		if i == 0 {
			rate = hz
		} else if hz != rate {
			return nil, fmt.Errorf("mixed sample rates: %g Hz vs %g Hz", rate, hz)
		}
	}

	return &layout{
		dataRecords:      dataRecords,
		sampleRate:       rate,
		labels:           labels,
		samplesPerRecord: spr,
	}, nil
}
