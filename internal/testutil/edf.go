package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/OpenPSG/edf"
)

// WriteEDF writes a synthetic EDF recording to path with one data record
// per second of signal. Every channel shares sampleRate; the per-channel
// sample count must be a multiple of sampleRate. Physical calibration is
// fixed at ±1000 over the full int16 range (~0.03 resolution), wide
// enough to round-trip out-of-range spike values used in gap tests.
func WriteEDF(t *testing.T, path string, labels []string, data [][]float64, sampleRate int) {
	t.Helper()

	if len(labels) != len(data) {
		t.Fatalf("labels/data mismatch: %d vs %d", len(labels), len(data))
	}
	if len(data) == 0 || len(data[0])%sampleRate != 0 {
		t.Fatalf("sample count %d not a multiple of rate %d", len(data[0]), sampleRate)
	}

	signals := make([]edf.Signal, len(labels))
	for i, l := range labels {
		signals[i] = edf.Signal{
			Label:             l,
			PhysicalDimension: "uV",
			PhysicalMin:       -1000,
			PhysicalMax:       1000,
			DigitalMin:        -32768,
			DigitalMax:        32767,
			SamplesPerRecord:  sampleRate,
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w, err := edf.Create(f, edf.Header{
		Version:            edf.Version0,
		PatientID:          "synthetic",
		RecordingID:        "synthetic",
		StartTime:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DataRecordDuration: time.Second,
		SignalCount:        len(signals),
		Signals:            signals,
	})
	if err != nil {
		t.Fatalf("edf create: %v", err)
	}

	records := len(data[0]) / sampleRate
	for r := 0; r < records; r++ {
		chunk := make([][]float64, len(data))
		for c := range data {
			chunk[c] = data[c][r*sampleRate : (r+1)*sampleRate]
		}
		if err := w.WriteRecord(chunk); err != nil {
			t.Fatalf("write record %d: %v", r, err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("edf close: %v", err)
	}
}
