package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-eeg/stats/channel"
)

// writeMatrix persists a channels-by-time matrix as a 2-D float64 NumPy
// array, creating parent directories as needed.
func writeMatrix(path string, m [][]float64) error {
	if len(m) == 0 || len(m[0]) == 0 {
		return fmt.Errorf("pipeline: empty matrix for %s", path)
	}

	rows, cols := len(m), len(m[0])
	flat := make([]float64, 0, rows*cols)
	for c, row := range m {
		if len(row) != cols {
			return fmt.Errorf("pipeline: ragged matrix for %s at channel %d", path, c)
		}

		flat = append(flat, row...)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	if err := npyio.Write(f, mat.NewDense(rows, cols, flat)); err != nil {
		f.Close()
		return fmt.Errorf("pipeline: write %s: %w", path, err)
	}

	return f.Close()
}

// writeStats persists the global and per-subject statistics as 2-by-C
// arrays (mean row, std row) under the output root, so subject-conditioned
// consumers can renormalize without recomputing.
func (p *Pipeline) writeStats(global channel.Stats, perSubject map[string]channel.Stats) error {
	if err := writeMatrix(filepath.Join(p.cfg.OutputDir, "stats_global"+outExt),
		[][]float64{global.Mean, global.Std}); err != nil {
		return err
	}

	for subject, s := range perSubject {
		path := filepath.Join(p.cfg.OutputDir, "stats_"+subject+outExt)
		if err := writeMatrix(path, [][]float64{s.Mean, s.Std}); err != nil {
			return err
		}
	}

	return nil
}
