// Package pipeline orchestrates the offline EEG preprocessing batch: it
// discovers raw recordings, computes per-channel statistics over the
// train partition, z-scores every recording, and writes NumPy arrays
// mirroring the input layout.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-eeg/eeg/prep"
	"github.com/cwbudde/algo-eeg/stats/channel"
)

const (
	rawExt = ".edf"
	outExt = ".npy"
)

// Config holds the pipeline configuration surface.
type Config struct {
	InputDir   string
	OutputDir  string
	SplitDir   string
	SplitBands bool
	Logger     *slog.Logger
}

// Skip records one skipped recording and why.
type Skip struct {
	Path   string
	Reason string
}

// Summary reports the outcome of a run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
	Skips     []Skip
}

// Pipeline is the two-phase batch driver: statistics first, then
// normalization and output.
type Pipeline struct {
	cfg Config
	log *slog.Logger
}

// New creates a Pipeline. A nil Logger falls back to slog.Default.
func New(cfg Config) (*Pipeline, error) {
	if cfg.InputDir == "" || cfg.OutputDir == "" || cfg.SplitDir == "" {
		return nil, fmt.Errorf("pipeline: input, output, and split directories are required")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Pipeline{cfg: cfg, log: log}, nil
}

// Run executes the full batch and returns its summary. Per-file defects
// are logged and counted without aborting; structural defects (missing
// splits, insufficient training data) abort the run.
func (p *Pipeline) Run() (Summary, error) {
	files, err := discover(p.cfg.InputDir)
	if err != nil {
		return Summary{}, err
	}

	p.log.Info("discovered recordings", "count", len(files), "input", p.cfg.InputDir)

	splits, err := LoadSplits(p.cfg.SplitDir)
	if err != nil {
		return Summary{}, err
	}

	for name, entries := range splits.Partitions {
		p.log.Info("partition", "name", name, "recordings", len(entries))
	}

	global, perSubject, err := p.computeStats(splits)
	if err != nil {
		return Summary{}, err
	}

	if err := p.writeStats(global, perSubject); err != nil {
		return Summary{}, err
	}

	summary, err := p.writeOutputs(files, global)
	if err != nil {
		return Summary{}, err
	}

	p.log.Info("run complete",
		"processed", summary.Processed,
		"skipped", summary.Skipped,
		"failed", summary.Failed)
	for _, s := range summary.Skips {
		p.log.Info("skipped recording", "path", s.Path, "reason", s.Reason)
	}

	return summary, nil
}

// computeStats runs phase 1: global statistics over the full train
// partition and independent statistics per subject. Only train recordings
// are ever aggregated.
func (p *Pipeline) computeStats(splits *Splits) (channel.Stats, map[string]channel.Stats, error) {
	loader := prep.NewLoader() // band splitting is always off for statistics

	p.log.Info("computing global train statistics")

	global, err := p.aggregate(loader, splits.TrainFiles(p.cfg.InputDir))
	if err != nil {
		return channel.Stats{}, nil, fmt.Errorf("global statistics: %w", err)
	}

	perSubject := make(map[string]channel.Stats)
	for subject, files := range splits.TrainFilesBySubject(p.cfg.InputDir) {
		stats, err := p.aggregate(loader, files)
		if err != nil {
			return channel.Stats{}, nil, fmt.Errorf("statistics for subject %s: %w", subject, err)
		}

		perSubject[subject] = stats
	}

	p.log.Info("statistics computed", "subjects", len(perSubject))

	return global, perSubject, nil
}

// aggregate folds the listed recordings into one statistics pass,
// skipping recordings with residual gaps.
func (p *Pipeline) aggregate(loader *prep.Loader, files []string) (channel.Stats, error) {
	agg := channel.NewAggregator()

	for _, path := range files {
		out, err := loader.Load(path)
		if err != nil {
			if prep.Skippable(err) {
				p.log.Warn("excluded from statistics", "path", path, "reason", err)
				continue
			}

			return channel.Stats{}, err
		}

		if err := agg.Add(out.Single); err != nil {
			return channel.Stats{}, err
		}
	}

	return agg.Result()
}

// writeOutputs runs phase 2: load every discovered recording, z-score it
// with the global statistics, and persist the arrays.
func (p *Pipeline) writeOutputs(files []string, global channel.Stats) (Summary, error) {
	loader := prep.NewLoader(prep.WithBandSplit(p.cfg.SplitBands))

	var summary Summary
	for _, path := range files {
		if err := p.processFile(loader, path, global); err != nil {
			if prep.Skippable(err) {
				summary.Skipped++
				summary.Skips = append(summary.Skips, Skip{Path: path, Reason: err.Error()})
				p.log.Warn("skipped", "path", path, "reason", err)

				continue
			}

			summary.Failed++
			p.log.Error("failed", "path", path, "error", err)

			continue
		}

		summary.Processed++
	}

	return summary, nil
}

func (p *Pipeline) processFile(loader *prep.Loader, path string, global channel.Stats) error {
	out, err := loader.Load(path)
	if err != nil {
		return err
	}

	target, err := p.outputPath(path)
	if err != nil {
		return err
	}

	if !out.Banded() {
		z, err := channel.Normalize(out.Single, global)
		if err != nil {
			return err
		}

		return writeMatrix(target, z)
	}

	for name, m := range out.Bands {
		z, err := channel.Normalize(m, global)
		if err != nil {
			return err
		}

		banded := strings.TrimSuffix(target, outExt) + "_" + name + outExt
		if err := writeMatrix(banded, z); err != nil {
			return err
		}
	}

	return nil
}

// outputPath mirrors a raw file's location under the output root and
// swaps the raw extension for the array extension.
func (p *Pipeline) outputPath(path string) (string, error) {
	rel, err := filepath.Rel(p.cfg.InputDir, path)
	if err != nil {
		return "", fmt.Errorf("pipeline: %s: %w", path, err)
	}

	return filepath.Join(p.cfg.OutputDir, strings.TrimSuffix(rel, rawExt)+outExt), nil
}

// discover lists raw recordings in the immediate subdirectories of the
// input root, in lexical order.
func discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		sub, err := os.ReadDir(filepath.Join(inputDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		for _, f := range sub {
			if !f.IsDir() && strings.HasSuffix(f.Name(), rawExt) {
				files = append(files, filepath.Join(inputDir, e.Name(), f.Name()))
			}
		}
	}

	return files, nil
}
