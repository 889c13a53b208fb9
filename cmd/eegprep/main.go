// Command eegprep converts raw multi-channel EEG recordings into cleaned,
// normalized NumPy arrays ready for downstream modeling.
//
// Usage:
//
//	eegprep --input-dir pruned --output-dir preprocessed --split-dir data/splits
//	eegprep --split-bands
//	eegprep bandpower recording.edf
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-eeg/internal/pipeline"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		cfg     pipeline.Config
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "eegprep",
		Short: "Offline EEG preprocessing pipeline",
		Long: `Eegprep is an offline batch pipeline for EEG recordings.

It repairs isolated out-of-range samples, band-limits each recording,
computes per-channel statistics over the train partition, applies z-score
normalization, and writes NumPy arrays mirroring the input layout.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}

			cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			p, err := pipeline.New(cfg)
			if err != nil {
				return err
			}

			_, err = p.Run()

			return err
		},
	}

	cmd.Flags().StringVar(&cfg.InputDir, "input-dir", "pruned", "directory of raw EDF recordings")
	cmd.Flags().StringVar(&cfg.OutputDir, "output-dir", "preprocessed", "directory for the preprocessed arrays")
	cmd.Flags().StringVar(&cfg.SplitDir, "split-dir", "data/splits", "directory with the split metadata files")
	cmd.Flags().BoolVar(&cfg.SplitBands, "split-bands", false, "decompose recordings into the canonical frequency bands")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	cmd.AddCommand(newBandpowerCommand())

	return cmd
}
