package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-eeg/dsp/spectrum"
	"github.com/cwbudde/algo-eeg/dsp/window"
	"github.com/cwbudde/algo-eeg/eeg/bands"
	"github.com/cwbudde/algo-eeg/eeg/prep"
)

func newBandpowerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bandpower <recording.edf>",
		Short: "Print per-band signal power of one cleaned recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printBandpower(cmd.OutOrStdout(), args[0])
		},
	}
}

// printBandpower cleans and broadband-filters one recording, then reports
// the spectral energy inside each canonical band, summed over channels.
func printBandpower(w io.Writer, path string) error {
	out, err := prep.NewLoader().Load(path)
	if err != nil {
		return err
	}

	canonical := bands.Canonical()
	energies := make([]float64, len(canonical))

	var taper []float64

	var total float64
	for _, row := range out.Single {
		if taper == nil {
			taper = window.Hann(len(row))
		}

		buf := make([]float64, len(row))
		copy(buf, row)
		window.Apply(buf, taper)

		power, err := spectrum.PowerSpectrum(buf)
		if err != nil {
			return err
		}

		total += spectrum.BandEnergy(power, prep.SampleRate, 0, prep.SampleRate/2)
		for i, b := range canonical {
			energies[i] += spectrum.BandEnergy(power, prep.SampleRate, b.Low, b.High)
		}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tRANGE (Hz)\tENERGY\tSHARE")

	for i, b := range canonical {
		share := 0.0
		if total > 0 {
			share = energies[i] / total
		}

		fmt.Fprintf(tw, "%s\t%g-%g\t%.4g\t%.1f%%\n", b.Name, b.Low, b.High, energies[i], 100*share)
	}

	return tw.Flush()
}
