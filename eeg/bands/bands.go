// Package bands defines the canonical EEG frequency bands.
package bands

// Band is a named frequency range in Hz.
type Band struct {
	Name string
	Low  float64
	High float64
}

// Canonical returns the named bands in ascending frequency order.
// Delta is deliberately excluded: its lower edge sits below the
// pipeline's broadband highpass cutoff.
func Canonical() []Band {
	return []Band{
		{Name: "theta", Low: 4, High: 8},
		{Name: "alpha", Low: 8, High: 12},
		{Name: "beta", Low: 13, High: 30},
		{Name: "gamma", Low: 30, High: 60},
	}
}
