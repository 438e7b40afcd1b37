package covid

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Options tune the derivation. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Extended     bool    `json:"extended" yaml:"extended" toml:"extended"`
	Seed         uint64  `json:"seed" yaml:"seed" toml:"seed"`
	Window       int     `json:"window" yaml:"window" toml:"window"`
	PctPeriods   int     `json:"pct_periods" yaml:"pct_periods" toml:"pct_periods"`
	ConfirmedMin float64 `json:"confirmed_min" yaml:"confirmed_min" toml:"confirmed_min"`
	ConfirmedMax float64 `json:"confirmed_max" yaml:"confirmed_max" toml:"confirmed_max"`
	LogMu        float64 `json:"log_mu" yaml:"log_mu" toml:"log_mu"`
	LogSigma     float64 `json:"log_sigma" yaml:"log_sigma" toml:"log_sigma"`
	// SortByDate orders each state by date before the rolling window.
	SortByDate bool `json:"sort_by_date" yaml:"sort_by_date" toml:"sort_by_date"`
	// StrictStates fails when a population state name has no abbreviation.
	StrictStates bool `json:"strict_states" yaml:"strict_states" toml:"strict_states"`
}

func DefaultOptions() Options {
	return Options{
		Seed:         42,
		Window:       7,
		PctPeriods:   7,
		ConfirmedMin: 100,
		ConfirmedMax: 500000,
		LogMu:        8,
		LogSigma:     2,
	}
}

func (o Options) Validate() error {
	var errs []error
	if o.Window < 1 {
		errs = append(errs, fmt.Errorf("window must be >= 1, got %d", o.Window))
	}
	if o.PctPeriods < 1 {
		errs = append(errs, fmt.Errorf("pct_periods must be >= 1, got %d", o.PctPeriods))
	}
	if o.ConfirmedMin > o.ConfirmedMax {
		errs = append(errs, fmt.Errorf("confirmed_min %g is above confirmed_max %g", o.ConfirmedMin, o.ConfirmedMax))
	}
	if o.LogSigma <= 0 {
		errs = append(errs, fmt.Errorf("log_sigma must be > 0, got %g", o.LogSigma))
	}
	return errors.Join(errs...)
}

// OutputName is the file name of the result for engine, without extension.
func (o Options) OutputName(engine string) string {
	if o.Extended {
		return "high_impact_cities_extended_" + engine
	}
	return "high_impact_cities_" + engine
}

// OutputPath joins dir, the output name and ext (".csv", ".parquet", ...).
func (o Options) OutputPath(dir, engine, ext string) string {
	return filepath.Join(dir, o.OutputName(engine)+ext)
}
