package covid

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
	"github.com/wdm0006/covidbench/pkg/transform/cast"
	"github.com/wdm0006/covidbench/pkg/transform/derive"
	"github.com/wdm0006/covidbench/pkg/transform/impute"
	"github.com/wdm0006/covidbench/pkg/transform/order"
	"github.com/wdm0006/covidbench/pkg/transform/outliers"
	"github.com/wdm0006/covidbench/pkg/transform/relational"
	"github.com/wdm0006/covidbench/pkg/transform/standardize"
	"github.com/wdm0006/covidbench/pkg/transform/synth"
	"github.com/wdm0006/covidbench/pkg/transform/validate"
	"github.com/wdm0006/covidbench/pkg/transform/window"
)

// PrepareCases trims the key columns, copies name into city and parses the
// date column. The csv reader already trims cells; jsonl and parquet
// inputs do not.
func PrepareCases() *frame.Pipeline {
	return frame.NewPipeline().
		Add(&standardize.Trim{Columns: []string{ColState, ColName}}).
		Add(&standardize.CopyColumn{From: ColName, To: ColCity}).
		Add(&cast.ParseTime{Column: ColDate, Layout: DateLayout})
}

// PreparePopulation rewrites state names to abbreviations. Names missing
// from StateAbbreviations are kept and show up in the returned MapValues
// after Run; in strict mode they fail the pipeline.
func PreparePopulation(opts Options) (*frame.Pipeline, *standardize.MapValues) {
	mv := &standardize.MapValues{Column: ColState, Map: StateAbbreviations}
	p := frame.NewPipeline().
		Add(&standardize.Trim{Columns: []string{ColState, ColCity}}).
		Add(mv)
	if opts.StrictStates {
		p.Add(validate.NewInSet(ColState, Abbreviations()))
	}
	return p, mv
}

// HighImpactPipeline joins prepared cases with the prepared population
// table and derives the result columns, sorted by death rate.
func HighImpactPipeline(pop *frame.Frame, opts Options) (*frame.Pipeline, *relational.InnerJoin) {
	join := &relational.InnerJoin{Right: pop, On: JoinKeys}
	var orderBy string
	if opts.SortByDate {
		orderBy = ColDate
	}
	p := frame.NewPipeline().
		Add(join).
		Add(&derive.Ratio{Numerator: ColDeaths, Denominator: ColPopulation, Output: ColDeathRate}).
		Add(&window.RollingMean{Column: ColDeaths, By: []string{ColState}, Window: opts.Window, OrderBy: orderBy, Output: ColAvgDeaths})
	if opts.Extended {
		lo, hi := opts.ConfirmedMin, opts.ConfirmedMax
		p.Add(&synth.LogNormal{Output: ColConfirmed, Seed: opts.Seed, Mu: opts.LogMu, Sigma: opts.LogSigma}).
			Add(&outliers.Cap{Column: ColConfirmed, Min: &lo, Max: &hi}).
			Add(&validate.Range{Column: ColConfirmed, Min: &lo, Max: &hi}).
			Add(&window.PctChange{Column: ColConfirmed, By: JoinKeys, Periods: opts.PctPeriods, OrderBy: orderBy, Output: ColConfirmedPct}).
			Add(&impute.Constant{Column: ColConfirmedPct, Value: 0.0})
	}
	return p.Add(&order.Sort{Column: ColDeathRate, Descending: true}), join
}

// Report describes what the derivation dropped along the way.
type Report struct {
	// UnmappedStates counts population rows per state name that had no
	// abbreviation.
	UnmappedStates map[string]int
	Unmapped       int
	// UnmatchedCases is the number of case rows with no population match.
	UnmatchedCases int
	Rows           int
}

// HighImpactCities derives the result from the raw case and population
// tables. Both inputs are modified in place. obs, if set, sees every
// transform step.
func HighImpactCities(ctx context.Context, cases, pop *frame.Frame, opts Options, obs frame.StepObserver) (*frame.Frame, Report, error) {
	var rep Report
	if err := opts.Validate(); err != nil {
		return nil, rep, err
	}
	pp, mv := PreparePopulation(opts)
	pop, err := pp.Observe(obs).Run(ctx, pop)
	rep.UnmappedStates, rep.Unmapped = mv.Misses, mv.Missed()
	if err != nil {
		return nil, rep, fmt.Errorf("population: %w", err)
	}
	cases, err = PrepareCases().Observe(obs).Run(ctx, cases)
	if err != nil {
		return nil, rep, fmt.Errorf("cases: %w", err)
	}
	hp, join := HighImpactPipeline(pop, opts)
	out, err := hp.Observe(obs).Run(ctx, cases)
	rep.UnmatchedCases = join.Unmatched
	if err != nil {
		return nil, rep, err
	}
	rep.Rows = out.Rows()
	return out, rep, nil
}
