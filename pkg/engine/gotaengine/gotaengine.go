// Package gotaengine runs the benchmark on go-gota dataframes.
package gotaengine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/wdm0006/covidbench/pkg/covid"
	"github.com/wdm0006/covidbench/pkg/engine"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
	"github.com/wdm0006/covidbench/pkg/timing"
	"github.com/wdm0006/covidbench/pkg/transform/synth"
)

const Name = "gota"

type Engine struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.With(zap.String("engine", Name))}
}

func (e *Engine) Name() string { return Name }

func (e *Engine) Run(ctx context.Context, cfg engine.Config, t *timing.Timer) (engine.Result, error) {
	res := engine.Result{Engine: Name}
	if !strings.EqualFold(cfg.Format, engine.FormatCSV) {
		return res, fmt.Errorf("%w: %s writes csv only, got %q", engine.ErrUnsupportedFormat, Name, cfg.Format)
	}
	out, err := cfg.OutputPath(Name)
	if err != nil {
		return res, err
	}
	if err := cfg.Options.Validate(); err != nil {
		return res, err
	}
	t = t.Engine(Name)

	cases, err := timing.Value(t, engine.StepRead, cfg.CasesPath, func() (dataframe.DataFrame, error) {
		return Read(cfg.CasesPath)
	})
	if err != nil {
		return res, err
	}
	pop, err := timing.Value(t, engine.StepRead, cfg.PopulationPath, func() (dataframe.DataFrame, error) {
		return Read(cfg.PopulationPath)
	})
	if err != nil {
		return res, err
	}

	var rep covid.Report
	result, err := timing.Value(t, engine.StepDerive, "", func() (dataframe.DataFrame, error) {
		df, r, err := HighImpactCities(ctx, cases, pop, cfg.Options)
		rep = r
		return df, err
	})
	res.Report = rep
	if rep.Unmapped > 0 {
		e.log.Warn("population rows with unmapped state names dropped from the join",
			zap.Int("rows", rep.Unmapped), zap.Any("states", rep.UnmappedStates))
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", engine.StepDerive, err)
	}

	if err := t.Do(engine.StepSave, out, func() error { return Write(out, result) }); err != nil {
		return res, fmt.Errorf("%s %s: %w", engine.StepSave, out, err)
	}
	res.Output, res.Rows = out, result.Nrow()
	res.Frame, err = ToFrame(result)
	if err != nil {
		return res, err
	}
	return res, nil
}

// Read loads a CSV table. health_region_code is forced to string and empty
// cells are NaN.
func Read(path string) (dataframe.DataFrame, error) {
	switch iox.Ext(path) {
	case ".parquet", ".jsonl", ".ndjson":
		return dataframe.DataFrame{}, fmt.Errorf("%s %s: %s reads csv only", engine.StepRead, path, Name)
	}
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s %s: %w", engine.StepRead, path, err)
	}
	defer func() { _ = rc.Close() }()
	df := dataframe.ReadCSV(rc,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues([]string{"", "NA", "NaN"}),
		dataframe.WithTypes(map[string]series.Type{covid.ColHealthRegionCode: series.String}),
	)
	if df.Err != nil {
		return df, fmt.Errorf("%s %s: %w", engine.StepRead, path, df.Err)
	}
	return df, nil
}

// Write saves df as CSV, creating the output directory.
func Write(path string, df dataframe.DataFrame) (err error) {
	w, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return df.WriteCSV(w)
}

// HighImpactCities derives the result table with gota. The date column is
// validated but kept as a string.
func HighImpactCities(ctx context.Context, cases, pop dataframe.DataFrame, opts covid.Options) (dataframe.DataFrame, covid.Report, error) {
	rep := covid.Report{UnmappedStates: map[string]int{}}
	if err := opts.Validate(); err != nil {
		return dataframe.DataFrame{}, rep, err
	}

	if err := requireColumns(cases, "cases", covid.ColDate, covid.ColState, covid.ColName, covid.ColDeaths); err != nil {
		return dataframe.DataFrame{}, rep, err
	}
	if err := requireColumns(pop, "population", covid.ColState, covid.ColCity, covid.ColPopulation); err != nil {
		return dataframe.DataFrame{}, rep, err
	}

	states := pop.Col(covid.ColState).Records()
	for i, s := range states {
		if ab, ok := covid.StateAbbreviations[s]; ok {
			states[i] = ab
			continue
		}
		rep.UnmappedStates[s]++
		rep.Unmapped++
	}
	if opts.StrictStates && rep.Unmapped > 0 {
		return dataframe.DataFrame{}, rep, fmt.Errorf("population: unmapped state names %s", quoted(rep.UnmappedStates))
	}
	pop = pop.Mutate(series.New(states, series.String, covid.ColState))

	city := cases.Col(covid.ColName).Copy()
	city.Name = covid.ColCity
	cases = cases.Mutate(city)
	date := cases.Col(covid.ColDate)
	for i, d := range date.Records() {
		if date.Elem(i).IsNA() {
			continue
		}
		if _, err := time.Parse(covid.DateLayout, d); err != nil {
			return dataframe.DataFrame{}, rep, fmt.Errorf("cases: row %d: %w", i, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, rep, err
	}

	df, unmatched, err := innerJoin(ctx, cases, pop, covid.JoinKeys)
	rep.UnmatchedCases = unmatched
	if err != nil {
		return dataframe.DataFrame{}, rep, err
	}

	deaths := df.Col(covid.ColDeaths).Float()
	population := df.Col(covid.ColPopulation).Float()
	rate := make([]float64, len(deaths))
	for i := range rate {
		if population[i] == 0 || math.IsNaN(population[i]) {
			rate[i] = math.NaN()
			continue
		}
		rate[i] = deaths[i] / population[i]
	}
	df = df.Mutate(series.New(rate, series.Float, covid.ColDeathRate))

	var dates []string
	if opts.SortByDate {
		dates = df.Col(covid.ColDate).Records()
	}
	avg := rollingMean(df.Col(covid.ColDeaths), groups(df, []string{covid.ColState}, dates), opts.Window)
	df = df.Mutate(series.New(avg, series.Float, covid.ColAvgDeaths))

	if opts.Extended {
		confirmed := synth.LogNormalDraws(df.Nrow(), opts.Seed, opts.LogMu, opts.LogSigma)
		for i, v := range confirmed {
			confirmed[i] = math.Min(math.Max(v, opts.ConfirmedMin), opts.ConfirmedMax)
		}
		pct := pctChange(confirmed, groups(df, covid.JoinKeys, dates), opts.PctPeriods)
		df = df.Mutate(series.New(confirmed, series.Float, covid.ColConfirmed)).
			Mutate(series.New(pct, series.Float, covid.ColConfirmedPct))
	}
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, rep, err
	}

	df = df.Subset(descendingOrder(df.Col(covid.ColDeathRate).Float()))
	if df.Err != nil {
		return df, rep, df.Err
	}
	rep.Rows = df.Nrow()
	return df, rep, nil
}

func quoted(m map[string]int) string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, fmt.Sprintf("%q", k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// rowKeys joins the records of cols per row. ok is false for rows with a
// missing key.
func rowKeys(df dataframe.DataFrame, cols []string) (keys []string, ok []bool) {
	keys = make([]string, df.Nrow())
	ok = make([]bool, df.Nrow())
	for i := range ok {
		ok[i] = true
	}
	for ci, c := range cols {
		s := df.Col(c)
		for i, r := range s.Records() {
			if ci > 0 {
				keys[i] += "\x00"
			}
			keys[i] += r
			if s.Elem(i).IsNA() {
				ok[i] = false
			}
		}
	}
	return keys, ok
}

func requireColumns(df dataframe.DataFrame, table string, cols ...string) error {
	have := map[string]bool{}
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, c := range cols {
		if !have[c] {
			return fmt.Errorf("%s: missing column %s", table, c)
		}
	}
	return nil
}

// innerJoin matches rows through a hash of the key records, then gathers
// both sides with Subset. Left order is kept; several right matches follow
// right order.
func innerJoin(ctx context.Context, left, right dataframe.DataFrame, on []string) (dataframe.DataFrame, int, error) {
	index := map[string][]int{}
	rkeys, rok := rowKeys(right, on)
	for r, k := range rkeys {
		if rok[r] {
			index[k] = append(index[k], r)
		}
	}
	lrows, rrows := []int{}, []int{}
	unmatched := 0
	lkeys, lok := rowKeys(left, on)
	for l, k := range lkeys {
		if l%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return dataframe.DataFrame{}, 0, err
			}
		}
		m, ok := index[k]
		if !ok || !lok[l] {
			unmatched++
			continue
		}
		for _, r := range m {
			lrows = append(lrows, l)
			rrows = append(rrows, r)
		}
	}
	out := left.Subset(lrows)
	rsub := right.Subset(rrows)
	have := map[string]bool{}
	for _, n := range out.Names() {
		have[n] = true
	}
	isKey := map[string]bool{}
	for _, k := range on {
		isKey[k] = true
	}
	for _, n := range rsub.Names() {
		if isKey[n] {
			continue
		}
		s := rsub.Col(n)
		if have[n] {
			s.Name = n + "_right"
		}
		out = out.Mutate(s)
	}
	return out, unmatched, out.Err
}

// groups returns row indexes per key in first-appearance order. With dates
// each group is stably ordered by date.
func groups(df dataframe.DataFrame, by []string, dates []string) [][]int {
	pos := map[string]int{}
	var out [][]int
	keys, _ := rowKeys(df, by)
	for i, k := range keys {
		g, ok := pos[k]
		if !ok {
			g = len(out)
			pos[k] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}
	if dates != nil {
		for _, g := range out {
			sort.SliceStable(g, func(a, b int) bool { return dates[g[a]] < dates[g[b]] })
		}
	}
	return out
}

func rollingMean(s series.Series, groups [][]int, window int) []float64 {
	out := make([]float64, s.Len())
	for _, g := range groups {
		means := s.Subset(g).Rolling(window).Mean().Float()
		for j, row := range g {
			out[row] = means[j]
		}
	}
	return out
}

// pctChange is v[t]/v[t-k]-1 per group, with 0 where there is no lag.
func pctChange(v []float64, groups [][]int, k int) []float64 {
	out := make([]float64, len(v))
	for _, g := range groups {
		for j, row := range g {
			if j < k {
				continue
			}
			base := v[g[j-k]]
			if base == 0 || math.IsNaN(base) || math.IsNaN(v[row]) {
				continue
			}
			out[row] = v[row]/base - 1
		}
	}
	return out
}

// descendingOrder is a stable descending order with NaN last.
func descendingOrder(v []float64) []int {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := v[idx[a]], v[idx[b]]
		if math.IsNaN(y) {
			return !math.IsNaN(x)
		}
		if math.IsNaN(x) {
			return false
		}
		return x > y
	})
	return idx
}
