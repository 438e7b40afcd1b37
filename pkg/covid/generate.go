package covid

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
)

var regions = map[string]string{
	"AC": "Norte", "AM": "Norte", "AP": "Norte", "PA": "Norte", "RO": "Norte", "RR": "Norte", "TO": "Norte",
	"AL": "Nordeste", "BA": "Nordeste", "CE": "Nordeste", "MA": "Nordeste", "PB": "Nordeste",
	"PE": "Nordeste", "PI": "Nordeste", "RN": "Nordeste", "SE": "Nordeste",
	"DF": "Centro-Oeste", "GO": "Centro-Oeste", "MS": "Centro-Oeste", "MT": "Centro-Oeste",
	"ES": "Sudeste", "MG": "Sudeste", "RJ": "Sudeste", "SP": "Sudeste",
	"PR": "Sul", "RS": "Sul", "SC": "Sul",
}

// UnknownState is the population state name used for unmapped rows.
const UnknownState = "Guanabara"

// GenerateOptions size the synthetic input tables.
type GenerateOptions struct {
	Cities int
	Days   int
	Seed   int64
	// Unmapped population rows get UnknownState as their state name.
	Unmapped int
	// ZeroPopulation rows get a population of 0.
	ZeroPopulation int
	Start          time.Time
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Cities <= 0 {
		o.Cities = 100
	}
	if o.Days <= 0 {
		o.Days = 30
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2020, 3, 27, 0, 0, 0, 0, time.UTC)
	}
	return o
}

// Generate builds a case table and a population table shaped like the real
// inputs. Cities are spread round-robin over the states; cases are ordered
// by date, then city, with non-decreasing cumulative counts per city. The
// first Unmapped cities carry an unknown state name in the population table
// and the next ZeroPopulation cities have no population.
func Generate(opt GenerateOptions) (cases, pop *frame.Frame) {
	opt = opt.withDefaults()
	rnd := rand.New(rand.NewSource(opt.Seed))
	abbrevs := Abbreviations()
	names := make(map[string]string, len(StateAbbreviations))
	for _, name := range StateNames() {
		names[StateAbbreviations[name]] = name
	}

	pop = frame.NewFrame(PopulationSchema())
	for c := 0; c < opt.Cities; c++ {
		ab := abbrevs[c%len(abbrevs)]
		state := names[ab]
		population := int64(1000 + rnd.Intn(2_000_000))
		switch {
		case c < opt.Unmapped:
			state = UnknownState
		case c < opt.Unmapped+opt.ZeroPopulation:
			population = 0
		}
		pop.AppendNullRow()
		_ = pop.SetCell(c, ColRegion, regions[ab])
		_ = pop.SetCell(c, ColState, state)
		_ = pop.SetCell(c, ColCity, cityName(c))
		_ = pop.SetCell(c, ColStateCode, int64(11+c%len(abbrevs)))
		_ = pop.SetCell(c, ColCityCode, cityCode(c))
		_ = pop.SetCell(c, ColHealthRegionCode, fmt.Sprintf("%d%03d", 11+c%len(abbrevs), c%50))
		_ = pop.SetCell(c, ColHealthRegion, fmt.Sprintf("Região %d", c%50))
		_ = pop.SetCell(c, ColPopulation, population)
	}

	cases = frame.NewFrame(CasesSchema())
	cum := make([][2]int64, opt.Cities)
	row := 0
	for d := 0; d < opt.Days; d++ {
		date := opt.Start.AddDate(0, 0, d).Format(DateLayout)
		for c := 0; c < opt.Cities; c++ {
			cum[c][0] += int64(rnd.Intn(50))
			cum[c][1] += int64(rnd.Intn(4))
			cases.AppendNullRow()
			_ = cases.SetCell(row, ColDate, date)
			_ = cases.SetCell(row, ColState, abbrevs[c%len(abbrevs)])
			_ = cases.SetCell(row, ColName, cityName(c))
			_ = cases.SetCell(row, ColCode, cityCode(c))
			_ = cases.SetCell(row, ColCases, cum[c][0])
			_ = cases.SetCell(row, ColDeaths, cum[c][1])
			row++
		}
	}
	return cases, pop
}

func cityName(i int) string { return fmt.Sprintf("Cidade %04d", i) }
func cityCode(i int) int64  { return 1100000 + int64(i) }

// CasesSchema is the schema of the case table as read from CSV, with the
// date still a string.
func CasesSchema() frame.Schema {
	return frame.Schema{Columns: []frame.ColumnSchema{
		{Name: ColDate, Type: frame.KindString, Nullable: true},
		{Name: ColState, Type: frame.KindString, Nullable: true},
		{Name: ColName, Type: frame.KindString, Nullable: true},
		{Name: ColCode, Type: frame.KindInt, Nullable: true},
		{Name: ColCases, Type: frame.KindInt, Nullable: true},
		{Name: ColDeaths, Type: frame.KindInt, Nullable: true},
	}}
}

// PopulationSchema is the schema of the population table.
func PopulationSchema() frame.Schema {
	return frame.Schema{Columns: []frame.ColumnSchema{
		{Name: ColRegion, Type: frame.KindString, Nullable: true},
		{Name: ColState, Type: frame.KindString, Nullable: true},
		{Name: ColCity, Type: frame.KindString, Nullable: true},
		{Name: ColStateCode, Type: frame.KindInt, Nullable: true},
		{Name: ColCityCode, Type: frame.KindInt, Nullable: true},
		{Name: ColHealthRegionCode, Type: frame.KindString, Nullable: true},
		{Name: ColHealthRegion, Type: frame.KindString, Nullable: true},
		{Name: ColPopulation, Type: frame.KindInt, Nullable: true},
	}}
}

// TypeOverrides are the kinds forced on read, whatever sampling infers.
// The measures the task computes on are float so an empty table or a late
// fractional value reads like any other.
var TypeOverrides = map[string]frame.Kind{
	ColHealthRegionCode: frame.KindString,
	ColCases:            frame.KindFloat,
	ColDeaths:           frame.KindFloat,
	ColPopulation:       frame.KindFloat,
}
