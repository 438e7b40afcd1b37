// Package covid holds the domain of the high impact cities task: the state
// table, column names, options and the transform pipelines that derive the
// result from the case and population tables.
package covid

import "sort"

// StateAbbreviations maps Brazilian state names, as written in the
// population table, to the two-letter codes used by the case table.
var StateAbbreviations = map[string]string{
	"Acre":                "AC",
	"Alagoas":             "AL",
	"Amazonas":            "AM",
	"Amapá":               "AP",
	"Bahia":               "BA",
	"Ceará":               "CE",
	"Distrito Federal":    "DF",
	"Espírito Santo":      "ES",
	"Goiás":               "GO",
	"Maranhão":            "MA",
	"Minas Gerais":        "MG",
	"Mato Grosso do Sul":  "MS",
	"Mato Grosso":         "MT",
	"Pará":                "PA",
	"Paraíba":             "PB",
	"Pernambuco":          "PE",
	"Piauí":               "PI",
	"Paraná":              "PR",
	"Rio de Janeiro":      "RJ",
	"Rio Grande do Norte": "RN",
	"Rondônia":            "RO",
	"Roraima":             "RR",
	"Rio Grande do Sul":   "RS",
	"Santa Catarina":      "SC",
	"Sergipe":             "SE",
	"São Paulo":           "SP",
	"Tocantins":           "TO",
}

// Abbreviations returns the two-letter codes, sorted.
func Abbreviations() []string {
	out := make([]string, 0, len(StateAbbreviations))
	for _, v := range StateAbbreviations {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// StateNames returns the full state names, sorted.
func StateNames() []string {
	out := make([]string, 0, len(StateAbbreviations))
	for k := range StateAbbreviations {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Column names of the inputs and of the derived output.
const (
	ColDate       = "date"
	ColState      = "state"
	ColName       = "name"
	ColCode       = "code"
	ColCases      = "cases"
	ColDeaths     = "deaths"
	ColCity       = "city"
	ColPopulation = "population"

	ColRegion           = "region"
	ColStateCode        = "state_code"
	ColCityCode         = "city_code"
	ColHealthRegionCode = "health_region_code"
	ColHealthRegion     = "health_region"

	ColDeathRate    = "death_rate"
	ColAvgDeaths    = "7_day_avg_deaths"
	ColConfirmed    = "confirmed"
	ColConfirmedPct = "confirmed_pct_change"
)

// Default locations, relative to the working directory.
const (
	DefaultCasesPath      = "data/brazil_covid19_cities.csv"
	DefaultPopulationPath = "data/brazil_population_2019.csv"
	DefaultOutDir         = "output"
)

// DateLayout is the layout of the case table's date column.
const DateLayout = "2006-01-02"

// JoinKeys are the columns both tables are joined on.
var JoinKeys = []string{ColCity, ColState}
