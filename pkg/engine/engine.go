// Package engine defines what a benchmarked dataframe engine looks like.
// Each engine loads the two input tables, derives the high impact cities
// table and saves it, timing every step.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wdm0006/covidbench/pkg/covid"
	"github.com/wdm0006/covidbench/pkg/frame"
	"github.com/wdm0006/covidbench/pkg/timing"
)

// Step names, one per timed function.
const (
	StepRead   = "read_csv"
	StepDerive = "high_impact_cities"
	StepSave   = "save_csv"
)

// ErrUnsupportedFormat is returned for an unknown output format or one the
// engine cannot write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Output formats.
const (
	FormatCSV     = "csv"
	FormatJSONL   = "jsonl"
	FormatParquet = "parquet"
	FormatArrow   = "arrow"
	FormatSQLite  = "sqlite"
)

var extensions = map[string]string{
	FormatCSV:     ".csv",
	FormatJSONL:   ".jsonl",
	FormatParquet: ".parquet",
	FormatArrow:   ".arrow",
	FormatSQLite:  ".db",
}

// Formats lists the known output formats.
func Formats() []string {
	return []string{FormatCSV, FormatJSONL, FormatParquet, FormatArrow, FormatSQLite}
}

// Ext returns the file extension of format.
func Ext(format string) (string, error) {
	ext, ok := extensions[strings.ToLower(format)]
	if !ok {
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnsupportedFormat, format, strings.Join(Formats(), ", "))
	}
	return ext, nil
}

type Config struct {
	CasesPath      string
	PopulationPath string
	OutDir         string
	Format         string
	Options        covid.Options
}

// OutputPath is where an engine named name writes its result.
func (c Config) OutputPath(name string) (string, error) {
	ext, err := Ext(c.Format)
	if err != nil {
		return "", err
	}
	return c.Options.OutputPath(c.OutDir, name, ext), nil
}

type Result struct {
	Engine string
	Output string
	Rows   int
	Report covid.Report
	// Frame is the result as a native frame.
	Frame *frame.Frame
}

type Engine interface {
	Name() string
	Run(ctx context.Context, cfg Config, t *timing.Timer) (Result, error)
}
