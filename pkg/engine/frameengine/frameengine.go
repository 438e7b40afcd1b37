// Package frameengine runs the benchmark on the native columnar frame.
package frameengine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wdm0006/covidbench/pkg/covid"
	"github.com/wdm0006/covidbench/pkg/engine"
	"github.com/wdm0006/covidbench/pkg/frame"
	"github.com/wdm0006/covidbench/pkg/io/arrowio"
	"github.com/wdm0006/covidbench/pkg/io/csvio"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
	"github.com/wdm0006/covidbench/pkg/io/jsonlio"
	"github.com/wdm0006/covidbench/pkg/io/parquetio"
	"github.com/wdm0006/covidbench/pkg/io/sqliteio"
	"github.com/wdm0006/covidbench/pkg/timing"
)

const Name = "frame"

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
	out, err := cfg.OutputPath(Name)
	if err != nil {
		return res, err
	}
	t = t.Engine(Name)

	cases, err := timing.Value(t, engine.StepRead, cfg.CasesPath, func() (*frame.Frame, error) {
		return e.Read(cfg.CasesPath)
	})
	if err != nil {
		return res, err
	}
	pop, err := timing.Value(t, engine.StepRead, cfg.PopulationPath, func() (*frame.Frame, error) {
		return e.Read(cfg.PopulationPath)
	})
	if err != nil {
		return res, err
	}

	var rep covid.Report
	result, err := timing.Value(t, engine.StepDerive, "", func() (*frame.Frame, error) {
		f, r, err := covid.HighImpactCities(ctx, cases, pop, cfg.Options, e.observe)
		rep = r
		return f, err
	})
	res.Report = rep
	if rep.Unmapped > 0 {
		e.log.Warn("population rows with unmapped state names dropped from the join",
			zap.Int("rows", rep.Unmapped), zap.Any("states", rep.UnmappedStates))
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", engine.StepDerive, err)
	}

	if err := t.Do(engine.StepSave, out, func() error { return Write(ctx, out, cfg.Format, result) }); err != nil {
		return res, fmt.Errorf("%s %s: %w", engine.StepSave, out, err)
	}
	res.Output, res.Rows, res.Frame = out, result.Rows(), result
	return res, nil
}

func (e *Engine) observe(step string, rows int, elapsed time.Duration) {
	e.log.Debug("transform", zap.String("step", step), zap.Int("rows", rows), zap.Duration("elapsed", elapsed))
}

// Read loads a csv, jsonl or parquet table, chosen by extension, with the
// column kind overrides of covid.TypeOverrides.
func (e *Engine) Read(path string) (*frame.Frame, error) {
	var (
		f   *frame.Frame
		err error
	)
	var warn string
	switch iox.Ext(path) {
	case ".parquet":
		f, err = parquetio.ReadFile(path, covid.TypeOverrides)
	case ".jsonl", ".ndjson":
		f, warn, err = jsonlio.ReadFile(path, jsonlio.ReaderOptions{Types: covid.TypeOverrides})
	default:
		f, warn, err = csvio.ReadFile(path, csvio.ReaderOptions{HasHeader: true, Types: covid.TypeOverrides})
	}
	if warn != "" {
		e.log.Warn("input repairs", zap.String("path", path), zap.String("warnings", warn))
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", engine.StepRead, path, err)
	}
	e.log.Debug("loaded", zap.String("path", path), zap.Int("rows", f.Rows()), zap.Int("cols", f.Cols()))
	return f, nil
}

// Write saves f to path in format. Dates are written as YYYY-MM-DD.
func Write(ctx context.Context, path, format string, f *frame.Frame) error {
	switch strings.ToLower(format) {
	case engine.FormatCSV:
		return csvio.WriteAll(path, f, csvio.WriterOptions{TimeLayout: covid.DateLayout, FloatFormat: 'f', FloatPrec: -1})
	case engine.FormatJSONL:
		return jsonlio.WriteAll(path, f, jsonlio.WriterOptions{TimeLayout: covid.DateLayout})
	case engine.FormatParquet:
		return parquetio.WriteAll(path, f, parquetio.WriterOptions{TimeLayout: covid.DateLayout})
	case engine.FormatArrow:
		return arrowio.WriteAll(path, f, arrowio.WriterOptions{})
	case engine.FormatSQLite:
		return sqliteio.WriteAll(ctx, path, f, sqliteio.WriterOptions{Table: "high_impact_cities", TimeLayout: covid.DateLayout})
	}
	return fmt.Errorf("%w: %q", engine.ErrUnsupportedFormat, format)
}
