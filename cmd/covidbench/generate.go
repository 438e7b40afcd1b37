package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdm0006/covidbench/pkg/covid"
	"github.com/wdm0006/covidbench/pkg/frame"
	"github.com/wdm0006/covidbench/pkg/io/csvio"
)

type generateFlags struct {
	opt    covid.GenerateOptions
	outDir string
}

func newGenerateCmd(a *app) *cobra.Command {
	var g generateFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic cases and population tables shaped like the real inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.generate(g)
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&g.opt.Cities, "cities", 100, "number of cities")
	fl.IntVar(&g.opt.Days, "days", 30, "days of cases per city")
	fl.Int64Var(&g.opt.Seed, "seed", 1, "random seed")
	fl.IntVar(&g.opt.Unmapped, "unmapped", 0, "cities whose population state name has no abbreviation")
	fl.IntVar(&g.opt.ZeroPopulation, "zero-population", 0, "cities with a population of 0")
	fl.StringVar(&g.outDir, "out-dir", filepath.Dir(covid.DefaultCasesPath), "output directory")
	return cmd
}

func (a *app) generate(g generateFlags) error {
	if g.opt.Cities < 1 || g.opt.Days < 1 {
		return usageErrorf("cities and days must be positive, got %d and %d", g.opt.Cities, g.opt.Days)
	}
	if g.opt.Unmapped < 0 || g.opt.ZeroPopulation < 0 || g.opt.Unmapped+g.opt.ZeroPopulation > g.opt.Cities {
		return usageErrorf("unmapped (%d) plus zero-population (%d) must be between 0 and %d",
			g.opt.Unmapped, g.opt.ZeroPopulation, g.opt.Cities)
	}
	cases, pop := covid.Generate(g.opt)
	for _, t := range []struct {
		path string
		f    *frame.Frame
	}{
		{filepath.Join(g.outDir, filepath.Base(covid.DefaultCasesPath)), cases},
		{filepath.Join(g.outDir, filepath.Base(covid.DefaultPopulationPath)), pop},
	} {
		if err := csvio.WriteAll(t.path, t.f, csvio.WriterOptions{TimeLayout: covid.DateLayout}); err != nil {
			return fmt.Errorf("write %s: %w", t.path, err)
		}
		a.log.Info("generated", zap.String("path", t.path), zap.Int("rows", t.f.Rows()))
	}
	return nil
}
