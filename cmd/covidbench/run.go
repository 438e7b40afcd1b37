package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdm0006/covidbench/pkg/engine"
	"github.com/wdm0006/covidbench/pkg/engine/frameengine"
	"github.com/wdm0006/covidbench/pkg/engine/gotaengine"
	"github.com/wdm0006/covidbench/pkg/profile"
	"github.com/wdm0006/covidbench/pkg/timing"
)

const (
	engineAll     = "all"
	profileTopK   = 10
	profileSuffix = ".profile.json"
)

func newRunCmd(a *app) *cobra.Command {
	var configPath string
	flags := defaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Derive the high impact cities table on each engine and time every step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return a.run(ctx, cfg, cmd.OutOrStdout())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&configPath, "config", "", "config file (.json, .yaml, .yml or .toml)")
	fl.StringVar(&flags.Covid, "covid", flags.Covid, "city level COVID-19 cases table")
	fl.StringVar(&flags.Population, "population", flags.Population, "2019 population table")
	fl.StringVar(&flags.OutDir, "out-dir", flags.OutDir, "output directory")
	fl.StringVar(&flags.Engine, "engine", flags.Engine, "engine to run: frame, gota or all")
	fl.StringVar(&flags.Format, "format", flags.Format, "output format: "+strings.Join(engine.Formats(), ", "))
	fl.BoolVar(&flags.Options.Extended, "extended", flags.Options.Extended, "add the synthetic confirmed column and its percent change")
	fl.Uint64Var(&flags.Options.Seed, "seed", flags.Options.Seed, "seed of the confirmed draw")
	fl.BoolVar(&flags.Options.SortByDate, "sort-by-date", flags.Options.SortByDate, "order each state by date before the rolling average")
	fl.BoolVar(&flags.Options.StrictStates, "strict-states", flags.Options.StrictStates, "fail on population states with no abbreviation")
	fl.BoolVar(&flags.Profile, "profile", flags.Profile, "write a column profile next to each output")
	fl.StringVar(&flags.BenchOut, "bench-out", flags.BenchOut, "write timings in Go benchmark format to this file (- for stdout)")
	fl.StringVar(&flags.MetricsFile, "metrics-file", flags.MetricsFile, "write timings as a prometheus textfile")
	return cmd
}

// resolveConfig loads path, if any, and lays the explicitly set flags over it.
func resolveConfig(cmd *cobra.Command, path string, flags Config) (Config, error) {
	if path == "" {
		return flags, nil
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return cfg, err
	}
	overrides := map[string]func(){
		"covid":         func() { cfg.Covid = flags.Covid },
		"population":    func() { cfg.Population = flags.Population },
		"out-dir":       func() { cfg.OutDir = flags.OutDir },
		"engine":        func() { cfg.Engine = flags.Engine },
		"format":        func() { cfg.Format = flags.Format },
		"extended":      func() { cfg.Options.Extended = flags.Options.Extended },
		"seed":          func() { cfg.Options.Seed = flags.Options.Seed },
		"sort-by-date":  func() { cfg.Options.SortByDate = flags.Options.SortByDate },
		"strict-states": func() { cfg.Options.StrictStates = flags.Options.StrictStates },
		"profile":       func() { cfg.Profile = flags.Profile },
		"bench-out":     func() { cfg.BenchOut = flags.BenchOut },
		"metrics-file":  func() { cfg.MetricsFile = flags.MetricsFile },
	}
	for name, set := range overrides {
		if cmd.Flags().Changed(name) {
			set()
		}
	}
	return cfg, nil
}

func (a *app) engines(cfg Config) ([]engine.Engine, error) {
	if _, err := engine.Ext(cfg.Format); err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.Engine) {
	case frameengine.Name:
		return []engine.Engine{frameengine.New(a.log)}, nil
	case gotaengine.Name:
		return []engine.Engine{gotaengine.New(a.log)}, nil
	case engineAll, "":
		out := []engine.Engine{frameengine.New(a.log)}
		if strings.EqualFold(cfg.Format, engine.FormatCSV) {
			out = append(out, gotaengine.New(a.log))
		} else {
			a.log.Warn("skipping engine, csv output only", zap.String("engine", gotaengine.Name), zap.String("format", cfg.Format))
		}
		return out, nil
	}
	return nil, usageErrorf("unknown engine %q (want %s, %s or %s)", cfg.Engine, frameengine.Name, gotaengine.Name, engineAll)
}

func (a *app) run(ctx context.Context, cfg Config, stdout io.Writer) error {
	if err := cfg.Options.Validate(); err != nil {
		return usageError{err}
	}
	engines, err := a.engines(cfg)
	if err != nil {
		return err
	}
	timer := timing.New(a.log)
	defer timer.Total()

	ecfg := cfg.engineConfig()
	for _, e := range engines {
		res, err := e.Run(ctx, ecfg, timer)
		if err != nil {
			return fmt.Errorf("engine %s: %w", e.Name(), err)
		}
		a.log.Info("saved", zap.String("engine", res.Engine), zap.String("output", res.Output), zap.Int("rows", res.Rows))
		if cfg.Profile && res.Frame != nil {
			if err := writeProfile(res); err != nil {
				return err
			}
		}
	}

	if cfg.BenchOut != "" {
		if err := writeBench(timer, cfg.BenchOut, stdout); err != nil {
			return fmt.Errorf("bench output %s: %w", cfg.BenchOut, err)
		}
	}
	if cfg.MetricsFile != "" {
		if err := timer.WriteMetrics(cfg.MetricsFile); err != nil {
			return fmt.Errorf("metrics file %s: %w", cfg.MetricsFile, err)
		}
	}
	return nil
}

func profilePath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + profileSuffix
}

func writeProfile(res engine.Result) (err error) {
	path := profilePath(res.Output)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := profile.WriteJSON(f, res.Frame, profileTopK); err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	return nil
}

func writeBench(t *timing.Timer, path string, stdout io.Writer) (err error) {
	if path == "-" {
		return t.WriteBenchfmt(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return t.WriteBenchfmt(f)
}
