package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/covidbench/pkg/covid"
	"github.com/wdm0006/covidbench/pkg/engine"
)

// Config is everything a run needs. The zero value of each field means
// "use the default".
type Config struct {
	Covid       string        `json:"covid" yaml:"covid" toml:"covid"`
	Population  string        `json:"population" yaml:"population" toml:"population"`
	OutDir      string        `json:"out_dir" yaml:"out_dir" toml:"out_dir"`
	Engine      string        `json:"engine" yaml:"engine" toml:"engine"`
	Format      string        `json:"format" yaml:"format" toml:"format"`
	Profile     bool          `json:"profile" yaml:"profile" toml:"profile"`
	BenchOut    string        `json:"bench_out" yaml:"bench_out" toml:"bench_out"`
	MetricsFile string        `json:"metrics_file" yaml:"metrics_file" toml:"metrics_file"`
	Options     covid.Options `json:"options" yaml:"options" toml:"options"`
}

func defaultConfig() Config {
	return Config{
		Covid:      covid.DefaultCasesPath,
		Population: covid.DefaultPopulationPath,
		OutDir:     covid.DefaultOutDir,
		Engine:     engineAll,
		Format:     engine.FormatCSV,
		Options:    covid.DefaultOptions(),
	}
}

var (
	yamlUnmarshal = yaml.Unmarshal
	tomlUnmarshal = toml.Unmarshal
)

// loadConfig reads a JSON, YAML or TOML file, picked by extension, over
// the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".yaml", ".yml":
		err = yamlUnmarshal(b, &cfg)
	case ".toml":
		err = tomlUnmarshal(b, &cfg)
	default:
		return cfg, usageErrorf("config %s: unknown extension (want .json, .yaml, .yml or .toml)", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) engineConfig() engine.Config {
	return engine.Config{
		CasesPath:      c.Covid,
		PopulationPath: c.Population,
		OutDir:         c.OutDir,
		Format:         c.Format,
		Options:        c.Options,
	}
}
