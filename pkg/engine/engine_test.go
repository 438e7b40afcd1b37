package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/covidbench/pkg/covid"
)

func TestOutputPath(t *testing.T) {
	cfg := Config{OutDir: "output", Format: "csv", Options: covid.DefaultOptions()}
	p, err := cfg.OutputPath("frame")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "high_impact_cities_frame.csv"), p)

	cfg.Format = "SQLite"
	cfg.Options.Extended = true
	p, err = cfg.OutputPath("frame")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("output", "high_impact_cities_extended_frame.db"), p)

	cfg.Format = "xlsx"
	_, err = cfg.OutputPath("frame")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}
