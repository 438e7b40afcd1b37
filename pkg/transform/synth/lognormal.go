// Package synth adds seeded synthetic columns.
package synth

import (
	"context"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// LogNormalDraws returns n log-normal draws. The same seed always yields
// the same sequence.
func LogNormalDraws(n int, seed uint64, mu, sigma float64) []float64 {
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: rand.NewSource(seed)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// LogNormal adds Output filled with one draw per row, in row order.
type LogNormal struct {
	Output string
	Seed   uint64
	Mu     float64
	Sigma  float64
}

func (t *LogNormal) Name() string { return "lognormal" }

func (t *LogNormal) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	out := frame.NewFloatColumn(t.Output, f.Rows())
	for i, v := range LogNormalDraws(f.Rows(), t.Seed, t.Mu, t.Sigma) {
		out.Set(i, v)
	}
	if err := f.AddColumn(out); err != nil {
		return nil, err
	}
	return f, nil
}
