package window

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// PctChange adds Output = v[t]/v[t-Periods] - 1 within each By group. The
// first Periods rows of a group, null operands and a zero base give null.
type PctChange struct {
	Column  string
	By      []string
	Periods int
	OrderBy string
	Output  string
}

func (t *PctChange) Name() string { return "pct_change" }

func (t *PctChange) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.Periods <= 0 {
		return nil, fmt.Errorf("pct_change: periods must be positive, got %d", t.Periods)
	}
	groups, err := partition(f, t.Column, t.By, t.OrderBy)
	if err != nil {
		return nil, fmt.Errorf("pct_change: %w", err)
	}
	out := frame.NewFloatColumn(t.Output, f.Rows())
	for _, g := range groups {
		for i, r := range g.rows {
			if i < t.Periods {
				out.SetNull(r)
				continue
			}
			base := g.vals[i-t.Periods]
			if !g.valid[i] || !g.valid[i-t.Periods] || base == 0 {
				out.SetNull(r)
				continue
			}
			out.Set(r, g.vals[i]/base-1)
		}
	}
	if err := f.AddColumn(out); err != nil {
		return nil, err
	}
	return f, nil
}
