package window

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
	"gonum.org/v1/gonum/stat"
)

// RollingMean adds Output, the mean of Column over the last Window rows of
// each By group. A window needs Window non-null values; earlier rows and
// windows touching a null are null.
type RollingMean struct {
	Column  string
	By      []string
	Window  int
	OrderBy string
	Output  string
}

func (t *RollingMean) Name() string { return "rolling_mean" }

func (t *RollingMean) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.Window <= 0 {
		return nil, fmt.Errorf("rolling_mean: window must be positive, got %d", t.Window)
	}
	groups, err := partition(f, t.Column, t.By, t.OrderBy)
	if err != nil {
		return nil, fmt.Errorf("rolling_mean: %w", err)
	}
	out := frame.NewFloatColumn(t.Output, f.Rows())
	for _, g := range groups {
		missing := 0
		for i := range g.rows {
			if !g.valid[i] {
				missing++
			}
			if i >= t.Window && !g.valid[i-t.Window] {
				missing--
			}
			if i < t.Window-1 || missing > 0 {
				out.SetNull(g.rows[i])
				continue
			}
			out.Set(g.rows[i], stat.Mean(g.vals[i-t.Window+1:i+1], nil))
		}
	}
	if err := f.AddColumn(out); err != nil {
		return nil, err
	}
	return f, nil
}
