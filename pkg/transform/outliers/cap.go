package outliers

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Cap clips numeric values into [Min, Max]; a nil bound is open.
type Cap struct {
	Column string
	Min    *float64
	Max    *float64

	// Clipped counts the cells changed by the last Apply.
	Clipped int
}

func (t *Cap) Name() string { return "cap_range" }

func (t *Cap) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("cap_range: unknown column %s", t.Column)
	}
	t.Clipped = 0
	switch c := col.(type) {
	case *frame.FloatColumn:
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v, _ := c.Get(i)
			if nv := t.clip(v); nv != v {
				c.Set(i, nv)
				t.Clipped++
			}
		}
	case *frame.IntColumn:
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v, _ := c.Get(i)
			if nv := int64(t.clip(float64(v))); nv != v {
				c.Set(i, nv)
				t.Clipped++
			}
		}
	default:
		return nil, fmt.Errorf("cap_range: column %s is %s, want numeric", t.Column, col.Kind())
	}
	return f, nil
}

func (t *Cap) clip(v float64) float64 {
	if t.Min != nil && v < *t.Min {
		return *t.Min
	}
	if t.Max != nil && v > *t.Max {
		return *t.Max
	}
	return v
}
