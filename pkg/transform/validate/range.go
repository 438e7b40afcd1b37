package validate

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Range fails when a numeric value falls outside [Min, Max].
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("validate_range: unknown column %s", t.Column)
	}
	if k := col.Kind(); k != frame.KindInt && k != frame.KindFloat {
		return nil, fmt.Errorf("validate_range: column %s is %s, want numeric", t.Column, k)
	}
	var bad int
	for i := 0; i < col.Len(); i++ {
		v, ok := frame.Numeric(col, i)
		if !ok {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("validate_range: column %s has %d out-of-range values", t.Column, bad)
	}
	return f, nil
}
