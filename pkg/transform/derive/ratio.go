package derive

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Ratio adds Output = Numerator / Denominator as a float column. The result
// is null when either side is null or the denominator is zero.
type Ratio struct {
	Numerator   string
	Denominator string
	Output      string
}

func (t *Ratio) Name() string { return "ratio" }

func (t *Ratio) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	num, ok := f.ColumnByName(t.Numerator)
	if !ok {
		return nil, fmt.Errorf("ratio: unknown column %s", t.Numerator)
	}
	den, ok := f.ColumnByName(t.Denominator)
	if !ok {
		return nil, fmt.Errorf("ratio: unknown column %s", t.Denominator)
	}
	for _, c := range []frame.Column{num, den} {
		if k := c.Kind(); k != frame.KindInt && k != frame.KindFloat {
			return nil, fmt.Errorf("ratio: column %s is %s, want numeric", c.Name(), k)
		}
	}
	out := frame.NewFloatColumn(t.Output, f.Rows())
	for i := 0; i < f.Rows(); i++ {
		n, ok1 := frame.Numeric(num, i)
		d, ok2 := frame.Numeric(den, i)
		if !ok1 || !ok2 || d == 0 {
			out.SetNull(i)
			continue
		}
		out.Set(i, n/d)
	}
	if err := f.AddColumn(out); err != nil {
		return nil, err
	}
	return f, nil
}
