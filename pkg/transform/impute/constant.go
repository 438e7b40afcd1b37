package impute

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Constant fills the nulls of Column with Value, coerced to the column kind.
type Constant struct {
	Column string
	Value  any
}

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("impute_constant: unknown column %s", t.Column)
	}
	switch c := col.(type) {
	case *frame.FloatColumn:
		var vv float64
		switch v := t.Value.(type) {
		case int:
			vv = float64(v)
		case int64:
			vv = float64(v)
		case float64:
			vv = v
		default:
			return nil, fmt.Errorf("impute_constant: %T does not fit float column %s", t.Value, t.Column)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	case *frame.IntColumn:
		var vv int64
		switch v := t.Value.(type) {
		case int:
			vv = int64(v)
		case int64:
			vv = v
		case float64:
			vv = int64(v)
		default:
			return nil, fmt.Errorf("impute_constant: %T does not fit int column %s", t.Value, t.Column)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	case *frame.StringColumn:
		vv, ok := t.Value.(string)
		if !ok {
			return nil, fmt.Errorf("impute_constant: %T does not fit string column %s", t.Value, t.Column)
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	case *frame.BoolColumn:
		vv, _ := t.Value.(bool)
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				c.Set(i, vv)
			}
		}
	}
	return f, nil
}
