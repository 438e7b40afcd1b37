package standardize

import (
	"context"
	"fmt"
	"strings"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Trim strips surrounding whitespace from every non-null value of Columns.
type Trim struct{ Columns []string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("trim: unknown column %s", name)
		}
		c, ok := col.(*frame.StringColumn)
		if !ok {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if c.IsNull(i) {
				continue
			}
			v, _ := c.Get(i)
			c.Set(i, strings.TrimSpace(v))
		}
	}
	return f, nil
}
