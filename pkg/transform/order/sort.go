// Package order sorts frames.
package order

import (
	"context"
	"fmt"
	"sort"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Sort reorders rows by Column. The sort is stable and nulls always come
// last, whatever the direction.
type Sort struct {
	Column     string
	Descending bool
}

func (t *Sort) Name() string { return "sort" }

func (t *Sort) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("sort: unknown column %s", t.Column)
	}
	less, err := lessFunc(col)
	if err != nil {
		return nil, err
	}
	rows := make([]int, f.Rows())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		na, nb := col.IsNull(a), col.IsNull(b)
		if na || nb {
			return !na && nb
		}
		if t.Descending {
			return less(b, a)
		}
		return less(a, b)
	})
	return f.Take(rows), nil
}

func lessFunc(col frame.Column) (func(a, b int) bool, error) {
	switch c := col.(type) {
	case *frame.FloatColumn, *frame.IntColumn:
		return func(a, b int) bool {
			va, _ := frame.Numeric(c, a)
			vb, _ := frame.Numeric(c, b)
			return va < vb
		}, nil
	case *frame.StringColumn:
		return func(a, b int) bool {
			va, _ := c.Get(a)
			vb, _ := c.Get(b)
			return va < vb
		}, nil
	case *frame.TimeColumn:
		return func(a, b int) bool {
			va, _ := c.Get(a)
			vb, _ := c.Get(b)
			return va.Before(vb)
		}, nil
	case *frame.BoolColumn:
		return func(a, b int) bool {
			va, _ := c.Get(a)
			vb, _ := c.Get(b)
			return !va && vb
		}, nil
	}
	return nil, fmt.Errorf("sort: unsupported column kind %s", col.Kind())
}
