// Package window computes grouped window functions over a frame's row order.
package window

import (
	"fmt"
	"sort"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// series is one group's values in window order.
type series struct {
	rows  []int
	vals  []float64
	valid []bool
}

// partition splits the numeric column into per-group series. When orderBy
// is set each group is stably sorted by it, nulls last.
func partition(f *frame.Frame, column string, by []string, orderBy string) ([]series, error) {
	col, ok := f.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("unknown column %s", column)
	}
	if k := col.Kind(); k != frame.KindInt && k != frame.KindFloat {
		return nil, fmt.Errorf("column %s is %s, want numeric", column, k)
	}
	var order frame.Column
	if orderBy != "" {
		if order, ok = f.ColumnByName(orderBy); !ok {
			return nil, fmt.Errorf("unknown order column %s", orderBy)
		}
	}
	groups, err := f.GroupRows(by...)
	if err != nil {
		return nil, err
	}
	out := make([]series, len(groups))
	for g, rows := range groups {
		if order != nil {
			sortRows(order, rows)
		}
		s := series{rows: rows, vals: make([]float64, len(rows)), valid: make([]bool, len(rows))}
		for i, r := range rows {
			s.vals[i], s.valid[i] = frame.Numeric(col, r)
		}
		out[g] = s
	}
	return out, nil
}

func sortRows(order frame.Column, rows []int) {
	var less func(a, b int) bool
	switch c := order.(type) {
	case *frame.TimeColumn:
		less = func(a, b int) bool {
			ta, _ := c.Get(a)
			tb, _ := c.Get(b)
			return ta.Before(tb)
		}
	case *frame.StringColumn:
		less = func(a, b int) bool {
			sa, _ := c.Get(a)
			sb, _ := c.Get(b)
			return sa < sb
		}
	case *frame.IntColumn, *frame.FloatColumn:
		less = func(a, b int) bool {
			va, _ := frame.Numeric(c, a)
			vb, _ := frame.Numeric(c, b)
			return va < vb
		}
	default:
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if order.IsNull(a) || order.IsNull(b) {
			return !order.IsNull(a) && order.IsNull(b)
		}
		return less(a, b)
	})
}
