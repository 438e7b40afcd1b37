package standardize

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// MapValues rewrites string values found in Map. Values missing from Map
// are left untouched and counted in Misses.
type MapValues struct {
	Column string
	Map    map[string]string
	// Misses holds the unmapped values seen by the last Apply.
	Misses map[string]int
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("map_values: unknown column %s", t.Column)
	}
	c, ok := col.(*frame.StringColumn)
	if !ok {
		return nil, fmt.Errorf("map_values: column %s is %s, want string", t.Column, col.Kind())
	}
	t.Misses = map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		v, _ := c.Get(i)
		if nv, ok := t.Map[v]; ok {
			c.Set(i, nv)
			continue
		}
		t.Misses[v]++
	}
	return f, nil
}

// Missed returns the total number of unmapped cells from the last Apply.
func (t *MapValues) Missed() int {
	n := 0
	for _, c := range t.Misses {
		n += c
	}
	return n
}
