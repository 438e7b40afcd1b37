package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// InSet fails when a string value is not one of Values.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("validate_in: unknown column %s", t.Column)
	}
	sc, ok := col.(*frame.StringColumn)
	if !ok {
		return nil, fmt.Errorf("validate_in: column %s is %s, want string", t.Column, col.Kind())
	}
	bad := map[string]int{}
	for i := 0; i < sc.Len(); i++ {
		if sc.IsNull(i) {
			continue
		}
		v, _ := sc.Get(i)
		if _, ok := t.Values[v]; !ok {
			bad[v]++
		}
	}
	if len(bad) > 0 {
		vals := make([]string, 0, len(bad))
		n := 0
		for v, c := range bad {
			vals = append(vals, fmt.Sprintf("%q", v))
			n += c
		}
		sort.Strings(vals)
		return f, fmt.Errorf("validate_in: column %s has %d values outside allowed set: %s", t.Column, n, strings.Join(vals, ", "))
	}
	return f, nil
}
