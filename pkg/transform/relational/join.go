// Package relational holds multi-frame transforms.
package relational

import (
	"context"
	"fmt"
	"strings"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// InnerJoin keeps the rows of the input frame whose On values also appear
// in Right. Output rows follow the input order; several matches on the
// right appear in Right's order. Right's non-key columns are appended and
// renamed with Suffix when they clash. Null keys never match.
type InnerJoin struct {
	Right  *frame.Frame
	On     []string
	Suffix string

	// Unmatched counts input rows dropped by the last Apply.
	Unmatched int
}

func (t *InnerJoin) Name() string { return "inner_join" }

func (t *InnerJoin) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	if t.Right == nil {
		return nil, fmt.Errorf("inner_join: no right frame")
	}
	if len(t.On) == 0 {
		return nil, fmt.Errorf("inner_join: no key columns")
	}
	left, err := f.Columns(t.On...)
	if err != nil {
		return nil, fmt.Errorf("inner_join: left: %w", err)
	}
	right, err := t.Right.Columns(t.On...)
	if err != nil {
		return nil, fmt.Errorf("inner_join: right: %w", err)
	}
	for i := range left {
		if left[i].Kind() != right[i].Kind() {
			return nil, fmt.Errorf("inner_join: key %s is %s on the left and %s on the right", t.On[i], left[i].Kind(), right[i].Kind())
		}
	}

	var b strings.Builder
	index := make(map[string][]int, t.Right.Rows())
	for r := 0; r < t.Right.Rows(); r++ {
		if k, ok := frame.RowKey(&b, right, r); ok {
			index[k] = append(index[k], r)
		}
	}

	var lrows, rrows []int
	t.Unmatched = 0
	for l := 0; l < f.Rows(); l++ {
		if l%65536 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		k, ok := frame.RowKey(&b, left, l)
		matches := index[k]
		if !ok || len(matches) == 0 {
			t.Unmatched++
			continue
		}
		for _, r := range matches {
			lrows = append(lrows, l)
			rrows = append(rrows, r)
		}
	}

	out := f.Take(lrows)
	rt := t.Right.Take(rrows)
	keys := make(map[string]struct{}, len(t.On))
	for _, k := range t.On {
		keys[k] = struct{}{}
	}
	suffix := t.Suffix
	if suffix == "" {
		suffix = "_right"
	}
	for _, cs := range rt.Schema().Columns {
		if _, isKey := keys[cs.Name]; isKey {
			continue
		}
		col, _ := rt.ColumnByName(cs.Name)
		name := cs.Name
		if _, clash := out.ColumnByName(name); clash {
			name += suffix
		}
		if err := out.AddColumn(frame.Rename(col, name)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
