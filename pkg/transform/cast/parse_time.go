package cast

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// ParseTime replaces a string column with a time column parsed with Layout.
// A value that does not parse is an error; empty cells become nulls.
type ParseTime struct {
	Column string
	Layout string
}

func (t *ParseTime) Name() string { return "parse_time" }

func (t *ParseTime) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("parse_time: unknown column %s", t.Column)
	}
	if col.Kind() == frame.KindTime {
		return f, nil
	}
	sc, ok := col.(*frame.StringColumn)
	if !ok {
		return nil, fmt.Errorf("parse_time: column %s is %s, want string", t.Column, col.Kind())
	}
	layout := t.Layout
	if layout == "" {
		layout = time.DateOnly
	}
	out := frame.NewTimeColumn(t.Column, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		v, ok := sc.Get(i)
		if !ok || strings.TrimSpace(v) == "" {
			out.SetNull(i)
			continue
		}
		ts, err := time.Parse(layout, v)
		if err != nil {
			return nil, fmt.Errorf("parse_time: row %d: %w", i, err)
		}
		out.Set(i, ts)
	}
	if err := f.AddColumn(out); err != nil {
		return nil, err
	}
	return f, nil
}
