package standardize

import (
	"context"
	"fmt"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// CopyColumn adds a copy of From named To, replacing To if it exists.
type CopyColumn struct {
	From string
	To   string
}

func (t *CopyColumn) Name() string { return "copy_column" }

func (t *CopyColumn) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	col, ok := f.ColumnByName(t.From)
	if !ok {
		return nil, fmt.Errorf("copy_column: unknown column %s", t.From)
	}
	if err := f.AddColumn(frame.Rename(col, t.To)); err != nil {
		return nil, err
	}
	return f, nil
}
