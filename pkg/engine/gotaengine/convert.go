package gotaengine

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// ToFrame copies df into a native frame. NA and NaN cells become nulls.
func ToFrame(df dataframe.DataFrame) (*frame.Frame, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	names := df.Names()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i, n := range names {
		var k frame.Kind
		switch t := df.Col(n).Type(); t {
		case series.Int:
			k = frame.KindInt
		case series.Float:
			k = frame.KindFloat
		case series.Bool:
			k = frame.KindBool
		case series.String:
			k = frame.KindString
		default:
			return nil, fmt.Errorf("gota column %s: unsupported type %s", n, t)
		}
		schema.Columns[i] = frame.ColumnSchema{Name: n, Type: k, Nullable: true}
	}
	f := frame.NewFrame(schema)
	for r := 0; r < df.Nrow(); r++ {
		f.AppendNullRow()
	}
	for ci, n := range names {
		s := df.Col(n)
		for r := 0; r < s.Len(); r++ {
			e := s.Elem(r)
			if e.IsNA() {
				continue
			}
			var v any
			switch schema.Columns[ci].Type {
			case frame.KindInt:
				x, err := e.Int()
				if err != nil {
					return nil, fmt.Errorf("gota column %s row %d: %w", n, r, err)
				}
				v = int64(x)
			case frame.KindFloat:
				x := e.Float()
				if math.IsNaN(x) {
					continue
				}
				v = x
			case frame.KindBool:
				x, err := e.Bool()
				if err != nil {
					return nil, fmt.Errorf("gota column %s row %d: %w", n, r, err)
				}
				v = x
			default:
				v = e.String()
			}
			if err := f.SetCell(r, n, v); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
