package parquetio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	parquet "github.com/segmentio/parquet-go"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// Reader loads a flat Parquet file into a Frame. Column kinds come from the
// file schema rather than from sampling.
type Reader struct {
	file   *os.File
	pf     *parquet.File
	schema frame.Schema
	// Types overrides the kind derived from the file schema. Numbers can
	// be read as float or string; whole floats can be read as int.
	Types map[string]frame.Kind
}

func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}
	fields := pf.Schema().Fields()
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(fields))}
	for i, fl := range fields {
		if !fl.Leaf() {
			_ = f.Close()
			return nil, fmt.Errorf("parquet %s: nested column %s is not supported", path, fl.Name())
		}
		schema.Columns[i] = frame.ColumnSchema{Name: fl.Name(), Type: kindOf(fl.Type()), Nullable: fl.Optional()}
	}
	return &Reader{file: f, pf: pf, schema: schema}, nil
}

func kindOf(t parquet.Type) frame.Kind {
	switch t.Kind() {
	case parquet.Boolean:
		return frame.KindBool
	case parquet.Int32, parquet.Int64:
		return frame.KindInt
	case parquet.Float, parquet.Double:
		return frame.KindFloat
	default:
		return frame.KindString
	}
}

func (r *Reader) Close() error { return r.file.Close() }

// Schema returns the frame schema after Types overrides.
func (r *Reader) Schema() frame.Schema {
	s := frame.Schema{Columns: append([]frame.ColumnSchema(nil), r.schema.Columns...)}
	for i, cs := range s.Columns {
		if k, ok := r.Types[cs.Name]; ok {
			s.Columns[i].Type = k
		}
	}
	return s
}

func (r *Reader) ReadAll() (*frame.Frame, error) {
	schema := r.Schema()
	f := frame.NewFrame(schema)
	buf := make([]parquet.Row, 1024)
	for _, rg := range r.pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for i := 0; i < n; i++ {
				f.AppendNullRow()
				if serr := setRow(f, schema, f.Rows()-1, buf[i]); serr != nil {
					_ = rows.Close()
					return nil, serr
				}
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, err
			}
			if n == 0 {
				break
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func setRow(f *frame.Frame, schema frame.Schema, row int, values parquet.Row) error {
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		c := v.Column()
		if c < 0 || c >= len(schema.Columns) {
			continue
		}
		cs := schema.Columns[c]
		var x any
		switch v.Kind() {
		case parquet.Boolean:
			x = v.Boolean()
		case parquet.Int32:
			x = int64(v.Int32())
		case parquet.Int64:
			x = v.Int64()
		case parquet.Float:
			x = float64(v.Float())
		case parquet.Double:
			x = v.Double()
		default:
			x = string(v.ByteArray())
		}
		switch cs.Type {
		case frame.KindString:
			if _, ok := x.(string); !ok {
				x = fmt.Sprint(x)
			}
		case frame.KindFloat:
			if i, ok := x.(int64); ok {
				x = float64(i)
			}
		case frame.KindInt:
			if f, ok := x.(float64); ok && f == math.Trunc(f) {
				x = int64(f)
			}
		}
		if err := f.SetCell(row, cs.Name, x); err != nil {
			return fmt.Errorf("parquet row %d: %w", row, err)
		}
	}
	return nil
}

// ReadFile opens, reads and closes path.
func ReadFile(path string, types map[string]frame.Kind) (*frame.Frame, error) {
	r, err := OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	r.Types = types
	return r.ReadAll()
}
