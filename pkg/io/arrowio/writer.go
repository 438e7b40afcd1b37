// Package arrowio writes frames as Arrow IPC files.
package arrowio

import (
	"fmt"
	"os"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type WriterOptions struct {
	// BatchRows is the number of rows per record batch; default 65536.
	BatchRows int
	Allocator memory.Allocator
}

// Schema maps a frame schema to an Arrow schema. Time columns become
// microsecond UTC timestamps.
func Schema(s frame.Schema) *arrow.Schema {
	fields := make([]arrow.Field, len(s.Columns))
	for i, cs := range s.Columns {
		var dt arrow.DataType
		switch cs.Type {
		case frame.KindBool:
			dt = arrow.FixedWidthTypes.Boolean
		case frame.KindInt:
			dt = arrow.PrimitiveTypes.Int64
		case frame.KindFloat:
			dt = arrow.PrimitiveTypes.Float64
		case frame.KindTime:
			dt = arrow.FixedWidthTypes.Timestamp_us
		default:
			dt = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: cs.Name, Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteAll writes f to path in the Arrow IPC file format.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) (err error) {
	if opt.BatchRows <= 0 {
		opt.BatchRows = 1 << 16
	}
	mem := opt.Allocator
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	if err := iox.EnsureDir(path); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	schema := Schema(f.Schema())
	w, err := ipc.NewFileWriter(out, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("arrow writer init: %w", err)
	}
	cols, err := f.Columns(f.Names()...)
	if err != nil {
		_ = w.Close()
		return err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for lo := 0; lo < f.Rows() || lo == 0; lo += opt.BatchRows {
		hi := min(lo+opt.BatchRows, f.Rows())
		for i, col := range cols {
			appendColumn(b.Field(i), col, lo, hi)
		}
		rec := b.NewRecord()
		err := w.Write(rec)
		rec.Release()
		if err != nil {
			_ = w.Close()
			return fmt.Errorf("arrow write rows %d-%d: %w", lo, hi, err)
		}
	}
	return w.Close()
}

func appendColumn(fb array.Builder, col frame.Column, lo, hi int) {
	fb.Reserve(hi - lo)
	for r := lo; r < hi; r++ {
		v := frame.Value(col, r)
		if v == nil {
			fb.AppendNull()
			continue
		}
		switch x := v.(type) {
		case bool:
			fb.(*array.BooleanBuilder).Append(x)
		case int64:
			fb.(*array.Int64Builder).Append(x)
		case float64:
			fb.(*array.Float64Builder).Append(x)
		case string:
			fb.(*array.StringBuilder).Append(x)
		case time.Time:
			fb.(*array.TimestampBuilder).Append(arrow.Timestamp(x.UnixMicro()))
		}
	}
}
