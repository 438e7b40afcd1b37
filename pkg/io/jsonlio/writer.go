package jsonlio

import (
	"bufio"
	"encoding/json"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type WriterOptions struct {
	// TimeLayout formats time cells; default time.RFC3339.
	TimeLayout string
}

// WriteAll writes one JSON object per row, keys in schema order. Null
// cells are written as JSON null.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) (err error) {
	if opt.TimeLayout == "" {
		opt.TimeLayout = time.RFC3339
	}
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(out)
	names := f.Names()
	cols, err := f.Columns(names...)
	if err != nil {
		return err
	}
	keys := make([][]byte, len(names))
	for i, n := range names {
		keys[i], _ = json.Marshal(n)
	}
	for r := 0; r < f.Rows(); r++ {
		_ = w.WriteByte('{')
		for i, col := range cols {
			if i > 0 {
				_ = w.WriteByte(',')
			}
			_, _ = w.Write(keys[i])
			_ = w.WriteByte(':')
			v := frame.Value(col, r)
			if t, ok := v.(time.Time); ok {
				v = t.Format(opt.TimeLayout)
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, _ = w.Write(b)
		}
		if _, err := w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
