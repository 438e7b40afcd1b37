package csvio

import (
	"encoding/csv"
	"strconv"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type WriterOptions struct {
	Delimiter rune // default ','
	// TimeLayout formats time cells; default time.RFC3339.
	TimeLayout string
	// FloatFormat and FloatPrec go to strconv.FormatFloat; default 'g', -1.
	FloatFormat byte
	FloatPrec   int
}

// WriteAll writes a Frame to a CSV file with headers. A path ending in .gz
// is gzip compressed.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) (err error) {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	if opt.TimeLayout == "" {
		opt.TimeLayout = time.RFC3339
	}
	if opt.FloatFormat == 0 {
		opt.FloatFormat = 'g'
		opt.FloatPrec = -1
	}

	names := f.Names()
	if err := w.Write(names); err != nil {
		return err
	}
	cols, err := f.Columns(names...)
	if err != nil {
		return err
	}
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = formatCell(col, r, opt)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatCell renders nulls as the empty string.
func formatCell(col frame.Column, r int, opt WriterOptions) string {
	switch v := frame.Value(col, r).(type) {
	case float64:
		return strconv.FormatFloat(v, opt.FloatFormat, opt.FloatPrec, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case time.Time:
		return v.Format(opt.TimeLayout)
	}
	return ""
}
