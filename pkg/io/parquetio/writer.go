package parquetio

import (
	"encoding/json"
	"fmt"
	"time"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type WriterOptions struct {
	// TimeLayout formats time cells, which are stored as UTF8; default time.RFC3339.
	TimeLayout string
	// Parallel is the marshal parallelism of the JSON writer; default 4.
	Parallel int64
}

func schemaJSON(s frame.Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes a Frame to a Parquet file. Each row is handed to the
// parquet-go JSONWriter as a JSON object; null cells are omitted.
func WriteAll(path string, f *frame.Frame, opt WriterOptions) (err error) {
	if opt.TimeLayout == "" {
		opt.TimeLayout = time.RFC3339
	}
	if opt.Parallel <= 0 {
		opt.Parallel = 4
	}
	if err := iox.EnsureDir(path); err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(schemaJSON(f.Schema()), fw, opt.Parallel)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if serr := writer.WriteStop(); err == nil && serr != nil {
			err = fmt.Errorf("parquet write stop: %w", serr)
		}
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()

	names := f.Names()
	cols, err := f.Columns(names...)
	if err != nil {
		return err
	}
	rec := make(map[string]any, len(cols))
	for r := 0; r < f.Rows(); r++ {
		clear(rec)
		for i, col := range cols {
			switch v := frame.Value(col, r).(type) {
			case nil:
			case time.Time:
				rec[names[i]] = v.Format(opt.TimeLayout)
			default:
				rec[names[i]] = v
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("parquet encode row %d: %w", r, err)
		}
		if err := writer.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	return nil
}
