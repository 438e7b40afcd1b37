package jsonlio

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type ReaderOptions struct {
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on values that do not fit their column
	// Types fixes the kind of the named columns; they are not sampled.
	Types map[string]frame.Kind
}

// Reader loads one JSON object per line. Columns are the sorted keys of
// the sampled objects; numbers keep their literal text until converted.
type Reader struct {
	dec    *json.Decoder
	opt    ReaderOptions
	sample []map[string]any
	line   int
	// repair/warning counters
	badValues     int
	unknownFields int
}

// Open opens a JSON-lines file, gzip-compressed or not.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(bufio.NewReader(r))
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

func (r *Reader) next() (map[string]any, error) {
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("jsonl line %d: %w", r.line+1, err)
	}
	r.line++
	return m, nil
}

// InferSchema samples the first SampleRows objects.
func (r *Reader) InferSchema() (frame.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	kinds := map[string]frame.Kind{}
	for len(r.sample) < max {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, err
		}
		r.sample = append(r.sample, m)
		for k, v := range m {
			if _, fixed := r.opt.Types[k]; fixed {
				kinds[k] = r.opt.Types[k]
				continue
			}
			kinds[k] = widen(kinds[k], kindOf(v))
		}
	}
	for k, kind := range r.opt.Types {
		kinds[k] = kind
	}

	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i, k := range names {
		kind := kinds[k]
		switch kind {
		case frame.KindInvalid:
			// only nulls sampled
			kind = frame.KindString
		case frame.KindTime:
			return frame.Schema{}, fmt.Errorf("jsonl: column %s: time columns must be read as string", k)
		}
		schema.Columns[i] = frame.ColumnSchema{Name: k, Type: kind, Nullable: true}
	}
	return schema, nil
}

// ReadAll loads the sampled objects and the rest of the input.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	line := r.line - len(r.sample)
	for _, m := range r.sample {
		line++
		if err := r.appendObject(f, schema, m, line); err != nil {
			return nil, err
		}
	}
	r.sample = nil
	for {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendObject(f, schema, m, r.line); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendObject(f *frame.Frame, schema frame.Schema, m map[string]any, line int) error {
	f.AppendNullRow()
	row := f.Rows() - 1
	seen := 0
	for _, cs := range schema.Columns {
		v, ok := m[cs.Name]
		if !ok {
			continue
		}
		seen++
		x, ok := convert(cs.Type, v)
		if !ok {
			r.badValues++
			if r.opt.Strict {
				return fmt.Errorf("jsonl line %d: column %s: cannot read %v as %s", line, cs.Name, v, cs.Type)
			}
			continue
		}
		if x != nil {
			_ = f.SetCell(row, cs.Name, x)
		}
	}
	r.unknownFields += len(m) - seen
	return nil
}

// kindOf is the narrowest kind holding v, or KindInvalid for null and
// blank values.
func kindOf(v any) frame.Kind {
	switch t := v.(type) {
	case nil:
		return frame.KindInvalid
	case bool:
		return frame.KindBool
	case json.Number:
		if _, err := t.Int64(); err == nil {
			return frame.KindInt
		}
		return frame.KindFloat
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return frame.KindInvalid
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return frame.KindInt
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return frame.KindFloat
		}
	}
	return frame.KindString
}

func widen(a, b frame.Kind) frame.Kind {
	switch {
	case a == b || b == frame.KindInvalid:
		return a
	case a == frame.KindInvalid:
		return b
	case (a == frame.KindInt && b == frame.KindFloat) || (a == frame.KindFloat && b == frame.KindInt):
		return frame.KindFloat
	}
	return frame.KindString
}

// convert turns a decoded JSON value into a cell of kind k. A nil result
// with ok set is a null cell.
func convert(k frame.Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	if k == frame.KindString {
		switch t := v.(type) {
		case string:
			return t, true
		case json.Number:
			return t.String(), true
		}
		b, err := json.Marshal(v)
		return string(b), err == nil
	}
	var s string
	switch t := v.(type) {
	case bool:
		return t, k == frame.KindBool
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
		if s == "" {
			return nil, true
		}
	default:
		return nil, false
	}
	switch k {
	case frame.KindFloat:
		x, err := strconv.ParseFloat(s, 64)
		return x, err == nil
	case frame.KindInt:
		if x, err := strconv.ParseInt(s, 10, 64); err == nil {
			return x, true
		}
		if x, err := strconv.ParseFloat(s, 64); err == nil && x == math.Trunc(x) {
			return int64(x), true
		}
	case frame.KindBool:
		x, err := strconv.ParseBool(strings.ToLower(s))
		return x, err == nil
	}
	return nil, false
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	parts := []string{}
	if r.badValues > 0 {
		parts = append(parts, fmt.Sprintf("bad_values=%d", r.badValues))
	}
	if r.unknownFields > 0 {
		parts = append(parts, fmt.Sprintf("unknown_fields=%d", r.unknownFields))
	}
	return strings.Join(parts, ", ")
}

// ReadFile opens path, infers its schema and reads it whole.
func ReadFile(path string, opt ReaderOptions) (*frame.Frame, string, error) {
	r, c, err := Open(path, opt)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = c.Close() }()
	schema, err := r.InferSchema()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return f, r.Warnings(), nil
}
