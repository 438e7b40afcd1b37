package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/wdm0006/covidbench/pkg/frame"
	iox "github.com/wdm0006/covidbench/pkg/io/ioutils"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
	// Types overrides the inferred kind of the named columns.
	Types map[string]frame.Kind
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	// repair/warning counters
	shortRecords int
	longRecords  int
	badValues    int
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// Open opens a CSV file, gzip-compressed or not, and returns a Reader and
// the closer for the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReaderSize(rc, 1<<16)
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		opt.Delimiter = d
		r := NewReaderFrom(br, opt)
		r.r.LazyQuotes = lazy
		return r, rc, nil
	}
	return NewReaderFrom(br, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.ReuseRecord = false
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (frame.Schema, []string, error) {
	var names []string
	rec, err := r.r.Read()
	if err != nil {
		return frame.Schema{}, nil, fmt.Errorf("csv: read first record: %w", err)
	}
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		r.buf = append(r.buf, rec)
	}

	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for len(r.buf) < max {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return frame.Schema{}, nil, err
		}
		r.buf = append(r.buf, rr)
	}

	kinds := inferKinds(r.buf, len(names))
	schema := frame.Schema{Columns: make([]frame.ColumnSchema, len(names))}
	for i := range names {
		k := kinds[i]
		if o, ok := r.opt.Types[names[i]]; ok {
			k = o
		}
		schema.Columns[i] = frame.ColumnSchema{Name: names[i], Type: k, Nullable: true}
	}
	return schema, names, nil
}

// ReadAll loads the rest of the CSV, sampled rows included, into a Frame.
func (r *Reader) ReadAll(schema frame.Schema) (*frame.Frame, error) {
	f := frame.NewFrame(schema)
	for _, rec := range r.buf {
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	r.buf = nil
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, schema, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *frame.Frame, schema frame.Schema, rec []string) error {
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at row %d: need %d fields, got %d", f.Rows()+1, len(schema.Columns), len(rec))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return fmt.Errorf("csv short record at row %d: need %d fields, got %d", row+1, len(schema.Columns), len(rec))
			}
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if val == "" {
			continue
		}
		var v any
		switch cs.Type {
		case frame.KindFloat:
			if x, err := strconv.ParseFloat(val, 64); err == nil {
				v = x
			}
		case frame.KindInt:
			if x, err := strconv.ParseInt(val, 10, 64); err == nil {
				v = x
			} else if x, err := strconv.ParseFloat(val, 64); err == nil && x == float64(int64(x)) {
				v = int64(x)
			}
		case frame.KindBool:
			if x, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
				v = x
			}
		case frame.KindTime:
			// parsed later by a cast transform with the layout the caller knows
			return fmt.Errorf("csv: column %s: time columns must be read as string", cs.Name)
		default:
			v = val
		}
		if v == nil {
			r.badValues++
			continue
		}
		_ = f.SetCell(row, cs.Name, v)
	}
	return nil
}

func inferKinds(rows [][]string, ncol int) []frame.Kind {
	kinds := make([]frame.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if v == "" {
				continue
			}
			if numre.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
			} else {
				lv := strings.ToLower(v)
				if lv == "true" || lv == "false" {
					continue
				}
				str++
			}
		}
		switch {
		case num > 0 && str == 0 && integer == num:
			kinds[c] = frame.KindInt
		case num > 0 && str == 0:
			kinds[c] = frame.KindFloat
		default:
			kinds[c] = frame.KindString
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	if i := strings.IndexByte(string(sample), '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	// odd quote counts in the header line usually mean stray quotes in the data
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badValues > 0 {
		parts = append(parts, fmt.Sprintf("bad_values=%d", r.badValues))
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
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return f, r.Warnings(), nil
}
