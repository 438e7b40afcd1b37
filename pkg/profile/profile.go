// Package profile summarises the columns of a result frame.
package profile

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/covidbench/pkg/frame"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	NaNs  int     `json:"nans,omitempty"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`

	values []float64
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type StringStats struct {
	Count int         `json:"count"`
	Nulls int         `json:"nulls"`
	Top   []Frequency `json:"top,omitempty"`

	freqs map[string]int
}

// Frequency is one value of a string column and how often it occurs.
type Frequency struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type ColumnProfile struct {
	Name string       `json:"name"`
	Kind string       `json:"kind"`
	Num  *NumStats    `json:"num,omitempty"`
	Bool *BoolStats   `json:"bool,omitempty"`
	Str  *StringStats `json:"str,omitempty"`

	kind frame.Kind
}

// Collector accumulates column statistics over one or more frames sharing
// a schema.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
	done  bool
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type.String(), kind: cs.Type}
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			cp.Num = &NumStats{}
		case frame.KindBool:
			cp.Bool = &BoolStats{}
		default:
			cp.Str = &StringStats{freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

func (c *Collector) ConsumeFrame(f *frame.Frame) error {
	for _, cs := range f.Schema().Columns {
		idx, ok := c.index[cs.Name]
		if !ok {
			return fmt.Errorf("profile: unexpected column %s", cs.Name)
		}
		cp := &c.cols[idx]
		col, _ := f.ColumnByName(cs.Name)
		if col.Kind() != cp.kind {
			return fmt.Errorf("profile: column %s is %s, collector has %s", cs.Name, col.Kind(), cp.kind)
		}
		for i := 0; i < col.Len(); i++ {
			switch v := frame.Value(col, i).(type) {
			case nil:
				switch {
				case cp.Num != nil:
					cp.Num.Nulls++
				case cp.Bool != nil:
					cp.Bool.Nulls++
				default:
					cp.Str.Nulls++
				}
			case int64:
				cp.Num.add(float64(v))
			case float64:
				cp.Num.add(v)
			case bool:
				cp.Bool.Count++
				if v {
					cp.Bool.True++
				} else {
					cp.Bool.False++
				}
			case string:
				cp.Str.add(v, c.topK)
			case time.Time:
				cp.Str.add(v.Format(time.DateOnly), c.topK)
			}
		}
	}
	c.done = false
	return nil
}

func (s *NumStats) add(v float64) {
	if math.IsNaN(v) {
		s.NaNs++
		return
	}
	if s.Count == 0 {
		s.Min, s.Max = v, v
	}
	s.Count++
	s.Min = math.Min(s.Min, v)
	s.Max = math.Max(s.Max, v)
	s.Sum += v
	s.values = append(s.values, v)
}

func (s *StringStats) add(v string, topK int) {
	s.Count++
	if topK > 0 {
		s.freqs[v]++
	}
}

func (c *Collector) finish() {
	if c.done {
		return
	}
	for i := range c.cols {
		cp := &c.cols[i]
		if cp.Num != nil && cp.Num.Count > 0 {
			sort.Float64s(cp.Num.values)
			cp.Num.Mean = stat.Mean(cp.Num.values, nil)
			cp.Num.P50 = stat.Quantile(0.5, stat.Empirical, cp.Num.values, nil)
			cp.Num.P95 = stat.Quantile(0.95, stat.Empirical, cp.Num.values, nil)
		}
		if cp.Str != nil {
			cp.Str.Top = top(cp.Str.freqs, c.topK)
		}
	}
	c.done = true
}

// top returns the k most frequent values, ties broken by value.
func top(freqs map[string]int, k int) []Frequency {
	arr := make([]Frequency, 0, len(freqs))
	for v, n := range freqs {
		arr = append(arr, Frequency{Value: v, Count: n})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].Count != arr[j].Count {
			return arr[i].Count > arr[j].Count
		}
		return arr[i].Value < arr[j].Value
	})
	if k > 0 && k < len(arr) {
		arr = arr[:k]
	}
	return arr
}

// Columns returns the finished column profiles in schema order.
func (c *Collector) Columns() []ColumnProfile {
	c.finish()
	return c.cols
}

func (c *Collector) ReportText() string {
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range c.Columns() {
		fmt.Fprintf(&b, "- %s (%s): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			n := cp.Num
			if n.Count == 0 {
				fmt.Fprintf(&b, "count=0 nulls=%d\n", n.Nulls)
				continue
			}
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g p50=%.6g p95=%.6g\n",
				n.Count, n.Nulls, n.Min, n.Max, n.Mean, n.P50, n.P95)
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		default:
			fmt.Fprintf(&b, "count=%d nulls=%d\n", cp.Str.Count, cp.Str.Nulls)
			for _, fq := range cp.Str.Top {
				fmt.Fprintf(&b, "  * %q: %d\n", fq.Value, fq.Count)
			}
		}
	}
	return b.String()
}

type JSONProfile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

func (c *Collector) ReportJSON(rows int) JSONProfile {
	return JSONProfile{Rows: rows, Columns: c.Columns()}
}

// WriteJSON writes the JSON report of f, indented.
func WriteJSON(w io.Writer, f *frame.Frame, topK int) error {
	c := NewCollector(f.Schema(), topK)
	if err := c.ConsumeFrame(f); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c.ReportJSON(f.Rows()))
}
