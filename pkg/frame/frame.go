package frame

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	// take returns a copy holding rows idx in order; -1 yields a null.
	take(name string, idx []int) Column
}

type BoolColumn struct {
	name  string
	data  []bool
	nulls []bool
}

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{name: name, data: make([]bool, n), nulls: make([]bool, n)}
}
func (c *BoolColumn) Name() string           { return c.name }
func (c *BoolColumn) Kind() Kind             { return KindBool }
func (c *BoolColumn) Len() int               { return len(c.data) }
func (c *BoolColumn) IsNull(i int) bool      { return c.nulls[i] }
func (c *BoolColumn) SetNull(i int)          { c.nulls[i] = true }
func (c *BoolColumn) Get(i int) (bool, bool) { return c.data[i], !c.nulls[i] }
func (c *BoolColumn) Set(i int, v bool)      { c.data[i] = v; c.nulls[i] = false }
func (c *BoolColumn) AppendNull()            { c.data = append(c.data, false); c.nulls = append(c.nulls, true) }
func (c *BoolColumn) Append(v bool)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *BoolColumn) take(name string, idx []int) Column {
	out := NewBoolColumn(name, len(idx))
	for i, r := range idx {
		if r < 0 || c.nulls[r] {
			out.nulls[i] = true
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

type IntColumn struct {
	name  string
	data  []int64
	nulls []bool
}

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{name: name, data: make([]int64, n), nulls: make([]bool, n)}
}
func (c *IntColumn) Name() string            { return c.name }
func (c *IntColumn) Kind() Kind              { return KindInt }
func (c *IntColumn) Len() int                { return len(c.data) }
func (c *IntColumn) IsNull(i int) bool       { return c.nulls[i] }
func (c *IntColumn) SetNull(i int)           { c.nulls[i] = true }
func (c *IntColumn) Get(i int) (int64, bool) { return c.data[i], !c.nulls[i] }
func (c *IntColumn) Set(i int, v int64)      { c.data[i] = v; c.nulls[i] = false }
func (c *IntColumn) AppendNull()             { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *IntColumn) Append(v int64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *IntColumn) take(name string, idx []int) Column {
	out := NewIntColumn(name, len(idx))
	for i, r := range idx {
		if r < 0 || c.nulls[r] {
			out.nulls[i] = true
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

type FloatColumn struct {
	name  string
	data  []float64
	nulls []bool
}

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{name: name, data: make([]float64, n), nulls: make([]bool, n)}
}
func (c *FloatColumn) Name() string              { return c.name }
func (c *FloatColumn) Kind() Kind                { return KindFloat }
func (c *FloatColumn) Len() int                  { return len(c.data) }
func (c *FloatColumn) IsNull(i int) bool         { return c.nulls[i] }
func (c *FloatColumn) SetNull(i int)             { c.nulls[i] = true }
func (c *FloatColumn) Get(i int) (float64, bool) { return c.data[i], !c.nulls[i] }
func (c *FloatColumn) Set(i int, v float64)      { c.data[i] = v; c.nulls[i] = false }
func (c *FloatColumn) AppendNull()               { c.data = append(c.data, 0); c.nulls = append(c.nulls, true) }
func (c *FloatColumn) Append(v float64)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *FloatColumn) take(name string, idx []int) Column {
	out := NewFloatColumn(name, len(idx))
	for i, r := range idx {
		if r < 0 || c.nulls[r] {
			out.nulls[i] = true
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

type StringColumn struct {
	name  string
	data  []string
	nulls []bool
}

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *StringColumn) Name() string             { return c.name }
func (c *StringColumn) Kind() Kind               { return KindString }
func (c *StringColumn) Len() int                 { return len(c.data) }
func (c *StringColumn) IsNull(i int) bool        { return c.nulls[i] }
func (c *StringColumn) SetNull(i int)            { c.nulls[i] = true }
func (c *StringColumn) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *StringColumn) Set(i int, v string)      { c.data[i] = v; c.nulls[i] = false }
func (c *StringColumn) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *StringColumn) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }
func (c *StringColumn) take(name string, idx []int) Column {
	out := NewStringColumn(name, len(idx))
	for i, r := range idx {
		if r < 0 || c.nulls[r] {
			out.nulls[i] = true
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

type TimeColumn struct {
	name  string
	data  []time.Time
	nulls []bool
}

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{name: name, data: make([]time.Time, n), nulls: make([]bool, n)}
}
func (c *TimeColumn) Name() string                { return c.name }
func (c *TimeColumn) Kind() Kind                  { return KindTime }
func (c *TimeColumn) Len() int                    { return len(c.data) }
func (c *TimeColumn) IsNull(i int) bool           { return c.nulls[i] }
func (c *TimeColumn) SetNull(i int)               { c.nulls[i] = true }
func (c *TimeColumn) Get(i int) (time.Time, bool) { return c.data[i], !c.nulls[i] }
func (c *TimeColumn) Set(i int, v time.Time)      { c.data[i] = v; c.nulls[i] = false }
func (c *TimeColumn) AppendNull() {
	c.data = append(c.data, time.Time{})
	c.nulls = append(c.nulls, true)
}
func (c *TimeColumn) Append(v time.Time) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}
func (c *TimeColumn) take(name string, idx []int) Column {
	out := NewTimeColumn(name, len(idx))
	for i, r := range idx {
		if r < 0 || c.nulls[r] {
			out.nulls[i] = true
			continue
		}
		out.data[i] = c.data[r]
	}
	return out
}

// NewColumn allocates an all-null column of kind k with n rows.
func NewColumn(name string, k Kind, n int) (Column, error) {
	var c Column
	switch k {
	case KindBool:
		c = NewBoolColumn(name, n)
	case KindInt:
		c = NewIntColumn(name, n)
	case KindFloat:
		c = NewFloatColumn(name, n)
	case KindString:
		c = NewStringColumn(name, n)
	case KindTime:
		c = NewTimeColumn(name, n)
	default:
		return nil, fmt.Errorf("invalid column kind %d for %s", k, name)
	}
	for i := 0; i < n; i++ {
		c.SetNull(i)
	}
	return c, nil
}

// Numeric reads an int or float cell as float64. ok is false for nulls and
// non-numeric columns.
func Numeric(c Column, i int) (float64, bool) {
	switch col := c.(type) {
	case *FloatColumn:
		return col.Get(i)
	case *IntColumn:
		v, ok := col.Get(i)
		return float64(v), ok
	}
	return 0, false
}

// Value returns cell i as bool, int64, float64, string or time.Time, or nil
// when the cell is null.
func Value(c Column, i int) any {
	if c.IsNull(i) {
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		return col.data[i]
	case *IntColumn:
		return col.data[i]
	case *FloatColumn:
		return col.data[i]
	case *StringColumn:
		return col.data[i]
	case *TimeColumn:
		return col.data[i]
	}
	return nil
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	s.Columns = append([]ColumnSchema(nil), s.Columns...)
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			panic(err)
		}
		f.cols[i] = c
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

// Names returns the column names in schema order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.schema.Columns))
	for i, cs := range f.schema.Columns {
		out[i] = cs.Name
	}
	return out
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AddColumn appends c, or replaces the column with the same name. Its
// length must match the frame unless the frame has no columns yet.
func (f *Frame) AddColumn(c Column) error {
	if len(f.cols) > 0 && c.Len() != f.nrows {
		return fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	cs := ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
	if i, ok := f.index[c.Name()]; ok {
		f.cols[i] = c
		f.schema.Columns[i] = cs
		return nil
	}
	if len(f.cols) == 0 {
		f.nrows = c.Len()
	}
	f.index[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	f.schema.Columns = append(f.schema.Columns, cs)
	return nil
}

// Take returns a new frame holding the given rows in the given order. A
// row index of -1 produces an all-null row.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.cols)), nrows: len(rows)}
	out.schema.Columns = append([]ColumnSchema(nil), f.schema.Columns...)
	out.cols = make([]Column, len(f.cols))
	for i, c := range f.cols {
		out.cols[i] = c.take(c.Name(), rows)
		out.index[c.Name()] = i
	}
	return out
}

// Rename returns a copy of column c under a new name.
func Rename(c Column, name string) Column {
	idx := make([]int, c.Len())
	for i := range idx {
		idx[i] = i
	}
	return c.take(name, idx)
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
