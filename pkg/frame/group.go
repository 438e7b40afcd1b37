package frame

import (
	"fmt"
	"strconv"
	"strings"
)

// Columns looks up names in f, failing on the first unknown one.
func (f *Frame) Columns(names ...string) ([]Column, error) {
	cols := make([]Column, len(names))
	for i, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return nil, fmt.Errorf("unknown column %s", n)
		}
		cols[i] = c
	}
	return cols, nil
}

// RowKey encodes the cells of cols at row i as a map key. ok is false when
// any cell is null. b is scratch space reused between calls.
func RowKey(b *strings.Builder, cols []Column, i int) (key string, ok bool) {
	b.Reset()
	for n, col := range cols {
		if col.IsNull(i) {
			return "", false
		}
		if n > 0 {
			b.WriteByte(0)
		}
		switch c := col.(type) {
		case *StringColumn:
			b.WriteString(c.data[i])
		case *IntColumn:
			b.WriteString(strconv.FormatInt(c.data[i], 10))
		case *FloatColumn:
			b.WriteString(strconv.FormatFloat(c.data[i], 'g', -1, 64))
		case *BoolColumn:
			b.WriteString(strconv.FormatBool(c.data[i]))
		case *TimeColumn:
			b.WriteString(strconv.FormatInt(c.data[i].UnixNano(), 10))
		}
	}
	return b.String(), true
}

// GroupRows partitions the row indices of f by the values of by. Groups are
// returned in order of first appearance and keep row order inside each
// group. Rows with a null key form their own group at the end. With no key
// columns every row lands in one group.
func (f *Frame) GroupRows(by ...string) ([][]int, error) {
	cols, err := f.Columns(by...)
	if err != nil {
		return nil, err
	}
	var (
		b      strings.Builder
		groups [][]int
		nulls  []int
	)
	index := map[string]int{}
	for i := 0; i < f.nrows; i++ {
		k, ok := RowKey(&b, cols, i)
		if !ok {
			nulls = append(nulls, i)
			continue
		}
		g, seen := index[k]
		if !seen {
			g = len(groups)
			index[k] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], i)
	}
	if len(nulls) > 0 {
		groups = append(groups, nulls)
	}
	return groups, nil
}
