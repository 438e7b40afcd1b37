package profile

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func sample() *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "state", Type: frame.KindString, Nullable: true},
		{Name: "deaths", Type: frame.KindInt, Nullable: true},
		{Name: "death_rate", Type: frame.KindFloat, Nullable: true},
	}})
	states := []string{"SP", "SP", "PR", "RJ", "SP"}
	for i, st := range states {
		f.AppendNullRow()
		_ = f.SetCell(i, "state", st)
		_ = f.SetCell(i, "deaths", int64(i+1))
	}
	_ = f.SetCell(0, "death_rate", 0.5)
	_ = f.SetCell(1, "death_rate", math.NaN())
	return f
}

func TestCollector(t *testing.T) {
	c := NewCollector(sample().Schema(), 2)
	require.NoError(t, c.ConsumeFrame(sample()))
	cols := c.Columns()

	st := cols[0].Str
	require.NotNil(t, st)
	assert.Equal(t, 5, st.Count)
	assert.Equal(t, []Frequency{{"SP", 3}, {"PR", 1}}, st.Top)

	d := cols[1].Num
	assert.Equal(t, 5, d.Count)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 5.0, d.Max)
	assert.Equal(t, 3.0, d.Mean)
	assert.Equal(t, 3.0, d.P50)
	assert.Equal(t, 5.0, d.P95)

	r := cols[2].Num
	assert.Equal(t, 1, r.Count)
	assert.Equal(t, 1, r.NaNs)
	assert.Equal(t, 3, r.Nulls)
}

func TestConsumeFrameSchemaMismatch(t *testing.T) {
	c := NewCollector(frame.Schema{Columns: []frame.ColumnSchema{{Name: "state", Type: frame.KindInt}}}, 0)
	err := c.ConsumeFrame(sample())
	assert.Error(t, err)
}

func TestReports(t *testing.T) {
	c := NewCollector(sample().Schema(), 1)
	require.NoError(t, c.ConsumeFrame(sample()))
	txt := c.ReportText()
	assert.True(t, strings.HasPrefix(txt, "Profile Summary\n"))
	assert.Contains(t, txt, "- deaths (int): count=5 nulls=0 min=1 max=5 mean=3 p50=3 p95=5\n")
	assert.Contains(t, txt, `  * "SP": 3`)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample(), 1))
	var got JSONProfile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 5, got.Rows)
	require.Len(t, got.Columns, 3)
	assert.Equal(t, "string", got.Columns[0].Kind)
	assert.Len(t, got.Columns[0].Str.Top, 1)
}

func TestAllNullColumnEncodes(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "x", Type: frame.KindFloat, Nullable: true}}})
	f.AppendNullRow()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, f, 0))
	assert.Contains(t, buf.String(), `"nulls": 1`)
}
