package arrowio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func sample(rows int) *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "city", Type: frame.KindString, Nullable: true},
		{Name: "deaths", Type: frame.KindInt, Nullable: true},
		{Name: "death_rate", Type: frame.KindFloat, Nullable: true},
		{Name: "date", Type: frame.KindTime, Nullable: true},
	}})
	day := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "city", "Campinas")
		_ = f.SetCell(i, "deaths", int64(i))
		if i != 1 {
			_ = f.SetCell(i, "death_rate", float64(i)/10)
		}
		_ = f.SetCell(i, "date", day.AddDate(0, 0, i))
	}
	return f
}

func TestWriteAllBatches(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	p := filepath.Join(t.TempDir(), "out", "x.arrow")
	require.NoError(t, WriteAll(p, sample(5), WriterOptions{BatchRows: 2, Allocator: mem}))

	fh, err := os.Open(p)
	require.NoError(t, err)
	defer func() { _ = fh.Close() }()
	r, err := ipc.NewFileReader(fh, ipc.WithAllocator(mem))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.Equal(t, 3, r.NumRecords())
	assert.Equal(t, "death_rate", r.Schema().Field(2).Name)

	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec.NumRows())
	rates := rec.Column(2).(*array.Float64)
	assert.True(t, rates.IsNull(1))
	assert.Equal(t, 0.0, rates.Value(0))
	ts := rec.Column(3).(*array.Timestamp)
	assert.Equal(t, arrow.Timestamp(time.Date(2020, 6, 2, 0, 0, 0, 0, time.UTC).UnixMicro()), ts.Value(1))
}

func TestWriteAllEmptyFrame(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.arrow")
	require.NoError(t, WriteAll(p, sample(0), WriterOptions{}))
	fh, err := os.Open(p)
	require.NoError(t, err)
	defer func() { _ = fh.Close() }()
	r, err := ipc.NewFileReader(fh)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	assert.Equal(t, 4, len(r.Schema().Fields()))
}
