package sqliteio

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func TestWriteAll(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "city", Type: frame.KindString, Nullable: true},
		{Name: "date", Type: frame.KindTime, Nullable: true},
		{Name: "7_day_avg_deaths", Type: frame.KindFloat, Nullable: true},
	}})
	for i, city := range []string{"Campinas", "Curitiba"} {
		f.AppendNullRow()
		_ = f.SetCell(i, "city", city)
		_ = f.SetCell(i, "date", time.Date(2020, 7, 1+i, 0, 0, 0, 0, time.UTC))
	}
	_ = f.SetCell(1, "7_day_avg_deaths", 2.5)

	p := filepath.Join(t.TempDir(), "out.db")
	ctx := context.Background()
	require.NoError(t, WriteAll(ctx, p, f, WriterOptions{}))
	// a second write replaces the table
	require.NoError(t, WriteAll(ctx, p, f, WriterOptions{}))

	db, err := sql.Open("sqlite", p)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n))
	assert.Equal(t, 2, n)

	var date string
	var avg sql.NullFloat64
	require.NoError(t, db.QueryRow(`SELECT date, "7_day_avg_deaths" FROM results WHERE city = 'Curitiba'`).Scan(&date, &avg))
	assert.Equal(t, "2020-07-02", date)
	assert.True(t, avg.Valid)
	assert.Equal(t, 2.5, avg.Float64)

	require.NoError(t, db.QueryRow(`SELECT "7_day_avg_deaths" FROM results WHERE city = 'Campinas'`).Scan(&avg))
	assert.False(t, avg.Valid)
}

func TestFailedWriteKeepsTable(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "a", Type: frame.KindInt, Nullable: true}}})
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
		_ = f.SetCell(i, "a", int64(i))
	}
	p := filepath.Join(t.TempDir(), "out.db")
	ctx := context.Background()
	require.NoError(t, WriteAll(ctx, p, f, WriterOptions{}))

	// no columns: CREATE fails after DROP ran inside the transaction
	err := WriteAll(ctx, p, frame.NewFrame(frame.Schema{}), WriterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite create results")

	db, err := sql.Open("sqlite", p)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM results`).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestWriteAllCanceled(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "a", Type: frame.KindInt, Nullable: true}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WriteAll(ctx, filepath.Join(t.TempDir(), "x.db"), f, WriterOptions{})
	assert.Error(t, err)
}
