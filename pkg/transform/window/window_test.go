package window

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
)

// interleaved builds two states whose rows alternate, so grouping must not
// depend on contiguous rows.
func interleaved(deaths map[string][]any) *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "state", Type: frame.KindString, Nullable: true},
		{Name: "deaths", Type: frame.KindInt, Nullable: true},
	}})
	row := 0
	for i := 0; ; i++ {
		added := false
		for _, st := range []string{"SP", "RJ"} {
			if i >= len(deaths[st]) {
				continue
			}
			f.AppendNullRow()
			_ = f.SetCell(row, "state", st)
			_ = f.SetCell(row, "deaths", deaths[st][i])
			row++
			added = true
		}
		if !added {
			return f
		}
	}
}

func floats(t *testing.T, f *frame.Frame, name string, state string) []float64 {
	t.Helper()
	sc, _ := f.ColumnByName("state")
	col, _ := f.ColumnByName(name)
	var out []float64
	for i := 0; i < f.Rows(); i++ {
		if s, _ := sc.(*frame.StringColumn).Get(i); s != state {
			continue
		}
		v, ok := col.(*frame.FloatColumn).Get(i)
		if !ok {
			v = math.NaN()
		}
		out = append(out, v)
	}
	return out
}

func sameFloats(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if math.IsNaN(want[i]) != math.IsNaN(got[i]) || (!math.IsNaN(want[i]) && math.Abs(got[i]-want[i]) > 1e-9) {
			t.Fatalf("index %d: got %v want %v", i, got, want)
		}
	}
}

func TestRollingMeanPerState(t *testing.T) {
	f := interleaved(map[string][]any{
		"SP": {int64(1), int64(2), int64(3), int64(4), int64(5), int64(6), int64(7), int64(8), int64(9)},
		"RJ": {int64(10), int64(10), int64(10), int64(10), int64(10), int64(10), int64(10), int64(24)},
	})
	out, err := (&RollingMean{Column: "deaths", By: []string{"state"}, Window: 7, Output: "avg"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	nan := math.NaN()
	sameFloats(t, floats(t, out, "avg", "SP"), []float64{nan, nan, nan, nan, nan, nan, 4, 5, 6})
	sameFloats(t, floats(t, out, "avg", "RJ"), []float64{nan, nan, nan, nan, nan, nan, 10, 12})
}

func TestRollingMeanNullInWindow(t *testing.T) {
	f := interleaved(map[string][]any{
		"SP": {int64(1), nil, int64(3), int64(5)},
	})
	out, err := (&RollingMean{Column: "deaths", By: []string{"state"}, Window: 2, Output: "avg"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	nan := math.NaN()
	sameFloats(t, floats(t, out, "avg", "SP"), []float64{nan, nan, nan, 4})
}

func TestRollingMeanOrderBy(t *testing.T) {
	f := interleaved(map[string][]any{"SP": {int64(30), int64(10), int64(20)}})
	dates := frame.NewTimeColumn("date", 3)
	base := time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC)
	dates.Set(0, base.AddDate(0, 0, 2))
	dates.Set(1, base)
	dates.Set(2, base.AddDate(0, 0, 1))
	if err := f.AddColumn(dates); err != nil {
		t.Fatal(err)
	}
	out, err := (&RollingMean{Column: "deaths", By: []string{"state"}, Window: 2, OrderBy: "date", Output: "avg"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	nan := math.NaN()
	// date order is 10, 20, 30; row order is 30, 10, 20
	sameFloats(t, floats(t, out, "avg", "SP"), []float64{25, nan, 15})
}

func TestPctChange(t *testing.T) {
	f := interleaved(map[string][]any{
		"SP": {int64(100), int64(200), int64(150), int64(300)},
		"RJ": {int64(0), int64(5), int64(10)},
	})
	out, err := (&PctChange{Column: "deaths", By: []string{"state"}, Periods: 2, Output: "pct"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	nan := math.NaN()
	sameFloats(t, floats(t, out, "pct", "SP"), []float64{nan, nan, 0.5, 0.5})
	sameFloats(t, floats(t, out, "pct", "RJ"), []float64{nan, nan, nan})
}

func TestWindowRejectsBadInput(t *testing.T) {
	f := interleaved(map[string][]any{"SP": {int64(1)}})
	if _, err := (&RollingMean{Column: "deaths", Window: 0, Output: "x"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for zero window")
	}
	if _, err := (&PctChange{Column: "state", Periods: 1, Output: "x"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for string column")
	}
}
