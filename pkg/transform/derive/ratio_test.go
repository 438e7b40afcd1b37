package derive

import (
	"context"
	"math"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func TestRatio(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "deaths", Type: frame.KindInt, Nullable: true},
		{Name: "population", Type: frame.KindInt, Nullable: true},
	}})
	vals := [][2]any{{int64(3), int64(1000)}, {int64(5), int64(0)}, {nil, int64(10)}, {int64(0), int64(7)}}
	for i, v := range vals {
		f.AppendNullRow()
		_ = f.SetCell(i, "deaths", v[0])
		_ = f.SetCell(i, "population", v[1])
	}
	out, err := (&Ratio{Numerator: "deaths", Denominator: "population", Output: "death_rate"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("death_rate")
	c := col.(*frame.FloatColumn)
	if v, ok := c.Get(0); !ok || math.Abs(v-0.003) > 1e-12 {
		t.Fatalf("row 0: got %v %v", v, ok)
	}
	if !c.IsNull(1) {
		t.Fatal("zero denominator should be null")
	}
	if !c.IsNull(2) {
		t.Fatal("null numerator should be null")
	}
	if v, ok := c.Get(3); !ok || v != 0 {
		t.Fatalf("row 3: got %v %v", v, ok)
	}
}
