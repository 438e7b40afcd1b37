package synth

import (
	"context"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func TestLogNormalDeterministic(t *testing.T) {
	a := LogNormalDraws(100, 42, 8, 2)
	b := LogNormalDraws(100, 42, 8, 2)
	c := LogNormalDraws(100, 43, 8, 2)
	same := true
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("draw %d differs for equal seeds: %v vs %v", i, a[i], b[i])
		}
		if a[i] <= 0 {
			t.Fatalf("draw %d not positive: %v", i, a[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical draws")
	}
}

func TestLogNormalTransform(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "x", Type: frame.KindInt}}})
	for i := 0; i < 10; i++ {
		f.AppendNullRow()
	}
	out, err := (&LogNormal{Output: "confirmed", Seed: 7, Mu: 8, Sigma: 2}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, ok := out.ColumnByName("confirmed")
	if !ok || col.Len() != 10 {
		t.Fatal("confirmed column missing or wrong length")
	}
	want := LogNormalDraws(10, 7, 8, 2)
	for i := range want {
		if v, _ := col.(*frame.FloatColumn).Get(i); v != want[i] {
			t.Fatalf("row %d: got %v want %v", i, v, want[i])
		}
	}
}
