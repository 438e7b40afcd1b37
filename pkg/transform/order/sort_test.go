package order

import (
	"context"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func TestSortDescendingNullsLast(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "rate", Type: frame.KindFloat, Nullable: true},
		{Name: "id", Type: frame.KindInt, Nullable: true},
	}})
	for i, v := range []any{0.1, nil, 0.3, 0.1, 0.2} {
		f.AppendNullRow()
		_ = f.SetCell(i, "rate", v)
		_ = f.SetCell(i, "id", int64(i))
	}
	out, err := (&Sort{Column: "rate", Descending: true}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	ids, _ := out.ColumnByName("id")
	want := []int64{2, 4, 0, 3, 1}
	for i, w := range want {
		if v, _ := ids.(*frame.IntColumn).Get(i); v != w {
			t.Fatalf("position %d: got id %d want %d", i, v, w)
		}
	}
	rate, _ := out.ColumnByName("rate")
	if !rate.IsNull(4) {
		t.Fatal("null should sort last")
	}
}

func TestSortAscending(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "s", Type: frame.KindString, Nullable: true}}})
	for i, v := range []any{"b", nil, "a"} {
		f.AppendNullRow()
		_ = f.SetCell(i, "s", v)
	}
	out, err := (&Sort{Column: "s"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.ColumnByName("s")
	if v, _ := col.(*frame.StringColumn).Get(0); v != "a" {
		t.Fatalf("got %q first", v)
	}
	if !col.IsNull(2) {
		t.Fatal("null should sort last")
	}
}
