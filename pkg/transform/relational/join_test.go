package relational

import (
	"context"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func cases() *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "city", Type: frame.KindString, Nullable: true},
		{Name: "state", Type: frame.KindString, Nullable: true},
		{Name: "deaths", Type: frame.KindInt, Nullable: true},
	}})
	rows := []struct {
		city, state string
		deaths      int64
	}{
		{"Bom Jesus", "PI", 1},
		{"Bom Jesus", "RS", 2},
		{"Salvador", "BA", 3},
		{"Nowhere", "XX", 4},
		{"Salvador", "BA", 5},
	}
	for i, r := range rows {
		f.AppendNullRow()
		_ = f.SetCell(i, "city", r.city)
		_ = f.SetCell(i, "state", r.state)
		_ = f.SetCell(i, "deaths", r.deaths)
	}
	f.AppendNullRow() // null keys never match
	return f
}

func population() *frame.Frame {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "state", Type: frame.KindString, Nullable: true},
		{Name: "city", Type: frame.KindString, Nullable: true},
		{Name: "deaths", Type: frame.KindString, Nullable: true},
		{Name: "population", Type: frame.KindInt, Nullable: true},
	}})
	rows := []struct {
		state, city string
		pop         int64
	}{
		{"BA", "Salvador", 2872347},
		{"RS", "Bom Jesus", 11519},
		{"PI", "Bom Jesus", 25000},
	}
	for i, r := range rows {
		f.AppendNullRow()
		_ = f.SetCell(i, "state", r.state)
		_ = f.SetCell(i, "city", r.city)
		_ = f.SetCell(i, "deaths", "clash")
		_ = f.SetCell(i, "population", r.pop)
	}
	return f
}

func TestInnerJoin(t *testing.T) {
	j := &InnerJoin{Right: population(), On: []string{"city", "state"}}
	out, err := j.Apply(context.Background(), cases())
	if err != nil {
		t.Fatal(err)
	}
	if out.Rows() != 4 {
		t.Fatalf("expected 4 rows, got %d", out.Rows())
	}
	if j.Unmatched != 2 {
		t.Fatalf("expected 2 unmatched rows, got %d", j.Unmatched)
	}
	want := []string{"city", "state", "deaths", "deaths_right", "population"}
	got := out.Names()
	if len(got) != len(want) {
		t.Fatalf("columns %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns %v, want %v", got, want)
		}
	}
	dcol, _ := out.ColumnByName("deaths")
	pcol, _ := out.ColumnByName("population")
	wantDeaths := []int64{1, 2, 3, 5}
	wantPop := []int64{25000, 11519, 2872347, 2872347}
	for i := range wantDeaths {
		d, _ := dcol.(*frame.IntColumn).Get(i)
		p, _ := pcol.(*frame.IntColumn).Get(i)
		if d != wantDeaths[i] || p != wantPop[i] {
			t.Fatalf("row %d: deaths=%d population=%d", i, d, p)
		}
	}
}

func TestInnerJoinKeyKindMismatch(t *testing.T) {
	right := population()
	j := &InnerJoin{Right: right, On: []string{"deaths"}}
	if _, err := j.Apply(context.Background(), cases()); err == nil {
		t.Fatal("expected kind mismatch error")
	}
}
