package standardize

import (
	"context"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func makeStates() *frame.Frame {
	s := frame.Schema{Columns: []frame.ColumnSchema{{Name: "state", Type: frame.KindString, Nullable: true}}}
	f := frame.NewFrame(s)
	for i := 0; i < 4; i++ {
		f.AppendNullRow()
	}
	col, _ := f.ColumnByName("state")
	c := col.(*frame.StringColumn)
	c.Set(0, "  São Paulo ")
	c.Set(1, "Bahia")
	c.Set(2, "Atlantis")
	// row 3 null
	return f
}

func TestTrimAndMapValues(t *testing.T) {
	f := makeStates()
	ctx := context.Background()

	if _, err := (&Trim{Columns: []string{"state"}}).Apply(ctx, f); err != nil {
		t.Fatal(err)
	}
	mv := &MapValues{Column: "state", Map: map[string]string{"São Paulo": "SP", "Bahia": "BA"}}
	if _, err := mv.Apply(ctx, f); err != nil {
		t.Fatal(err)
	}
	col, _ := f.ColumnByName("state")
	c := col.(*frame.StringColumn)
	want := []string{"SP", "BA", "Atlantis"}
	for i, w := range want {
		if v, _ := c.Get(i); v != w {
			t.Fatalf("row %d: got %q want %q", i, v, w)
		}
	}
	if !c.IsNull(3) {
		t.Fatal("null row should stay null")
	}
	if mv.Missed() != 1 || mv.Misses["Atlantis"] != 1 {
		t.Fatalf("unexpected misses %v", mv.Misses)
	}
}

func TestMapValuesUnknownColumn(t *testing.T) {
	f := makeStates()
	if _, err := (&MapValues{Column: "nope"}).Apply(context.Background(), f); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestCopyColumn(t *testing.T) {
	f := makeStates()
	out, err := (&CopyColumn{From: "state", To: "uf"}).Apply(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out.Cols() != 2 {
		t.Fatalf("expected 2 columns, got %d", out.Cols())
	}
	src, _ := out.ColumnByName("state")
	dst, _ := out.ColumnByName("uf")
	src.(*frame.StringColumn).Set(1, "changed")
	if v, _ := dst.(*frame.StringColumn).Get(1); v != "Bahia" {
		t.Fatalf("copy should not alias source, got %q", v)
	}
	if !dst.IsNull(3) {
		t.Fatal("null should be copied")
	}
}
