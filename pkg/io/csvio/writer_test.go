package csvio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
)

func TestWriteAll(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{
		{Name: "date", Type: frame.KindTime, Nullable: true},
		{Name: "city", Type: frame.KindString, Nullable: true},
		{Name: "death_rate", Type: frame.KindFloat, Nullable: true},
	}})
	f.AppendNullRow()
	f.AppendNullRow()
	_ = f.SetCell(0, "date", time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC))
	_ = f.SetCell(0, "city", "Curitiba")
	_ = f.SetCell(0, "death_rate", 0.25)
	_ = f.SetCell(1, "city", "Campinas, SP")

	p := filepath.Join(t.TempDir(), "out", "x.csv")
	if err := WriteAll(p, f, WriterOptions{TimeLayout: time.DateOnly}); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	want := "date,city,death_rate\n2020-03-01,Curitiba,0.25\n,\"Campinas, SP\",\n"
	if string(b) != want {
		t.Fatalf("got\n%s\nwant\n%s", b, want)
	}

	back, _, err := ReadFile(p, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if back.Rows() != 2 {
		t.Fatalf("rows=%d", back.Rows())
	}
}
