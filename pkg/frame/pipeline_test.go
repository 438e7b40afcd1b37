package frame_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wdm0006/covidbench/pkg/frame"
	imp "github.com/wdm0006/covidbench/pkg/transform/impute"
	std "github.com/wdm0006/covidbench/pkg/transform/standardize"
)

func TestPipeline(t *testing.T) {
	s := frame.Schema{Columns: []frame.ColumnSchema{{Name: "x", Type: frame.KindFloat, Nullable: true}, {Name: "s", Type: frame.KindString, Nullable: true}}}
	f := frame.NewFrame(s)
	for i := 0; i < 2; i++ {
		f.AppendNullRow()
	}
	_ = f.SetCell(0, "x", 1.0)
	_ = f.SetCell(0, "s", " Foo ")
	// row 1 left nulls

	var seen []string
	p := frame.NewPipeline().
		Add(&imp.Constant{Column: "x", Value: 0.0}).
		Add(&std.Trim{Columns: []string{"s"}}).
		Observe(func(step string, rows int, _ time.Duration) {
			if rows != 2 {
				t.Errorf("step %s reported %d rows", step, rows)
			}
			seen = append(seen, step)
		})
	out, err := p.Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	colX, _ := out.ColumnByName("x")
	fx := colX.(*frame.FloatColumn)
	if fx.IsNull(1) {
		t.Fatal("imputer failed to fill null")
	}
	colS, _ := out.ColumnByName("s")
	ss := colS.(*frame.StringColumn)
	s0, _ := ss.Get(0)
	if s0 != "Foo" {
		t.Fatalf("trim failed, got %q", s0)
	}
	if len(seen) != 2 || seen[0] != "impute_constant" || seen[1] != "trim" {
		t.Fatalf("observer saw %v", seen)
	}
	if steps := p.Steps(); len(steps) != 2 || steps[1] != "trim" {
		t.Fatalf("unexpected steps %v", steps)
	}
}

func TestPipelineStopsOnCancel(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "s", Type: frame.KindString}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := frame.NewPipeline().Add(&std.Trim{Columns: []string{"s"}}).Run(ctx, f)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPipelineWrapsStepError(t *testing.T) {
	f := frame.NewFrame(frame.Schema{Columns: []frame.ColumnSchema{{Name: "s", Type: frame.KindString}}})
	_, err := frame.NewPipeline().Add(&std.Trim{Columns: []string{"missing"}}).Run(context.Background(), f)
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
}
