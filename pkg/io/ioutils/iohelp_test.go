package ioutils

import (
	"io"
	"path/filepath"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "out.csv.gz")
	w, err := CreateMaybeCompressed(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "a,b\n1,2\n"); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	r, err := OpenMaybeCompressed(p)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "a,b\n1,2\n" {
		t.Fatalf("got %q", b)
	}
}

func TestExt(t *testing.T) {
	cases := map[string]string{
		"out/x.csv":    ".csv",
		"out/x.CSV.gz": ".csv",
		"x.parquet":    ".parquet",
		"noext":        "",
	}
	for in, want := range cases {
		if got := Ext(in); got != want {
			t.Errorf("Ext(%q)=%q want %q", in, got, want)
		}
	}
}
