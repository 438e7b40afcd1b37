package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wdm0006/covidbench/pkg/frame"
)

const populationCSV = `region,state,city,state_code,city_code,health_region_code,health_region,population
Norte,Rondônia,Porto Velho,11,1100205,11001,Madeira-Mamoré,539354
Sul,Paraná,Curitiba,41,4106902,41002,2ª RS Metropolitana,1948626
Sudeste,São Paulo,Campinas,35,3509502,,Campinas,1213792
`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInferAndRead(t *testing.T) {
	p := writeFixture(t, "population.csv", populationCSV)
	r, c, err := Open(p, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()
	schema, names, err := r.InferSchema()
	if err != nil {
		t.Fatal(err)
	}
	if len(schema.Columns) != 8 || names[7] != "population" {
		t.Fatalf("unexpected header %v", names)
	}
	if schema.Columns[2].Type != frame.KindString {
		t.Fatalf("city: expected string, got %s", schema.Columns[2].Type)
	}
	if schema.Columns[7].Type != frame.KindInt {
		t.Fatalf("population: expected int, got %s", schema.Columns[7].Type)
	}
	fr, err := r.ReadAll(schema)
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 3 {
		t.Fatalf("expected 3 rows, got %d", fr.Rows())
	}
	hr, _ := fr.ColumnByName("health_region_code")
	if !hr.IsNull(2) {
		t.Fatal("empty cell should be null")
	}
}

func TestTypeOverride(t *testing.T) {
	p := writeFixture(t, "population.csv", populationCSV)
	fr, warn, err := ReadFile(p, ReaderOptions{
		HasHeader: true,
		Types:     map[string]frame.Kind{"health_region_code": frame.KindString},
	})
	if err != nil {
		t.Fatal(err)
	}
	if warn != "" {
		t.Fatalf("unexpected warnings: %s", warn)
	}
	col, _ := fr.ColumnByName("health_region_code")
	v, ok := col.(*frame.StringColumn).Get(0)
	if !ok || v != "11001" {
		t.Fatalf("got %q %v", v, ok)
	}
}

func TestSniffSemicolon(t *testing.T) {
	p := writeFixture(t, "semi.csv", "a;b\n1;x\n2;y\n")
	fr, _, err := ReadFile(p, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Cols() != 2 || fr.Rows() != 2 {
		t.Fatalf("got %dx%d", fr.Rows(), fr.Cols())
	}
}

func TestStrictShortRecord(t *testing.T) {
	p := writeFixture(t, "short.csv", "a,b\n1,2\n3\n")
	_, _, err := ReadFile(p, ReaderOptions{HasHeader: true, Strict: true})
	if err == nil || !strings.Contains(err.Error(), "short record") {
		t.Fatalf("expected short record error, got %v", err)
	}
	fr, warn, err := ReadFile(p, ReaderOptions{HasHeader: true})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Rows() != 2 || !strings.Contains(warn, "short_records=1") {
		t.Fatalf("rows=%d warn=%q", fr.Rows(), warn)
	}
}

func TestBadValueCounted(t *testing.T) {
	// sampled as int; the late non-numeric value cannot parse
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 5; i++ {
		b.WriteString("1\n")
	}
	b.WriteString("oops\n")
	p := writeFixture(t, "bad.csv", b.String())
	fr, warn, err := ReadFile(p, ReaderOptions{HasHeader: true, SampleRows: 2})
	if err != nil {
		t.Fatal(err)
	}
	col, _ := fr.ColumnByName("n")
	if !col.IsNull(5) || warn != "bad_values=1" {
		t.Fatalf("warn=%q", warn)
	}
}
