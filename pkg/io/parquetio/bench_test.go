package parquetio

import (
	"path/filepath"
	"testing"
)

func BenchmarkParquetWrite(b *testing.B) {
	f := makeFrame(50000)
	path := filepath.Join(b.TempDir(), "bench.parquet")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteAll(path, f, WriterOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}
