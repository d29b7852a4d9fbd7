package core

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/JonMunkholm/roster/internal/codec"
	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/student"
)

// ============================================================================
// Validation Benchmarks
// ============================================================================

// BenchmarkValidateRecord benchmarks full-record validation.
// Import runs this once per decoded record.
func BenchmarkValidateRecord(b *testing.B) {
	bad := ana
	bad.Email = "sin-arroba"
	bad.Mobile = "123"

	b.Run("valid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			student.ValidateRecord(ana)
		}
	})

	b.Run("invalid", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			student.ValidateRecord(bad)
		}
	})
}

// BenchmarkValidateField benchmarks the per-keystroke path.
func BenchmarkValidateField(b *testing.B) {
	svc := NewService(nil, testImportConfig())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		svc.ValidateField("email", "ana.maria@universidad.edu.co")
	}
}

// ============================================================================
// Codec Benchmarks
// ============================================================================

// BenchmarkDecode benchmarks decoding 1000 records in every format.
func BenchmarkDecode(b *testing.B) {
	records := generateTestRecords(1000)

	for _, f := range codec.Formats() {
		c := codec.Must(f)
		data, err := c.Encode(records)
		if err != nil {
			b.Fatalf("encode %s: %v", f, err)
		}

		b.Run(f.Name(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				c.Decode(data)
			}
		})
	}
}

// BenchmarkEncode benchmarks encoding 1000 records in every format.
func BenchmarkEncode(b *testing.B) {
	records := generateTestRecords(1000)

	for _, f := range codec.Formats() {
		c := codec.Must(f)
		b.Run(f.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				c.Encode(records)
			}
		})
	}
}

// BenchmarkNormalizeEncoding benchmarks BOM handling on a large file.
func BenchmarkNormalizeEncoding(b *testing.B) {
	data, _ := codec.Must(codec.FormatCSV).Encode(generateTestRecords(5000))
	withBOM := append([]byte("\xef\xbb\xbf"), data...)

	b.Run("plain", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		for i := 0; i < b.N; i++ {
			NormalizeEncoding(data)
		}
	})

	b.Run("bom", func(b *testing.B) {
		b.SetBytes(int64(len(withBOM)))
		for i := 0; i < b.N; i++ {
			NormalizeEncoding(withBOM)
		}
	})
}

// ============================================================================
// Service Benchmarks
// ============================================================================

// BenchmarkImport benchmarks the full import path for a 500-record CSV.
func BenchmarkImport(b *testing.B) {
	data, _ := codec.Must(codec.FormatCSV).Encode(generateTestRecords(500))
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		svc := NewService(nil, testImportConfig())
		if _, err := svc.Import(ctx, "estudiantes.csv", bytes.NewReader(data)); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAnalyzeRecords benchmarks preview analysis with duplicates.
func BenchmarkAnalyzeRecords(b *testing.B) {
	records := generateTestRecords(1000)
	records = append(records, records[:100]...)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		AnalyzeRecords(records, maxErrorSamples, maxDuplicateSamples)
	}
}

// ============================================================================
// Parallel Benchmarks
// ============================================================================

// BenchmarkStoreParallel benchmarks concurrent appends against reads.
func BenchmarkStoreParallel(b *testing.B) {
	store := NewRecordStore()

	b.RunParallel(func(pb *testing.PB) {
		n := 0
		for pb.Next() {
			if n%10 == 0 {
				store.Append(ana)
			} else {
				store.Count()
			}
			n++
		}
	})
}

// BenchmarkValidateRecordParallel benchmarks validation across goroutines.
func BenchmarkValidateRecordParallel(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			student.ValidateRecord(ana)
		}
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// generateTestRecords generates valid records with distinct codes.
func generateTestRecords(n int) []student.Record {
	records := make([]student.Record, n)
	for i := range records {
		rec := ana
		rec.Code = fmt.Sprintf("%08d", 10000000+i)
		records[i] = rec
	}
	return records
}

func testImportConfig() config.ImportConfig {
	return config.ImportConfig{
		MaxFileSize:   10 << 20,
		MaxConcurrent: 4,
		MaxWaitTime:   time.Second,
	}
}
