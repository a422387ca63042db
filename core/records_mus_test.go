package core

import (
	"errors"
	"testing"
)

func TestEmbeddingRecordMUS(t *testing.T) {
	record := EmbeddingRecord{BookId: 300, Vector: []float32{0.25, -1.5, 3}}

	buf := make([]byte, EmbeddingRecordMUS.Size(record))
	n := EmbeddingRecordMUS.Marshal(record, buf)
	if n != len(buf) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(buf))
	}

	got, read, err := EmbeddingRecordMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if read != n {
		t.Errorf("Unmarshal read %d bytes, want %d", read, n)
	}
	if got.BookId != record.BookId || len(got.Vector) != len(record.Vector) {
		t.Fatalf("Unmarshal = %+v, want %+v", got, record)
	}
	for i := range record.Vector {
		if got.Vector[i] != record.Vector[i] {
			t.Errorf("component %d = %v, want %v", i, got.Vector[i], record.Vector[i])
		}
	}

	skipped, err := EmbeddingRecordMUS.Skip(buf)
	if err != nil || skipped != n {
		t.Errorf("Skip = (%d, %v), want (%d, nil)", skipped, err, n)
	}
}

func TestEmbeddingRecordMUS_TruncatedVector(t *testing.T) {
	record := EmbeddingRecord{BookId: 1, Vector: []float32{1, 2, 3, 4}}
	buf := make([]byte, EmbeddingRecordMUS.Size(record))
	EmbeddingRecordMUS.Marshal(record, buf)

	_, _, err := EmbeddingRecordMUS.Unmarshal(buf[:len(buf)-5])
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("Unmarshal of truncated record error = %v, want %v", err, ErrMalformedRecord)
	}
}
