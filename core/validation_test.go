package core

import (
	"errors"
	"math"
	"testing"
)

func TestValidateBook(t *testing.T) {
	tests := []struct {
		name    string
		book    *Book
		wantErr error
	}{
		{
			name:    "valid book",
			book:    &Book{Id: 1, Title: "Dune"},
			wantErr: nil,
		},
		{
			name:    "only id is required",
			book:    &Book{Id: 7},
			wantErr: nil,
		},
		{
			name:    "nil book",
			book:    nil,
			wantErr: ErrInvalidBook,
		},
		{
			name:    "zero id",
			book:    &Book{Title: "Dune"},
			wantErr: ErrMissingID,
		},
		{
			name:    "id too large",
			book:    &Book{Id: MaxBookID + 1},
			wantErr: ErrInvalidBook,
		},
		{
			name:    "negative year",
			book:    &Book{Id: 1, PublishYear: -5},
			wantErr: ErrInvalidBook,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBook(tt.book)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateBook() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBook() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateEmbeddingRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *EmbeddingRecord
		dim     int
		wantErr error
	}{
		{
			name:   "valid record",
			record: &EmbeddingRecord{BookId: 1, Vector: []float32{1, 0, 0}},
			dim:    3,
		},
		{
			name:   "dimension unchecked when zero",
			record: &EmbeddingRecord{BookId: 1, Vector: []float32{1, 0}},
			dim:    0,
		},
		{
			name:    "nil record",
			wantErr: ErrInvalidEmbedding,
		},
		{
			name:    "zero id",
			record:  &EmbeddingRecord{Vector: []float32{1}},
			wantErr: ErrMissingID,
		},
		{
			name:    "empty vector",
			record:  &EmbeddingRecord{BookId: 1},
			wantErr: ErrEmptyVector,
		},
		{
			name:    "dimension mismatch",
			record:  &EmbeddingRecord{BookId: 1, Vector: []float32{1, 0}},
			dim:     3,
			wantErr: ErrDimensionMismatch,
		},
		{
			name:    "NaN component",
			record:  &EmbeddingRecord{BookId: 1, Vector: []float32{float32(math.NaN())}},
			wantErr: ErrNonFiniteVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmbeddingRecord(tt.record, tt.dim)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEmbeddingRecord() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEmbeddingRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateVector(t *testing.T) {
	tests := []struct {
		name    string
		vector  []float32
		wantErr error
	}{
		{name: "valid", vector: []float32{0.6, 0.8}},
		{name: "empty", vector: nil, wantErr: ErrEmptyVector},
		{name: "NaN", vector: []float32{float32(math.NaN()), 1}, wantErr: ErrNonFiniteVector},
		{name: "infinite", vector: []float32{1, float32(math.Inf(-1))}, wantErr: ErrNonFiniteVector},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVector(tt.vector)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateVector() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateVector() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
