// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
)

// ValidateBook validates a Book according to domain rules.
//
// Validation rules:
//   - Id must not be zero and must not exceed MaxBookID
//   - PublishYear must not be negative
//
// Everything else is optional metadata and has a display fallback.
func ValidateBook(book *Book) error {
	if book == nil {
		return fmt.Errorf("%w: book is nil", ErrInvalidBook)
	}

	if book.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBook, ErrMissingID)
	}

	if book.Id > MaxBookID {
		return fmt.Errorf("%w: id %d exceeds %d", ErrInvalidBook, book.Id, MaxBookID)
	}

	if book.PublishYear < 0 {
		return fmt.Errorf("%w: negative publish year %d", ErrInvalidBook, book.PublishYear)
	}

	return nil
}

// ValidateEmbeddingRecord validates an EmbeddingRecord.
//
// Validation rules:
//   - BookId must not be zero
//   - Vector must not be empty
//   - Vector must have dim components when dim > 0
//   - Vector components must be finite
func ValidateEmbeddingRecord(record *EmbeddingRecord, dim int) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidEmbedding)
	}

	if record.BookId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrMissingID)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyVector)
	}

	if dim > 0 && len(record.Vector) != dim {
		return fmt.Errorf("%w: %w: book %d has %d components, expected %d",
			ErrInvalidEmbedding, ErrDimensionMismatch, record.BookId, len(record.Vector), dim)
	}

	if err := ValidateVector(record.Vector); err != nil {
		return fmt.Errorf("%w: %w: book %d", ErrInvalidEmbedding, err, record.BookId)
	}

	return nil
}

// ValidateVector reports ErrEmptyVector or ErrNonFiniteVector for a vector
// that cannot be scored.
func ValidateVector(v []float32) error {
	if len(v) == 0 {
		return ErrEmptyVector
	}
	for _, x := range v {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return ErrNonFiniteVector
		}
	}
	return nil
}
