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

import "errors"

// Availability errors. These are matched with errors.Is; callers usually see
// them wrapped with more detail.
var (
	// ErrModelUnavailable indicates the embedding model failed to initialize
	// or failed to encode a specific input.
	ErrModelUnavailable = errors.New("embedding model unavailable")

	// ErrCorpusUnavailable indicates the embedding corpus is missing or malformed.
	ErrCorpusUnavailable = errors.New("embedding corpus unavailable")

	// ErrSearchUnavailable is returned by the search facade when either the
	// model or the corpus could not be loaded.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// Domain validation errors
var (
	// ErrInvalidBook indicates a Book failed validation.
	ErrInvalidBook = errors.New("invalid book")

	// ErrInvalidEmbedding indicates an EmbeddingRecord failed validation.
	ErrInvalidEmbedding = errors.New("invalid embedding record")

	// ErrMissingID indicates a zero BookID.
	ErrMissingID = errors.New("book id cannot be zero")

	// ErrEmptyVector indicates an embedding with no components.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrDimensionMismatch indicates a vector whose length differs from the
	// dimension of the rest of the corpus.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNonFiniteVector indicates a vector containing NaN or Inf.
	ErrNonFiniteVector = errors.New("vector contains non-finite values")
)
