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

package search

import "errors"

var (
	// ErrEmbedderFactoryRequired is returned when an embedder factory is not provided.
	ErrEmbedderFactoryRequired = errors.New("embedder factory required")

	// ErrCorpusLoaderRequired is returned when a corpus loader is not provided.
	ErrCorpusLoaderRequired = errors.New("corpus loader required")

	// ErrBookFetcherRequired is returned when a book fetcher is not provided.
	ErrBookFetcherRequired = errors.New("book fetcher required")

	// ErrInvalidOverfetch is returned for an over-fetch factor below 1.
	ErrInvalidOverfetch = errors.New("over-fetch factor must be at least 1")
)
