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


// Package storage provides the storage abstraction layer for bookfinder.
//
// Two stores back the application:
//
//   - BookRepository: book metadata (title, author, ISBN, ...), implemented
//     on SQLite by the storage/sqlite package
//   - EmbeddingRepository: one precomputed vector per book, implemented on
//     BadgerDB by the storage/badger package
//
// The search path reads both stores but never writes them. BookFetcher is
// the narrow read interface it depends on.
//
// # Usage
//
//	books, err := sqlite.NewBookRepository("/path/to/books.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer books.Close()
//
//	backend, err := badger.OpenBackend("/path/to/embeddings", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	embeddings, err := badger.NewEmbeddingRepository(backend)
//
// Use in tests with in-memory storage:
//
//	embeddings, backend, err := badger.NewMemoryEmbeddingRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
