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

// Package search turns a free-text description into a ranked list of
// unique books.
//
// A query runs through four stages:
//   - the embedding model encodes the query text
//   - the ranker scores it against every vector in the corpus and keeps
//     limit * overfetch candidates
//   - the book store resolves the candidates to metadata in one batch
//   - dedupe drops duplicate editions and truncates to limit
//
// The model and corpus are loaded lazily on first use, at most once, and
// then shared read-only by all queries. A load failure is remembered:
// later queries fail fast with core.ErrSearchUnavailable until Reload or
// Reset is called.
package search
