// Package indexing builds the embedding store from the book store.
//
// The Indexer pages through every book, turns each one into embedding text
// (title, author, genre, description), embeds the texts in batches on a
// worker pool, and writes one vector per book to the EmbeddingRepository.
// Failed batches are retried with exponential backoff. Progress is written
// to an io.Writer as the run advances.
//
// Indexing is an offline job. The search path only ever reads the store it
// produces; run Searcher.Reload afterwards to pick up the new vectors.
package indexing
