// Package corpus holds the in-memory embedding store searched by every query.
//
// A Store is built once from parallel id and vector slices, validated, and
// then shared read-only. Refreshing the corpus means loading a new Store and
// swapping it in; there is no mutation API.
//
// Loaders produce Stores. RepositoryLoader reads them from a
// storage.EmbeddingRepository:
//
//	loader, err := corpus.NewRepositoryLoader(embeddings)
//	store, err := loader.Load(ctx)
//
// Every loader failure wraps core.ErrCorpusUnavailable.
package corpus
