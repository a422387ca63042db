// Package vector holds the small amount of linear algebra the ranker and the
// indexing pipeline need: dot products, norms, cosine similarity and
// normalization over float32 embeddings.
//
// Accumulation happens in float64 so that long embeddings (hundreds to
// thousands of components) do not lose precision before the final score is
// narrowed back to float32.
package vector
