package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic for
// a fixed model version.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Failures are reported wrapped in core.ErrModelUnavailable.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// An empty input yields an empty result and never an error.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFactory loads an embedding model and returns an Embedder bound to it.
// Loading may be slow (connecting to a model server, probing the model), so
// callers invoke a factory lazily and at most once per process.
// Failures are reported wrapped in core.ErrModelUnavailable.
type EmbedderFactory func(ctx context.Context) (Embedder, error)

// StaticFactory returns an EmbedderFactory that always yields e.
func StaticFactory(e Embedder) EmbedderFactory {
	return func(context.Context) (Embedder, error) {
		return e, nil
	}
}
