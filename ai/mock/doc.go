// Package mock provides test double implementations of the ai interfaces.
//
// The mocks let tests run without an embedding service and give controlled,
// deterministic behavior.
//
// # Usage in Tests
//
//	// Default behavior: deterministic unit vectors derived from a text hash
//	embedder := mock.NewMockEmbedder()
//	v, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	embedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return []float32{0.1, 0.2, 0.3}, nil
//	    })
//
//	// Wire into a searcher and check call counts
//	searcher, _ := search.NewSearcher(embedder.Factory(), loader, books)
//	count := embedder.CallCount()
//
//	// Simulate a model that never loads
//	factory := mock.FailingFactory(core.ErrModelUnavailable)
package mock
