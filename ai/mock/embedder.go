package mock

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/vector"
)

// DefaultDimension is the vector length produced by the default behavior.
const DefaultDimension = 384

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedTextFunc is called by EmbedText if set.
	// If nil, uses default deterministic behavior.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc is called by EmbedTexts if set.
	// If nil, EmbedTexts embeds each text through EmbedText's logic.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension is the length of default vectors.
	Dimension int

	callCount atomic.Int64
}

var _ ai.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{Dimension: DefaultDimension}
}

// WithEmbedTextFunc sets EmbedTextFunc and returns the mock for chaining.
func (m *MockEmbedder) WithEmbedTextFunc(fn func(ctx context.Context, text string) ([]float32, error)) *MockEmbedder {
	m.EmbedTextFunc = fn
	return m
}

// WithDimension sets the default vector length and returns the mock for chaining.
func (m *MockEmbedder) WithDimension(dim int) *MockEmbedder {
	m.Dimension = dim
	return m
}

// EmbedText generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount.Add(1)
	return m.embedOne(ctx, text)
}

// EmbedTexts generates deterministic embeddings for multiple texts.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount.Add(1)

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = v
	}
	return embeddings, nil
}

func (m *MockEmbedder) embedOne(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	dim := m.Dimension
	if dim <= 0 {
		dim = DefaultDimension
	}
	return generateDeterministicVector(text, dim), nil
}

// Factory returns an ai.EmbedderFactory that always yields this mock.
func (m *MockEmbedder) Factory() ai.EmbedderFactory {
	return ai.StaticFactory(m)
}

// CallCount returns the number of times any method was called.
func (m *MockEmbedder) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockEmbedder) Reset() {
	m.callCount.Store(0)
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// FailingFactory returns an ai.EmbedderFactory that always fails with err.
func FailingFactory(err error) ai.EmbedderFactory {
	return func(context.Context) (ai.Embedder, error) {
		return nil, err
	}
}

// generateDeterministicVector creates a deterministic unit vector from text.
// It uses FNV hash to ensure the same text always produces the same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	v := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		v[i] = float32(seed%1000)/500.0 - 1.0
	}

	return vector.Normalize(v)
}
