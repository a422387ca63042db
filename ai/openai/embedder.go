package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// probeText is encoded once at load time when ProbeOnLoad is set.
const probeText = "probe"

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder  embeddings.Embedder
	dimension int
	logger    *slog.Logger
}

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
	}

	// Create OpenAI client configured for embeddings
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(config.Token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
	}

	// Wrap in langchaingo embedder
	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
	}

	return &Embedder{
		embedder:  embedder,
		dimension: config.Dimension,
		logger:    slog.Default().With("component", "openai-embedder", "model", config.EmbeddingModel),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
// It does not contact the model server.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// NewFactory returns an ai.EmbedderFactory that builds an Embedder from config
// and, when config.ProbeOnLoad is set, verifies the model answers before
// returning it.
func NewFactory(config *ai.Config) ai.EmbedderFactory {
	return func(ctx context.Context) (ai.Embedder, error) {
		e, err := newEmbedder(config)
		if err != nil {
			return nil, err
		}
		if config.ProbeOnLoad {
			if _, err := e.EmbedText(ctx, probeText); err != nil {
				return nil, err
			}
			e.logger.Info("embedding model ready")
		}
		return e, nil
	}
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return nil, fmt.Errorf("%w: empty embedding result", core.ErrModelUnavailable)
	}

	return vectors[0], nil
}

// EmbedTexts generates vector embeddings for multiple text strings in a batch.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrModelUnavailable, err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embedding result mismatch: expected %d, received %d",
			core.ErrModelUnavailable, len(texts), len(vectors))
	}

	if e.dimension > 0 {
		for i, v := range vectors {
			if len(v) != e.dimension {
				return nil, fmt.Errorf("%w: %w: text %d has %d components, expected %d",
					core.ErrModelUnavailable, core.ErrDimensionMismatch, i, len(v), e.dimension)
			}
		}
	}

	return vectors, nil
}
