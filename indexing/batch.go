package indexing

import (
	"context"
	"fmt"
	"time"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
	"github.com/AmanChauhan7010/bookfinder/vector"
)

// BatchResult counts what happened to one batch.
type BatchResult struct {
	Indexed int
	// Skipped counts books with no text to embed.
	Skipped int
}

// BatchProcessor embeds one batch of books and stores the vectors.
type BatchProcessor struct {
	repo           storage.EmbeddingRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
	normalize      bool
}

// NewBatchProcessor creates a processor. With normalize set every vector is
// scaled to unit length before it is stored.
func NewBatchProcessor(repo storage.EmbeddingRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration, normalize bool) *BatchProcessor {
	return &BatchProcessor{
		repo:           repo,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
		normalize:      normalize,
	}
}

// Process embeds books and writes their vectors in one repository call.
func (bp *BatchProcessor) Process(ctx context.Context, books []*core.Book) (BatchResult, error) {
	var result BatchResult

	texts := make([]string, 0, len(books))
	kept := make([]*core.Book, 0, len(books))
	for _, book := range books {
		text := book.EmbeddingText()
		if text == "" {
			result.Skipped++
			continue
		}
		texts = append(texts, text)
		kept = append(kept, book)
	}
	if len(kept) == 0 {
		return result, nil
	}

	// Generate embeddings with retry
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return result, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(kept) {
		return result, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(kept), len(embeddings))
	}

	records := make([]*core.EmbeddingRecord, len(kept))
	for i, book := range kept {
		v := embeddings[i]
		if bp.normalize {
			v = vector.Normalize(v)
		}
		records[i] = &core.EmbeddingRecord{BookId: book.Id, Vector: v}
	}

	if err := bp.repo.PutEmbeddings(ctx, records...); err != nil {
		return result, fmt.Errorf("failed to store embeddings: %w", err)
	}

	result.Indexed = len(records)
	return result, nil
}
