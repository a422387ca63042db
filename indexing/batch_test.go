package indexing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AmanChauhan7010/bookfinder/ai/mock"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchProcessor_Process(t *testing.T) {
	_, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder().WithDimension(8)
	bp := NewBatchProcessor(embeddings, embedder, 3, time.Millisecond, true)
	ctx := context.Background()

	result, err := bp.Process(ctx, testBooks(3))
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Indexed: 3}, result)

	count, err := embeddings.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	dim, err := embeddings.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, dim)
}

func TestBatchProcessor_SkipsBooksWithoutText(t *testing.T) {
	_, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder().WithDimension(8)
	bp := NewBatchProcessor(embeddings, embedder, 3, time.Millisecond, true)

	books := append(testBooks(2), &core.Book{Id: 50})
	result, err := bp.Process(context.Background(), books)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Indexed: 2, Skipped: 1}, result)

	_, err = embeddings.GetEmbedding(context.Background(), 50)
	assert.Error(t, err)
}

func TestBatchProcessor_AllSkipped(t *testing.T) {
	_, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder()
	bp := NewBatchProcessor(embeddings, embedder, 3, time.Millisecond, true)

	result, err := bp.Process(context.Background(), []*core.Book{{Id: 1}, {Id: 2, Title: "  "}})
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Skipped: 2}, result)
	assert.Zero(t, embedder.CallCount(), "embedder should not be called")
}

func TestBatchProcessor_Normalize(t *testing.T) {
	fixed := func(context.Context, string) ([]float32, error) {
		return []float32{3, 4}, nil
	}

	t.Run("enabled", func(t *testing.T) {
		_, embeddings := newTestStores(t)
		embedder := mock.NewMockEmbedder().WithEmbedTextFunc(fixed)
		bp := NewBatchProcessor(embeddings, embedder, 1, time.Millisecond, true)

		_, err := bp.Process(context.Background(), testBooks(1))
		require.NoError(t, err)

		rec, err := embeddings.GetEmbedding(context.Background(), 1)
		require.NoError(t, err)
		assert.InDelta(t, 0.6, rec.Vector[0], 1e-6)
		assert.InDelta(t, 0.8, rec.Vector[1], 1e-6)
	})

	t.Run("disabled", func(t *testing.T) {
		_, embeddings := newTestStores(t)
		embedder := mock.NewMockEmbedder().WithEmbedTextFunc(fixed)
		bp := NewBatchProcessor(embeddings, embedder, 1, time.Millisecond, false)

		_, err := bp.Process(context.Background(), testBooks(1))
		require.NoError(t, err)

		rec, err := embeddings.GetEmbedding(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, []float32{3, 4}, rec.Vector)
	})
}

func TestBatchProcessor_RetriesEmbedder(t *testing.T) {
	_, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder().WithDimension(8)
	inner := mock.NewMockEmbedder().WithDimension(8)
	failures := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures < 2 {
			failures++
			return nil, errors.New("temporary")
		}
		return inner.EmbedTexts(ctx, texts)
	}
	bp := NewBatchProcessor(embeddings, embedder, 3, time.Millisecond, true)

	result, err := bp.Process(context.Background(), testBooks(2))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Indexed)
	assert.Equal(t, 3, embedder.CallCount())
}

func TestBatchProcessor_EmbedderFailure(t *testing.T) {
	_, embeddings := newTestStores(t)
	boom := errors.New("boom")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	}
	bp := NewBatchProcessor(embeddings, embedder, 2, time.Millisecond, true)

	result, err := bp.Process(context.Background(), testBooks(2))
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, result.Indexed)
	assert.Equal(t, 2, embedder.CallCount())
}

func TestBatchProcessor_CountMismatch(t *testing.T) {
	_, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil
	}
	bp := NewBatchProcessor(embeddings, embedder, 1, time.Millisecond, true)

	_, err := bp.Process(context.Background(), testBooks(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding count mismatch")
}

func TestBatchProcessor_DimensionConflict(t *testing.T) {
	_, embeddings := newTestStores(t)
	ctx := context.Background()
	require.NoError(t, embeddings.PutEmbeddings(ctx, &core.EmbeddingRecord{BookId: 99, Vector: []float32{1, 0, 0}}))

	embedder := mock.NewMockEmbedder().WithDimension(8)
	bp := NewBatchProcessor(embeddings, embedder, 1, time.Millisecond, true)

	_, err := bp.Process(ctx, testBooks(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store embeddings")
}
