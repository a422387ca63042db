package indexing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/AmanChauhan7010/bookfinder/ai/mock"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
	"github.com/AmanChauhan7010/bookfinder/storage/badger"
	"github.com/AmanChauhan7010/bookfinder/storage/sqlite"
	"github.com/AmanChauhan7010/bookfinder/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStores(t *testing.T) (*sqlite.BookRepository, *badger.EmbeddingRepository) {
	t.Helper()

	books, err := sqlite.NewBookRepository(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { books.Close() })

	embeddings, backend, err := badger.NewMemoryEmbeddingRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return books, embeddings
}

func testBooks(n int) []*core.Book {
	books := make([]*core.Book, n)
	for i := range books {
		books[i] = &core.Book{
			Id:          core.BookID(i + 1),
			Title:       fmt.Sprintf("Book %d", i+1),
			Author:      fmt.Sprintf("Author %d", i%3),
			PublishYear: 1990 + i,
			Genre:       "Fiction",
		}
	}
	return books
}

func addBooks(t *testing.T, repo storage.BookRepository, n int) {
	t.Helper()
	_, err := repo.AddBooks(context.Background(), testBooks(n)...)
	require.NoError(t, err)
}

func testConfig() *Config {
	config := DefaultConfig()
	config.BatchSize = 2
	config.Workers = 2
	config.ReportInterval = 1
	config.RetryDelay = time.Millisecond
	return config
}

func newTestIndexer(t *testing.T, books storage.BookRepository, embeddings storage.EmbeddingRepository, embedder *mock.MockEmbedder, config *Config, opts ...Option) *Indexer {
	t.Helper()
	ix, err := NewIndexer(books, embeddings, embedder, append([]Option{WithConfig(config)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(ix.Release)
	return ix
}

func TestNewIndexer_RequiredArguments(t *testing.T) {
	books, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder()

	_, err := NewIndexer(nil, embeddings, embedder)
	assert.ErrorIs(t, err, ErrBookRepositoryRequired)

	_, err = NewIndexer(books, nil, embedder)
	assert.ErrorIs(t, err, ErrEmbeddingRepositoryRequired)

	_, err = NewIndexer(books, embeddings, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestIndexer_Run(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 7)
	embedder := mock.NewMockEmbedder().WithDimension(16)

	var progress bytes.Buffer
	ix := newTestIndexer(t, books, embeddings, embedder, testConfig(), WithProgress(&progress))
	ctx := context.Background()

	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 7, stats.Indexed)
	assert.Zero(t, stats.Skipped)

	ids, vectors, err := embeddings.LoadEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.BookID{1, 2, 3, 4, 5, 6, 7}, ids)
	for _, v := range vectors {
		assert.Len(t, v, 16)
		assert.InDelta(t, 1.0, vector.Norm(v), 1e-5)
	}

	out := progress.String()
	assert.Contains(t, out, "Indexing 7 books")
	assert.Contains(t, out, "7/7")
	assert.Contains(t, out, "Indexing complete")
}

func TestIndexer_EmptyStore(t *testing.T) {
	books, embeddings := newTestStores(t)
	embedder := mock.NewMockEmbedder()

	var progress bytes.Buffer
	ix := newTestIndexer(t, books, embeddings, embedder, testConfig(), WithProgress(&progress))

	stats, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Indexed)
	assert.Zero(t, embedder.CallCount())
	assert.Contains(t, progress.String(), "No books found")
}

func TestIndexer_SkipsBooksWithoutText(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 3)
	_, err := books.AddBooks(context.Background(), &core.Book{Id: 10})
	require.NoError(t, err)

	ix := newTestIndexer(t, books, embeddings, mock.NewMockEmbedder().WithDimension(8), testConfig())

	stats, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Indexed)
	assert.Equal(t, 1, stats.Skipped)
}

func TestIndexer_Incremental(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 4)
	embedder := mock.NewMockEmbedder().WithDimension(8)
	ctx := context.Background()

	config := testConfig()
	config.Incremental = true
	ix := newTestIndexer(t, books, embeddings, embedder, config)

	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Indexed)
	calls := embedder.CallCount()

	addBooks(t, books, 5)

	stats, err = ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 4, stats.Existing)
	assert.Equal(t, 1, stats.Indexed)
	assert.Equal(t, calls+1, embedder.CallCount(), "only the new book should be embedded")
}

func TestIndexer_Prune(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 3)
	ctx := context.Background()
	embedder := mock.NewMockEmbedder().WithDimension(8)

	stale, err := embedder.EmbedText(ctx, "gone")
	require.NoError(t, err)
	require.NoError(t, embeddings.PutEmbeddings(ctx, &core.EmbeddingRecord{BookId: 99, Vector: stale}))

	config := testConfig()
	config.Prune = true
	ix := newTestIndexer(t, books, embeddings, embedder, config)

	stats, err := ix.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Indexed)
	assert.Equal(t, 1, stats.Pruned)

	_, err = embeddings.GetEmbedding(ctx, 99)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	count, err := embeddings.CountEmbeddings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIndexer_BatchFailure(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 6)

	boom := errors.New("model offline")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, boom
	}

	config := testConfig()
	config.MaxRetries = 1
	ix := newTestIndexer(t, books, embeddings, embedder, config)

	_, err := ix.Run(context.Background())
	assert.ErrorIs(t, err, boom)

	count, err := embeddings.CountEmbeddings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexer_ContextCanceled(t *testing.T) {
	books, embeddings := newTestStores(t)
	addBooks(t, books, 3)
	embedder := mock.NewMockEmbedder()
	ix := newTestIndexer(t, books, embeddings, embedder, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ix.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, embedder.CallCount())
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, DefaultBatchSize, config.BatchSize)
	assert.Equal(t, 3, config.MaxRetries)
	assert.GreaterOrEqual(t, config.Workers, 1)
	assert.True(t, config.Normalize)
	assert.False(t, config.Incremental)
	assert.False(t, config.Prune)
}
