package indexing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

// Config holds indexing parameters.
type Config struct {
	// BatchSize is the number of books embedded per request
	BatchSize int

	// ReportInterval is how often to report progress (number of books)
	ReportInterval int

	// MaxRetries is the maximum number of attempts per batch
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Workers is the number of batches embedded concurrently
	Workers int

	// Normalize scales every vector to unit length before storing it
	Normalize bool

	// Incremental skips books that already have an embedding
	Incremental bool

	// Prune deletes embeddings of books no longer in the book store
	Prune bool
}

// DefaultConfig returns the default indexing configuration.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		Workers:        max(runtime.NumCPU()/2, 1),
		Normalize:      true,
	}
}

// Stats summarizes an indexing run.
type Stats struct {
	Total    int
	Indexed  int
	Skipped  int
	Existing int
	Pruned   int
	Elapsed  time.Duration
}

// Indexer fills the embedding store from the book store.
type Indexer struct {
	books      storage.BookRepository
	embeddings storage.EmbeddingRepository
	config     *Config
	progress   io.Writer
	pool       *ants.Pool
	processor  *BatchProcessor
	iterator   *BookIterator
	logger     *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(ix *Indexer) error {
		if config != nil {
			ix.config = config
		}
		return nil
	}
}

// WithProgress sets where progress lines are written. Default discards them.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) error {
		if w == nil {
			w = io.Discard
		}
		ix.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// NewIndexer creates an indexer. Call Release when done.
func NewIndexer(
	books storage.BookRepository,
	embeddings storage.EmbeddingRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Indexer, error) {
	if books == nil {
		return nil, ErrBookRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Indexer{
		books:      books,
		embeddings: embeddings,
		config:     DefaultConfig(),
		progress:   io.Discard,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	ix.logger = ix.logger.With("component", "indexer")

	pool, err := ants.NewPool(max(ix.config.Workers, 1))
	if err != nil {
		return nil, err
	}
	ix.pool = pool
	ix.processor = NewBatchProcessor(embeddings, embedder, ix.config.MaxRetries, ix.config.RetryDelay, ix.config.Normalize)
	ix.iterator = NewBookIterator(books, ix.config.BatchSize)

	return ix, nil
}

// Release releases the worker pool.
// The indexer should not be used after calling Release.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Run indexes every book. The first failed batch cancels the rest and its
// error is returned; batches already stored stay stored.
func (ix *Indexer) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	total, err := ix.books.CountBooks(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to count books: %w", err)
	}
	stats.Total = total

	existing := map[core.BookID]struct{}{}
	if ix.config.Incremental || ix.config.Prune {
		if existing, err = ix.existingIDs(ctx); err != nil {
			return stats, err
		}
	}

	if total == 0 {
		fmt.Fprintf(ix.progress, "No books found in the book store (0 books)\n")
	} else {
		fmt.Fprintf(ix.progress, "Indexing %d books (batch size: %d, workers: %d)\n",
			total, ix.iterator.batchSize, ix.pool.Cap())
	}

	tracker := NewProgressTracker(ix.progress, total, ix.config.ReportInterval)
	tracker.Start()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	seen := make(map[core.BookID]struct{}, total)

	iterErr := ix.iterator.ForEach(runCtx, func(batch []*core.Book) error {
		todo := make([]*core.Book, 0, len(batch))
		for _, book := range batch {
			seen[book.Id] = struct{}{}
			if _, ok := existing[book.Id]; ok && ix.config.Incremental {
				stats.Existing++
				continue
			}
			todo = append(todo, book)
		}
		tracker.Increment(len(batch) - len(todo))
		if len(todo) == 0 {
			return nil
		}

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()
			res, err := ix.processor.Process(runCtx, todo)

			mu.Lock()
			stats.Indexed += res.Indexed
			stats.Skipped += res.Skipped
			mu.Unlock()
			tracker.Increment(len(todo))

			if err != nil {
				ix.logger.Error("batch failed", "first_book", todo[0].Id, "size", len(todo), "err", err)
				cancel(err)
			}
		})
		if submitErr != nil {
			wg.Done()
			return submitErr
		}
		return nil
	})
	wg.Wait()

	if cause := context.Cause(runCtx); cause != nil && ctx.Err() == nil {
		// A batch failed; report it rather than the cancellation it caused.
		return stats, cause
	}
	if iterErr != nil {
		return stats, iterErr
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if ix.config.Prune {
		if err := ix.prune(ctx, existing, seen, &stats); err != nil {
			return stats, err
		}
	}

	tracker.Finish()
	stats.Elapsed = tracker.Elapsed()
	fmt.Fprintf(ix.progress, "Indexing complete. Embedded %d books in %v (%d skipped, %d already indexed, %d pruned)\n",
		stats.Indexed, stats.Elapsed.Round(time.Millisecond), stats.Skipped, stats.Existing, stats.Pruned)
	ix.logger.Info("indexing complete",
		"total", stats.Total,
		"indexed", stats.Indexed,
		"skipped", stats.Skipped,
		"existing", stats.Existing,
		"pruned", stats.Pruned,
		"elapsed", stats.Elapsed)

	return stats, nil
}

// existingIDs returns the ids that already have an embedding.
func (ix *Indexer) existingIDs(ctx context.Context) (map[core.BookID]struct{}, error) {
	ids, _, err := ix.embeddings.LoadEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing embeddings: %w", err)
	}
	set := make(map[core.BookID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// prune deletes embeddings that existed before the run for books the run
// did not see.
func (ix *Indexer) prune(ctx context.Context, existing, seen map[core.BookID]struct{}, stats *Stats) error {
	var stale []core.BookID
	for id := range existing {
		if _, ok := seen[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := ix.embeddings.DeleteEmbeddings(ctx, stale...); err != nil {
		return fmt.Errorf("failed to prune embeddings: %w", err)
	}
	stats.Pruned = len(stale)
	ix.logger.Info("pruned stale embeddings", "count", len(stale))
	return nil
}
