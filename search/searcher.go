package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/corpus"
	"github.com/AmanChauhan7010/bookfinder/dedupe"
	"github.com/AmanChauhan7010/bookfinder/rank"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

// DefaultOverfetch is how many candidates are ranked per requested result,
// leaving room for duplicate editions to be dropped.
const DefaultOverfetch = 3

// Searcher finds books by semantic similarity to a free-text description.
// It is safe for concurrent use.
type Searcher struct {
	model  *lazy[ai.Embedder]
	corpus *lazy[*corpus.Store]
	books  storage.BookFetcher

	ranker       rank.Ranker
	selector     *dedupe.Selector
	monitor      SearchMonitor
	overfetch    int
	maxWidenings int
	timeout      time.Duration
	logger       *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithOverfetchFactor sets how many candidates are ranked per requested
// result. Default is DefaultOverfetch.
func WithOverfetchFactor(factor int) Option {
	return func(s *Searcher) error {
		if factor < 1 {
			return ErrInvalidOverfetch
		}
		s.overfetch = factor
		return nil
	}
}

// WithMaxWidenings lets a search that found fewer than limit unique books
// rank again with a doubled over-fetch factor, up to n more times. Widening
// stops early once the whole corpus has been ranked. Default is 0 (best
// effort at the base factor).
func WithMaxWidenings(n int) Option {
	return func(s *Searcher) error {
		if n < 0 {
			n = 0
		}
		s.maxWidenings = n
		return nil
	}
}

// WithTimeout bounds each search, including a first-use model or corpus
// load. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		s.timeout = timeout
		return nil
	}
}

// WithRanker replaces the default sequential LinearRanker.
func WithRanker(ranker rank.Ranker) Option {
	return func(s *Searcher) error {
		if ranker != nil {
			s.ranker = ranker
		}
		return nil
	}
}

// WithMonitor sets the monitor used by Search.
func WithMonitor(monitor SearchMonitor) Option {
	return func(s *Searcher) error {
		s.monitor = monitor
		return nil
	}
}

// NewSearcher creates a new searcher. Neither the model nor the corpus is
// loaded until the first search, or until Reload is called.
func NewSearcher(
	factory ai.EmbedderFactory,
	loader corpus.Loader,
	books storage.BookFetcher,
	opts ...Option,
) (*Searcher, error) {
	if factory == nil {
		return nil, ErrEmbedderFactoryRequired
	}
	if loader == nil {
		return nil, ErrCorpusLoaderRequired
	}
	if books == nil {
		return nil, ErrBookFetcherRequired
	}

	s := &Searcher{
		books:     books,
		overfetch: DefaultOverfetch,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "searcher")

	if s.ranker == nil {
		ranker, err := rank.NewLinearRanker(rank.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.ranker = ranker
	}

	selector, err := dedupe.NewSelector(dedupe.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.selector = selector

	s.model = newLazy(func(ctx context.Context) (ai.Embedder, error) {
		embedder, err := factory(ctx)
		if err == nil && embedder == nil {
			err = errors.New("factory returned no embedder")
		}
		if err != nil {
			s.logger.Error("failed to load embedding model", "err", err)
			return nil, asUnavailable(core.ErrModelUnavailable, err)
		}
		s.logger.Info("embedding model loaded")
		return embedder, nil
	})
	s.corpus = newLazy(func(ctx context.Context) (*corpus.Store, error) {
		store, err := loader.Load(ctx)
		if err == nil && store == nil {
			err = errors.New("loader returned no corpus")
		}
		if err != nil {
			s.logger.Error("failed to load embedding corpus", "err", err)
			return nil, asUnavailable(core.ErrCorpusUnavailable, err)
		}
		return store, nil
	})

	return s, nil
}

// asUnavailable makes sure err matches sentinel under errors.Is.
func asUnavailable(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Search returns at most limit unique books ordered by descending similarity
// to query. A blank query or limit <= 0 yields an empty result and no error.
// If the model or corpus is unavailable the result is empty and the error
// wraps core.ErrSearchUnavailable.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]core.Result, error) {
	return s.SearchWithMonitor(ctx, query, limit, s.monitor)
}

// SearchWithMonitor is Search with a monitor receiving callbacks at each
// stage of the search process.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, limit int, monitor SearchMonitor) ([]core.Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query = normalizeQuery(query)
	if limit <= 0 || query == "" {
		return []core.Result{}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	monitor.Start(query, limit)

	embedder, store, err := s.resources(ctx)
	if err != nil {
		return []core.Result{}, err
	}

	// 1. Encode the query
	queryVector, err := embedder.EmbedText(ctx, query)
	if err == nil {
		err = core.ValidateVector(queryVector)
	}
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return []core.Result{}, fmt.Errorf("%w: %w", core.ErrSearchUnavailable, asUnavailable(core.ErrModelUnavailable, err))
	}
	monitor.AfterEncode(queryVector)

	// 2. Rank, fetch metadata, and dedupe, widening if allowed
	books := make(map[core.BookID]*core.Book)
	fetched := 0
	factor := s.overfetch
	var (
		results   []core.Result
		selection *selectionLog
	)

	for pass := 0; ; pass++ {
		topK := candidatePool(limit, factor, store.Len())

		ranked, err := s.ranker.Rank(ctx, queryVector, store, topK)
		if err != nil {
			s.logger.Error("error ranking corpus", "err", err)
			return []core.Result{}, err
		}
		monitor.AfterRank(ranked)

		// A wider pass repeats the previous ranking as its prefix, so only
		// the new tail needs metadata.
		newIDs := ranked[min(fetched, len(ranked)):].IDs()
		if len(newIDs) > 0 {
			found, err := s.books.GetBooksByIDs(ctx, newIDs...)
			if err != nil {
				s.logger.Error("error retrieving book metadata", "bookCount", len(newIDs), "err", err)
				return []core.Result{}, err
			}
			for _, book := range found {
				if book != nil {
					books[book.Id] = book
				}
			}
			monitor.AfterMetadataFetch(found)
		}
		fetched = len(ranked)

		selection = &selectionLog{}
		results = s.selector.Select(ranked, books, limit, selection)

		if len(results) >= limit || topK >= store.Len() || pass >= s.maxWidenings {
			break
		}
		factor *= 2
		s.logger.Debug("widening candidate pool", "found", len(results), "limit", limit, "factor", factor)
		monitor.Widen(candidatePool(limit, factor, store.Len()))
	}

	selection.replay(monitor)

	if len(results) < limit {
		s.logger.Debug("fewer unique books than requested", "found", len(results), "limit", limit)
	}
	monitor.Finish(results)
	return results, nil
}

// candidatePool returns limit * factor, capped at the corpus size.
func candidatePool(limit, factor, corpusSize int) int {
	if limit > corpusSize/factor {
		return corpusSize
	}
	return limit * factor
}

// resources resolves the lazily loaded model and corpus.
func (s *Searcher) resources(ctx context.Context) (ai.Embedder, *corpus.Store, error) {
	embedder, err := s.model.get(ctx)
	if err != nil {
		return nil, nil, unavailable(ctx, err)
	}
	store, err := s.corpus.get(ctx)
	if err != nil {
		return nil, nil, unavailable(ctx, err)
	}
	return embedder, store, nil
}

// unavailable wraps a load failure in core.ErrSearchUnavailable. A caller
// that gave up waiting gets its context error unchanged.
func unavailable(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return err
	}
	return fmt.Errorf("%w: %w", core.ErrSearchUnavailable, err)
}
