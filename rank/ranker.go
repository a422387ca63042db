package rank

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/vector"
)

const (
	// defaultShardSize is the smallest slice of the corpus worth handing to
	// a separate worker.
	defaultShardSize = 4096

	// ctxCheckInterval is how many rows a scan scores between context checks.
	ctxCheckInterval = 1024
)

// Corpus is the read-only view of the embedding store a Ranker scans.
type Corpus interface {
	Len() int
	ID(i int) core.BookID
	Vector(i int) []float32
}

// normCorpus is implemented by corpora that precompute row norms.
type normCorpus interface {
	Norm(i int) float64
}

// Ranker maps a query vector to the topK most similar corpus entries.
type Ranker interface {
	// Rank returns min(topK, corpus.Len()) candidates ordered by descending
	// cosine score, ties broken by corpus order. topK <= 0 or an empty corpus
	// yields an empty result.
	Rank(ctx context.Context, query []float32, corpus Corpus, topK int) (core.RankedResult, error)
}

// LinearRanker is an exact, brute-force Ranker.
type LinearRanker struct {
	pool      *ants.Pool
	shardSize int
	logger    *slog.Logger
}

var _ Ranker = (*LinearRanker)(nil)

// Option configures a LinearRanker.
type Option func(*LinearRanker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *LinearRanker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithPoolSize enables parallel scoring on a worker pool of the given size.
// The ranker owns the pool; call Release when done. Sizes below 2 keep the
// scan sequential.
func WithPoolSize(size int) Option {
	return func(r *LinearRanker) error {
		r.releasePool()
		if size < 2 {
			return nil
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithShardSize sets the minimum number of rows per parallel shard.
// Corpora smaller than twice this size are scanned sequentially.
func WithShardSize(size int) Option {
	return func(r *LinearRanker) error {
		if size < 1 {
			size = 1
		}
		r.shardSize = size
		return nil
	}
}

// NewLinearRanker creates a ranker. Without a pool option it scans
// sequentially.
func NewLinearRanker(opts ...Option) (*LinearRanker, error) {
	r := &LinearRanker{
		shardSize: defaultShardSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "ranker")
	return r, nil
}

// Release frees the worker pool, if any.
func (r *LinearRanker) Release() {
	r.releasePool()
}

func (r *LinearRanker) releasePool() {
	if r.pool != nil {
		r.pool.Release()
	}
	r.pool = nil
}

// Rank scores query against every corpus row.
func (r *LinearRanker) Rank(ctx context.Context, query []float32, corpus Corpus, topK int) (core.RankedResult, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	n := corpus.Len()
	if topK <= 0 || n == 0 {
		return core.RankedResult{}, nil
	}
	topK = min(topK, n)

	if d := len(corpus.Vector(0)); d != len(query) {
		r.logger.Warn("query dimension differs from corpus; all scores are zero",
			"query_dim", len(query), "corpus_dim", d)
	}

	scan := &scan{query: query, queryNorm: vector.Norm(query), corpus: corpus}
	if nc, ok := corpus.(normCorpus); ok {
		scan.norms = nc
	}

	shards := r.shards(n)
	results := make([][]scored, len(shards))
	errs := make([]error, len(shards))

	if len(shards) == 1 {
		results[0], errs[0] = scan.run(ctx, 0, n, topK)
	} else {
		var wg sync.WaitGroup
		for i, sh := range shards {
			wg.Add(1)
			task := func() {
				defer wg.Done()
				results[i], errs[i] = scan.run(ctx, sh.start, sh.end, topK)
			}
			if err := r.pool.Submit(task); err != nil {
				// Pool closed or saturated: score this shard inline.
				r.logger.Debug("pool submit failed, scanning inline", "err", err)
				task()
			}
		}
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	merged := results[0]
	if len(results) > 1 {
		merged = make([]scored, 0, len(shards)*topK)
		for _, res := range results {
			merged = append(merged, res...)
		}
		sortCandidates(merged)
		merged = merged[:min(topK, len(merged))]
	}

	ranked := make(core.RankedResult, len(merged))
	for i, c := range merged {
		ranked[i] = core.ScoredCandidate{ID: corpus.ID(c.index), Score: c.score}
	}
	return ranked, nil
}

type shard struct {
	start, end int
}

// shards splits n rows into contiguous ranges, one per worker.
func (r *LinearRanker) shards(n int) []shard {
	if r.pool == nil || n < 2*r.shardSize {
		return []shard{{0, n}}
	}
	count := min(r.pool.Cap(), n/r.shardSize)
	if count < 2 {
		return []shard{{0, n}}
	}
	size := (n + count - 1) / count
	out := make([]shard, 0, count)
	for start := 0; start < n; start += size {
		out = append(out, shard{start, min(start+size, n)})
	}
	return out
}

// scan holds the per-query state shared by all shards.
type scan struct {
	query     []float32
	queryNorm float64
	corpus    Corpus
	norms     normCorpus
}

func (s *scan) score(i int) float32 {
	v := s.corpus.Vector(i)
	if s.norms != nil {
		return vector.CosineWithNorms(s.query, s.queryNorm, v, s.norms.Norm(i))
	}
	return vector.CosineWithNorm(s.query, s.queryNorm, v)
}

// run returns the best topK candidates among rows [start, end), best first.
func (s *scan) run(ctx context.Context, start, end, topK int) ([]scored, error) {
	h := newBoundedHeap(min(topK, end-start))
	for i := start; i < end; i++ {
		if (i-start)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		h.offer(scored{index: i, score: s.score(i)})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.sorted(), nil
}
