package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

// ErrRepositoryRequired is returned when a RepositoryLoader has no repository.
var ErrRepositoryRequired = errors.New("embedding repository is required")

// Loader produces the corpus searched by queries.
type Loader interface {
	// Load reads and validates the full corpus.
	// Failures wrap core.ErrCorpusUnavailable.
	Load(ctx context.Context) (*Store, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Store, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*Store, error) {
	return f(ctx)
}

// Static returns a Loader that always yields store.
func Static(store *Store) Loader {
	return LoaderFunc(func(context.Context) (*Store, error) {
		return store, nil
	})
}

// RepositoryLoader loads the corpus from an EmbeddingRepository.
type RepositoryLoader struct {
	repo   storage.EmbeddingRepository
	logger *slog.Logger
}

var _ Loader = (*RepositoryLoader)(nil)

// Option configures a RepositoryLoader.
type Option func(*RepositoryLoader) error

// WithLogger sets the logger for the loader.
// A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *RepositoryLoader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewRepositoryLoader creates a loader reading from repo.
func NewRepositoryLoader(repo storage.EmbeddingRepository, opts ...Option) (*RepositoryLoader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	l := &RepositoryLoader{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "corpus-loader")
	return l, nil
}

// Load reads every embedding from the repository and builds a Store.
func (l *RepositoryLoader) Load(ctx context.Context) (*Store, error) {
	start := time.Now()

	ids, vectors, err := l.repo.LoadEmbeddings(ctx)
	if err != nil {
		l.logger.Error("failed to read embeddings", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrCorpusUnavailable, err)
	}

	store, err := New(ids, vectors)
	if err != nil {
		l.logger.Error("embedding corpus is malformed", "err", err)
		return nil, err
	}

	l.logger.Info("corpus loaded",
		"vectors", store.Len(),
		"dimension", store.Dim(),
		"elapsed", time.Since(start))
	return store, nil
}
