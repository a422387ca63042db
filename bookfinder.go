// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bookfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AmanChauhan7010/bookfinder/ai"
	"github.com/AmanChauhan7010/bookfinder/ai/openai"
	"github.com/AmanChauhan7010/bookfinder/config"
	"github.com/AmanChauhan7010/bookfinder/corpus"
	"github.com/AmanChauhan7010/bookfinder/indexing"
	"github.com/AmanChauhan7010/bookfinder/rank"
	"github.com/AmanChauhan7010/bookfinder/search"
	"github.com/AmanChauhan7010/bookfinder/storage"
	"github.com/AmanChauhan7010/bookfinder/storage/badger"
	"github.com/AmanChauhan7010/bookfinder/storage/sqlite"
)

// ErrConfigRequired is returned by Open when no configuration is given.
var ErrConfigRequired = errors.New("config required")

// Library owns the book store, the embedding store and the embedding model
// factory, and hands out searchers and indexers bound to them.
type Library struct {
	config     *config.Config
	backend    *badger.Backend
	embeddings *badger.EmbeddingRepository
	books      *sqlite.BookRepository
	factory    ai.EmbedderFactory
	ranker     *rank.LinearRanker
	logger     *slog.Logger
}

// Option configures a Library.
type Option func(*libraryOptions)

type libraryOptions struct {
	factory ai.EmbedderFactory
	logger  *slog.Logger
}

// WithEmbedderFactory replaces the OpenAI-compatible model client.
func WithEmbedderFactory(factory ai.EmbedderFactory) Option {
	return func(o *libraryOptions) {
		o.factory = factory
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *libraryOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// Open opens both stores named by cfg. The embedding model is not contacted
// until a searcher or indexer needs it.
func Open(cfg *config.Config, opts ...Option) (*Library, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &libraryOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.factory == nil {
		options.factory = openai.NewFactory(cfg.AIConfig())
	}

	backend, err := badger.OpenBackend(cfg.Storage.EmbeddingsDir, false, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	embeddings, err := badger.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	if err := ensureParentDir(cfg.Storage.BooksPath); err != nil {
		backend.Close()
		return nil, err
	}
	books, err := sqlite.NewBookRepository(cfg.Storage.BooksPath, sqlite.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	ranker, err := rank.NewLinearRanker(
		rank.WithLogger(options.logger),
		rank.WithPoolSize(cfg.Search.Parallelism),
	)
	if err != nil {
		books.Close()
		backend.Close()
		return nil, err
	}

	return &Library{
		config:     cfg,
		backend:    backend,
		embeddings: embeddings,
		books:      books,
		factory:    options.factory,
		ranker:     ranker,
		logger:     options.logger,
	}, nil
}

func ensureParentDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create book store directory: %w", err)
	}
	return nil
}

// Close releases the ranker pool and closes both stores.
func (l *Library) Close() error {
	l.ranker.Release()

	var errs []error
	if err := l.books.Close(); err != nil {
		l.logger.Error("error closing book repository", "err", err)
		errs = append(errs, err)
	}
	if err := l.embeddings.Close(); err != nil {
		l.logger.Error("error closing embedding repository", "err", err)
		errs = append(errs, err)
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Books returns the book store.
func (l *Library) Books() storage.BookRepository {
	return l.books
}

// Embeddings returns the embedding store.
func (l *Library) Embeddings() storage.EmbeddingRepository {
	return l.embeddings
}

// Config returns the configuration the library was opened with.
func (l *Library) Config() *config.Config {
	return l.config
}

// NewSearcher creates a searcher over the library's stores with the search
// settings from the configuration. opts are applied after those settings.
func (l *Library) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	loader, err := corpus.NewRepositoryLoader(l.embeddings, corpus.WithLogger(l.logger))
	if err != nil {
		return nil, err
	}

	base := []search.Option{
		search.WithLogger(l.logger),
		search.WithRanker(l.ranker),
		search.WithOverfetchFactor(l.config.Search.Overfetch),
		search.WithMaxWidenings(l.config.Search.MaxWidenings),
		search.WithTimeout(l.config.Search.Timeout),
	}
	return search.NewSearcher(l.factory, loader, l.books, append(base, opts...)...)
}

// IndexingConfig returns the indexing settings from the configuration as an
// indexing.Config. Callers may adjust it and pass it back through
// indexing.WithConfig.
func (l *Library) IndexingConfig() *indexing.Config {
	ic := l.config.Indexing
	config := indexing.DefaultConfig()
	config.BatchSize = ic.BatchSize
	config.Workers = ic.Workers
	config.MaxRetries = ic.MaxRetries
	config.RetryDelay = ic.RetryDelay
	config.Normalize = ic.Normalize
	return config
}

// NewIndexer loads the embedding model and creates an indexer with the
// indexing settings from the configuration. opts are applied after those
// settings. Call Release on the result.
func (l *Library) NewIndexer(ctx context.Context, opts ...indexing.Option) (*indexing.Indexer, error) {
	embedder, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}

	base := []indexing.Option{
		indexing.WithLogger(l.logger),
		indexing.WithConfig(l.IndexingConfig()),
	}
	return indexing.NewIndexer(l.books, l.embeddings, embedder, append(base, opts...)...)
}
