package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

// ctxCheckInterval is how many records a scan reads between context checks.
const ctxCheckInterval = 1024

// EmbeddingRepository implements storage.EmbeddingRepository for BadgerDB.
type EmbeddingRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.EmbeddingRepository = (*EmbeddingRepository)(nil)

// NewEmbeddingRepository creates a new EmbeddingRepository.
// The backend stays owned by the caller.
func NewEmbeddingRepository(backend *Backend) (*EmbeddingRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &EmbeddingRepository{
		backend: backend,
		logger:  backend.logger.With("component", "embedding-repository"),
	}, nil
}

// Close is a no-op; the backend is closed by its owner.
func (r *EmbeddingRepository) Close() error {
	return nil
}

func (r *EmbeddingRepository) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// PutEmbeddings inserts or replaces one or more embedding records.
func (r *EmbeddingRepository) PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error {
	if err := r.checkOpen(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		stored, err := readDimension(tx)
		if err != nil {
			return err
		}

		dim := stored
		for _, record := range records {
			if record != nil && dim == 0 {
				dim = len(record.Vector)
			}
			if err := core.ValidateEmbeddingRecord(record, dim); err != nil {
				return err
			}
			if err := tx.Set(makeEmbeddingKey(record.BookId), storage.MarshalEmbeddingRecord(record)); err != nil {
				return err
			}
		}

		if stored == 0 {
			if err := tx.Set([]byte(dimensionKey), encodeDimension(dim)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetEmbedding retrieves the embedding of a single book.
func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, id core.BookID) (*core.EmbeddingRecord, error) {
	if err := r.checkOpen(ctx); err != nil {
		return nil, err
	}

	var result *core.EmbeddingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeEmbeddingKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalEmbeddingRecord(val)
			return err
		})
	}, false)
	return result, err
}

// DeleteEmbeddings removes the embeddings of the given books.
// When the store becomes empty its dimension is forgotten.
func (r *EmbeddingRepository) DeleteEmbeddings(ctx context.Context, ids ...core.BookID) error {
	if err := r.checkOpen(ctx); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			if err := tx.Delete(makeEmbeddingKey(id)); err != nil {
				return err
			}
		}

		if isEmpty(tx) {
			if err := tx.Delete([]byte(dimensionKey)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// LoadEmbeddings returns every stored embedding ordered by id.
func (r *EmbeddingRepository) LoadEmbeddings(ctx context.Context) ([]core.BookID, [][]float32, error) {
	if err := r.checkOpen(ctx); err != nil {
		return nil, nil, err
	}

	var ids []core.BookID
	var vectors [][]float32

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		n := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			n++
			if n%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			item := iter.Item()
			keyID, ok := parseEmbeddingKey(item.Key())
			if !ok {
				return fmt.Errorf("%w: malformed embedding key %q", storage.ErrSerializationFailed, item.Key())
			}

			var record *core.EmbeddingRecord
			err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalEmbeddingRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("embedding %d: %w", keyID, err)
			}
			if record.BookId != keyID {
				return fmt.Errorf("%w: key %d holds record %d", storage.ErrSerializationFailed, keyID, record.BookId)
			}

			ids = append(ids, record.BookId)
			vectors = append(vectors, record.Vector)
		}
		return nil
	}, false)

	if err != nil {
		return nil, nil, err
	}
	r.logger.Debug("loaded embeddings", "count", len(ids))
	return ids, vectors, nil
}

// CountEmbeddings returns the number of stored embeddings.
func (r *EmbeddingRepository) CountEmbeddings(ctx context.Context) (int, error) {
	if err := r.checkOpen(ctx); err != nil {
		return 0, err
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(embeddingPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Dimension returns the vector dimension of the store, or 0 if empty.
func (r *EmbeddingRepository) Dimension(ctx context.Context) (int, error) {
	if err := r.checkOpen(ctx); err != nil {
		return 0, err
	}

	var dim int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		dim, err = readDimension(tx)
		return err
	}, false)
	return dim, err
}

// readDimension returns the stored dimension, or 0 when none is recorded.
func readDimension(tx *badger.Txn) (int, error) {
	item, err := tx.Get([]byte(dimensionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var dim int
	err = item.Value(func(val []byte) error {
		var ok bool
		dim, ok = decodeDimension(val)
		if !ok {
			return fmt.Errorf("%w: dimension value", storage.ErrTruncatedData)
		}
		return nil
	})
	return dim, err
}

// isEmpty reports whether no embedding keys are visible to tx.
func isEmpty(tx *badger.Txn) bool {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(embeddingPrefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	iter.Rewind()
	return !iter.Valid()
}
