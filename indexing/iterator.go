package indexing

import (
	"context"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

// DefaultBatchSize is the default number of books embedded per request.
const DefaultBatchSize = 64

// BookIterator pages through the book store in id order.
type BookIterator struct {
	repo      storage.BookRepository
	batchSize int
}

// NewBookIterator creates an iterator yielding batches of batchSize books.
func NewBookIterator(repo storage.BookRepository, batchSize int) *BookIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BookIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach calls fn with successive batches until the store is exhausted,
// fn fails, or ctx ends. Only one page is held in memory at a time.
func (it *BookIterator) ForEach(ctx context.Context, fn func([]*core.Book) error) error {
	var after core.BookID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := it.repo.ListBooks(ctx, after, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if err := fn(batch); err != nil {
			return err
		}

		if len(batch) < it.batchSize {
			return nil
		}
		after = batch[len(batch)-1].Id
	}
}
