package storage

import (
	"context"

	"github.com/AmanChauhan7010/bookfinder/core"
)

// BookFetcher resolves book ids to metadata rows.
// It is the only part of the book store the search path needs.
type BookFetcher interface {
	// GetBooksByIDs retrieves the books with the given ids.
	// Returns only the books that exist (no error for missing ids), in no
	// particular order.
	GetBooksByIDs(ctx context.Context, ids ...core.BookID) ([]*core.Book, error)
}

// BookRepository provides operations for managing book metadata.
// Implementations must be thread-safe and support concurrent access.
type BookRepository interface {
	BookFetcher

	// AddBooks inserts or replaces one or more books.
	// Books with Id=0 get a content-derived id from their identity key.
	// Returns the books with ids populated.
	AddBooks(ctx context.Context, books ...*core.Book) ([]*core.Book, error)

	// GetBook retrieves a single book by id.
	// Returns ErrNotFound if the book doesn't exist.
	GetBook(ctx context.Context, id core.BookID) (*core.Book, error)

	// GetRecentBooks returns up to limit books, newest publish year first.
	// Books sharing a year are ordered by id.
	// Returns ErrInvalidQuery if limit <= 0.
	GetRecentBooks(ctx context.Context, limit int) ([]*core.Book, error)

	// ListBooks returns up to limit books with id greater than afterID,
	// ordered by id. Pass 0 to start from the beginning.
	// Returns ErrInvalidQuery if limit <= 0.
	ListBooks(ctx context.Context, afterID core.BookID, limit int) ([]*core.Book, error)

	// CountBooks returns the number of stored books.
	CountBooks(ctx context.Context) (int, error)

	// Close releases the underlying database.
	Close() error
}

// EmbeddingRepository provides operations for managing the precomputed
// book embeddings. All stored vectors share one dimension.
type EmbeddingRepository interface {
	// PutEmbeddings inserts or replaces one or more embedding records.
	// Returns core.ErrDimensionMismatch if a vector's length differs from
	// the vectors already stored or from the rest of the batch.
	PutEmbeddings(ctx context.Context, records ...*core.EmbeddingRecord) error

	// GetEmbedding retrieves the embedding of a single book.
	// Returns ErrNotFound if no embedding exists for id.
	GetEmbedding(ctx context.Context, id core.BookID) (*core.EmbeddingRecord, error)

	// DeleteEmbeddings removes the embeddings of the given books.
	// Missing ids are ignored.
	DeleteEmbeddings(ctx context.Context, ids ...core.BookID) error

	// LoadEmbeddings returns every stored embedding as parallel id and
	// vector slices, ordered by id.
	LoadEmbeddings(ctx context.Context) ([]core.BookID, [][]float32, error)

	// CountEmbeddings returns the number of stored embeddings.
	CountEmbeddings(ctx context.Context) (int, error)

	// Dimension returns the vector dimension of the store, or 0 if empty.
	Dimension(ctx context.Context) (int, error)

	// Close releases repository resources.
	Close() error
}
