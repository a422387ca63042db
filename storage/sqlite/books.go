package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"

	_ "modernc.org/sqlite" // cgo-free driver
)

// maxIDsPerQuery bounds the placeholders of one IN (...) clause.
const maxIDsPerQuery = 500

// BookRepository implements storage.BookRepository for SQLite.
type BookRepository struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ storage.BookRepository = (*BookRepository)(nil)

// Option configures a BookRepository.
type Option func(*BookRepository) error

// WithLogger sets the logger for the repository.
// A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *BookRepository) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewBookRepository opens (or creates) the book database at path and
// applies the schema.
func NewBookRepository(path string, opts ...Option) (*BookRepository, error) {
	r := &BookRepository{path: path, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "book-repository")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// One connection keeps pragmas and ":memory:" databases consistent.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma failed: %w", err)
		}
	}

	if _, err := db.Exec(booksSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("books schema failed: %w", err)
	}

	r.db = db
	return r, nil
}

// Close closes the database.
func (r *BookRepository) Close() error { return r.db.Close() }

// Path returns the database path.
func (r *BookRepository) Path() string { return r.path }

// AddBooks inserts or replaces one or more books in a single transaction.
func (r *BookRepository) AddBooks(ctx context.Context, books ...*core.Book) ([]*core.Book, error) {
	if len(books) == 0 {
		return books, nil
	}

	// Validate every book, with its derived id, before touching any of them.
	ids := make([]core.BookID, len(books))
	for i, book := range books {
		if book == nil {
			return nil, core.ValidateBook(nil)
		}
		candidate := *book
		if candidate.Id == 0 {
			candidate.Id = core.BookIDFromContent(candidate.IdentityKey())
		}
		if err := core.ValidateBook(&candidate); err != nil {
			return nil, err
		}
		ids[i] = candidate.Id
	}
	for i, book := range books {
		book.Id = ids[i]
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertBook)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, book := range books {
		_, err := stmt.ExecContext(ctx,
			int64(book.Id),
			book.Title,
			book.Author,
			book.PublishYear,
			book.ISBN,
			book.Genre,
			book.Description,
			book.CoverImage,
		)
		if err != nil {
			return nil, fmt.Errorf("book %d: %w", book.Id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook retrieves a single book by id.
func (r *BookRepository) GetBook(ctx context.Context, id core.BookID) (*core.Book, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, int64(id))
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBooksByIDs retrieves the books with the given ids.
// Missing ids are ignored. Rows that cannot be decoded are skipped and logged.
func (r *BookRepository) GetBooksByIDs(ctx context.Context, ids ...core.BookID) ([]*core.Book, error) {
	var books []*core.Book
	for start := 0; start < len(ids); start += maxIDsPerQuery {
		end := min(start+maxIDsPerQuery, len(ids))
		chunk := ids[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = int64(id)
		}

		found, err := r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE id IN (`+placeholders+`)`, args...)
		if err != nil {
			return nil, err
		}
		books = append(books, found...)
	}
	return books, nil
}

// GetRecentBooks returns up to limit books, newest publish year first.
func (r *BookRepository) GetRecentBooks(ctx context.Context, limit int) ([]*core.Book, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	return r.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY publish_year DESC, id ASC LIMIT ?`, limit)
}

// ListBooks returns up to limit books with id greater than afterID, ordered by id.
func (r *BookRepository) ListBooks(ctx context.Context, afterID core.BookID, limit int) ([]*core.Book, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}
	return r.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id > ? ORDER BY id ASC LIMIT ?`, int64(afterID), limit)
}

// CountBooks returns the number of stored books.
func (r *BookRepository) CountBooks(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	return count, err
}

func (r *BookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]*core.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*core.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			r.logger.Warn("skipping malformed book row", "err", err)
			continue
		}
		books = append(books, book)
	}
	return books, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook reads one row. NULL columns become empty fields.
func scanBook(row rowScanner) (*core.Book, error) {
	var (
		id                                           int64
		title, author, isbn, genre, desc, coverImage sql.NullString
		year                                         sql.NullInt64
	)
	if err := row.Scan(&id, &title, &author, &year, &isbn, &genre, &desc, &coverImage); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: row id %d", core.ErrInvalidBook, id)
	}

	return &core.Book{
		Id:          core.BookID(id),
		Title:       title.String,
		Author:      author.String,
		PublishYear: int(year.Int64),
		ISBN:        isbn.String,
		Genre:       genre.String,
		Description: desc.String,
		CoverImage:  coverImage.String,
	}, nil
}
