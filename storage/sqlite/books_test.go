package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *BookRepository {
	t.Helper()
	repo, err := NewBookRepository(filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleBooks() []*core.Book {
	return []*core.Book{
		{Id: 1, Title: "Dune", Author: "Frank Herbert", PublishYear: 1965, ISBN: "9780441013593", Genre: "Science Fiction"},
		{Id: 2, Title: "Neuromancer", Author: "William Gibson", PublishYear: 1984, Genre: "Cyberpunk"},
		{Id: 3, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", PublishYear: 1969},
		{Id: 4, Title: "Snow Crash", Author: "Neal Stephenson", PublishYear: 1992},
		{Id: 5, Title: "Count Zero", Author: "William Gibson", PublishYear: 1984},
	}
}

func TestNewBookRepository_InMemory(t *testing.T) {
	repo, err := NewBookRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.AddBooks(context.Background(), &core.Book{Id: 1, Title: "Dune"})
	require.NoError(t, err)

	count, err := repo.CountBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddAndGetBook(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)

	book, err := repo.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, sampleBooks()[0], book)

	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestGetBook_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetBook(context.Background(), 42)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAddBooks_Upsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, &core.Book{Id: 1, Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	_, err = repo.AddBooks(ctx, &core.Book{Id: 1, Title: "Dune Messiah", Author: "Frank Herbert"})
	require.NoError(t, err)

	book, err := repo.GetBook(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", book.Title)

	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddBooks_DerivesMissingIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	withISBN := &core.Book{Title: "Dune", ISBN: " 9780441013593 "}
	withoutISBN := &core.Book{Title: "Dune", Author: "Frank Herbert"}

	added, err := repo.AddBooks(ctx, withISBN, withoutISBN)
	require.NoError(t, err)
	require.Len(t, added, 2)

	assert.Equal(t, core.BookIDFromContent(withISBN.IdentityKey()), added[0].Id)
	assert.Equal(t, core.BookIDFromContent(withoutISBN.IdentityKey()), added[1].Id)
	assert.NotEqual(t, added[0].Id, added[1].Id)

	// Re-importing the same entry lands on the same row.
	_, err = repo.AddBooks(ctx, &core.Book{Title: "Dune", ISBN: "9780441013593", Genre: "SF"})
	require.NoError(t, err)
	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestAddBooks_Invalid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, &core.Book{Id: 1, Title: "ok"}, &core.Book{Id: 2, PublishYear: -1})
	assert.ErrorIs(t, err, core.ErrInvalidBook)

	// Validation happens before anything is written.
	count, err := repo.CountBooks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddBooks_InvalidLeavesInputUntouched(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	derived := &core.Book{Title: "Dune", Author: "Frank Herbert"}
	invalid := &core.Book{Title: "Broken", PublishYear: -1}

	_, err := repo.AddBooks(ctx, derived, invalid)
	assert.ErrorIs(t, err, core.ErrInvalidBook)
	assert.Zero(t, derived.Id)
	assert.Zero(t, invalid.Id)

	_, err = repo.AddBooks(ctx, derived, nil)
	assert.ErrorIs(t, err, core.ErrInvalidBook)
	assert.Zero(t, derived.Id)

	stored, err := repo.AddBooks(ctx, derived)
	require.NoError(t, err)
	assert.Equal(t, core.BookIDFromContent(derived.IdentityKey()), stored[0].Id)
	assert.Equal(t, stored[0].Id, derived.Id)
}

func TestGetBooksByIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)

	books, err := repo.GetBooksByIDs(ctx, 4, 2, 99)
	require.NoError(t, err)
	require.Len(t, books, 2)

	titles := map[core.BookID]string{}
	for _, b := range books {
		titles[b.Id] = b.Title
	}
	assert.Equal(t, map[core.BookID]string{2: "Neuromancer", 4: "Snow Crash"}, titles)
}

func TestGetBooksByIDs_Empty(t *testing.T) {
	repo := newTestRepo(t)

	books, err := repo.GetBooksByIDs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestGetBooksByIDs_ManyChunks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var books []*core.Book
	var ids []core.BookID
	for i := 1; i <= 2*maxIDsPerQuery+7; i++ {
		books = append(books, &core.Book{Id: core.BookID(i), Title: fmt.Sprintf("Book %d", i)})
		ids = append(ids, core.BookID(i))
	}
	_, err := repo.AddBooks(ctx, books...)
	require.NoError(t, err)

	found, err := repo.GetBooksByIDs(ctx, ids...)
	require.NoError(t, err)
	assert.Len(t, found, len(ids))
}

func TestGetBooksByIDs_SkipsMalformedRows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, `INSERT INTO books (id, title, publish_year) VALUES (9, 'Broken', 'not a year')`)
	require.NoError(t, err)

	books, err := repo.GetBooksByIDs(ctx, 1, 9)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, core.BookID(1), books[0].Id)
}

func TestGetRecentBooks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)

	books, err := repo.GetRecentBooks(ctx, 3)
	require.NoError(t, err)
	require.Len(t, books, 3)
	// 1992, then the two 1984 books ordered by id.
	assert.Equal(t, core.BookID(4), books[0].Id)
	assert.Equal(t, core.BookID(2), books[1].Id)
	assert.Equal(t, core.BookID(5), books[2].Id)

	for _, limit := range []int{0, -1} {
		none, err := repo.GetRecentBooks(ctx, limit)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
		assert.Empty(t, none)
	}
}

func TestListBooks_Pagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)

	var seen []core.BookID
	var after core.BookID
	for {
		page, err := repo.ListBooks(ctx, after, 2)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, b := range page {
			seen = append(seen, b.Id)
		}
		after = page[len(page)-1].Id
	}
	assert.Equal(t, []core.BookID{1, 2, 3, 4, 5}, seen)

	_, err = repo.ListBooks(ctx, 0, 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.db")
	ctx := context.Background()

	repo, err := NewBookRepository(path)
	require.NoError(t, err)
	_, err = repo.AddBooks(ctx, sampleBooks()...)
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	reopened, err := NewBookRepository(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, path, reopened.Path())

	count, err := reopened.CountBooks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
