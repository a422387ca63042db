package sqlite

const booksSchema = `
CREATE TABLE IF NOT EXISTS books (
	id           INTEGER PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	author       TEXT NOT NULL DEFAULT '',
	publish_year INTEGER NOT NULL DEFAULT 0,
	isbn         TEXT NOT NULL DEFAULT '',
	genre        TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	cover_image  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS books_recent ON books (publish_year DESC, id);
`

const bookColumns = `id, title, author, publish_year, isbn, genre, description, cover_image`

const upsertBook = `
INSERT INTO books (` + bookColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	title = excluded.title,
	author = excluded.author,
	publish_year = excluded.publish_year,
	isbn = excluded.isbn,
	genre = excluded.genre,
	description = excluded.description,
	cover_image = excluded.cover_image`
