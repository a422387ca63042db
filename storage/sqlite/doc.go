// Package sqlite implements storage.BookRepository on SQLite using the
// cgo-free modernc.org/sqlite driver.
//
// Books live in a single table keyed by id. Pass ":memory:" as the path
// for a throwaway database in tests.
package sqlite
