package dedupe

import (
	"log/slog"
	"strings"

	"github.com/AmanChauhan7010/bookfinder/core"
)

// Reason tells why a candidate was dropped as a duplicate.
type Reason int

const (
	// DuplicateISBN means an accepted book already carries the same ISBN.
	DuplicateISBN Reason = iota + 1
	// DuplicateTitleAuthor means an accepted book has the same normalized
	// title and author.
	DuplicateTitleAuthor
)

func (r Reason) String() string {
	switch r {
	case DuplicateISBN:
		return "isbn"
	case DuplicateTitleAuthor:
		return "title_author"
	default:
		return "unknown"
	}
}

// Observer receives the per-candidate decisions of a selection.
type Observer interface {
	// MissingMetadata is called for a candidate the book store has no row for.
	MissingMetadata(candidate core.ScoredCandidate)
	// Duplicate is called for a candidate dropped as a duplicate.
	Duplicate(candidate core.ScoredCandidate, reason Reason)
}

// Selector picks unique books out of a ranked list.
type Selector struct {
	logger *slog.Logger
}

// Option configures a Selector.
type Option func(*Selector) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSelector creates a Selector.
func NewSelector(opts ...Option) (*Selector, error) {
	s := &Selector{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.logger = s.logger.With("component", "dedupe")
	return s, nil
}

// Select walks ranked in order and returns at most limit unique books,
// each paired with its own score. Candidates without an entry in books are
// skipped. Fewer than limit results come back when the list runs out.
// observer may be nil.
func (s *Selector) Select(ranked core.RankedResult, books map[core.BookID]*core.Book, limit int, observer Observer) []core.Result {
	if limit <= 0 || len(ranked) == 0 {
		return []core.Result{}
	}

	results := make([]core.Result, 0, min(limit, len(ranked)))
	seenISBN := make(map[string]struct{}, limit)
	seenTitleAuthor := make(map[titleAuthor]struct{}, limit)

	for _, candidate := range ranked {
		if len(results) >= limit {
			break
		}

		book, ok := books[candidate.ID]
		if !ok || book == nil {
			s.logger.Debug("no metadata for ranked book", "book_id", candidate.ID)
			if observer != nil {
				observer.MissingMetadata(candidate)
			}
			continue
		}

		isbn := strings.TrimSpace(book.ISBN)
		if isbn != "" {
			if _, dup := seenISBN[isbn]; dup {
				s.reject(observer, candidate, DuplicateISBN)
				continue
			}
		}

		key := titleAuthor{core.NormalizeField(book.Title), core.NormalizeField(book.Author)}
		if _, dup := seenTitleAuthor[key]; dup {
			s.reject(observer, candidate, DuplicateTitleAuthor)
			continue
		}

		if isbn != "" {
			seenISBN[isbn] = struct{}{}
		}
		// An untitled book cannot be matched by title.
		if key.title != "" {
			seenTitleAuthor[key] = struct{}{}
		}
		results = append(results, core.Result{Book: book, Score: candidate.Score})
	}

	return results
}

func (s *Selector) reject(observer Observer, candidate core.ScoredCandidate, reason Reason) {
	s.logger.Debug("dropping duplicate edition", "book_id", candidate.ID, "reason", reason)
	if observer != nil {
		observer.Duplicate(candidate, reason)
	}
}

type titleAuthor struct {
	title, author string
}

// Index maps books by id for Select.
func Index(books []*core.Book) map[core.BookID]*core.Book {
	index := make(map[core.BookID]*core.Book, len(books))
	for _, book := range books {
		if book != nil {
			index[book.Id] = book
		}
	}
	return index
}
