package core

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// BookID identifies a book across the book store and the embedding store.
type BookID uint64

// MaxBookID is the largest id the stores accept. Ids must fit a signed
// 64-bit SQL integer column.
const MaxBookID = BookID(math.MaxInt64)

// BookIDFromContent derives a deterministic BookID from text content using
// BLAKE2b hashing. Used when an imported catalog entry carries no id.
// The top bit is cleared so the id never exceeds MaxBookID.
func BookIDFromContent(text string) BookID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return BookID(binary.LittleEndian.Uint64(sum) &^ (1 << 63))
}

// Book is the metadata row owned by the book store.
// Only Id is required; every other field may be empty.
type Book struct {
	Id          BookID
	Title       string
	Author      string
	PublishYear int    // 0 when unknown
	ISBN        string // optional
	Genre       string
	Description string
	CoverImage  string // URL or path of the cover image
}

// IdentityKey returns the content string used to derive an id for books that
// arrive without one. ISBN wins when present, otherwise the normalized title
// and author.
func (b *Book) IdentityKey() string {
	if isbn := strings.TrimSpace(b.ISBN); isbn != "" {
		return "isbn:" + isbn
	}
	return "title:" + NormalizeField(b.Title) + "\x00" + NormalizeField(b.Author)
}

// EmbeddingText is the text fed to the embedding model for this book.
func (b *Book) EmbeddingText() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{b.Title, b.Author, b.Genre, b.Description} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// DisplayTitle returns the title or "Untitled".
func (b *Book) DisplayTitle() string {
	return fallback(b.Title, "Untitled")
}

// DisplayAuthor returns the author or "Unknown".
func (b *Book) DisplayAuthor() string {
	return fallback(b.Author, "Unknown")
}

// DisplayISBN returns the ISBN or "N/A".
func (b *Book) DisplayISBN() string {
	return fallback(b.ISBN, "N/A")
}

// DisplayDescription returns the description or a placeholder sentence.
func (b *Book) DisplayDescription() string {
	return fallback(b.Description, "No description available.")
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// NormalizeField lowercases and trims s. Dedup keys are built from it.
func NormalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmbeddingRecord pairs a book with its precomputed embedding vector.
type EmbeddingRecord struct {
	BookId BookID
	Vector []float32
}

// ScoredCandidate is a book id with its cosine similarity to a query.
type ScoredCandidate struct {
	ID    BookID
	Score float32
}

// RankedResult is a candidate list ordered by descending score.
type RankedResult []ScoredCandidate

// IDs returns the candidate ids in rank order.
func (r RankedResult) IDs() []BookID {
	ids := make([]BookID, len(r))
	for i, c := range r {
		ids[i] = c.ID
	}
	return ids
}

// Result is a book returned by a search together with its raw cosine score.
type Result struct {
	Book  *Book
	Score float32
}

// MatchPercent converts a raw cosine score into the display percentage,
// clamping negative similarity to zero.
func MatchPercent(score float32) float64 {
	return math.Max(0, float64(score)) * 100
}
