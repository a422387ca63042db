package main

import (
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/AmanChauhan7010/bookfinder"
	"github.com/AmanChauhan7010/bookfinder/config"
	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/storage"
)

var sampleBooks = []core.Book{
	{Id: 1, Title: "Dune", Author: "Frank Herbert", PublishYear: 1965, ISBN: "9780441013593", Genre: "Science Fiction",
		Description: "A noble family is sent to rule a desert planet that holds the most valuable substance in the universe."},
	{Id: 2, Title: "Dune", Author: "Frank Herbert", PublishYear: 2005, ISBN: "9780441013593", Genre: "Science Fiction",
		Description: "Anniversary edition of the desert planet saga."},
	{Title: "Neuromancer", Author: "William Gibson", PublishYear: 1984, ISBN: "9780441569595", Genre: "Cyberpunk",
		Description: "A washed-up hacker is hired for one last job against a powerful artificial intelligence."},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", PublishYear: 1969, Genre: "Science Fiction",
		Description: "An envoy to a frozen world whose people have no fixed sex struggles to understand them."},
	{Title: "Pride and Prejudice", Author: "Jane Austen", PublishYear: 1813, ISBN: "9780141439518", Genre: "Romance",
		Description: "Elizabeth Bennet spars with the proud Mr. Darcy in Regency England."},
	{Title: "Emma", Author: "Jane Austen", PublishYear: 1815, Genre: "Romance",
		Description: "A young matchmaker meddles in the love lives of her neighbours."},
	{Title: "Middlemarch", Author: "George Eliot", PublishYear: 1871, Genre: "Literary Fiction",
		Description: "Lives intertwine in a provincial English town on the eve of reform."},
	{Title: "The Hobbit", Author: "J. R. R. Tolkien", PublishYear: 1937, ISBN: "9780547928227", Genre: "Fantasy",
		Description: "A comfortable hobbit is swept into a quest to reclaim a dragon's hoard."},
	{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", PublishYear: 1968, Genre: "Fantasy",
		Description: "A gifted boy at a school for wizards unleashes a shadow he must hunt down."},
	{Title: "The Name of the Rose", Author: "Umberto Eco", PublishYear: 1980, Genre: "Mystery",
		Description: "A friar investigates a series of deaths in a medieval abbey library."},
	{Title: "The Murder of Roger Ackroyd", Author: "Agatha Christie", PublishYear: 1926, Genre: "Mystery",
		Description: "Hercule Poirot untangles a village murder with a famous twist."},
	{Title: "The Hound of the Baskervilles", Author: "Arthur Conan Doyle", PublishYear: 1902, Genre: "Mystery",
		Description: "Sherlock Holmes investigates a legendary spectral hound on the moors."},
	{Title: "Moby-Dick", Author: "Herman Melville", PublishYear: 1851, Genre: "Adventure",
		Description: "A sea captain's obsessive hunt for the white whale that took his leg."},
	{Title: "Treasure Island", Author: "Robert Louis Stevenson", PublishYear: 1883, Genre: "Adventure",
		Description: "A boy sails with pirates in search of buried gold."},
	{Title: "Frankenstein", Author: "Mary Shelley", PublishYear: 1818, Genre: "Horror",
		Description: "A scientist creates life and is destroyed by what he has made."},
	{Title: "Dracula", Author: "Bram Stoker", PublishYear: 1897, Genre: "Horror",
		Description: "An ancient vampire travels to England in search of new blood."},
	{Title: "Sapiens", Author: "Yuval Noah Harari", PublishYear: 2011, Genre: "History",
		Description: "A brief history of humankind from foragers to the present."},
	{Title: "The Structure of Scientific Revolutions", Author: "Thomas S. Kuhn", PublishYear: 1962, Genre: "Philosophy",
		Description: "How science advances through paradigm shifts."},
	{Title: "Untitled Manuscript", PublishYear: 0},
}

var (
	configPath = flag.String("config", config.DefaultPath, "path to the bookfinder config file")
	batchSize  = flag.Int("batch", 5, "books written per transaction")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// booksFromSlice returns an iterator over copies of the sample books.
func booksFromSlice(books []core.Book) iter.Seq[*core.Book] {
	return func(yield func(*core.Book) bool) {
		for _, b := range books {
			if !yield(&b) {
				return
			}
		}
	}
}

// addBatched writes books to repo in batches of batchSize.
func addBatched(ctx context.Context, repo storage.BookRepository, source iter.Seq[*core.Book], batchSize int) (int, error) {
	batch := make([]*core.Book, 0, batchSize)
	total := 0

	for book := range source {
		batch = append(batch, book)
		if len(batch) == batchSize {
			if _, err := repo.AddBooks(ctx, batch...); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}

	// Write any remaining books
	if len(batch) > 0 {
		if _, err := repo.AddBooks(ctx, batch...); err != nil {
			return total, err
		}
		total += len(batch)
	}

	return total, nil
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	lib, err := bookfinder.Open(cfg)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	ctx := context.Background()
	n, err := addBatched(ctx, lib.Books(), booksFromSlice(sampleBooks), max(*batchSize, 1))
	if err != nil {
		panic(err)
	}
	slog.Info("seeded book store", "books", n, "path", cfg.Storage.BooksPath)
}
