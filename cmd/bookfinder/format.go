package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/AmanChauhan7010/bookfinder/core"
	"github.com/AmanChauhan7010/bookfinder/search"
)

// matchPercent renders a cosine score as the percentage shown to users.
// Negative scores show as 0%.
func matchPercent(score float32) int {
	return int(math.Round(math.Max(0, float64(score)) * 100))
}

func displayYear(year int) string {
	if year <= 0 {
		return "Unknown"
	}
	return strconv.Itoa(year)
}

func printResults(w io.Writer, results []core.Result) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching books found.")
		return
	}
	fmt.Fprintf(w, "Found %d books\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%2d. %s by %s (%s)  Match %d%%  [id %d]\n",
			i+1, r.Book.DisplayTitle(), r.Book.DisplayAuthor(), displayYear(r.Book.PublishYear),
			matchPercent(r.Score), r.Book.Id)
	}
}

func printBooks(w io.Writer, books []*core.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "No books in the catalog.")
		return
	}
	for i, b := range books {
		fmt.Fprintf(w, "%2d. %s by %s (%s)  [id %d]\n",
			i+1, b.DisplayTitle(), b.DisplayAuthor(), displayYear(b.PublishYear), b.Id)
	}
}

func printBookDetail(w io.Writer, b *core.Book) {
	fmt.Fprintf(w, "Title:       %s\n", b.DisplayTitle())
	fmt.Fprintf(w, "Author:      %s\n", b.DisplayAuthor())
	fmt.Fprintf(w, "Published:   %s\n", displayYear(b.PublishYear))
	fmt.Fprintf(w, "ISBN:        %s\n", b.DisplayISBN())
	if b.Genre != "" {
		fmt.Fprintf(w, "Genre:       %s\n", b.Genre)
	}
	if b.CoverImage != "" {
		fmt.Fprintf(w, "Cover:       %s\n", b.CoverImage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, b.DisplayDescription())
}

func printStatus(w io.Writer, books int, st search.Status) {
	fmt.Fprintf(w, "Books:   %d\n", books)
	fmt.Fprintf(w, "Model:   %s", st.Model)
	if st.ModelError != nil {
		fmt.Fprintf(w, " (%v)", st.ModelError)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Corpus:  %s", st.Corpus)
	if st.CorpusError != nil {
		fmt.Fprintf(w, " (%v)", st.CorpusError)
	} else if st.Corpus == search.Ready {
		fmt.Fprintf(w, " (%d embeddings, dimension %d)", st.CorpusSize, st.Dimension)
	}
	fmt.Fprintln(w)
}
