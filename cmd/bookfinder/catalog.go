package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/AmanChauhan7010/bookfinder/core"
)

// catalogEntry is one book in an import file. Id may be omitted; the book
// store derives one from the ISBN or the title and author.
type catalogEntry struct {
	Id          int64  `yaml:"id,omitempty"`
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	PublishYear int    `yaml:"publish_year,omitempty"`
	ISBN        string `yaml:"isbn,omitempty"`
	Genre       string `yaml:"genre,omitempty"`
	Description string `yaml:"description,omitempty"`
	CoverImage  string `yaml:"cover_image,omitempty"`
}

type catalog struct {
	Books []catalogEntry `yaml:"books"`
}

// readCatalog parses a YAML catalog of the form
//
//	books:
//	  - title: Dune
//	    author: Frank Herbert
//	    publish_year: 1965
func readCatalog(r io.Reader) ([]*core.Book, error) {
	var cat catalog
	if err := yaml.NewDecoder(r).Decode(&cat); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	books := make([]*core.Book, 0, len(cat.Books))
	for i, e := range cat.Books {
		if e.Id < 0 {
			return nil, fmt.Errorf("parse catalog: entry %d has negative id %d", i, e.Id)
		}
		books = append(books, &core.Book{
			Id:          core.BookID(e.Id),
			Title:       e.Title,
			Author:      e.Author,
			PublishYear: e.PublishYear,
			ISBN:        e.ISBN,
			Genre:       e.Genre,
			Description: e.Description,
			CoverImage:  e.CoverImage,
		})
	}
	return books, nil
}
