package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book is one row of the local catalog. The catalog mirrors whatever
// Open Library metadata was available when the book was added; missing
// fields are filled in later by the enrichment worker.
type Book struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Author          string         `json:"author" db:"author"`
	ISBN            *string        `json:"isbn" db:"isbn"`
	Publisher       *string        `json:"publisher" db:"publisher"`
	PublicationYear *int           `json:"publication_year" db:"publication_year"`
	Pages           *int           `json:"pages" db:"pages"`
	Synopsis        *string        `json:"synopsis" db:"synopsis"`
	CoverImageURL   *string        `json:"cover_image_url" db:"cover_image_url"`
	Genres          pq.StringArray `json:"genres" db:"genres"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

func NewBook(req CreateBookRequest, now time.Time) *Book {
	genres := req.Genres
	if genres == nil {
		genres = []string{}
	}

	return &Book{
		ID:              uuid.New(),
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Pages:           req.Pages,
		Synopsis:        req.Synopsis,
		CoverImageURL:   req.CoverImageURL,
		Genres:          genres,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NeedsEnrichment reports whether the row is missing metadata the
// enrichment worker can fetch from Open Library.
func (b *Book) NeedsEnrichment() bool {
	return b.Pages == nil || b.CoverImageURL == nil || b.Synopsis == nil
}
