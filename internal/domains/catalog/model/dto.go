package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateBookRequest adds a book to the local catalog, usually copied
// from an Open Library search hit by the frontend.
type CreateBookRequest struct {
	Title           string   `json:"title" binding:"required"`
	Author          string   `json:"author" binding:"required"`
	ISBN            *string  `json:"isbn"`
	Publisher       *string  `json:"publisher"`
	PublicationYear *int     `json:"publication_year"`
	Pages           *int     `json:"pages"`
	Synopsis        *string  `json:"synopsis"`
	CoverImageURL   *string  `json:"cover_image_url"`
	Genres          []string `json:"genres"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 500),
		),
		validation.Field(&r.Author,
			validation.Required.Error("author is required"),
			validation.Length(1, 255),
		),
		validation.Field(&r.ISBN,
			validation.Length(0, 20),
		),
		validation.Field(&r.PublicationYear,
			validation.Min(0),
			validation.Max(time.Now().Year()+1),
		),
		validation.Field(&r.Pages,
			validation.Min(1),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// AddBookResult distinguishes a fresh insert from a dedup hit on
// (title, author).
type AddBookResult struct {
	Book    *Book `json:"book"`
	Created bool  `json:"created"`
}

// ListResponse wraps a catalog listing.
type ListResponse struct {
	Count int     `json:"count"`
	Books []*Book `json:"books"`
}
