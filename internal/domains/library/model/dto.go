package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateEntryRequest adds a catalog book to the caller's library.
type CreateEntryRequest struct {
	BookID     uuid.UUID `json:"book_id" binding:"required"`
	Status     string    `json:"status" binding:"required"`
	FilePath   *string   `json:"file_path"`
	FileFormat *string   `json:"file_format"`
}

func (r CreateEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.Required,
			validation.By(validStatus),
		),
		validation.Field(&r.FileFormat,
			validation.Length(0, 10),
		),
	)
}

// UpdateEntryRequest is a partial update; only supplied fields change.
type UpdateEntryRequest struct {
	Status             *string `json:"status"`
	ProgressPercentage *int    `json:"progress_percentage"`
	ProgressLocation   *string `json:"progress_location"`
	FilePath           *string `json:"file_path"`
	FileFormat         *string `json:"file_format"`
}

func (r UpdateEntryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status,
			validation.By(validStatusPtr),
		),
		validation.Field(&r.FileFormat,
			validation.Length(0, 10),
		),
	)
}

// PageProgressRequest updates progress from a reader page position.
type PageProgressRequest struct {
	CurrentPage int     `json:"current_page"`
	TotalPages  int     `json:"total_pages"`
	Location    *string `json:"location"`
}

func (r PageProgressRequest) Validate() error {
	if r.CurrentPage < 0 {
		return NewInvalidProgressError("current_page must not be negative")
	}
	if r.TotalPages < 0 {
		return NewInvalidProgressError("total_pages must not be negative")
	}
	if r.CurrentPage > r.TotalPages {
		return NewInvalidProgressError("current_page must not exceed total_pages")
	}
	return nil
}

func validStatus(value interface{}) error {
	s, _ := value.(string)
	if s != "" && !Status(s).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func validStatusPtr(value interface{}) error {
	s, ok := value.(*string)
	if !ok || s == nil {
		return nil
	}
	if !Status(*s).IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// BookSummary is the minimal set of catalog fields joined onto a
// library listing.
type BookSummary struct {
	BookID          uuid.UUID `json:"book_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	CoverImageURL   *string   `json:"cover_image_url"`
	Pages           *int      `json:"pages"`
	PublicationYear *int      `json:"publication_year"`
}

// EntryWithBook is a library entry joined with its book summary.
type EntryWithBook struct {
	Entry
	Book BookSummary `json:"book"`
}

// Stats aggregates one user's library. AvgProgress covers only rows
// with status=reading and is null when there are none.
type Stats struct {
	WantToReadCount int64               `json:"want_to_read_count"`
	ReadingCount    int64               `json:"reading_count"`
	FinishedCount   int64               `json:"finished_count"`
	DNFCount        int64               `json:"dnf_count"`
	TotalBooks      int64               `json:"total_books"`
	AvgProgress     decimal.NullDecimal `json:"avg_progress"`
}

// ListResponse wraps a library listing.
type ListResponse struct {
	Count   int              `json:"count"`
	Library []*EntryWithBook `json:"library"`
}
