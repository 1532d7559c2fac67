package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeBookNotFound       = "CAT001"
	ErrCodeInvalidBook        = "CAT002"
	ErrCodeSearchQueryMissing = "CAT003"
	ErrCodeUpstreamFailure    = "CAT004"
)

// Errors
var (
	ErrBookNotFound       = errors.New("book not found")
	ErrSearchQueryMissing = errors.New("search query is required")
	ErrUpstreamFailure    = errors.New("open library request failed")
)

// CatalogError custom error type
type CatalogError struct {
	Code    string
	Message string
	Err     error
}

func (e *CatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewBookNotFoundError() *CatalogError {
	return &CatalogError{
		Code:    ErrCodeBookNotFound,
		Message: "Book not found",
		Err:     ErrBookNotFound,
	}
}

func NewInvalidBookError(message string) *CatalogError {
	return &CatalogError{
		Code:    ErrCodeInvalidBook,
		Message: message,
	}
}

func NewSearchQueryMissingError() *CatalogError {
	return &CatalogError{
		Code:    ErrCodeSearchQueryMissing,
		Message: "Search query is required",
		Err:     ErrSearchQueryMissing,
	}
}

func NewUpstreamFailureError(err error) *CatalogError {
	return &CatalogError{
		Code:    ErrCodeUpstreamFailure,
		Message: "Failed to reach Open Library",
		Err:     err,
	}
}
