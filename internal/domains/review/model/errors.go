package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound = "REV001"
	ErrCodeInvalidRating  = "REV002"
	ErrCodeBookNotFound   = "REV003"
)

// Errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrBookNotFound    = errors.New("book not found")
	ErrAlreadyReviewed = errors.New("review already exists for this book")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewReviewNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found",
		Err:     ErrReviewNotFound,
	}
}

func NewInvalidRatingError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeInvalidRating,
		Message: "Rating must be between 1 and 5",
		Err:     ErrInvalidRating,
	}
}

func NewBookNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeBookNotFound,
		Message: "Book not found",
		Err:     ErrBookNotFound,
	}
}
