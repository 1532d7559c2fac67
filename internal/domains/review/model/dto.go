package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// UpsertReviewRequest creates or replaces the caller's review for a
// book. Rating is optional; a text-only review is valid.
type UpsertReviewRequest struct {
	BookID     uuid.UUID `json:"book_id" binding:"required"`
	Rating     *int      `json:"rating"`
	ReviewText *string   `json:"review_text"`
}

func (r UpsertReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating,
			validation.By(ratingInRange),
		),
	)
}

// ratingInRange checks a supplied rating against [1,5]. Min/Max rules
// cannot be used here: ozzo treats 0 as an empty value and skips them,
// letting rating=0 through.
func ratingInRange(value interface{}) error {
	rating, ok := value.(*int)
	if !ok || rating == nil {
		return nil
	}
	if *rating < 1 || *rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// BookReview is a review joined with its author, for book pages.
type BookReview struct {
	Review
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
}

// UserReview is a review joined with its book, for profile pages.
type UserReview struct {
	Review
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImageURL *string `json:"cover_image_url"`
}

// UpsertResult distinguishes a fresh review from a replacement.
type UpsertResult struct {
	Review  *Review `json:"review"`
	Created bool    `json:"created"`
}
