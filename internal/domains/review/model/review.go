package model

import (
	"time"

	"github.com/google/uuid"
)

// Review is one user's opinion of one book. A user keeps at most one
// review per book; re-submitting replaces rating and text in place.
type Review struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	BookID     uuid.UUID `json:"book_id" db:"book_id"`
	Rating     *int      `json:"rating" db:"rating"`
	ReviewText *string   `json:"review_text" db:"review_text"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

func NewReview(userID, bookID uuid.UUID, rating *int, reviewText *string, now time.Time) *Review {
	return &Review{
		ID:         uuid.New(),
		UserID:     userID,
		BookID:     bookID,
		Rating:     rating,
		ReviewText: reviewText,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
