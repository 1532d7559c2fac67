package service

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/review/model"
)

// BookReader is the catalog lookup this domain consumes.
type BookReader interface {
	Exists(ctx context.Context, bookID uuid.UUID) (bool, error)
}

// Service owns reviews: one per (user, book), created or replaced in
// a single upsert call.
type Service interface {
	UpsertReview(ctx context.Context, userID uuid.UUID, req model.UpsertReviewRequest) (*model.UpsertResult, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	GetUserBookReview(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error)
	ListBookReviews(ctx context.Context, bookID uuid.UUID) ([]*model.BookReview, error)
	ListUserReviews(ctx context.Context, userID uuid.UUID) ([]*model.UserReview, error)
}
