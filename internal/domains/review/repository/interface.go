package repository

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/review/model"
)

// ReviewRepository is the persistence port for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByBook(ctx context.Context, bookID uuid.UUID) ([]*model.BookReview, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserReview, error)
}
