package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/review/model"
	"bookworm-backend/internal/domains/review/repository"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	books      BookReader
	now        func() time.Time
}

func NewReviewService(reviewRepo repository.ReviewRepository, books BookReader) Service {
	return &reviewService{
		reviewRepo: reviewRepo,
		books:      books,
		now:        time.Now,
	}
}

// =====================================================
// UPSERT
// =====================================================

func (s *reviewService) UpsertReview(
	ctx context.Context,
	userID uuid.UUID,
	req model.UpsertReviewRequest,
) (*model.UpsertResult, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidRatingError()
	}

	// Step 2: The reviewed book must exist in the catalog
	exists, err := s.books.Exists(ctx, req.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return nil, model.NewBookNotFoundError()
	}

	// Step 3: Replace the existing review in place, or create one
	existing, err := s.reviewRepo.GetByUserAndBook(ctx, userID, req.BookID)
	if err != nil && !errors.Is(err, model.ErrReviewNotFound) {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}

	if existing != nil {
		return s.replaceReview(ctx, existing, req)
	}

	review := model.NewReview(userID, req.BookID, req.Rating, req.ReviewText, s.now())
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// Lost a race against a concurrent upsert for the same pair;
		// the store's unique constraint picked a winner, replace its row.
		if errors.Is(err, model.ErrAlreadyReviewed) {
			winner, getErr := s.reviewRepo.GetByUserAndBook(ctx, userID, req.BookID)
			if getErr != nil {
				return nil, fmt.Errorf("failed to load review after conflict: %w", getErr)
			}
			return s.replaceReview(ctx, winner, req)
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return &model.UpsertResult{Review: review, Created: true}, nil
}

// replaceReview overwrites an existing review's rating and text.
func (s *reviewService) replaceReview(
	ctx context.Context,
	existing *model.Review,
	req model.UpsertReviewRequest,
) (*model.UpsertResult, error) {
	existing.Rating = req.Rating
	existing.ReviewText = req.ReviewText
	existing.UpdatedAt = s.now()

	if err := s.reviewRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return &model.UpsertResult{Review: existing, Created: false}, nil
}

// =====================================================
// DELETE
// =====================================================

// DeleteReview removes the caller's own review. Someone else's review
// is reported as not found.
func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return model.NewReviewNotFoundError()
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if review.UserID != userID {
		return model.NewReviewNotFoundError()
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return model.NewReviewNotFoundError()
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}

// =====================================================
// READS
// =====================================================

func (s *reviewService) GetUserBookReview(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error) {
	review, err := s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (s *reviewService) ListBookReviews(ctx context.Context, bookID uuid.UUID) ([]*model.BookReview, error) {
	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list book reviews: %w", err)
	}

	return reviews, nil
}

func (s *reviewService) ListUserReviews(ctx context.Context, userID uuid.UUID) ([]*model.UserReview, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}

	return reviews, nil
}
