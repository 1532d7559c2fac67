package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookworm-backend/internal/domains/review/model"
)

type fakeReviewRepository struct {
	reviews map[uuid.UUID]*model.Review

	// staleReadOnce makes the next GetByUserAndBook miss, simulating a
	// concurrent upsert inserting between the read and the create.
	staleReadOnce bool
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{reviews: make(map[uuid.UUID]*model.Review)}
}

func (f *fakeReviewRepository) Create(ctx context.Context, review *model.Review) error {
	for _, existing := range f.reviews {
		if existing.UserID == review.UserID && existing.BookID == review.BookID {
			return model.ErrAlreadyReviewed
		}
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepository) Update(ctx context.Context, review *model.Review) error {
	if _, ok := f.reviews[review.ID]; !ok {
		return model.ErrReviewNotFound
	}
	clone := *review
	f.reviews[review.ID] = &clone
	return nil
}

func (f *fakeReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, ok := f.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	clone := *review
	return &clone, nil
}

func (f *fakeReviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error) {
	if f.staleReadOnce {
		f.staleReadOnce = false
		return nil, model.ErrReviewNotFound
	}
	for _, review := range f.reviews {
		if review.UserID == userID && review.BookID == bookID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, model.ErrReviewNotFound
}

func (f *fakeReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.reviews[id]; !ok {
		return model.ErrReviewNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*model.BookReview, error) {
	result := []*model.BookReview{}
	for _, review := range f.reviews {
		if review.BookID == bookID {
			result = append(result, &model.BookReview{Review: *review, Username: "reader"})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserReview, error) {
	result := []*model.UserReview{}
	for _, review := range f.reviews {
		if review.UserID == userID {
			result = append(result, &model.UserReview{Review: *review, Title: "Dune", Author: "Frank Herbert"})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type fakeBookReader struct {
	known map[uuid.UUID]bool
}

func (f *fakeBookReader) Exists(ctx context.Context, bookID uuid.UUID) (bool, error) {
	return f.known[bookID], nil
}

func newTestReviewService(bookIDs ...uuid.UUID) (*reviewService, *fakeReviewRepository) {
	known := make(map[uuid.UUID]bool, len(bookIDs))
	for _, id := range bookIDs {
		known[id] = true
	}

	repo := newFakeReviewRepository()
	svc := NewReviewService(repo, &fakeBookReader{known: known}).(*reviewService)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	return svc, repo
}

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestUpsertReview_Creates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookID := uuid.New()
	svc, _ := newTestReviewService(bookID)

	result, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{
		BookID:     bookID,
		Rating:     intPtr(4),
		ReviewText: strPtr("Great read."),
	})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, userID, result.Review.UserID)
	require.NotNil(t, result.Review.Rating)
	assert.Equal(t, 4, *result.Review.Rating)
}

func TestUpsertReview_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookID := uuid.New()
	svc, repo := newTestReviewService(bookID)

	first, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{
		BookID: bookID,
		Rating: intPtr(2),
	})
	require.NoError(t, err)

	second, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{
		BookID:     bookID,
		Rating:     intPtr(5),
		ReviewText: strPtr("Grew on me."),
	})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)

	stored, err := repo.GetByID(ctx, first.Review.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 5, *stored.Rating)
	require.NotNil(t, stored.ReviewText)
	assert.Equal(t, "Grew on me.", *stored.ReviewText)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
}

func TestUpsertReview_ConcurrentDuplicateBecomesReplace(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookID := uuid.New()
	svc, repo := newTestReviewService(bookID)

	first, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{
		BookID: bookID,
		Rating: intPtr(2),
	})
	require.NoError(t, err)

	// The next read misses, so the service takes the create path and
	// runs into the unique constraint.
	repo.staleReadOnce = true

	second, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{
		BookID:     bookID,
		Rating:     intPtr(4),
		ReviewText: strPtr("Second pass."),
	})
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Review.ID, second.Review.ID)

	stored, err := repo.GetByID(ctx, first.Review.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Rating)
	assert.Equal(t, 4, *stored.Rating)
}

func TestUpsertReview_RatingBounds(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	svc, _ := newTestReviewService(bookID)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.UpsertReview(ctx, uuid.New(), model.UpsertReviewRequest{
			BookID: bookID,
			Rating: intPtr(rating),
		})

		var revErr *model.ReviewError
		require.ErrorAs(t, err, &revErr)
		assert.Equal(t, model.ErrCodeInvalidRating, revErr.Code)
	}
}

func TestUpsertReview_TextOnlyIsValid(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	svc, _ := newTestReviewService(bookID)

	result, err := svc.UpsertReview(ctx, uuid.New(), model.UpsertReviewRequest{
		BookID:     bookID,
		ReviewText: strPtr("No stars, just vibes."),
	})

	require.NoError(t, err)
	assert.Nil(t, result.Review.Rating)
}

func TestUpsertReview_UnknownBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReviewService()

	_, err := svc.UpsertReview(ctx, uuid.New(), model.UpsertReviewRequest{
		BookID: uuid.New(),
		Rating: intPtr(3),
	})

	var revErr *model.ReviewError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, model.ErrCodeBookNotFound, revErr.Code)
}

func TestDeleteReview(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	bookID := uuid.New()
	svc, repo := newTestReviewService(bookID)

	result, err := svc.UpsertReview(ctx, userID, model.UpsertReviewRequest{BookID: bookID, Rating: intPtr(3)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(ctx, userID, result.Review.ID))

	_, err = repo.GetByID(ctx, result.Review.ID)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
}

func TestDeleteReview_ForeignReviewNotFound(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	bookID := uuid.New()
	svc, repo := newTestReviewService(bookID)

	result, err := svc.UpsertReview(ctx, owner, model.UpsertReviewRequest{BookID: bookID, Rating: intPtr(3)})
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, uuid.New(), result.Review.ID)

	var revErr *model.ReviewError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, model.ErrCodeReviewNotFound, revErr.Code)

	_, err = repo.GetByID(ctx, result.Review.ID)
	require.NoError(t, err)
}

func TestGetUserBookReview_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestReviewService()

	_, err := svc.GetUserBookReview(ctx, uuid.New(), uuid.New())

	var revErr *model.ReviewError
	require.ErrorAs(t, err, &revErr)
	assert.Equal(t, model.ErrCodeReviewNotFound, revErr.Code)
}

func TestListBookReviews_NewestFirst(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()
	svc, _ := newTestReviewService(bookID)

	first, err := svc.UpsertReview(ctx, uuid.New(), model.UpsertReviewRequest{BookID: bookID, Rating: intPtr(3)})
	require.NoError(t, err)
	second, err := svc.UpsertReview(ctx, uuid.New(), model.UpsertReviewRequest{BookID: bookID, Rating: intPtr(5)})
	require.NoError(t, err)

	reviews, err := svc.ListBookReviews(ctx, bookID)
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	assert.Equal(t, second.Review.ID, reviews[0].ID)
	assert.Equal(t, first.Review.ID, reviews[1].ID)
}
