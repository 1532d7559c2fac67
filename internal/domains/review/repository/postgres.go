package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookworm-backend/internal/domains/review/model"
)

const uniqueViolationCode = "23505"

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, book_id, rating, review_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.BookID,
		review.Rating,
		review.ReviewText,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		// The unique constraint on (user_id, book_id) catches two
		// concurrent upserts that both missed on the read.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, review_text = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.ReviewText,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, user_id, book_id, rating, review_text, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review := &model.Review{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) GetByUserAndBook(ctx context.Context, userID, bookID uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, user_id, book_id, rating, review_text, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND book_id = $2
	`

	review := &model.Review{}
	err := r.pool.QueryRow(ctx, query, userID, bookID).Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.Rating,
		&review.ReviewText,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]*model.BookReview, error) {
	query := `
		SELECT
			r.id, r.user_id, r.book_id, r.rating, r.review_text, r.created_at, r.updated_at,
			u.username, u.display_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.book_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to list book reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.BookReview{}
	for rows.Next() {
		rv := &model.BookReview{}
		err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.BookID,
			&rv.Rating,
			&rv.ReviewText,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.Username,
			&rv.DisplayName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}

	return reviews, nil
}

func (r *postgresReviewRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.UserReview, error) {
	query := `
		SELECT
			r.id, r.user_id, r.book_id, r.rating, r.review_text, r.created_at, r.updated_at,
			b.title, b.author, b.cover_image_url
		FROM reviews r
		JOIN books b ON r.book_id = b.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.UserReview{}
	for rows.Next() {
		rv := &model.UserReview{}
		err := rows.Scan(
			&rv.ID,
			&rv.UserID,
			&rv.BookID,
			&rv.Rating,
			&rv.ReviewText,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.Title,
			&rv.Author,
			&rv.CoverImageURL,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review rows: %w", err)
	}

	return reviews, nil
}
