package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookworm-backend/internal/domains/library/model"
	"bookworm-backend/pkg/cache"
)

const (
	uniqueViolationCode = "23505"

	statsCacheTTL = 5 * time.Minute
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresEntryRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresEntryRepository(pool *pgxpool.Pool, cache cache.Cache) EntryRepository {
	return &postgresEntryRepository{pool: pool, cache: cache}
}

func statsCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("library:stats:%s", userID.String())
}

// invalidateStats drops the cached aggregate after any mutation so the
// next Stats read sees fresh counts. Cache errors are ignored; the
// cache is not allowed to fail a request.
func (r *postgresEntryRepository) invalidateStats(ctx context.Context, userID uuid.UUID) {
	_ = r.cache.Delete(ctx, statsCacheKey(userID))
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresEntryRepository) Create(ctx context.Context, entry *model.Entry) error {
	query := `
		INSERT INTO user_books (
			id, user_id, book_id, status,
			progress_percentage, progress_location,
			file_path, file_format,
			started_at, finished_at, added_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.BookID,
		entry.Status,
		entry.ProgressPercentage,
		entry.ProgressLocation,
		entry.FilePath,
		entry.FileFormat,
		entry.StartedAt,
		entry.FinishedAt,
		entry.AddedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		// The unique constraint on (user_id, book_id) decides the race
		// between two concurrent adds: first writer wins.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrAlreadyInLibrary
		}
		return fmt.Errorf("failed to create library entry: %w", err)
	}

	r.invalidateStats(ctx, entry.UserID)
	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Entry, error) {
	query := `
		SELECT
			id, user_id, book_id, status,
			progress_percentage, progress_location,
			file_path, file_format,
			started_at, finished_at, added_at, updated_at
		FROM user_books
		WHERE id = $1
	`

	entry := &model.Entry{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.BookID,
		&entry.Status,
		&entry.ProgressPercentage,
		&entry.ProgressLocation,
		&entry.FilePath,
		&entry.FileFormat,
		&entry.StartedAt,
		&entry.FinishedAt,
		&entry.AddedAt,
		&entry.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get library entry: %w", err)
	}

	return entry, nil
}

// =====================================================
// UPDATE
// =====================================================

// Update writes the full mutable row. The service computes the new
// state up front, so there is no runtime query assembly; concurrent
// updates on the same entry are last-write-wins.
func (r *postgresEntryRepository) Update(ctx context.Context, entry *model.Entry) error {
	query := `
		UPDATE user_books
		SET
			status = $2,
			progress_percentage = $3,
			progress_location = $4,
			file_path = $5,
			file_format = $6,
			started_at = $7,
			finished_at = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Status,
		entry.ProgressPercentage,
		entry.ProgressLocation,
		entry.FilePath,
		entry.FileFormat,
		entry.StartedAt,
		entry.FinishedAt,
		entry.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update library entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrEntryNotFound
	}

	r.invalidateStats(ctx, entry.UserID)
	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM user_books WHERE id = $1 RETURNING user_id`

	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, query, id).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete library entry: %w", err)
	}

	r.invalidateStats(ctx, userID)
	return nil
}

// =====================================================
// LIST BY USER
// =====================================================

func (r *postgresEntryRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	status *model.Status,
) ([]*model.EntryWithBook, error) {
	query := `
		SELECT
			ub.id, ub.user_id, ub.book_id, ub.status,
			ub.progress_percentage, ub.progress_location,
			ub.file_path, ub.file_format,
			ub.started_at, ub.finished_at, ub.added_at, ub.updated_at,
			b.id, b.title, b.author, b.cover_image_url, b.pages, b.publication_year
		FROM user_books ub
		JOIN books b ON ub.book_id = b.id
		WHERE ub.user_id = $1
	`

	args := []interface{}{userID}
	if status != nil {
		query += " AND ub.status = $2"
		args = append(args, *status)
	}

	// Most recently touched first; id as a stable tie-break.
	query += " ORDER BY ub.updated_at DESC, ub.id DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list library: %w", err)
	}
	defer rows.Close()

	entries := []*model.EntryWithBook{}
	for rows.Next() {
		e := &model.EntryWithBook{}

		err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.BookID,
			&e.Status,
			&e.ProgressPercentage,
			&e.ProgressLocation,
			&e.FilePath,
			&e.FileFormat,
			&e.StartedAt,
			&e.FinishedAt,
			&e.AddedAt,
			&e.UpdatedAt,
			&e.Book.BookID,
			&e.Book.Title,
			&e.Book.Author,
			&e.Book.CoverImageURL,
			&e.Book.Pages,
			&e.Book.PublicationYear,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan library entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read library rows: %w", err)
	}

	return entries, nil
}

// =====================================================
// STATS
// =====================================================

func (r *postgresEntryRepository) Stats(ctx context.Context, userID uuid.UUID) (*model.Stats, error) {
	cacheKey := statsCacheKey(userID)

	var cached model.Stats
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'want_to_read') AS want_to_read_count,
			COUNT(*) FILTER (WHERE status = 'reading') AS reading_count,
			COUNT(*) FILTER (WHERE status = 'finished') AS finished_count,
			COUNT(*) FILTER (WHERE status = 'dnf') AS dnf_count,
			COUNT(*) AS total_books,
			AVG(progress_percentage) FILTER (WHERE status = 'reading') AS avg_progress
		FROM user_books
		WHERE user_id = $1
	`

	stats := &model.Stats{}
	err = r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.WantToReadCount,
		&stats.ReadingCount,
		&stats.FinishedCount,
		&stats.DNFCount,
		&stats.TotalBooks,
		&stats.AvgProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get library stats: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, stats, statsCacheTTL)

	return stats, nil
}
