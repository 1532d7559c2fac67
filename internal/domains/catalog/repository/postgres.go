package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookworm-backend/internal/domains/catalog/model"
	"bookworm-backend/pkg/cache"
)

const bookCacheTTL = time.Hour

const bookColumns = `
	id, title, author, isbn, publisher,
	publication_year, pages, synopsis, cover_image_url,
	genres, created_at, updated_at
`

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresBookRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresBookRepository(pool *pgxpool.Pool, cache cache.Cache) BookRepository {
	return &postgresBookRepository{pool: pool, cache: cache}
}

func bookCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("catalog:book:%s", id.String())
}

func scanBook(row pgx.Row) (*model.Book, error) {
	book := &model.Book{}
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Publisher,
		&book.PublicationYear,
		&book.Pages,
		&book.Synopsis,
		&book.CoverImageURL,
		&book.Genres,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresBookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, author, isbn, publisher,
			publication_year, pages, synopsis, cover_image_url,
			genres, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.ISBN,
		book.Publisher,
		book.PublicationYear,
		book.Pages,
		book.Synopsis,
		book.CoverImageURL,
		book.Genres,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := bookCacheKey(id)

	var cached model.Book
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, book, bookCacheTTL)

	return book, nil
}

// =====================================================
// GET BY TITLE AND AUTHOR
// =====================================================

// GetByTitleAndAuthor is the dedup lookup used when adding a book; the
// pair match is exact, same as the store's historical behavior.
func (r *postgresBookRepository) GetByTitleAndAuthor(ctx context.Context, title, author string) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE title = $1 AND author = $2`, bookColumns)

	book, err := scanBook(r.pool.QueryRow(ctx, query, title, author))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by title and author: %w", err)
	}

	return book, nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresBookRepository) List(ctx context.Context, limit int) ([]*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books ORDER BY created_at DESC LIMIT $1`, bookColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := []*model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}

	return books, nil
}

// =====================================================
// EXISTS
// =====================================================

func (r *postgresBookRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check book existence: %w", err)
	}

	return exists, nil
}

// =====================================================
// UPDATE METADATA
// =====================================================

// UpdateMetadata persists the enrichable fields. Title and author are
// immutable; they identify the row for dedup.
func (r *postgresBookRepository) UpdateMetadata(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET
			isbn = $2,
			publisher = $3,
			publication_year = $4,
			pages = $5,
			synopsis = $6,
			cover_image_url = $7,
			genres = $8,
			updated_at = $9
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		book.ID,
		book.ISBN,
		book.Publisher,
		book.PublicationYear,
		book.Pages,
		book.Synopsis,
		book.CoverImageURL,
		book.Genres,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update book metadata: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	_ = r.cache.Delete(ctx, bookCacheKey(book.ID))
	return nil
}

// =====================================================
// LIST MISSING METADATA
// =====================================================

// ListMissingMetadata feeds the nightly enrichment sweep.
func (r *postgresBookRepository) ListMissingMetadata(ctx context.Context, limit int) ([]*model.Book, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM books
		WHERE pages IS NULL OR cover_image_url IS NULL OR synopsis IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`, bookColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list books missing metadata: %w", err)
	}
	defer rows.Close()

	books := []*model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read book rows: %w", err)
	}

	return books, nil
}
