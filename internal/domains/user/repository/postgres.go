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

	"bookworm-backend/internal/domains/user/model"
	"bookworm-backend/pkg/cache"
)

const (
	uniqueViolationCode = "23505"

	userCacheTTL = 15 * time.Minute
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresUserRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresUserRepository(pool *pgxpool.Pool, cache cache.Cache) UserRepository {
	return &postgresUserRepository{pool: pool, cache: cache}
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:profile:%s", id.String())
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, display_name, bio, profile_picture_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Bio,
		user.ProfilePictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return model.ErrDuplicateUser
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	cacheKey := userCacheKey(id)

	var cached model.User
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err == nil && found {
		return &cached, nil
	}

	query := `
		SELECT id, username, email, password_hash, display_name, bio, profile_picture_url, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &model.User{}
	err = r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.ProfilePictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	_ = r.cache.Set(ctx, cacheKey, user, userCacheTTL)

	return user, nil
}

// GetByUsernameOrEmail is the login lookup: one identifier matched
// against both columns. Never cached, it carries the password hash.
func (r *postgresUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, display_name, bio, profile_picture_url, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $1
	`

	user := &model.User{}
	err := r.pool.QueryRow(ctx, query, identifier).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Bio,
		&user.ProfilePictureURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET display_name = $2, bio = $3, profile_picture_url = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		user.ID,
		user.DisplayName,
		user.Bio,
		user.ProfilePictureURL,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	_ = r.cache.Delete(ctx, userCacheKey(user.ID))
	return nil
}
