package repository

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/user/model"
)

// UserRepository is the persistence port for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}
