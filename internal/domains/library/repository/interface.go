package repository

import (
	"context"

	"github.com/google/uuid"

	"bookworm-backend/internal/domains/library/model"
)

// EntryRepository is the storage contract for library entries. The
// (user_id, book_id) uniqueness invariant is enforced by the store's
// unique constraint, not by application-level locking; Create surfaces
// a violation as model.ErrAlreadyInLibrary.
type EntryRepository interface {
	Create(ctx context.Context, entry *model.Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Entry, error)
	Update(ctx context.Context, entry *model.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, status *model.Status) ([]*model.EntryWithBook, error)
	Stats(ctx context.Context, userID uuid.UUID) (*model.Stats, error)
}
